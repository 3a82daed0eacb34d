//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/AmineOzil/user-registration/pkg/testutil/containers"
)

func TestKafkaStoreIntegration(t *testing.T) {
	broker := containers.NewRedpandaContainer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	const topic = "user-audit-test"

	admin, err := kgo.NewClient(kgo.SeedBrokers(broker.Broker))
	require.NoError(t, err)
	defer admin.Close()
	_, err = kadm.NewClient(admin).CreateTopics(ctx, 1, 1, nil, topic)
	require.NoError(t, err)

	store, err := NewKafkaStore([]string{broker.Broker}, topic)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Ping(ctx))

	sent := Event{
		Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Action:    EventUserRegistered,
		Subject:   "amine.bou",
		UserID:    1,
		RequestID: "req-1",
	}
	require.NoError(t, NewPublisher(store).Emit(ctx, sent))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.Empty(t, fetches.Errors())
	records := fetches.Records()
	require.Len(t, records, 1)

	assert.Equal(t, "amine.bou", string(records[0].Key))
	var got Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, sent, got)
}

//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/AmineOzil/user-registration/internal/user/models"
	"github.com/AmineOzil/user-registration/internal/user/store"
	"github.com/AmineOzil/user-registration/pkg/platform/sentinel"
	"github.com/AmineOzil/user-registration/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = store.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	phone := "+33612345678"
	u := &models.User{
		Username:           "amine.bou",
		Birthdate:          models.NewDate(2000, time.January, 1),
		CountryOfResidence: "France",
		PhoneNumber:        &phone,
		CreatedAt:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.store.Create(ctx, u))
	s.Equal(int64(1), u.ID)

	found, err := s.store.FindByUsername(ctx, "amine.bou")
	s.Require().NoError(err)
	s.Equal(u, found)

	_, err = s.store.FindByUsername(ctx, "ghost")
	s.ErrorIs(err, sentinel.ErrNotFound)

	exists, err := s.store.ExistsByUsername(ctx, "ghost")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *RedisStoreSuite) TestConcurrentCreate() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, &models.User{
				Username:           "racer",
				Birthdate:          models.NewDate(2000, time.January, 1),
				CountryOfResidence: "France",
			})
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyUsed) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())
}

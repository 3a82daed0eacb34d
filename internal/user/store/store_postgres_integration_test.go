//go:build integration

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/AmineOzil/user-registration/internal/user/models"
	"github.com/AmineOzil/user-registration/internal/user/store"
	"github.com/AmineOzil/user-registration/pkg/platform/sentinel"
	"github.com/AmineOzil/user-registration/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "users"))
}

func newPostgresUser(username string) *models.User {
	g := models.GenderFemale
	return &models.User{
		Username:           username,
		Birthdate:          models.NewDate(2000, time.February, 29),
		CountryOfResidence: "france",
		Gender:             &g,
		CreatedAt:          time.Now(),
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	u := newPostgresUser("amine.bou")
	s.Require().NoError(s.store.Create(ctx, u))
	s.NotZero(u.ID)

	found, err := s.store.FindByUsername(ctx, "amine.bou")
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)
	s.Equal(models.NewDate(2000, time.February, 29), found.Birthdate)
	s.Equal("france", found.CountryOfResidence)
	s.Nil(found.PhoneNumber)
	s.Require().NotNil(found.Gender)
	s.Equal(models.GenderFemale, *found.Gender)

	exists, err := s.store.ExistsByUsername(ctx, "amine.bou")
	s.Require().NoError(err)
	s.True(exists)

	_, err = s.store.FindByUsername(ctx, "ghost")
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.NoError(s.store.Ping(ctx))
}

// TestConcurrentUniqueUsernameViolation verifies that concurrent creation
// attempts with the same username result in exactly one success.
func (s *PostgresStoreSuite) TestConcurrentUniqueUsernameViolation() {
	ctx := context.Background()
	username := "racer-" + uuid.NewString()[:8]
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, newPostgresUser(username))
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyUsed) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict error")
}

// TestLibPQDriver verifies the store behaves the same behind lib/pq.
func (s *PostgresStoreSuite) TestLibPQDriver() {
	ctx := context.Background()
	db, err := sql.Open("postgres", s.postgres.ConnStr)
	s.Require().NoError(err)
	defer db.Close()
	pqStore := store.NewPostgres(db)

	s.Require().NoError(pqStore.Create(ctx, newPostgresUser("pq-user")))
	err = pqStore.Create(ctx, newPostgresUser("pq-user"))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)

	found, err := pqStore.FindByUsername(ctx, "pq-user")
	s.Require().NoError(err)
	s.Equal(models.NewDate(2000, time.February, 29), found.Birthdate)
}

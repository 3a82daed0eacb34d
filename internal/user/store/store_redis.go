package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AmineOzil/user-registration/internal/user/models"
	"github.com/AmineOzil/user-registration/pkg/platform/sentinel"
)

const (
	// Redis key prefix for user records, keyed by username
	userKeyPrefix = "user:username:"
	// Redis key holding the last assigned user ID
	userIDSequenceKey = "user:id:seq"
)

// RedisStore keeps each user as a JSON document under its username.
// SETNX provides write-time uniqueness; INCR hands out IDs.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed user store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

type redisUser struct {
	ID                 int64     `json:"id"`
	Username           string    `json:"username"`
	Birthdate          string    `json:"birthdate"`
	CountryOfResidence string    `json:"country_of_residence"`
	PhoneNumber        *string   `json:"phone_number,omitempty"`
	Gender             *string   `json:"gender,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

func (s *RedisStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := s.client.Exists(ctx, userKeyPrefix+username).Result()
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	raw, err := s.client.Get(ctx, userKeyPrefix+username).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	var rec redisUser
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return rec.toModel()
}

// Create assigns an ID then writes with SETNX. A lost race leaves a gap in
// the ID sequence.
func (s *RedisStore) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	id, err := s.client.Incr(ctx, userIDSequenceKey).Result()
	if err != nil {
		return fmt.Errorf("allocate user id: %w", err)
	}
	payload, err := json.Marshal(fromModel(user, id))
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	ok, err := s.client.SetNX(ctx, userKeyPrefix+user.Username, payload, 0).Result()
	if err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	if !ok {
		return fmt.Errorf("username %q: %w", user.Username, sentinel.ErrAlreadyUsed)
	}
	user.ID = id
	return nil
}

// Ping checks Redis reachability.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func fromModel(u *models.User, id int64) redisUser {
	rec := redisUser{
		ID:                 id,
		Username:           u.Username,
		Birthdate:          u.Birthdate.String(),
		CountryOfResidence: u.CountryOfResidence,
		PhoneNumber:        u.PhoneNumber,
		CreatedAt:          u.CreatedAt,
	}
	if u.Gender != nil {
		g := u.Gender.String()
		rec.Gender = &g
	}
	return rec
}

func (r redisUser) toModel() (*models.User, error) {
	birthdate, err := models.ParseDate(r.Birthdate)
	if err != nil {
		return nil, fmt.Errorf("decode user birthdate: %w", err)
	}
	u := &models.User{
		ID:                 r.ID,
		Username:           r.Username,
		Birthdate:          birthdate,
		CountryOfResidence: r.CountryOfResidence,
		PhoneNumber:        r.PhoneNumber,
		CreatedAt:          r.CreatedAt,
	}
	if r.Gender != nil {
		g := models.Gender(*r.Gender)
		u.Gender = &g
	}
	return u, nil
}

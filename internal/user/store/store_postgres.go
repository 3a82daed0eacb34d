package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/AmineOzil/user-registration/internal/user/models"
	"github.com/AmineOzil/user-registration/pkg/platform/sentinel"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// PostgresStore persists users in PostgreSQL. The unique constraint on
// username is the final arbiter for concurrent registrations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store. db may be opened
// with either the pgx or the lib/pq driver.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the users table when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate users schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var (
		u         models.User
		birthdate time.Time
		phone     sql.NullString
		gender    sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, birthdate, country_of_residence, phone_number, gender, created_at
		FROM users
		WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &birthdate, &u.CountryOfResidence, &phone, &gender, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}

	u.Birthdate = models.DateOf(birthdate)
	if phone.Valid {
		u.PhoneNumber = &phone.String
	}
	if gender.Valid {
		g := models.Gender(gender.String)
		u.Gender = &g
	}
	return &u, nil
}

// Create inserts the user and sets user.ID from the generated key.
func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	var phone, gender sql.NullString
	if user.PhoneNumber != nil {
		phone = sql.NullString{String: *user.PhoneNumber, Valid: true}
	}
	if user.Gender != nil {
		gender = sql.NullString{String: user.Gender.String(), Valid: true}
	}
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, birthdate, country_of_residence, phone_number, gender, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		user.Username, user.Birthdate.Time(), user.CountryOfResidence, phone, gender, createdAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %q: %w", user.Username, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = id
	return nil
}

// Ping checks database reachability.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// isUniqueViolation recognizes 23505 from both supported drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

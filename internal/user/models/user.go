package models

import (
	"errors"
	"log/slog"
	"time"

	"github.com/AmineOzil/user-registration/pkg/platform/redact"
)

// RegistrationRequest is the transient input to the registration workflow.
// Empty strings mean "absent" for the optional fields; Gender holds the raw
// submitted value and is checked by structural validation.
type RegistrationRequest struct {
	Username           string
	Birthdate          *Date
	CountryOfResidence string
	PhoneNumber        string
	Gender             string
}

// LogValue keeps phone numbers out of the logs.
func (r RegistrationRequest) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("username", r.Username),
		slog.String("country_of_residence", r.CountryOfResidence),
		slog.String("gender", r.Gender),
	}
	if r.Birthdate != nil {
		attrs = append(attrs, slog.String("birthdate", r.Birthdate.String()))
	}
	if r.PhoneNumber != "" {
		attrs = append(attrs, slog.String("phone_number", redact.MaskPhone(r.PhoneNumber)))
	}
	return slog.GroupValue(attrs...)
}

// User is the persisted identity. Invariants:
//   - ID is assigned by the store on Create and never changes
//   - Username is unique across all users
//   - a User is never mutated after creation
type User struct {
	ID                 int64
	Username           string
	Birthdate          Date
	CountryOfResidence string
	PhoneNumber        *string
	Gender             *Gender
	CreatedAt          time.Time
}

// NewUser builds a fully populated record from a validated request. Field
// values are copied verbatim; only gender is canonicalized to upper-case.
func NewUser(req RegistrationRequest, now time.Time) (*User, error) {
	if req.Birthdate == nil {
		return nil, errors.New("birthdate is required to build a user")
	}
	u := &User{
		Username:           req.Username,
		Birthdate:          *req.Birthdate,
		CountryOfResidence: req.CountryOfResidence,
		CreatedAt:          now,
	}
	if req.PhoneNumber != "" {
		phone := req.PhoneNumber
		u.PhoneNumber = &phone
	}
	if req.Gender != "" {
		g, err := ParseGender(req.Gender)
		if err != nil {
			return nil, err
		}
		u.Gender = &g
	}
	return u, nil
}

// UserResponse is the read-only projection returned to callers.
type UserResponse struct {
	ID                 int64   `json:"id"`
	Username           string  `json:"username"`
	Birthdate          Date    `json:"birthdate"`
	CountryOfResidence string  `json:"countryOfResidence"`
	PhoneNumber        *string `json:"phoneNumber"`
	Gender             *Gender `json:"gender"`
}

// NewUserResponse projects a stored user.
func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:                 u.ID,
		Username:           u.Username,
		Birthdate:          u.Birthdate,
		CountryOfResidence: u.CountryOfResidence,
		PhoneNumber:        u.PhoneNumber,
		Gender:             u.Gender,
	}
}

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ModelsSuite struct {
	suite.Suite
}

func TestModelsSuite(t *testing.T) {
	suite.Run(t, new(ModelsSuite))
}

func (s *ModelsSuite) TestParseDate() {
	s.Run("accepts yyyy-MM-dd", func() {
		d, err := ParseDate("2000-01-31")
		s.Require().NoError(err)
		s.Equal(NewDate(2000, time.January, 31), d)
		s.Equal("2000-01-31", d.String())
	})

	s.Run("accepts leap day", func() {
		_, err := ParseDate("2008-02-29")
		s.NoError(err)
	})

	s.Run("rejects impossible dates", func() {
		for _, in := range []string{"2001-02-29", "2000-13-01", "2000-02-30"} {
			_, err := ParseDate(in)
			s.Error(err, in)
		}
	})

	s.Run("rejects other layouts", func() {
		for _, in := range []string{"01/01/2000", "2000-1-1", "20000101", ""} {
			_, err := ParseDate(in)
			s.Error(err, in)
		}
	})
}

func (s *ModelsSuite) TestDateJSON() {
	s.Run("round trips through the wire format", func() {
		var d Date
		s.Require().NoError(json.Unmarshal([]byte(`"1990-07-14"`), &d))
		out, err := json.Marshal(d)
		s.Require().NoError(err)
		s.JSONEq(`"1990-07-14"`, string(out))
	})

	s.Run("non-string values mention the date", func() {
		var d Date
		err := json.Unmarshal([]byte(`19900714`), &d)
		s.Require().Error(err)
		s.Contains(err.Error(), "date")
	})
}

func (s *ModelsSuite) TestParseGender() {
	s.Run("is case-insensitive", func() {
		for in, want := range map[string]Gender{
			"male":   GenderMale,
			"Female": GenderFemale,
			"OTHER":  GenderOther,
		} {
			g, err := ParseGender(in)
			s.Require().NoError(err)
			s.Equal(want, g)
		}
	})

	s.Run("rejects unknown values", func() {
		_, err := ParseGender("UNKNOWN")
		s.Require().Error(err)
		s.Contains(err.Error(), "gender")
	})

	s.Run("unmarshal normalizes to upper-case", func() {
		var g Gender
		s.Require().NoError(json.Unmarshal([]byte(`"female"`), &g))
		s.Equal(GenderFemale, g)
	})
}

func TestNewUser(t *testing.T) {
	birthdate := NewDate(2000, time.January, 1)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("copies fields verbatim and normalizes gender", func(t *testing.T) {
		u, err := NewUser(RegistrationRequest{
			Username:           "amine.bou",
			Birthdate:          &birthdate,
			CountryOfResidence: "france",
			PhoneNumber:        "+33612345678",
			Gender:             "female",
		}, now)
		require.NoError(t, err)

		assert.Zero(t, u.ID)
		assert.Equal(t, "amine.bou", u.Username)
		assert.Equal(t, "france", u.CountryOfResidence)
		require.NotNil(t, u.PhoneNumber)
		assert.Equal(t, "+33612345678", *u.PhoneNumber)
		require.NotNil(t, u.Gender)
		assert.Equal(t, GenderFemale, *u.Gender)
		assert.Equal(t, now, u.CreatedAt)
	})

	t.Run("absent optionals stay nil", func(t *testing.T) {
		u, err := NewUser(RegistrationRequest{
			Username:           "amine.bou",
			Birthdate:          &birthdate,
			CountryOfResidence: "France",
		}, now)
		require.NoError(t, err)
		assert.Nil(t, u.PhoneNumber)
		assert.Nil(t, u.Gender)
	})

	t.Run("requires a birthdate", func(t *testing.T) {
		_, err := NewUser(RegistrationRequest{Username: "amine.bou"}, now)
		require.Error(t, err)
	})
}

func TestUserResponseJSON(t *testing.T) {
	g := GenderMale
	phone := "0612345678"
	resp := NewUserResponse(&User{
		ID:                 7,
		Username:           "amine.bou",
		Birthdate:          NewDate(2000, time.January, 1),
		CountryOfResidence: "France",
		PhoneNumber:        &phone,
		Gender:             &g,
	})

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 7,
		"username": "amine.bou",
		"birthdate": "2000-01-01",
		"countryOfResidence": "France",
		"phoneNumber": "0612345678",
		"gender": "MALE"
	}`, string(out))

	bare := NewUserResponse(&User{ID: 8, Username: "x", Birthdate: NewDate(2000, 1, 1), CountryOfResidence: "France"})
	out, err = json.Marshal(bare)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":8,"username":"x","birthdate":"2000-01-01","countryOfResidence":"France","phoneNumber":null,"gender":null}`, string(out))
}

package handler

import (
	"strings"

	"github.com/AmineOzil/user-registration/internal/user/models"
)

const (
	msgInvalidDate   = "Invalid date format for birthdate. Expected format: yyyy-MM-dd"
	msgInvalidGender = "Invalid value for gender. Accepted values: MALE, FEMALE, OTHER"
	msgMalformedJSON = "Malformed JSON request"
)

// registerUserRequest is the wire shape of POST /api/users. Birthdate and
// gender are decoded into their domain types so bad values fail decoding.
type registerUserRequest struct {
	Username           string         `json:"username"`
	Birthdate          *models.Date   `json:"birthdate"`
	CountryOfResidence string         `json:"countryOfResidence"`
	PhoneNumber        string         `json:"phoneNumber"`
	Gender             *models.Gender `json:"gender"`
}

func (r *registerUserRequest) toModel() *models.RegistrationRequest {
	req := &models.RegistrationRequest{
		Username:           r.Username,
		Birthdate:          r.Birthdate,
		CountryOfResidence: r.CountryOfResidence,
		PhoneNumber:        r.PhoneNumber,
	}
	if r.Gender != nil {
		req.Gender = r.Gender.String()
	}
	return req
}

// describeDecodeError picks a caller-facing message from the decoder's error
// text. Best effort: unrecognized failures get the generic message.
func describeDecodeError(err error) string {
	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "gender value"):
		return msgInvalidGender
	case strings.Contains(text, "date") || strings.Contains(text, "parsing time"):
		return msgInvalidDate
	default:
		return msgMalformedJSON
	}
}

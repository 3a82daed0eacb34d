// Package validation runs the registration checks in a fixed order:
// structural field checks first (all violations collected), then the
// business policies (first failure wins).
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/AmineOzil/user-registration/internal/user/models"
	"github.com/AmineOzil/user-registration/internal/user/policy"
	dErrors "github.com/AmineOzil/user-registration/pkg/domain-errors"
)

// Field keys match the JSON wire names.
const (
	FieldUsername           = "username"
	FieldBirthdate          = "birthdate"
	FieldCountryOfResidence = "countryOfResidence"
	FieldPhoneNumber        = "phoneNumber"
	FieldGender             = "gender"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 50
	phoneMaxLen    = 20
)

const (
	MsgValidationFailed = "Input validation failed"

	MsgUsernameRequired = "Username is required"
	MsgUsernameLength   = "Username must be between 3 and 50 characters"
	MsgBirthdateReq     = "Birthdate is required"
	MsgCountryRequired  = "Country of residence is required"
	MsgPhonePattern     = "Phone number must contain only digits with optional + sign and at least 10 digits"
	MsgPhoneLength      = "Phone number cannot exceed 20 characters"
	MsgGenderValues     = "Gender must be one of: MALE, FEMALE, OTHER"

	MsgAgeMin    = "User must be at least 18 years old"
	MsgCountryFR = "Only French residents can register"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,}$`)

// Validate returns nil when req may be registered on today. Structural
// violations come back as a single CodeValidation error carrying every
// offending field; otherwise the first failing policy is returned.
func Validate(req *models.RegistrationRequest, today models.Date) error {
	if req == nil {
		return dErrors.NewValidation(MsgValidationFailed, map[string]string{
			FieldUsername:           MsgUsernameRequired,
			FieldBirthdate:          MsgBirthdateReq,
			FieldCountryOfResidence: MsgCountryRequired,
		})
	}
	if violations := Structure(req); len(violations) > 0 {
		return dErrors.NewValidation(MsgValidationFailed, violations)
	}
	return Policies(req, today)
}

// Structure checks shape, presence and format of each field and returns a
// field→message map. Only the first violation per field is kept.
func Structure(req *models.RegistrationRequest) map[string]string {
	violations := make(map[string]string)

	switch {
	case strings.TrimSpace(req.Username) == "":
		violations[FieldUsername] = MsgUsernameRequired
	case !between(utf8.RuneCountInString(req.Username), usernameMinLen, usernameMaxLen):
		violations[FieldUsername] = MsgUsernameLength
	}

	if req.Birthdate == nil {
		violations[FieldBirthdate] = MsgBirthdateReq
	}

	if strings.TrimSpace(req.CountryOfResidence) == "" {
		violations[FieldCountryOfResidence] = MsgCountryRequired
	}

	if req.PhoneNumber != "" {
		switch {
		case !phonePattern.MatchString(req.PhoneNumber):
			violations[FieldPhoneNumber] = MsgPhonePattern
		case len(req.PhoneNumber) > phoneMaxLen:
			violations[FieldPhoneNumber] = MsgPhoneLength
		}
	}

	if req.Gender != "" {
		if _, err := models.ParseGender(req.Gender); err != nil {
			violations[FieldGender] = MsgGenderValues
		}
	}

	return violations
}

// Policies evaluates the business rules in order: age, then residency.
func Policies(req *models.RegistrationRequest, today models.Date) error {
	if !policy.IsAdult(req.Birthdate, today) {
		return dErrors.New(dErrors.CodeRuleAgeMin, MsgAgeMin)
	}
	if !policy.IsFrenchResident(req.CountryOfResidence) {
		return dErrors.New(dErrors.CodeRuleCountryFR, MsgCountryFR)
	}
	return nil
}

func between(n, lo, hi int) bool {
	return n >= lo && n <= hi
}

// Package policy holds the registration business rules as pure functions.
// No I/O, no clock: callers pass "today" so results are deterministic.
package policy

import (
	"strings"

	"github.com/AmineOzil/user-registration/internal/user/models"
)

const (
	// MinimumAge is the youngest age, in whole years, allowed to register.
	MinimumAge = 18
	// RequiredCountry is the only accepted country of residence.
	RequiredCountry = "France"
)

// AgeOn returns the number of whole calendar years between birthdate and
// today. The birthday counts once its month and day are reached, so a person
// born on Feb 29 ages on Mar 1 in common years.
func AgeOn(birthdate, today models.Date) int {
	years := today.Year - birthdate.Year
	if today.Month < birthdate.Month ||
		(today.Month == birthdate.Month && today.Day < birthdate.Day) {
		years--
	}
	return years
}

// IsAdult reports whether someone born on birthdate is at least MinimumAge
// years old on today. An absent birthdate is never adult.
func IsAdult(birthdate *models.Date, today models.Date) bool {
	if birthdate == nil {
		return false
	}
	return AgeOn(*birthdate, today) >= MinimumAge
}

// IsFrenchResident reports whether country, trimmed, is "France" under ASCII
// case folding. Blank values are rejected.
func IsFrenchResident(country string) bool {
	trimmed := strings.TrimSpace(country)
	if trimmed == "" {
		return false
	}
	return asciiEqualFold(trimmed, RequiredCountry)
}

// asciiEqualFold compares without Unicode special folding so the result does
// not depend on locale tables.
func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Gender is the closed set of accepted gender values. Input is matched
// case-insensitively; the canonical form is upper-case.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Genders lists the accepted values in declaration order.
func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderOther}
}

// ParseGender resolves s to a Gender ignoring ASCII case.
func ParseGender(s string) (Gender, error) {
	for _, g := range Genders() {
		if strings.EqualFold(s, string(g)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("invalid gender value %q, accepted values are MALE, FEMALE, OTHER", s)
}

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

func (g Gender) String() string {
	return string(g)
}

func (g *Gender) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid gender value %s, expected a string", string(data))
	}
	parsed, err := ParseGender(s)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

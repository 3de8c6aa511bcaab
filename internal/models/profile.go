package models

import (
	"strings"
	"time"
)

// birthDateFloor is the sanity floor for birth dates. Dates before it are
// treated exactly like an absent birth date: legacy rows imported with
// zero-dates must keep producing an incomplete verdict. The floor year must
// stay 1900 for compatibility with existing clients.
var birthDateFloor = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// MissingFields reports which profile fields block posting, per field.
type MissingFields struct {
	BirthDate bool `json:"birth_date"`
	Country   bool `json:"country"`
}

// CompletenessVerdict is derived from a User at read time and never stored.
type CompletenessVerdict struct {
	IsProfileComplete bool          `json:"is_profile_complete"`
	MissingFields     MissingFields `json:"missing_fields"`
}

// EvaluateCompleteness reports whether the account has enough profile data to
// create listings. Pure function of BirthDate and Country.
func EvaluateCompleteness(u *User) CompletenessVerdict {
	missing := MissingFields{
		BirthDate: u.BirthDate == nil || u.BirthDate.Before(birthDateFloor),
		Country:   strings.TrimSpace(u.Country) == "",
	}
	return CompletenessVerdict{
		IsProfileComplete: !missing.BirthDate && !missing.Country,
		MissingFields:     missing,
	}
}

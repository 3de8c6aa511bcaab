package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	discordIDRegex = regexp.MustCompile(`^[0-9]{5,25}$`)
	emailRegex     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	countryRegex   = regexp.MustCompile(`^[A-Za-z][A-Za-z \-']{0,59}$`)
)

const (
	maxDisplayNameLen = 100
	maxBioLen         = 1000
)

// ValidateDiscordID checks that the value looks like a Discord snowflake.
func ValidateDiscordID(id string) error {
	if !discordIDRegex.MatchString(id) {
		return fmt.Errorf("discord_id must be a numeric Discord snowflake")
	}
	return nil
}

// ValidateDisplayName checks display name presence and length.
func ValidateDisplayName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("display_name is required")
	}
	if len(trimmed) > maxDisplayNameLen {
		return fmt.Errorf("display_name too long (max %d characters)", maxDisplayNameLen)
	}
	return nil
}

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("email is not valid")
	}
	return nil
}

// ValidateBio checks bio length.
func ValidateBio(bio string) error {
	if len(bio) > maxBioLen {
		return fmt.Errorf("bio too long (max %d characters)", maxBioLen)
	}
	return nil
}

// ValidateBirthDate rejects dates in the future or before 1900.
func ValidateBirthDate(birth time.Time) error {
	if birth.After(time.Now()) {
		return fmt.Errorf("birth_date cannot be in the future")
	}
	if birth.Year() < 1900 {
		return fmt.Errorf("birth_date must be on or after 1900-01-01")
	}
	return nil
}

// ValidateCountry checks country name shape.
func ValidateCountry(country string) error {
	if !countryRegex.MatchString(strings.TrimSpace(country)) {
		return fmt.Errorf("country is not valid")
	}
	return nil
}

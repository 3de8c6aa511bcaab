package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestEvaluateCompleteness(t *testing.T) {
	tests := []struct {
		name            string
		user            User
		wantComplete    bool
		wantMissingBday bool
		wantMissingCtry bool
	}{
		{
			name:            "fresh account",
			user:            User{DiscordID: "42", DisplayName: "Ana"},
			wantComplete:    false,
			wantMissingBday: true,
			wantMissingCtry: true,
		},
		{
			name:            "country only",
			user:            User{Country: "NA"},
			wantComplete:    false,
			wantMissingBday: true,
			wantMissingCtry: false,
		},
		{
			name:            "birth date only",
			user:            User{BirthDate: datePtr(1999, time.January, 1)},
			wantComplete:    false,
			wantMissingBday: false,
			wantMissingCtry: true,
		},
		{
			name:            "complete",
			user:            User{BirthDate: datePtr(1999, time.January, 1), Country: "Canada"},
			wantComplete:    true,
			wantMissingBday: false,
			wantMissingCtry: false,
		},
		{
			name:            "pre-1900 birth date treated as absent",
			user:            User{BirthDate: datePtr(1899, time.December, 31), Country: "Canada"},
			wantComplete:    false,
			wantMissingBday: true,
			wantMissingCtry: false,
		},
		{
			name:            "zero-date sentinel treated as absent",
			user:            User{BirthDate: &time.Time{}, Country: "Canada"},
			wantComplete:    false,
			wantMissingBday: true,
			wantMissingCtry: false,
		},
		{
			name:            "floor boundary is inclusive",
			user:            User{BirthDate: datePtr(1900, time.January, 1), Country: "Canada"},
			wantComplete:    true,
			wantMissingBday: false,
			wantMissingCtry: false,
		},
		{
			name:            "whitespace country treated as absent",
			user:            User{BirthDate: datePtr(1999, time.January, 1), Country: "  "},
			wantComplete:    false,
			wantMissingBday: false,
			wantMissingCtry: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateCompleteness(&tt.user)
			assert.Equal(t, tt.wantComplete, got.IsProfileComplete)
			assert.Equal(t, tt.wantMissingBday, got.MissingFields.BirthDate)
			assert.Equal(t, tt.wantMissingCtry, got.MissingFields.Country)
		})
	}
}

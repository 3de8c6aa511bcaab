// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a player account reconciled from a Discord identity.
// DiscordID is the natural key: listings reference it, not the surrogate ID.
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	DiscordID   string `gorm:"uniqueIndex;size:255" json:"discord_id"`
	DisplayName string `gorm:"not null" json:"display_name"`
	Email       string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Bio         string `gorm:"type:text" json:"bio"`
	// BirthDate is optional; nil or a pre-1900 sentinel both count as "not provided".
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	Country        string     `json:"country"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

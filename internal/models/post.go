// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Listing status values. "closed" is reserved for future lifecycle states;
// nothing sets it today; listings leave the open set by physical deletion.
const (
	PostStatusOpen   = "open"
	PostStatusClosed = "closed"
)

// LFGPost represents a "looking for group" listing. A listing is immutable
// between creation and deletion; there is no edit path.
type LFGPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GameType  string    `gorm:"size:255;not null" json:"game_type"`
	Region    string    `gorm:"size:255;not null" json:"region"`
	GameMode  string    `gorm:"size:255;not null" json:"game_mode"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `gorm:"size:50;default:open" json:"status"`
	// UserID holds the owner's Discord id (users.discord_id), not the surrogate key.
	UserID string `gorm:"size:255;index" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID;references:DiscordID" json:"-"`
	// PlayerName is not persisted; joined from users.display_name at query time.
	PlayerName string `gorm:"->" json:"player_name"`
}

// TableName pins the table name; GORM's default naming mangles the LFG prefix.
func (LFGPost) TableName() string {
	return "lfg_posts"
}

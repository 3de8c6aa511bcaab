package database

import (
	"testing"
	"time"

	"partyfinder/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.LFGPost{}))
	return db
}

func TestReset(t *testing.T) {
	db := openTestDB(t)

	birth := time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC)
	user := &models.User{
		DiscordID: "111222333", DisplayName: "Rin",
		Email: "rin@example.com", BirthDate: &birth, Country: "Japan",
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.LFGPost{
		GameType: "Valorant", Region: "EU", GameMode: "Ranked",
		Status: "open", UserID: user.DiscordID,
	}).Error)

	require.NoError(t, Reset(db))

	var users, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.LFGPost{}).Count(&posts).Error)
	require.Zero(t, users)
	require.Zero(t, posts)

	// Tables must be usable again after the reset.
	require.NoError(t, db.Create(&models.User{
		DiscordID: "444555666", DisplayName: "Kai", Email: "kai@example.com",
	}).Error)
}

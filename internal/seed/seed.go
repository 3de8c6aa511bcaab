// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"partyfinder/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var (
	games = []string{
		"Valorant", "League of Legends", "Apex Legends", "Overwatch 2",
		"Counter-Strike 2", "Fortnite", "Destiny 2", "Deep Rock Galactic",
		"Helldivers 2", "Rocket League", "Dota 2", "Monster Hunter Wilds",
	}

	modes = []string{
		"Ranked", "Casual", "Competitive", "Duos", "Trios", "Raid",
		"Arena", "Custom", "Co-op Campaign",
	}

	regions = []string{
		"NA East", "NA West", "EU West", "EU Nordic", "OCE", "SA",
		"Asia", "Japan", "Korea",
	}

	countries = []string{
		"United States", "Canada", "United Kingdom", "Germany", "France",
		"Brazil", "Japan", "Australia", "Sweden", "Netherlands",
	}
)

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users and %d listings...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := ClearAll(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db)

	users, err := f.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := f.CreatePosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create listings: %w", err)
	}
	log.Printf("created %d listings", len(posts))

	return nil
}

// ClearAll removes all seeded rows. Listings go first to satisfy the
// owner foreign key.
func ClearAll(db *gorm.DB) error {
	if err := db.Exec("DELETE FROM lfg_posts").Error; err != nil {
		return err
	}
	return db.Exec("DELETE FROM users").Error
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db: db,
		r:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildUser constructs an unsaved user with a fake Discord identity.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	birth := gofakeit.DateRange(
		time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2007, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	user := &models.User{
		DiscordID:   fmt.Sprintf("%d", f.r.Int63n(9e17)+1e17),
		DisplayName: gofakeit.Gamertag(),
		Email:       gofakeit.Email(),
		Bio:         gofakeit.Sentence(8),
		BirthDate:   &birth,
		Country:     countries[f.r.Intn(len(countries))],
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUsers persists n fake users. A fraction is left without birth date or
// country so incomplete-profile paths have data to hit.
func (f *Factory) CreateUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := f.BuildUser()
		if f.r.Intn(5) == 0 {
			user.BirthDate = nil
		}
		if f.r.Intn(5) == 0 {
			user.Country = ""
		}
		users = append(users, user)
	}
	if err := f.db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// BuildPost constructs an unsaved listing owned by the given user with a
// realistic created_at spread over the past two weeks.
func (f *Factory) BuildPost(owner *models.User, overrides ...func(*models.LFGPost)) *models.LFGPost {
	post := &models.LFGPost{
		GameType: games[f.r.Intn(len(games))],
		GameMode: modes[f.r.Intn(len(modes))],
		Region:   regions[f.r.Intn(len(regions))],
		Status:   "open",
		UserID:   owner.DiscordID,
	}
	hoursBack := f.r.Intn(14 * 24)
	post.CreatedAt = time.Now().Add(-time.Duration(hoursBack) * time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePosts persists n fake listings spread across the given owners.
func (f *Factory) CreatePosts(owners []*models.User, n int) ([]*models.LFGPost, error) {
	if len(owners) == 0 {
		return nil, fmt.Errorf("no owners to attach listings to")
	}
	posts := make([]*models.LFGPost, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, f.BuildPost(owners[f.r.Intn(len(owners))]))
	}
	if err := f.db.Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

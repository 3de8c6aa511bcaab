package service

import (
	"context"
	"testing"
	"time"

	"partyfinder/internal/discord"
	"partyfinder/internal/featureflags"
	"partyfinder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.LFGPost) error
	listOpenFn        func(context.Context) ([]*models.LFGPost, error)
	listOpenByOwnerFn func(context.Context, string) ([]*models.LFGPost, error)
	deleteOwnedFn     func(context.Context, uint, string) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.LFGPost) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) ListOpen(ctx context.Context) ([]*models.LFGPost, error) {
	return s.listOpenFn(ctx)
}
func (s *postRepoStub) ListOpenByOwner(ctx context.Context, discordID string) ([]*models.LFGPost, error) {
	return s.listOpenByOwnerFn(ctx, discordID)
}
func (s *postRepoStub) DeleteOwned(ctx context.Context, postID uint, discordID string) (bool, error) {
	return s.deleteOwnedFn(ctx, postID, discordID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.LFGPost) error {
			p.ID = 1
			return nil
		},
		listOpenFn:        func(_ context.Context) ([]*models.LFGPost, error) { return nil, nil },
		listOpenByOwnerFn: func(_ context.Context, _ string) ([]*models.LFGPost, error) { return nil, nil },
		deleteOwnedFn:     func(_ context.Context, _ uint, _ string) (bool, error) { return true, nil },
	}
}

// announcerStub records announce calls on a channel so tests can wait for the
// detached goroutine.
type announcerStub struct {
	configured bool
	calls      chan discord.AnnounceInput
	err        error
}

func newAnnouncerStub() *announcerStub {
	return &announcerStub{configured: true, calls: make(chan discord.AnnounceInput, 1)}
}

func (a *announcerStub) Configured() bool { return a.configured }
func (a *announcerStub) Announce(_ context.Context, in discord.AnnounceInput) error {
	a.calls <- in
	return a.err
}

func ownerRepo(t *testing.T) *userRepoStub {
	t.Helper()
	repo := noopUserRepo()
	repo.getByDiscordIDFn = func(_ context.Context, id string) (*models.User, error) {
		if id == "111222333" {
			return &models.User{ID: 1, DiscordID: id, DisplayName: "RaidLeader"}, nil
		}
		return nil, models.NewNotFoundError("User", id)
	}
	return repo
}

func announceFlags() *featureflags.Manager {
	return featureflags.NewManager("announce=on")
}

func TestPostService_CreatePost(t *testing.T) {
	announcer := newAnnouncerStub()
	svc := NewPostService(noopPostRepo(), ownerRepo(t), announcer, announceFlags())

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:   "111222333",
		GameType: "Valorant",
		Region:   "NA",
		GameMode: "Ranked",
		AgeRange: "18+",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), post.ID)
	assert.Equal(t, models.PostStatusOpen, post.Status)
	assert.Equal(t, "RaidLeader", post.PlayerName)

	select {
	case in := <-announcer.calls:
		assert.Equal(t, "111222333", in.DiscordID)
		assert.Equal(t, "Valorant", in.Game)
		assert.Equal(t, "Ranked", in.Mode)
		assert.Equal(t, "NA", in.Region)
		assert.Equal(t, "18+", in.AgeRange)
	case <-time.After(2 * time.Second):
		t.Fatal("expected an announcement")
	}
}

func TestPostService_CreatePost_DefaultAgeRange(t *testing.T) {
	announcer := newAnnouncerStub()
	svc := NewPostService(noopPostRepo(), ownerRepo(t), announcer, announceFlags())

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:   "111222333",
		GameType: "Valorant",
		Region:   "NA",
		GameMode: "Ranked",
	})
	require.NoError(t, err)

	select {
	case in := <-announcer.calls:
		assert.Equal(t, "Any", in.AgeRange)
	case <-time.After(2 * time.Second):
		t.Fatal("expected an announcement")
	}
}

func TestPostService_CreatePost_MissingFields(t *testing.T) {
	svc := NewPostService(noopPostRepo(), ownerRepo(t), newAnnouncerStub(), announceFlags())

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{"missing user", CreatePostInput{GameType: "a", Region: "b", GameMode: "c"}},
		{"missing game_type", CreatePostInput{UserID: "111222333", Region: "b", GameMode: "c"}},
		{"missing region", CreatePostInput{UserID: "111222333", GameType: "a", GameMode: "c"}},
		{"missing game_mode", CreatePostInput{UserID: "111222333", GameType: "a", Region: "b"}},
		{"blank game_mode", CreatePostInput{UserID: "111222333", GameType: "a", Region: "b", GameMode: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(context.Background(), tt.input)
			assertValidationError(t, err)
		})
	}
}

func TestPostService_CreatePost_UnknownOwner(t *testing.T) {
	svc := NewPostService(noopPostRepo(), ownerRepo(t), newAnnouncerStub(), announceFlags())

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:   "999888777",
		GameType: "Valorant",
		Region:   "NA",
		GameMode: "Ranked",
	})
	assertErrorCode(t, err, "NOT_FOUND")
}

func TestPostService_CreatePost_AnnounceFailureDoesNotRollBack(t *testing.T) {
	announcer := newAnnouncerStub()
	announcer.err = assert.AnError
	svc := NewPostService(noopPostRepo(), ownerRepo(t), announcer, announceFlags())

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:   "111222333",
		GameType: "Valorant",
		Region:   "NA",
		GameMode: "Ranked",
	})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)

	select {
	case <-announcer.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("expected an announce attempt")
	}
}

func TestPostService_CreatePost_AnnounceSkippedWhenFlagOff(t *testing.T) {
	announcer := newAnnouncerStub()
	svc := NewPostService(noopPostRepo(), ownerRepo(t), announcer, featureflags.NewManager("announce=off"))

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:   "111222333",
		GameType: "Valorant",
		Region:   "NA",
		GameMode: "Ranked",
	})
	require.NoError(t, err)

	select {
	case <-announcer.calls:
		t.Fatal("announce must be skipped when the flag is off")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPostService_ListUserPosts_InvalidOwner(t *testing.T) {
	svc := NewPostService(noopPostRepo(), ownerRepo(t), newAnnouncerStub(), announceFlags())
	_, err := svc.ListUserPosts(context.Background(), "not-a-snowflake")
	assertValidationError(t, err)
}

func TestPostService_DeletePost(t *testing.T) {
	tests := []struct {
		name      string
		deleted   bool
		wantError bool
	}{
		{"owner deletes own listing", true, false},
		{"missing or foreign listing", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := noopPostRepo()
			repo.deleteOwnedFn = func(_ context.Context, postID uint, discordID string) (bool, error) {
				assert.Equal(t, uint(5), postID)
				assert.Equal(t, "111222333", discordID)
				return tt.deleted, nil
			}
			svc := NewPostService(repo, ownerRepo(t), newAnnouncerStub(), announceFlags())

			err := svc.DeletePost(context.Background(), DeletePostInput{UserID: "111222333", PostID: 5})
			if tt.wantError {
				assertErrorCode(t, err, "NOT_FOUND")
				assert.Contains(t, err.Error(), "not found or unauthorized")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostService_DeletePost_MissingIdentity(t *testing.T) {
	svc := NewPostService(noopPostRepo(), ownerRepo(t), newAnnouncerStub(), announceFlags())
	err := svc.DeletePost(context.Background(), DeletePostInput{PostID: 5})
	assertValidationError(t, err)
}

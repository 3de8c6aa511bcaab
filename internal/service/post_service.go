package service

import (
	"context"
	"strings"
	"time"

	"partyfinder/internal/discord"
	"partyfinder/internal/featureflags"
	"partyfinder/internal/models"
	"partyfinder/internal/observability"
	"partyfinder/internal/repository"
	"partyfinder/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// Announcer delivers listing announcements to Discord.
type Announcer interface {
	Configured() bool
	Announce(ctx context.Context, in discord.AnnounceInput) error
}

const announceFlag = "announce"

type PostService struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	announcer Announcer
	flags     *featureflags.Manager
}

type CreatePostInput struct {
	UserID   string
	GameType string
	Region   string
	GameMode string
	// AgeRange is rendered into the announcement only; it is never stored.
	AgeRange string
}

type DeletePostInput struct {
	UserID string
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	announcer Announcer,
	flags *featureflags.Manager,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		announcer: announcer,
		flags:     flags,
	}
}

// CreatePost persists a new open listing for an existing account and kicks
// off the Discord announcement. The announcement is best-effort: its failure
// never rolls the listing back.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.LFGPost, error) {
	if err := validation.ValidateDiscordID(in.UserID); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if strings.TrimSpace(in.GameType) == "" {
		return nil, models.NewValidationError("game_type is required")
	}
	if strings.TrimSpace(in.Region) == "" {
		return nil, models.NewValidationError("region is required")
	}
	if strings.TrimSpace(in.GameMode) == "" {
		return nil, models.NewValidationError("game_mode is required")
	}

	owner, err := s.userRepo.GetByDiscordID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	post := &models.LFGPost{
		GameType: strings.TrimSpace(in.GameType),
		Region:   strings.TrimSpace(in.Region),
		GameMode: strings.TrimSpace(in.GameMode),
		Status:   models.PostStatusOpen,
		UserID:   owner.DiscordID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.ListingsCreated.WithLabelValues(post.GameType).Inc()

	post.PlayerName = owner.DisplayName
	s.announceAsync(post, in.AgeRange)

	return post, nil
}

func (s *PostService) announceAsync(post *models.LFGPost, ageRange string) {
	if s.announcer == nil || !s.announcer.Configured() {
		observability.AnnounceDeliveries.WithLabelValues("skipped").Inc()
		return
	}
	if !s.flags.Enabled(announceFlag, post.UserID) {
		observability.AnnounceDeliveries.WithLabelValues("skipped").Inc()
		return
	}

	if strings.TrimSpace(ageRange) == "" {
		ageRange = "Any"
	}
	in := discord.AnnounceInput{
		DiscordID: post.UserID,
		Game:      post.GameType,
		Mode:      post.GameMode,
		Region:    post.Region,
		AgeRange:  ageRange,
	}

	// Detached from the request context: the HTTP response must not wait
	// on Discord, and a cancelled request must not abort delivery.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		span, ctx := observability.NewSpan(ctx, "discord.announce")
		defer span.End()
		span.AddAttributes(
			attribute.Int64("post.id", int64(post.ID)),
			attribute.String("post.game_type", post.GameType),
		)

		fields := map[string]interface{}{
			"post_id":  post.ID,
			"owner":    post.UserID,
			"trace_id": span.TraceID(),
		}
		observability.LogAsyncOperationStart(ctx, "discord_announce", fields)

		if err := s.announcer.Announce(ctx, in); err != nil {
			span.SetError(err)
			observability.AnnounceDeliveries.WithLabelValues("failed").Inc()
			observability.LogAsyncOperationError(ctx, "discord_announce", err, fields)
			return
		}
		observability.AnnounceDeliveries.WithLabelValues("sent").Inc()
		observability.LogAsyncOperationEnd(ctx, "discord_announce", fields)
	}()
}

// ListOpenPosts returns every open listing, newest first.
func (s *PostService) ListOpenPosts(ctx context.Context) ([]*models.LFGPost, error) {
	return s.postRepo.ListOpen(ctx)
}

// ListUserPosts returns the given owner's open listings, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, discordID string) ([]*models.LFGPost, error) {
	if err := validation.ValidateDiscordID(discordID); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return s.postRepo.ListOpenByOwner(ctx, discordID)
}

// DeletePost removes the listing if and only if the caller owns it. A missing
// listing and a foreign listing are indistinguishable to the caller.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	if in.UserID == "" {
		return models.NewValidationError("user_id is required")
	}
	if in.PostID == 0 {
		return models.NewValidationError("post_id is required")
	}

	deleted, err := s.postRepo.DeleteOwned(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}
	if !deleted {
		observability.ListingsDeleted.WithLabelValues("denied").Inc()
		return models.NewNotFoundOrUnauthorizedError("Post")
	}
	observability.ListingsDeleted.WithLabelValues("deleted").Inc()
	return nil
}

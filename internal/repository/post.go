// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"partyfinder/internal/cache"
	"partyfinder/internal/models"
	"partyfinder/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for LFG listing data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.LFGPost) error
	ListOpen(ctx context.Context) ([]*models.LFGPost, error)
	ListOpenByOwner(ctx context.Context, discordID string) ([]*models.LFGPost, error)
	DeleteOwned(ctx context.Context, postID uint, discordID string) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db      *gorm.DB
	logger  *observability.RepoLogger
	metrics *observability.DatabaseMetrics
	traces  *observability.TraceLayer
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{
		db:      db,
		logger:  observability.NewRepoLogger("lfg_posts"),
		metrics: observability.NewDatabaseMetrics(db),
		traces:  observability.GetTraceLayer(),
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.LFGPost) error {
	ctx, span := r.traces.TraceRepositoryMethod(ctx, "Create", "lfg_posts")
	defer span.End()
	defer r.metrics.TrackQuery("create", "lfg_posts")()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		observability.RecordErrorInContext(ctx, err)
		r.logger.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.logger.LogCreate(ctx, map[string]interface{}{
		"post_id":   post.ID,
		"game_type": post.GameType,
		"owner":     post.UserID,
	})
	cache.InvalidateListings(ctx, post.UserID)
	return nil
}

// withPlayerName joins the owning user so each row carries the owner's
// current display name rather than a snapshot taken at listing time.
func (r *postRepository) withPlayerName(db *gorm.DB) *gorm.DB {
	return db.Model(&models.LFGPost{}).
		Select("lfg_posts.*, users.display_name AS player_name").
		Joins("JOIN users ON users.discord_id = lfg_posts.user_id")
}

func (r *postRepository) ListOpen(ctx context.Context) ([]*models.LFGPost, error) {
	ctx, span := r.traces.TraceRepositoryMethod(ctx, "ListOpen", "lfg_posts")
	defer span.End()

	var posts []*models.LFGPost
	err := cache.Aside(ctx, cache.OpenPostsKey, &posts, cache.OpenPostsTTL, func() error {
		defer r.metrics.TrackQuery("select", "lfg_posts")()
		if err := r.withPlayerName(r.db.WithContext(ctx)).
			Where("lfg_posts.status = ?", models.PostStatusOpen).
			Order("lfg_posts.created_at DESC").
			Find(&posts).Error; err != nil {
			r.logger.LogError(ctx, err, "list_open")
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListOpenByOwner(ctx context.Context, discordID string) ([]*models.LFGPost, error) {
	ctx, span := r.traces.TraceRepositoryMethod(ctx, "ListOpenByOwner", "lfg_posts")
	defer span.End()
	defer r.metrics.TrackQuery("select", "lfg_posts")()

	var posts []*models.LFGPost
	if err := r.withPlayerName(r.db.WithContext(ctx)).
		Where("lfg_posts.status = ? AND lfg_posts.user_id = ?", models.PostStatusOpen, discordID).
		Order("lfg_posts.created_at DESC").
		Find(&posts).Error; err != nil {
		r.logger.LogError(ctx, err, "list_open_by_owner")
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// DeleteOwned removes the listing only when discordID owns it. The ownership
// check and the delete are a single statement, so concurrent attempts cannot
// both succeed. Returns false when nothing matched.
func (r *postRepository) DeleteOwned(ctx context.Context, postID uint, discordID string) (bool, error) {
	ctx, span := r.traces.TraceRepositoryMethod(ctx, "DeleteOwned", "lfg_posts")
	defer span.End()
	defer r.metrics.TrackQuery("delete", "lfg_posts")()

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", postID, discordID).
		Delete(&models.LFGPost{})
	if result.Error != nil {
		r.logger.LogError(ctx, result.Error, "delete_owned")
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	r.logger.LogDelete(ctx, map[string]interface{}{
		"post_id": postID,
		"owner":   discordID,
	})
	cache.InvalidateListings(ctx, discordID)
	return true, nil
}

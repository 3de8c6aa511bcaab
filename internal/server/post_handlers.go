// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"partyfinder/internal/database"
	"partyfinder/internal/models"
	"partyfinder/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary List open listings
// @Description Returns open listings newest first, with the owner's current display name
// @Tags posts
// @Produce json
// @Success 200 {array} models.LFGPost
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListOpenPosts(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

// GetUserPosts handles GET /api/posts/user/:user_id
// @Summary List a user's open listings
// @Tags posts
// @Produce json
// @Param user_id path string true "Discord ID of the owner"
// @Success 200 {array} models.LFGPost
// @Router /posts/user/{user_id} [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListUserPosts(c.UserContext(), c.Params("user_id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

// CreatePost handles POST /api/posts
// @Summary Create a listing
// @Description Creates an open listing and fires a Discord announcement; age_range feeds the announcement only
// @Tags posts
// @Accept json
// @Produce json
// @Success 201 {object} object{id=int}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		GameType string `json:"game_type"`
		Region   string `json:"region"`
		GameMode string `json:"game_mode"`
		UserID   string `json:"user_id"`
		AgeRange string `json:"age_range"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:   s.callerDiscordID(c, req.UserID),
		GameType: req.GameType,
		Region:   req.Region,
		GameMode: req.GameMode,
		AgeRange: req.AgeRange,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": post.ID,
	})
}

// DeletePost handles DELETE /api/posts/:post_id
// @Summary Delete an owned listing
// @Description Deletes the listing only when the caller owns it; missing and foreign listings are indistinguishable
// @Tags posts
// @Produce json
// @Param post_id path int true "Listing ID"
// @Param user_id query string true "Discord ID of the caller"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{error=string}
// @Router /posts/{post_id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "post_id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: s.callerDiscordID(c, c.Query("user_id")),
		PostID: postID,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Post deleted successfully",
	})
}

// ResetDB handles DELETE /api/reset-db
// @Summary Wipe and recreate the schema
// @Description Development convenience; always refused in production
// @Tags admin
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 403 {object} object{error=string}
// @Router /reset-db [delete]
func (s *Server) ResetDB(c *fiber.Ctx) error {
	if s.config.IsProduction() {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Database reset is disabled in production"))
	}

	if err := database.Reset(s.db); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Database reset complete",
	})
}

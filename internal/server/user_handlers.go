// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"partyfinder/internal/models"
	"partyfinder/internal/service"

	"github.com/gofiber/fiber/v2"
)

const maxAvatarBytes = 5 * 1024 * 1024

// GetUser handles GET /api/users/:discord_id
// @Summary Get user by Discord ID
// @Tags users
// @Produce json
// @Param discord_id path string true "Discord ID"
// @Success 200 {object} models.User
// @Failure 404 {object} object{error=string}
// @Router /users/{discord_id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	discordID := c.Params("discord_id")

	user, err := s.userService.GetUser(c.UserContext(), discordID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// CheckProfile handles GET /api/users/:discord_id/profile-check
// @Summary Check profile completeness
// @Description Reports whether the account may create listings, and which fields are missing
// @Tags users
// @Produce json
// @Param discord_id path string true "Discord ID"
// @Success 200 {object} models.CompletenessVerdict
// @Failure 404 {object} object{error=string}
// @Router /users/{discord_id}/profile-check [get]
func (s *Server) CheckProfile(c *fiber.Ctx) error {
	discordID := c.Params("discord_id")

	verdict, err := s.userService.CheckProfile(c.UserContext(), discordID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(verdict)
}

// UpdateProfile handles POST /api/update
// @Summary Update user profile
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} object{error=string}
// @Router /update [post]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		DiscordID   string `json:"discord_id"`
		DisplayName string `json:"display_name"`
		Bio         string `json:"bio"`
		Email       string `json:"email"`
		BirthDate   string `json:"birth_date"`
		Country     string `json:"country"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	discordID := s.callerDiscordID(c, req.DiscordID)
	if discordID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("discord_id is required"))
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if _, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		DiscordID:   discordID,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Email:       req.Email,
		BirthDate:   birthDate,
		Country:     req.Country,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
	})
}

// Register handles POST /api/register
// @Summary Register or update an account
// @Description Multipart upsert of profile fields with an optional avatar upload
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} object{success=bool,message=string,userId=int}
// @Failure 400 {object} object{error=string}
// @Router /register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	discordID := s.callerDiscordID(c, c.FormValue("discord_id"))
	if discordID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("discord_id is required"))
	}

	birthDate, err := parseBirthDate(c.FormValue("birth_date"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	in := service.RegisterInput{
		DiscordID:   discordID,
		DisplayName: c.FormValue("display_name"),
		Email:       c.FormValue("email"),
		Bio:         c.FormValue("bio"),
		BirthDate:   birthDate,
		Country:     c.FormValue("country"),
	}

	if file, ferr := c.FormFile("profilePicture"); ferr == nil && file != nil {
		filename, serr := s.saveAvatar(c, file)
		if serr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(serr.Error()))
		}
		in.ProfilePicture = filename
	}

	user, err := s.userService.Register(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"userId":  user.ID,
	})
}

// saveAvatar validates and stores an uploaded profile picture, returning the
// stored filename.
func (s *Server) saveAvatar(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	if file.Size > maxAvatarBytes {
		return "", fmt.Errorf("profile picture exceeds the 5MB limit")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpeg", ".jpg", ".png", ".gif":
	default:
		return "", fmt.Errorf("profile picture must be a jpeg, jpg, png, or gif")
	}

	dir := s.config.UploadsDir
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not prepare uploads directory: %w", err)
	}

	filename := fmt.Sprintf("profile-%d%s", time.Now().UnixNano(), ext)
	if err := c.SaveFile(file, filepath.Join(dir, filename)); err != nil {
		return "", fmt.Errorf("could not store profile picture: %w", err)
	}
	return filename, nil
}

// parseBirthDate parses an optional YYYY-MM-DD form value.
func parseBirthDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("birth_date must be in YYYY-MM-DD format")
	}
	return &t, nil
}

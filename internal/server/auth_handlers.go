// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"fmt"
	"time"

	"partyfinder/internal/middleware"
	"partyfinder/internal/models"
	"partyfinder/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DiscordLogin handles GET /api/auth/discord/login and /callback
// @Summary Discord OAuth login
// @Description Exchange a Discord authorization code for a local account and JWT
// @Tags auth
// @Produce json
// @Param code query string true "Discord authorization code"
// @Success 200 {object} object{success=bool,user=object,token=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string,message=string}
// @Router /auth/discord/login [get]
func (s *Server) DiscordLogin(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Authorization code is required"))
	}

	identity, err := s.oauth.ExchangeCode(c.UserContext(), code)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "discord code exchange failed",
			"error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Authentication failed",
			"message": err.Error(),
		})
	}

	user, err := s.userService.Reconcile(c.UserContext(), service.ReconcileInput{
		DiscordID:   identity.ID,
		DisplayName: identity.DisplayName(),
		Email:       identity.Email,
	})
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "identity reconciliation failed",
			"discord_id", identity.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Authentication failed",
			"message": err.Error(),
		})
	}

	token, err := s.generateToken(user.DiscordID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"discord_id": user.DiscordID,
			"username":   user.DisplayName,
			"email":      user.Email,
		},
		"token": token,
	})
}

// generateToken creates a signed JWT for the given Discord ID.
func (s *Server) generateToken(discordID string) (string, error) {
	// Validate secret exists
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": discordID,                          // Subject (Discord ID)
		"iss": "partyfinder-api",                  // Issuer
		"aud": "partyfinder-client",               // Audience
		"exp": now.Add(time.Hour * 24 * 7).Unix(), // Expiration (7 days)
		"iat": now.Unix(),                         // Issued at
		"nbf": now.Unix(),                         // Not before
		"jti": s.generateJTI(),                    // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// Package service contains the application's business logic.
package service

import (
	"context"
	"errors"
	"time"

	"partyfinder/internal/models"
	"partyfinder/internal/observability"
	"partyfinder/internal/repository"
	"partyfinder/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ReconcileInput carries the identity hint obtained from Discord.
type ReconcileInput struct {
	DiscordID   string
	DisplayName string
	Email       string
}

// RegisterInput is the registration/upsert payload. Pointer fields distinguish
// "not provided" from explicit values.
type RegisterInput struct {
	DiscordID      string
	DisplayName    string
	Email          string
	Bio            string
	BirthDate      *time.Time
	Country        string
	ProfilePicture string
}

type UpdateProfileInput struct {
	DiscordID      string
	DisplayName    string
	Bio            string
	Email          string
	BirthDate      *time.Time
	Country        string
	ProfilePicture string
}

// Reconcile maps a Discord identity onto a local account. An existing account
// is returned untouched; locally edited profile fields are never overwritten
// by the hint. Only when no account exists is one created from the hint.
func (s *UserService) Reconcile(ctx context.Context, in ReconcileInput) (*models.User, error) {
	if err := validation.ValidateDiscordID(in.DiscordID); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByDiscordID(ctx, in.DiscordID)
	if err == nil {
		observability.IdentityReconciliations.WithLabelValues("hit").Inc()
		observability.AddTraceAttributesToContext(ctx, attribute.String("reconcile.result", "hit"))
		return user, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	if err := validation.ValidateDisplayName(in.DisplayName); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		observability.IdentityReconciliations.WithLabelValues("conflict").Inc()
		return nil, models.NewConflictError("Email already linked to another account")
	}

	created := &models.User{
		DiscordID:   in.DiscordID,
		DisplayName: in.DisplayName,
		Email:       in.Email,
	}
	if err := s.userRepo.Create(ctx, created); err != nil {
		// A concurrent reconcile for the same identity may have won the
		// insert race; the account it created is the answer.
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "CONFLICT" {
			if user, refetchErr := s.userRepo.GetByDiscordID(ctx, in.DiscordID); refetchErr == nil {
				observability.IdentityReconciliations.WithLabelValues("hit").Inc()
				return user, nil
			}
		}
		return nil, err
	}

	observability.IdentityReconciliations.WithLabelValues("created").Inc()
	observability.AddTraceAttributesToContext(ctx, attribute.String("reconcile.result", "created"))
	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, discordID string) (*models.User, error) {
	if err := validation.ValidateDiscordID(discordID); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return s.userRepo.GetByDiscordID(ctx, discordID)
}

// CheckProfile evaluates profile completeness for the gating flow.
func (s *UserService) CheckProfile(ctx context.Context, discordID string) (*models.CompletenessVerdict, error) {
	user, err := s.GetUser(ctx, discordID)
	if err != nil {
		return nil, err
	}
	verdict := models.EvaluateCompleteness(user)
	return &verdict, nil
}

// Register upserts a profile: missing accounts are created, existing accounts
// have only the provided fields replaced.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateDiscordID(in.DiscordID); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByDiscordID(ctx, in.DiscordID)
	if isNotFound(err) {
		if err := validation.ValidateDisplayName(in.DisplayName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user = &models.User{DiscordID: in.DiscordID}
	} else if err != nil {
		return nil, err
	}

	return s.applyProfile(ctx, user, UpdateProfileInput{
		DiscordID:      in.DiscordID,
		DisplayName:    in.DisplayName,
		Bio:            in.Bio,
		Email:          in.Email,
		BirthDate:      in.BirthDate,
		Country:        in.Country,
		ProfilePicture: in.ProfilePicture,
	})
}

// UpdateProfile replaces the provided fields on an existing account.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(ctx, in.DiscordID)
	if err != nil {
		return nil, err
	}
	return s.applyProfile(ctx, user, in)
}

func (s *UserService) applyProfile(ctx context.Context, user *models.User, in UpdateProfileInput) (*models.User, error) {
	if in.DisplayName != "" {
		if err := validation.ValidateDisplayName(in.DisplayName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.DisplayName = in.DisplayName
	}
	if in.Email != "" {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = in.Email
	}
	if in.Bio != "" {
		if err := validation.ValidateBio(in.Bio); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Bio = in.Bio
	}
	if in.BirthDate != nil {
		if err := validation.ValidateBirthDate(*in.BirthDate); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.BirthDate = in.BirthDate
	}
	if in.Country != "" {
		if err := validation.ValidateCountry(in.Country); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Country = in.Country
	}
	if in.ProfilePicture != "" {
		user.ProfilePicture = in.ProfilePicture
	}

	if user.ID == 0 {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func isNotFound(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == "NOT_FOUND"
}

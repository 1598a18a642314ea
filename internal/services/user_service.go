package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joshua-takyi/snapvent/internal/models"
	"github.com/rs/zerolog"
	"github.com/supabase-community/gotrue-go/types"
)

type UserService struct {
	userRepo  models.UserRepo
	eventRepo models.EventRepo
	authRepo  models.AuthRepo
	logger    zerolog.Logger
}

func NewUserService(userRepo models.UserRepo, eventRepo models.EventRepo, authRepo models.AuthRepo, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		eventRepo: eventRepo,
		authRepo:  authRepo,
		logger:    logger.With().Str("component", "users").Logger(),
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// HandleWebhook applies an identity provider notification. Deleting a user
// who still owns events fails with ErrUserHasEvents; deleting one that was
// never synced succeeds.
func (us *UserService) HandleWebhook(ctx context.Context, hook *models.IdentityWebhook) (*models.User, error) {
	if err := models.ValidateStruct(hook); err != nil {
		return nil, err
	}
	id, _ := hook.Data["id"].(string)
	if strings.TrimSpace(id) == "" {
		return nil, models.ValidationError(fmt.Errorf("webhook data has no user id"))
	}

	switch hook.Type {
	case models.WebhookUserDeleted:
		count, err := us.eventRepo.CountEventsByOwner(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to count user events: %w", err)
		}
		if count > 0 {
			us.logger.Warn().Str("user_id", id).Int64("events", count).Msg("refusing to delete user with events")
			return nil, models.ErrUserHasEvents
		}
		if err := us.userRepo.DeleteUser(ctx, id); err != nil {
			if !errors.Is(err, models.ErrUserNotFound) {
				return nil, err
			}
			us.logger.Info().Str("user_id", id).Msg("user already absent")
			return nil, nil
		}
		us.logger.Info().Str("user_id", id).Msg("user deleted")
		return nil, nil
	default:
		user, err := us.userRepo.UpsertUser(ctx, userFromWebhook(id, hook.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to sync user: %w", err)
		}
		us.logger.Info().Str("user_id", id).Str("type", hook.Type).Msg("user synced")
		return user, nil
	}
}

func userFromWebhook(id string, data map[string]interface{}) *models.User {
	user := &models.User{ID: id, Raw: data}
	user.Email, _ = data["email"].(string)
	if name, ok := data["name"].(string); ok {
		user.Name = name
	}
	if meta, ok := data["user_metadata"].(map[string]interface{}); ok && user.Name == "" {
		if name, ok := meta["full_name"].(string); ok {
			user.Name = name
		} else if name, ok := meta["name"].(string); ok {
			user.Name = name
		}
	}
	return user
}

func (us *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, models.ErrUnauthorized
	}
	return us.userRepo.GetUserByID(ctx, id)
}

func (us *UserService) Login(ctx context.Context, req *LoginRequest) (*types.TokenResponse, error) {
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}
	resp, err := us.authRepo.AuthenticateUser(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}
	return resp, nil
}

func (us *UserService) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken == "" {
		return nil, models.ErrUnauthorized
	}
	resp, err := us.authRepo.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}
	return resp, nil
}

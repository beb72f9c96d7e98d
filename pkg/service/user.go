package service

import (
	"context"
	"errors"
	"strings"

	"github.com/example/gourmet/pkg/models"
	"github.com/example/gourmet/pkg/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ProfileInput is the body of a profile update. Phone and Address are only
// applied when present and non-empty.
type ProfileInput struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type UserService struct {
	users    repository.UserRepository
	audit    repository.AuditRepository
	cache    UserCache
	validate *validator.Validate
	logger   *zap.Logger
}

func NewUserService(users repository.UserRepository, audit repository.AuditRepository, cache UserCache, logger *zap.Logger) *UserService {
	return &UserService{
		users:    users,
		audit:    audit,
		cache:    cache,
		validate: validator.New(),
		logger:   logger.Named("users"),
	}
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	if name == "" || email == "" {
		return nil, Validation("Name and email are required", map[string]interface{}{
			"fields": map[string]bool{"name": name != "", "email": email != ""},
		})
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, FieldErrors(map[string]string{"email": "Please provide a valid email address"})
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != userID:
		return nil, emailInUse()
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	update := repository.UserUpdate{
		Name:    name,
		Email:   email,
		Phone:   nonEmpty(in.Phone),
		Address: nonEmpty(in.Address),
	}
	user, err := s.users.UpdateUser(ctx, userID, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, emailInUse()
		case errors.Is(err, repository.ErrNotFound):
			return nil, NotFound("User not found")
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateUser(ctx, userID); err != nil {
			s.logger.Warn("User cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	if s.audit != nil {
		err := s.audit.CreateAuditLog(ctx, &repository.AuditLog{
			Service:  "users",
			Action:   "update_profile",
			EntityID: userID,
			Data:     map[string]interface{}{"email": user.Email},
		})
		if err != nil {
			s.logger.Warn("Failed to write audit log", zap.Error(err))
		}
	}

	return user, nil
}

func emailInUse() *Error {
	return Conflict("Email already in use", map[string]interface{}{"field": "email"})
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

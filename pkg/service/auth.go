package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/gourmet/pkg/auth"
	"github.com/example/gourmet/pkg/models"
	"github.com/example/gourmet/pkg/repository"
	"go.uber.org/zap"
)

// UserCache is the read-through cache used by the authentication guard.
type UserCache interface {
	CacheUser(ctx context.Context, user *models.User) error
	GetUserCache(ctx context.Context, userID string) (*models.User, error)
	InvalidateUser(ctx context.Context, userID string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	users      repository.UserRepository
	audit      repository.AuditRepository
	tokens     *auth.TokenManager
	cache      UserCache
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService wires registration, login and token checks. cache may be nil.
func NewAuthService(users repository.UserRepository, audit repository.AuditRepository, tokens *auth.TokenManager, cache UserCache, bcryptCost int, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		audit:      audit,
		tokens:     tokens,
		cache:      cache,
		bcryptCost: bcryptCost,
		logger:     logger.Named("auth"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" {
		return nil, FieldErrors(map[string]string{"name": "This field is required"})
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, Conflict("User already exists", nil)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  hash,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, Conflict("User already exists", nil)
		}
		return nil, err
	}

	s.recordAudit(ctx, "register", user.ID, map[string]interface{}{"email": user.Email})
	s.logger.Info("User registered", zap.String("user_id", user.ID))

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.CheckDummy(password)
			return nil, Unauthorized("Invalid credentials")
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, Unauthorized("Invalid credentials")
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, Unauthorized("Authorization token required")
	}

	userID, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, Unauthorized("Token expired")
		}
		return nil, Unauthorized("Invalid token")
	}

	if s.cache != nil {
		user, err := s.cache.GetUserCache(ctx, userID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("User cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Unauthorized("User not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.CacheUser(ctx, user); err != nil {
			s.logger.Warn("User cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return user, nil
}

func (s *AuthService) recordAudit(ctx context.Context, action, entityID string, data map[string]interface{}) {
	if s.audit == nil {
		return
	}
	err := s.audit.CreateAuditLog(ctx, &repository.AuditLog{
		Service:  "auth",
		Action:   action,
		EntityID: entityID,
		Data:     data,
	})
	if err != nil {
		s.logger.Warn("Failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/example/gourmet/pkg/auth"
	"github.com/example/gourmet/pkg/config"
	"github.com/example/gourmet/pkg/models"
	"github.com/example/gourmet/pkg/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	store  *repository.SQLRepository
	redis  *repository.RedisRepository
	mr     *miniredis.Miniredis
	tokens *auth.TokenManager
	logger *zap.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := repository.NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	mr := miniredis.RunT(t)
	redis := repository.NewRedisRepository(&config.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Close() })

	return &fixture{
		store:  store,
		redis:  redis,
		mr:     mr,
		tokens: auth.NewTokenManager("test-secret", time.Hour, "gourmet"),
		logger: zap.NewNop(),
	}
}

func (f *fixture) authService() *AuthService {
	return NewAuthService(f.store, f.store, f.tokens, f.redis, bcrypt.MinCost, f.logger)
}

func (f *fixture) register(t *testing.T, name, email string) *models.User {
	t.Helper()
	res, err := f.authService().Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	return res.User
}

func (f *fixture) seedMenu(t *testing.T) []models.MenuItem {
	t.Helper()
	items := []models.MenuItem{
		{Name: "Garlic Bread", Description: "Toasted with herbs", Price: 5.99, Category: models.CategoryAppetizers},
		{Name: "Grilled Salmon", Description: "Atlantic salmon with lemon butter", Price: 24.99, Category: models.CategorySeafood, Popular: true},
		{Name: "Tiramisu", Description: "Classic Italian dessert", Price: 8.5, Category: models.CategoryDesserts, Popular: true},
	}
	_, err := NewMenuService(f.store, nil, f.logger).Seed(context.Background(), items)
	require.NoError(t, err)
	return items
}

func float(v float64) *float64 { return &v }

func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	require.Error(t, err)
	svcErr, ok := AsError(err)
	require.True(t, ok, "expected service error, got %v", err)
	require.Equal(t, kind, svcErr.Kind, svcErr.Message)
	return svcErr
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/example/gourmet/pkg/auth"
	"github.com/example/gourmet/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: " Alice ", Email: "Alice@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "Alice", res.User.Name)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.NotEqual(t, "secret1", res.User.Password)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Name: "Other", Email: "ALICE@example.com", Password: "secret2"})
		e := requireKind(t, err, KindConflict)
		assert.Equal(t, "User already exists", e.Message)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Name: "   ", Email: "blank@example.com", Password: "secret1"})
		e := requireKind(t, err, KindValidation)
		assert.Equal(t, "Validation failed", e.Message)

		_, err = f.store.GetUserByEmail(ctx, "blank@example.com")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("audit entry", func(t *testing.T) {
		logs, err := f.store.GetAuditLogs(ctx, res.User.ID, 10)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "register", logs[0].Action)
	})
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()
	user := f.register(t, "Alice", "alice@example.com")

	res, err := svc.Login(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)

	userID, err := f.tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	wrongPassword := requireKind(t, err, KindUnauthorized)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	unknownEmail := requireKind(t, err, KindUnauthorized)

	assert.Equal(t, "Invalid credentials", wrongPassword.Message)
	assert.Equal(t, wrongPassword.Message, unknownEmail.Message)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()
	user := f.register(t, "Alice", "alice@example.com")

	token, err := f.tokens.Issue(user.ID)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.True(t, f.mr.Exists("user:"+user.ID))

		cached, err := svc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", cached.Email)
	})

	cases := []struct {
		name    string
		token   func() string
		message string
	}{
		{"missing", func() string { return "" }, "Authorization token required"},
		{"garbage", func() string { return "abc.def.ghi" }, "Invalid token"},
		{"foreign secret", func() string {
			tok, _ := auth.NewTokenManager("other", time.Hour, "gourmet").Issue(user.ID)
			return tok
		}, "Invalid token"},
		{"expired", func() string {
			tok, _ := auth.NewTokenManager("test-secret", -time.Minute, "gourmet").Issue(user.ID)
			return tok
		}, "Token expired"},
		{"unknown user", func() string {
			tok, _ := f.tokens.Issue("no-such-user")
			return tok
		}, "User not found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tc.token())
			e := requireKind(t, err, KindUnauthorized)
			assert.Equal(t, tc.message, e.Message)
		})
	}
}

func TestAuthenticateWithoutCache(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.store, nil, f.tokens, nil, 4, f.logger)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, got.ID)

	_, err = f.store.GetUserByID(ctx, res.User.ID)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

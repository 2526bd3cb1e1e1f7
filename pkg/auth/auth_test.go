package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/require"
)

func TestTokens_IssueParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		user User
	}{
		{name: "user", user: User{ID: 1, Username: "Test User"}},
		{name: "staff", user: User{ID: 7, Username: "admin", IsStaff: true}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tokens := NewTokens(Config{Secret: "s3cr3t", TTL: time.Hour})
			signed, expiresAt, err := tokens.Issue(tt.user)
			require.NoError(t, err)
			require.True(t, expiresAt.After(time.Now()))

			got, err := tokens.Parse(signed)
			require.NoError(t, err)
			require.Equal(t, tt.user, got)
		})
	}
}

func TestTokens_ParseErrors(t *testing.T) {
	t.Parallel()
	tokens := NewTokens(Config{Secret: "s3cr3t", TTL: time.Hour})
	signed, _, err := tokens.Issue(User{ID: 1, Username: "u"})
	require.NoError(t, err)

	t.Run("other key", func(t *testing.T) {
		other := NewTokens(Config{Secret: "other", TTL: time.Hour})
		_, err := other.Parse(signed)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("expired", func(t *testing.T) {
		late := NewTokens(Config{Secret: "s3cr3t", TTL: time.Hour})
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(signed)
		require.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()
	require.False(t, FromContext(context.Background()).IsAuthenticated())

	ctx := SetUser(context.Background(), User{ID: 3, Username: "u"})
	u := FromContext(ctx)
	require.True(t, u.IsAuthenticated())
	require.Equal(t, int64(3), u.ID)
}

func TestConfig_Secret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	var cfg Config
	require.Error(t, envconfig.Process("", &cfg), "unset secret must not fall back to a default")
	require.Empty(t, cfg.Secret)

	t.Setenv("JWT_SECRET", "  ")
	require.NoError(t, envconfig.Process("", &cfg))
	require.ErrorIs(t, cfg.Validate(), ErrEmptySecret)

	t.Setenv("JWT_SECRET", "s3cr3t")
	require.NoError(t, envconfig.Process("", &cfg))
	require.NoError(t, cfg.Validate())
	require.Equal(t, 24*time.Hour, cfg.TTL)
}

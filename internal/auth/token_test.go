package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xpense/internal/core"
)

func TestTokenCodec_AccessRoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour, 24*time.Hour)

	token, err := codec.NewAccessToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := codec.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenCodec_RefreshRoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour, 24*time.Hour)

	token, err := codec.NewRefreshToken(7, 3)
	require.NoError(t, err)

	userID, version, err := codec.ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, int64(3), version)
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	codec := NewTokenCodec("secret-a", time.Hour, 24*time.Hour)
	other := NewTokenCodec("secret-b", time.Hour, 24*time.Hour)

	token, err := codec.NewAccessToken(1)
	require.NoError(t, err)

	_, err = other.ParseAccessToken(token)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid), "expected ErrTokenInvalid, got %v", err)
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := NewTokenCodec("test-secret", -time.Minute, -time.Minute)

	access, err := codec.NewAccessToken(1)
	require.NoError(t, err)
	_, err = codec.ParseAccessToken(access)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))

	refresh, err := codec.NewRefreshToken(1, 0)
	require.NoError(t, err)
	_, _, err = codec.ParseRefreshToken(refresh)
	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour, 24*time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := codec.ParseAccessToken(token)
		assert.True(t, errors.Is(err, core.ErrTokenInvalid), "token %q", token)
	}
}

func TestTokenCodec_AccessTokenIsNotARefreshToken(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour, 24*time.Hour)

	access, err := codec.NewAccessToken(9)
	require.NoError(t, err)

	// Access tokens carry no token_version claim; decoding one as a refresh
	// token yields version 0, which only matches a user that never rotated.
	userID, version, err := codec.ParseRefreshToken(access)
	require.NoError(t, err)
	assert.Equal(t, int64(9), userID)
	assert.Equal(t, int64(0), version)
}

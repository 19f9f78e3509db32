package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"xpense/internal/core"
)

// UserStore is the persistence surface the auth flows need.
type UserStore interface {
	CreateUser(ctx context.Context, user *core.User) error
	GetUserByID(ctx context.Context, id int64) (*core.User, error)
	GetUserByUsername(ctx context.Context, username string) (*core.User, error)
	// BumpTokenVersion unconditionally increments the user's token_version
	// and returns the new value.
	BumpTokenVersion(ctx context.Context, id int64) (int64, error)
	// RotateTokenVersion increments token_version only if it still equals
	// current, returning core.ErrNotFound when another rotation won the race.
	RotateTokenVersion(ctx context.Context, id, current int64) (int64, error)
}

// Session is the result of register, login and refresh: the user plus a
// fresh token pair.
type Session struct {
	User         core.User `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
}

// Service orchestrates the session lifecycle on top of the user store and
// token codec.
type Service struct {
	users UserStore
	codec *TokenCodec
}

func NewService(users UserStore, codec *TokenCodec) *Service {
	return &Service{users: users, codec: codec}
}

// Register creates a new user with token_version 0 and issues the first
// token pair.
func (s *Service) Register(ctx context.Context, in core.RegisterInput) (*Session, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &core.User{
		Username:       strings.TrimSpace(in.Username),
		Email:          strings.TrimSpace(in.Email),
		HashedPassword: hash,
		IsActive:       true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID, "username", user.Username)

	return s.newSession(user)
}

// Login verifies credentials and issues a token pair at the user's current
// token_version. A missing user and a wrong password produce the same error.
func (s *Service) Login(ctx context.Context, in core.LoginInput) (*Session, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("%w: incorrect username or password", core.ErrInvalidCredentials)
		}
		return nil, err
	}

	if !CheckPassword(in.Password, user.HashedPassword) {
		return nil, fmt.Errorf("%w: incorrect username or password", core.ErrInvalidCredentials)
	}

	return s.newSession(user)
}

// Refresh exchanges a valid refresh token for a new pair, rotating the
// user's token_version so the presented token (and every earlier one)
// becomes permanently unusable.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	userID, version, err := s.codec.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", core.ErrRefreshRevoked)
		}
		return nil, err
	}
	if user.TokenVersion != version {
		return nil, fmt.Errorf("%w: token version mismatch", core.ErrRefreshRevoked)
	}

	// Conditional increment: if a concurrent refresh already rotated the
	// version, this token lost the race and is revoked like any stale one.
	newVersion, err := s.users.RotateTokenVersion(ctx, user.ID, version)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("%w: token version mismatch", core.ErrRefreshRevoked)
		}
		return nil, err
	}
	user.TokenVersion = newVersion

	slog.InfoContext(ctx, "Refresh token rotated", "user_id", user.ID, "token_version", newVersion)

	return s.newSession(user)
}

// Logout invalidates every outstanding refresh token for the user. Access
// tokens are not individually revocable and stay valid to their own expiry.
func (s *Service) Logout(ctx context.Context, user *core.User) error {
	newVersion, err := s.users.BumpTokenVersion(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("bump token version: %w", err)
	}

	slog.InfoContext(ctx, "User logged out", "user_id", user.ID, "token_version", newVersion)
	return nil
}

// CurrentUser resolves a bearer access token to the user it was issued for.
// Missing, malformed, expired tokens and unknown subjects all surface as
// core.ErrUnauthorized.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*core.User, error) {
	userID, err := s.codec.ParseAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: access token expired or invalid", core.ErrUnauthorized)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("%w: access token expired or invalid", core.ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) newSession(user *core.User) (*Session, error) {
	access, err := s.codec.NewAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.NewRefreshToken(user.ID, user.TokenVersion)
	if err != nil {
		return nil, err
	}

	u := *user
	u.HashedPassword = ""

	return &Session{
		User:         u,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"xpense/internal/core"
)

// TokenCodec signs and verifies the two token kinds. Access tokens carry only
// the subject; refresh tokens additionally carry the token_version they were
// minted at so the store can revoke them wholesale.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// RefreshClaims is the refresh-token payload: {sub, token_version, exp}.
type RefreshClaims struct {
	TokenVersion int64 `json:"token_version"`
	jwt.RegisteredClaims
}

func NewTokenCodec(secret string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// NewAccessToken mints a signed access token for the user, valid for the
// configured access TTL.
func (c *TokenCodec) NewAccessToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// NewRefreshToken mints a signed refresh token bound to the given
// token_version.
func (c *TokenCodec) NewRefreshToken(userID, tokenVersion int64) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return token, nil
}

// ParseAccessToken verifies signature and expiry and returns the subject
// user id. Any failure surfaces as core.ErrTokenInvalid.
func (c *TokenCodec) ParseAccessToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("%w: unexpected claims", core.ErrTokenInvalid)
	}
	return parseSubject(claims.Subject)
}

// ParseRefreshToken verifies signature and expiry and returns the subject
// user id plus the embedded token_version.
func (c *TokenCodec) ParseRefreshToken(tokenString string) (int64, int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", core.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return 0, 0, fmt.Errorf("%w: unexpected claims", core.ErrTokenInvalid)
	}

	userID, err := parseSubject(claims.Subject)
	if err != nil {
		return 0, 0, err
	}
	return userID, claims.TokenVersion, nil
}

func (c *TokenCodec) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return c.secret, nil
}

func parseSubject(sub string) (int64, error) {
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: malformed subject", core.ErrTokenInvalid)
	}
	return id, nil
}

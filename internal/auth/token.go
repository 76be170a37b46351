// Package auth provides the two authentication contexts the app can run
// with — a hardcoded-credential mock and a remote identity provider — plus
// the JWT session tokens the admin area uses either way.
//
// SESSION FLOW (mock variant):
// 1. POST /api/auth/login with email/password
// 2. The store verifies the credential (bcrypt) and sets its session pointer
// 3. We issue a JWT bound to the user's id, stored in an HttpOnly cookie
// 4. Admin routes validate the cookie via middleware and load the user
//
// The JWT is stateless: everything needed to validate it (subject, expiry,
// signature) is inside the token, so no session table exists anywhere.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer is checked on validation so tokens minted by other apps
// sharing a secret by accident are still rejected.
const tokenIssuer = "techhorizon-blog"

// SessionDuration is how long an admin login lasts before the cookie JWT
// expires and the user must sign in again.
const SessionDuration = 24 * time.Hour

// TokenService signs and verifies the admin session JWTs.
// The same HMAC secret must be used for both; at least 16 characters,
// ideally 32+ bytes of randomness (openssl rand -hex 32).
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the user id travels in "sub".
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates a signed session token for the given userID,
// valid for SessionDuration.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, SessionDuration)
}

// GenerateWithDuration creates a token with a custom expiry.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token string, returning the userID from the
// "sub" claim.
//
// jwt.WithValidMethods pins the algorithm to HS256 — without it, a token
// claiming alg "none" could sail through (the classic algorithm confusion
// attack).
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}
	return c.Subject, nil
}

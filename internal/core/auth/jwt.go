package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/markdave123-py/joba/internal/core/errs"
)

// TokenManager issues and verifies the HS256 access and refresh tokens.
// Both encode {sub: user id, exp, iat}; refresh tokens additionally carry
// type=refresh so an access token can never be replayed as a refresh token.
type TokenManager struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewTokenManager(secret string, accessExpiry, refreshExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (m *TokenManager) AccessToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(m.accessExpiry).Unix(),
		"iat": now.Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return tok, nil
}

func (m *TokenManager) RefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"exp":  now.Add(m.refreshExpiry).Unix(),
		"iat":  now.Unix(),
		"type": "refresh",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return tok, nil
}

// ParseAccess verifies an access token and returns its subject. Any decode,
// signature or expiry failure rejects the token; verification fails closed.
func (m *TokenManager) ParseAccess(tokenString string) (string, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return "", err
	}
	if t, _ := claims["type"].(string); t == "refresh" {
		return "", errs.Authentication("invalid token")
	}
	return m.subject(claims)
}

// ParseRefresh verifies a refresh token and returns its subject.
func (m *TokenManager) ParseRefresh(tokenString string) (string, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return "", err
	}
	if t, _ := claims["type"].(string); t != "refresh" {
		return "", errs.Authentication("invalid refresh token")
	}
	return m.subject(claims)
}

func (m *TokenManager) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.Authentication("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errs.Authentication("could not validate credentials")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errs.Authentication("could not validate credentials")
	}
	return claims, nil
}

func (m *TokenManager) subject(claims jwt.MapClaims) (string, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errs.Authentication("could not validate credentials")
	}
	return sub, nil
}

// AccessExpirySeconds is what login/signup report as expires_in.
func (m *TokenManager) AccessExpirySeconds() int {
	return int(m.accessExpiry.Seconds())
}

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	refreshTokenTTL = 30 * 24 * time.Hour
)

// Claims is the JWT payload for both access and refresh tokens. TokenType
// distinguishes the two; refresh tokens are only accepted by the refresh
// endpoint.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role"`
	PatientID string `json:"patient_id,omitempty"`
	TokenType string `json:"type"`
}

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewIssuer(secret string, accessTTL time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), accessTTL: accessTTL}
}

// AccessTTL returns the configured access token lifetime.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

func (i *Issuer) sign(u *User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    u.ID,
		Name:      u.Name,
		Role:      u.Role,
		PatientID: u.PatientID,
		TokenType: tokenType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// IssueAccess creates a short-lived access token for the user.
func (i *Issuer) IssueAccess(u *User) (string, error) {
	return i.sign(u, tokenTypeAccess, i.accessTTL)
}

// IssueRefresh creates a long-lived refresh token for the user.
func (i *Issuer) IssueRefresh(u *User) (string, error) {
	return i.sign(u, tokenTypeRefresh, refreshTokenTTL)
}

func (i *Issuer) parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// VerifyAccess validates an access token and returns its claims.
func (i *Issuer) VerifyAccess(token string) (*Claims, error) {
	claims, err := i.parse(token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, fmt.Errorf("invalid token type: %s", claims.TokenType)
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token and returns its claims.
func (i *Issuer) VerifyRefresh(token string) (*Claims, error) {
	claims, err := i.parse(token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, fmt.Errorf("invalid token type: %s", claims.TokenType)
	}
	return claims, nil
}

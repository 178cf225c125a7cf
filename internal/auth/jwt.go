package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail parsing, signature
// verification or expiry checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload embedded in every session token.
type Claims struct {
	UserID          string `json:"userId"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	AdmissionNumber string `json:"admissionNumber"`
	Board           string `json:"board"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256 session tokens.
type Codec struct {
	secret     []byte
	issuer     string
	sessionTTL time.Duration
	refreshTTL time.Duration
}

func NewCodec(secret, issuer string, sessionTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		secret:     []byte(secret),
		issuer:     issuer,
		sessionTTL: sessionTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue signs a session token for the given claims.
func (c *Codec) Issue(claims Claims) (string, error) {
	return c.sign(claims, c.sessionTTL)
}

// IssueRefresh signs a token with the longer refresh lifetime.
func (c *Codec) IssueRefresh(claims Claims) (string, error) {
	return c.sign(claims, c.refreshTTL)
}

func (c *Codec) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

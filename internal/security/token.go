package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Actor kinds carried in auth tokens
const (
	ActorParent = "parent"
	ActorTeen   = "teen"
)

// Claims is the JWT payload for authenticated accounts
type Claims struct {
	ActorKind string `json:"actorKind"`
	jwt.RegisteredClaims
}

// JWTManager issues and parses signed auth tokens
type JWTManager struct {
	secret   []byte
	duration time.Duration
}

// NewJWTManager creates a token manager with the given signing secret and
// token lifetime
func NewJWTManager(secret string, duration time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), duration: duration}
}

// Issue creates a signed token for the given account
func (m *JWTManager) Issue(actorKind, accountID string) (string, error) {
	now := time.Now()
	claims := Claims{
		ActorKind: actorKind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its claims
func (m *JWTManager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// Package token implementa la emisión y verificación de tokens de sesión
// propios del servicio (JWT HS256). Implementa auth.TokenIssuer y
// auth.AuthVerifier; se instancia desde main/router con el secret de config.
package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medtrack/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured = errors.New("token manager not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

type Config struct {
	Secret string
	TTL    time.Duration
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(cfg Config) *Manager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		secret: []byte(strings.TrimSpace(cfg.Secret)),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *Manager) IsConfigured() bool {
	return m != nil && len(m.secret) > 0
}

type sessionClaims struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	jwt.RegisteredClaims
}

// Issue emite un JWT con subject = userID y expiración según TTL.
func (m *Manager) Issue(userID, email, firstName string) (string, error) {
	if !m.IsConfigured() {
		return "", ErrNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("userID required")
	}

	now := m.now()
	claims := sessionClaims{
		Email:     strings.TrimSpace(email),
		FirstName: strings.TrimSpace(firstName),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify valida firma y expiración, y devuelve claims de la app.
func (m *Manager) Verify(ctx context.Context, tokenStr string) (auth.Claims, error) {
	if !m.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	var sc sessionClaims
	parsed, err := jwt.ParseWithClaims(
		tokenStr,
		&sc,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	userID := strings.TrimSpace(sc.Subject)
	if userID == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return auth.Claims{
		UserID:    userID,
		Email:     sc.Email,
		FirstName: sc.FirstName,
	}, nil
}

package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"finledger/internal/models"
)

var (
	// ErrTokenExpired means the token was well-formed and correctly signed
	// but its expiry has elapsed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers everything else: bad signature, malformed
	// input, unexpected signing algorithm.
	ErrTokenInvalid = errors.New("token invalid")
)

// Manager signs and verifies session tokens with a process-wide HS256
// secret. Rotating the secret invalidates every outstanding token; there is
// no key versioning.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret []byte, ttl time.Duration) *Manager {
	return &Manager{secret: secret, ttl: ttl}
}

// Issue creates a signed token carrying the user's identity, valid from now
// until now+ttl. It returns the token string and its expiry.
func (m *Manager) Issue(userID, email string) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(m.ttl)

	claims := &models.Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expirationTime, nil
}

// Verify checks signature and expiry and returns the decoded claims. It
// fails with ErrTokenExpired or ErrTokenInvalid; callers that only care
// about "authenticated or not" can treat both the same.
func (m *Manager) Verify(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

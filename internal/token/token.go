package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wanderlist/internal/models"
)

var (
	// ErrNoSecret means no signing secret was configured. Callers must treat
	// this as fatal at startup; tokens can neither be issued nor verified.
	ErrNoSecret = errors.New("token service: no signing secret configured")

	// ErrInvalidToken covers bad signatures, malformed tokens and expired
	// tokens alike. Verification failures are deliberately collapsed into a
	// single error so the HTTP boundary cannot leak which check failed.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims carries the subject's id and role. The role is snapshotted at
// issuance: a store-side role change takes effect only after re-login.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject as an int64 id.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Service issues and verifies signed bearer tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{secret: []byte(secret), ttl: ttl}, nil
}

// Issue mints an HS256 token for the user, valid for the configured TTL.
func (s *Service) Issue(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and expiry and returns the embedded claims.
// All failure modes map to ErrInvalidToken.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

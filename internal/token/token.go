package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/academico-latam/academico-api/internal/models"
)

// DefaultSecret is the placeholder used when no signing secret is configured.
// Deployments must always override it.
const DefaultSecret = "clave_secreta_por_defecto"

// TTL is the fixed validity window of issued tokens. There is no revocation:
// a token stays valid until natural expiry, which is why the authentication
// gate re-checks the account's active flag on every request.
const TTL = 8 * time.Hour

var (
	// ErrTokenInvalid covers malformed or tampered tokens.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired covers tokens with a valid signature past their expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the verified content of a session token.
type Claims struct {
	Subject string
	Role    models.Role
}

// Service issues and verifies signed session tokens carrying subject and role.
type Service struct {
	secret []byte
	now    func() time.Time
}

// NewService builds a token service. An empty secret falls back to the
// well-known placeholder and logs a warning.
func NewService(secret string, logger zerolog.Logger) *Service {
	if secret == "" {
		secret = DefaultSecret
		logger.Warn().Msg("jwt secret not configured, using default placeholder; override it in any real deployment")
	}

	return &Service{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue produces a signed token for the subject/role pair, valid for TTL.
func (s *Service) Issue(subjectID string, role models.Role) (string, error) {
	if subjectID == "" {
		return "", fmt.Errorf("subject id must not be empty")
	}
	if _, err := models.ParseRole(string(role)); err != nil {
		return "", err
	}

	issuedAt := s.now()
	claims := jwt.MapClaims{
		"sub": subjectID,
		"rol": string(role),
		"iat": jwt.NewNumericDate(issuedAt),
		"exp": jwt.NewNumericDate(issuedAt.Add(TTL)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded claims.
func (s *Service) Verify(raw string) (Claims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrTokenInvalid
	}

	subject, _ := mapClaims["sub"].(string)
	if subject == "" {
		return Claims{}, ErrTokenInvalid
	}

	rawRole, _ := mapClaims["rol"].(string)
	role, err := models.ParseRole(rawRole)
	if err != nil {
		return Claims{}, ErrTokenInvalid
	}

	return Claims{Subject: subject, Role: role}, nil
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

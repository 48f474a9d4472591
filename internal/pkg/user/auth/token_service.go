package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "youchat/pkg/errors"

	"youchat/internal/pkg/state"
)

// DefaultTokenTTL matches the original session lifetime.
const DefaultTokenTTL = 8 * time.Hour

// Claims carried inside a session credential. Subject is the user id.
type Claims struct {
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session credentials.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Generate issues a signed credential for the user.
func (ts *TokenService) Generate(u *state.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: u.Email,
		Name:  u.Name,
		Roles: append([]string(nil), u.Roles...),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.secret)
}

// Parse verifies signature and expiry and returns the claims.
func (ts *TokenService) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return ts.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrExpiredCredential
		}
		return nil, apperrors.ErrInvalidCredential
	}
	return claims, nil
}

// Directory is the read-only identity lookup the authenticator resolves
// subjects through.
type Directory interface {
	UserByID(id string) (*state.User, bool)
}

// Authenticator validates a bearer credential and resolves it to a live user.
// It gates both websocket establishment and request-style operations, and has
// no side effects.
type Authenticator struct {
	tokens *TokenService
	users  Directory
}

func NewAuthenticator(tokens *TokenService, users Directory) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Authenticate verifies raw and resolves its subject. The system sender id is
// reserved and can never authenticate.
func (a *Authenticator) Authenticate(raw string) (*state.User, error) {
	if raw == "" {
		return nil, apperrors.ErrMissingCredential
	}
	claims, err := a.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	sub := claims.Subject
	if sub == "" || sub == state.SystemUserID {
		return nil, apperrors.ErrUnknownSubject
	}
	u, ok := a.users.UserByID(sub)
	if !ok {
		return nil, apperrors.ErrUnknownSubject
	}
	return u, nil
}

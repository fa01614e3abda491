// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/boi-backend/internal/config"
	"github.com/carterperez-dev/boi-backend/internal/core"
	"github.com/carterperez-dev/boi-backend/internal/middleware"
)

const (
	claimEmail = "email"
	claimRole  = "role"
	claimKind  = "type"

	kindAccess = "access"

	jwksMaxAge = "public, max-age=3600"
)

// TokenSigner issues and parses ES256 access tokens for the store.
type TokenSigner struct {
	signing jwk.Key
	verify  jwk.Key
	jwks    jwk.Set
	cfg     config.JWTConfig
	now     func() time.Time
}

func NewTokenSigner(cfg config.JWTConfig) (*TokenSigner, error) {
	signing, err := loadSigningKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	verify, jwks, err := publishedSet(signing)
	if err != nil {
		return nil, err
	}

	return &TokenSigner{
		signing: signing,
		verify:  verify,
		jwks:    jwks,
		cfg:     cfg,
		now:     time.Now,
	}, nil
}

type TokenSubject struct {
	UserID int64
	Email  string
	Role   string
}

// Sign returns a compact JWS carrying sub's identity and role.
func (s *TokenSigner) Sign(sub TokenSubject) (string, error) {
	issued := s.now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(s.cfg.Issuer).
		Audience([]string{s.cfg.Audience}).
		Subject(strconv.FormatInt(sub.UserID, 10)).
		IssuedAt(issued).
		NotBefore(issued).
		Expiration(issued.Add(s.cfg.AccessTokenExpire)).
		Claim(claimEmail, sub.Email).
		Claim(claimRole, sub.Role).
		Claim(claimKind, kindAccess).
		Build()
	if err != nil {
		return "", fmt.Errorf("assemble token: %w", err)
	}

	compact, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), s.signing))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return string(compact), nil
}

// Parse validates signature, issuer, audience and lifetime. It does not
// consult the revocation list.
func (s *TokenSigner) Parse(
	_ context.Context,
	raw string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.ES256(), s.verify),
		jwt.WithValidate(true),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithClock(jwt.ClockFunc(s.now)),
	)
	switch {
	case errors.Is(err, jwt.TokenExpiredError()):
		return nil, fmt.Errorf("parse token: %w", core.ErrTokenExpired)
	case err != nil:
		return nil, fmt.Errorf("parse token: %w", core.ErrTokenInvalid)
	}

	claims, reason := accessClaims(token)
	if reason != "" {
		return nil, fmt.Errorf("parse token: %s: %w", reason, core.ErrTokenInvalid)
	}
	return claims, nil
}

// accessClaims maps a validated token onto request claims. A non-empty
// reason means a required claim is missing or malformed.
func accessClaims(token jwt.Token) (*middleware.AccessTokenClaims, string) {
	var kind string
	if token.Get(claimKind, &kind) != nil || kind != kindAccess {
		return nil, "wrong token type"
	}

	subject, _ := token.Subject()
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, "bad subject"
	}

	var role string
	if token.Get(claimRole, &role) != nil || role == "" {
		return nil, "no role"
	}

	jti, _ := token.JwtID()
	if jti == "" {
		return nil, "no jti"
	}

	var email string
	_ = token.Get(claimEmail, &email) //nolint:errcheck // optional

	expires, _ := token.Expiration()

	return &middleware.AccessTokenClaims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		TokenID:   jti,
		ExpiresAt: expires,
	}, ""
}

// JWKSHandler serves the public verification key set.
func (s *TokenSigner) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", jwksMaxAge)
		core.JSON(w, http.StatusOK, s.jwks)
	}
}

func (s *TokenSigner) KeyID() string {
	return keyIDOf(s.signing)
}

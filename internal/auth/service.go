// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/carterperez-dev/boi-backend/internal/config"
	"github.com/carterperez-dev/boi-backend/internal/core"
	"github.com/carterperez-dev/boi-backend/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
	ErrEmailReserved      = errors.New("email reserved")
)

type UserInfo struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Phone        string
	Address      string
	CreatedAt    time.Time
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id int64) (*UserInfo, error)
	Create(
		ctx context.Context,
		name, email, passwordHash string,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	UpdateProfile(
		ctx context.Context,
		userID int64,
		name, phone, address string,
	) (*UserInfo, error)
	UpsertAdmin(
		ctx context.Context,
		name, email, passwordHash string,
	) (bool, error)
}

// Revoker stores revoked token ids until their natural expiry.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Service struct {
	jwt          *TokenSigner
	userProvider UserProvider
	revoker      Revoker
	reserved     map[string]struct{}
	logger       *slog.Logger
}

func NewService(
	jwt *TokenSigner,
	userProvider UserProvider,
	revoker Revoker,
	reservedEmails []string,
	logger *slog.Logger,
) *Service {
	reserved := make(map[string]struct{}, len(reservedEmails))
	for _, email := range reservedEmails {
		reserved[normalizeEmail(email)] = struct{}{}
	}

	return &Service{
		jwt:          jwt,
		userProvider: userProvider,
		revoker:      revoker,
		reserved:     reserved,
		logger:       logger,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	if s.IsReserved(req.Email) {
		return nil, ErrEmailReserved
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, req.Name, req.Email, passwordHash)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(user)
}

// Login resolves credentials for customers and seeded admins alike. Every
// failure path costs one password hash so timing does not reveal which
// emails exist.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	user, err := s.userProvider.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, newHash); err != nil {
			s.logger.Warn("password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AuthResponse: *resp,
		Phone:        user.Phone,
		Address:      user.Address,
	}, nil
}

// VerifyAccessToken validates a bearer token and rejects revoked ones.
// Redis errors fail closed.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.Parse(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		s.logger.Error("token blacklist lookup failed", "error", err)
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	if claims == nil {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}

	if err := s.revoker.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID int64,
) (*UserResponse, error) {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	userID int64,
	req UpdateProfileRequest,
) (*UserResponse, error) {
	user, err := s.userProvider.UpdateProfile(
		ctx,
		userID,
		req.Name,
		req.Phone,
		req.Address,
	)
	if err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

// SeedAdmins upserts configured privileged accounts. Passwords are hashed
// only for rows that do not exist yet.
func (s *Service) SeedAdmins(
	ctx context.Context,
	accounts []config.AdminAccount,
) (int, error) {
	created := 0

	for _, account := range accounts {
		existing, err := s.userProvider.GetByEmail(ctx, account.Email)
		switch {
		case err == nil && existing.Role == middleware.RoleAdmin:
			continue
		case err != nil && !errors.Is(err, core.ErrNotFound):
			return created, fmt.Errorf("seed admin %s: %w", account.Email, err)
		}

		passwordHash := ""
		if existing != nil {
			passwordHash = existing.PasswordHash
		} else {
			passwordHash, err = core.HashPassword(account.Password)
			if err != nil {
				return created, fmt.Errorf("seed admin %s: %w", account.Email, err)
			}
		}

		inserted, err := s.userProvider.UpsertAdmin(
			ctx,
			account.Name,
			account.Email,
			passwordHash,
		)
		if err != nil {
			return created, fmt.Errorf("seed admin %s: %w", account.Email, err)
		}

		if inserted {
			created++
			s.logger.Info("admin account created", "email", account.Email)
		} else {
			s.logger.Info("account promoted to admin", "email", account.Email)
		}
	}

	return created, nil
}

func (s *Service) IsReserved(email string) bool {
	_, ok := s.reserved[normalizeEmail(email)]
	return ok
}

func (s *Service) issue(user *UserInfo) (*AuthResponse, error) {
	token, err := s.jwt.Sign(TokenSubject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &AuthResponse{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Token:  token,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ middleware.TokenVerifier = (*Service)(nil)

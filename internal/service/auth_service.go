package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/fanfund/internal/auth"
	"github.com/spec-kit/fanfund/internal/config"
	"github.com/spec-kit/fanfund/internal/domain"
	"github.com/spec-kit/fanfund/internal/observability"
	"github.com/spec-kit/fanfund/internal/repository"
	apperrors "github.com/spec-kit/fanfund/pkg/util/errorutil"
)

// invalidCredentials is deliberately identical for unknown emails, wrong passwords and
// non-admin accounts on the admin space.
const invalidCredentials = "invalid email or password"

// RegisterInput carries a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.AccountRole
}

// AuthService coordinates registration, login and logout for both actor spaces.
type AuthService struct {
	users      repository.UserRepository
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	revoked    auth.RevocationList
	bcryptCost int
	dummyHash  string
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	AccountRepo repository.AccountRepository
	Revoked     auth.RevocationList
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	// unknown emails must pay the same bcrypt cost as stored hashes
	dummyHash, err := auth.NewDummyHash(cfg.BcryptCost)
	if err != nil {
		logger.Error("build dummy password hash", zap.Error(err))
	}
	return &AuthService{
		users:      deps.UserRepo,
		accounts:   deps.AccountRepo,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL(), cfg.AdminTokenTTL()),
		revoked:    deps.Revoked,
		bcryptCost: cfg.BcryptCost,
		dummyHash:  dummyHash,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Register creates a regular account, and the artist profile for artists, and logs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	email := strings.TrimSpace(in.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", apperrors.MapError(err)
	}

	role := in.Role
	if role == "" {
		role = domain.AccountRoleFan
	}
	if !role.Valid() {
		return nil, "", apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	var artist *domain.Artist
	if role == domain.AccountRoleArtist {
		artist = &domain.Artist{Name: user.Username}
	}
	if err := s.accounts.CreateAccount(ctx, user, artist); err != nil {
		return nil, "", apperrors.MapError(err)
	}

	token, _, err := s.tokenMgr.GenerateToken(user.ID, domain.AudienceUser)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	s.logger.Info("account registered", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, token, nil
}

// Login authenticates an account for the given audience. The admin audience only
// accepts accounts flagged as administrators.
func (s *AuthService) Login(ctx context.Context, audience domain.Audience, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			auth.BurnCompare(s.dummyHash, password)
			s.metrics.RecordAuth(string(audience), "unknown_email")
			return nil, "", apperrors.NewUnauthorized(invalidCredentials)
		}
		return nil, "", apperrors.MapError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.metrics.RecordAuth(string(audience), "bad_password")
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, "", apperrors.NewUnauthorized(invalidCredentials)
		}
		return nil, "", apperrors.NewInternalError(err)
	}

	if audience == domain.AudienceAdmin && !user.IsAdmin {
		s.metrics.RecordAuth(string(audience), "not_admin")
		s.logger.Warn("non-admin account attempted admin login", zap.String("user_id", user.ID))
		return nil, "", apperrors.NewUnauthorized(invalidCredentials)
	}

	token, _, err := s.tokenMgr.GenerateToken(user.ID, audience)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	s.metrics.RecordAuth(string(audience), "success")
	return user, token, nil
}

// Logout revokes the token described by claims until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revoked == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.logger.Info("token revoked", zap.String("user_id", claims.SubjectID()), zap.String("space", string(claims.Audience)))
	return nil
}

// EnsureAdmin creates the bootstrap administrator when no account uses email yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	username := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}
	admin := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.AccountRoleFan,
		IsAdmin:      true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("bootstrap administrator created", zap.String("user_id", admin.ID))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

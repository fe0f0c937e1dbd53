package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/fanfund/internal/domain"
	"github.com/spec-kit/fanfund/internal/repository"
	apperrors "github.com/spec-kit/fanfund/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User   *domain.User
	Claims *Claims
}

// AuthMiddleware validates bearer tokens for one audience and loads the account.
type AuthMiddleware struct {
	tokens   *TokenManager
	users    repository.UserRepository
	revoked  RevocationList
	audience domain.Audience
	logger   *zap.Logger
}

// NewAuthMiddleware constructs middleware. A nil revocation list disables the denylist check.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, revoked RevocationList, audience domain.Audience, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, users: users, revoked: revoked, audience: audience, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.Audience != m.audience {
		return apperrors.NewUnauthorized("token issued for another space")
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			// an unreachable denylist must not let revoked tokens through
			m.logger.Error("revocation lookup failed", zap.Error(err))
			return apperrors.NewDomainError("UNAVAILABLE", "session check unavailable", fiber.StatusServiceUnavailable, nil)
		}
		if revoked {
			return apperrors.NewUnauthorized("token revoked")
		}
	}

	user, err := m.users.GetByID(c.UserContext(), claims.SubjectID())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if m.audience == domain.AudienceAdmin && !user.IsAdmin {
		return apperrors.NewUnauthorized("administrator required")
	}

	c.Locals(principalKey, &Principal{User: user, Claims: claims})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

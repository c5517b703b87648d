package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/observability"
	"github.com/spec-kit/auth-service/internal/repository"
)

const identityKey = "auth_identity"

// Gate is the per-request authentication middleware. It extracts a bearer
// token, verifies it, resolves the subject against the user directory, and
// attaches an AuthenticatedIdentity to the request. Authentication is
// optional at this layer: every failure leaves the request unauthenticated
// and continues the chain, so an invalid token never produces a 401 by
// itself. Downstream authorization decides whether to reject.
type Gate struct {
	validator *Validator
	users     repository.UserRepository
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewGate constructs the middleware.
func NewGate(validator *Validator, users repository.UserRepository, logger *zap.Logger, metrics *observability.Metrics) *Gate {
	return &Gate{validator: validator, users: users, logger: logger, metrics: metrics}
}

// Handle runs the gate for one request. It calls the next handler exactly
// once regardless of outcome, and never re-runs extraction when an earlier
// pass already authenticated the request.
func (g *Gate) Handle(c *fiber.Ctx) error {
	if _, ok := IdentityFromContext(c); ok {
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		g.metrics.RecordAuthOutcome("pass_through")
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		// Treated like a missing header, not an error.
		g.metrics.RecordAuthOutcome("pass_through")
		return c.Next()
	}
	tokenStr := parts[1]

	subject, err := g.validator.ExtractSubject(tokenStr)
	if err != nil {
		g.logger.Debug("bearer token rejected", zap.Error(err))
		g.metrics.RecordAuthOutcome("rejected_token")
		return c.Next()
	}

	user, err := g.users.GetByEmail(c.Context(), subject)
	if err != nil {
		g.logger.Debug("token subject unknown", zap.String("subject", subject), zap.Error(err))
		g.metrics.RecordAuthOutcome("rejected_token")
		return c.Next()
	}

	claims, err := g.validator.Verify(tokenStr, user.Email, time.Now())
	if err != nil {
		g.logger.Debug("token verification failed", zap.String("subject", subject), zap.Error(err))
		g.metrics.RecordAuthOutcome("rejected_token")
		return c.Next()
	}

	g.metrics.RecordAuthOutcome("authenticated")

	c.Locals(identityKey, &domain.AuthenticatedIdentity{
		Principal: user.Email,
		Roles:     claims.Roles,
		User:      user,
	})
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity, if any.
func IdentityFromContext(c *fiber.Ctx) (*domain.AuthenticatedIdentity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.AuthenticatedIdentity)
	return identity, ok
}

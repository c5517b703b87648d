package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/repository"
)

// Credential and refresh failure classes surfaced to handlers. Unknown
// principal and wrong password collapse into ErrBadCredentials so the
// response cannot be used to enumerate accounts.
var (
	ErrBadCredentials      = errors.New("bad credentials")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUnknownPrincipal    = errors.New("unknown principal")
)

// AuthService coordinates registration, login, and token refresh.
type AuthService struct {
	users         repository.UserRepository
	issuer        *auth.Issuer
	validator     *auth.Validator
	dispatcher    events.Dispatcher
	bcryptCost    int
	rotateRefresh bool
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Issuer     *auth.Issuer
	Validator  *auth.Validator
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:         deps.UserRepo,
		issuer:        deps.Issuer,
		validator:     deps.Validator,
		dispatcher:    deps.Dispatcher,
		bcryptCost:    cfg.BcryptCost,
		rotateRefresh: cfg.RotateRefreshTokens,
	}
}

// Register creates a new account with role USER and issues a token pair,
// treating registration as an implicit first login.
func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, password string) (*auth.TokenPair, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.issuer.Issue(user.Email, user.Roles(), time.Now())
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.Email, events.UserRegisteredPayload{
		UserID: user.ID,
		Role:   string(user.Role),
	})
	return pair, nil
}

// Authenticate verifies credentials and issues a token pair. The error for
// an unknown email is indistinguishable from a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrBadCredentials
	}

	pair, err := s.issuer.Issue(user.Email, user.Roles(), time.Now())
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserAuthenticated, user.Email, nil)
	return pair, nil
}

// Refresh verifies the presented refresh token and issues a new pair. The
// token's subject is extracted first, the current user record is loaded,
// and the token is then fully verified against that record, so a forged,
// expired, or mismatched token is rejected before issuance. Roles on the
// new access token come from the current user record, not the old token,
// so a role change takes effect on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	subject, err := s.validator.ExtractSubject(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnknownPrincipal
		}
		return nil, err
	}

	if _, err := s.validator.Verify(refreshToken, user.Email, time.Now()); err != nil {
		return nil, err
	}

	pair, err := s.issuer.Issue(user.Email, user.Roles(), time.Now())
	if err != nil {
		return nil, err
	}
	if !s.rotateRefresh {
		pair.RefreshToken = refreshToken
	}

	s.publish(ctx, events.EventTokenRefreshed, user.Email, events.TokenRefreshedPayload{
		Rotated: s.rotateRefresh,
	})
	return pair, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, principal string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Principal: principal,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

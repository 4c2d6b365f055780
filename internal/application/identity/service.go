package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appnotification "github.com/promanage/backend/internal/application/notification"
	"github.com/promanage/backend/internal/domain/identity"
	"github.com/promanage/backend/internal/domain/shared"
	"github.com/promanage/backend/internal/infrastructure/auth"
)

// Service owns login and manager-driven employee onboarding
type Service struct {
	profiles      identity.Repository
	jwt           *auth.JWTService
	notifier      *appnotification.Service
	clientBaseURL string
	logger        *zap.Logger
}

// NewService creates an identity service
func NewService(
	profiles identity.Repository,
	jwt *auth.JWTService,
	notifier *appnotification.Service,
	clientBaseURL string,
	logger *zap.Logger,
) *Service {
	return &Service{
		profiles:      profiles,
		jwt:           jwt,
		notifier:      notifier,
		clientBaseURL: clientBaseURL,
		logger:        logger,
	}
}

// Login checks the credential and issues a token. Unknown email and wrong
// password both map to ErrUnauthorized so the response does not leak which
// half failed.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	p, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if p.PasswordHash == "" {
		return nil, shared.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrUnauthorized
	}

	token, expiresAt, err := s.jwt.GenerateToken(p)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Profile: p}, nil
}

// CreateEmployee onboards a new employee under the acting manager. The
// welcome email is best effort and never fails the operation.
func (s *Service) CreateEmployee(ctx context.Context, actorID uuid.UUID, in CreateEmployeeInput) (*CreateEmployeeResult, error) {
	actor, err := s.profiles.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsManager() {
		return nil, shared.ErrForbidden
	}

	if existing, err := s.profiles.FindByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	p, err := identity.NewProfile(in.Email, in.FullName, identity.RoleEmployee)
	if err != nil {
		return nil, err
	}
	if err := p.SetManager(actorID); err != nil {
		return nil, err
	}

	inviteLink := ""
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		p.PasswordHash = string(hash)
	} else {
		inviteLink = fmt.Sprintf("%s/invite?token=%s", s.clientBaseURL, uuid.NewString())
	}

	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, err
	}

	result := s.notifier.SendWelcome(ctx, p.Email, p.FullName, inviteLink)
	if !result.Success {
		s.logger.Warn("welcome email failed",
			zap.String("email", p.Email),
			zap.String("error", result.Error))
	}

	return &CreateEmployeeResult{Profile: p, InviteLink: inviteLink}, nil
}

// Get returns one profile
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	return s.profiles.FindByID(ctx, id)
}

// ListEmployees returns the employees reporting to a manager
func (s *Service) ListEmployees(ctx context.Context, managerID uuid.UUID) ([]identity.Profile, error) {
	return s.profiles.FindByManager(ctx, managerID)
}

// UpdatePreferences replaces the user's notification preferences
func (s *Service) UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs identity.NotificationPreferences) (*identity.Profile, error) {
	p, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Preferences = prefs
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

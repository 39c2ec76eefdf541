package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fomongole/User-Management-Api/internal/auth"
	apperrors "github.com/fomongole/User-Management-Api/internal/errors"
	"github.com/fomongole/User-Management-Api/internal/mail"
	"github.com/fomongole/User-Management-Api/internal/model"
	"github.com/fomongole/User-Management-Api/internal/repository"
)

// PasswordTooLongMessage is shown when a password exceeds the bcrypt input limit.
const PasswordTooLongMessage = "Password must be 72 bytes or fewer"

// RegisterInput carries the fields a new user signs up with.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is a user summary paired with a freshly issued session token.
type AuthResult struct {
	User  model.SafeUser
	Token string
}

// AuthService handles registration, verification and login.
type AuthService interface {
	// Register creates an unverified user and mails the verification link,
	// rooted at baseURL. The user is removed again if the mail cannot be sent.
	Register(ctx context.Context, input RegisterInput, baseURL string) error
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// VerifyEmail consumes a plain verification token and returns a session token.
	VerifyEmail(ctx context.Context, plainToken string) (string, error)
}

type authService struct {
	repo       repository.UserRepository
	users      *UserCache
	jwtService *auth.JWTService
	mailer     mail.Sender
	clock      Clock
	log        logrus.FieldLogger
}

// NewAuthService creates a new authentication service.
func NewAuthService(repo repository.UserRepository, users *UserCache, jwtService *auth.JWTService, mailer mail.Sender, clock Clock, log logrus.FieldLogger) AuthService {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &authService{
		repo:       repo,
		users:      users,
		jwtService: jwtService,
		mailer:     mailer,
		clock:      clock,
		log:        log.WithField("component", "auth_service"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword reports input bcrypt cannot take as a validation error.
func hashPassword(plaintext string) (string, error) {
	hash, err := auth.HashPassword(plaintext)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", apperrors.NewValidationError(PasswordTooLongMessage)
	}
	return hash, err
}

func (s *authService) Register(ctx context.Context, input RegisterInput, baseURL string) error {
	email := normalizeEmail(input.Email)

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return apperrors.ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("check user existence: %w", err)
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return err
	}

	token, err := auth.IssueVerificationToken(s.clock.Now())
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}

	user := &model.User{
		ID:                      uuid.NewString(),
		Name:                    strings.TrimSpace(input.Name),
		Email:                   email,
		PasswordHash:            hash,
		Role:                    model.RoleUser,
		IsVerified:              false,
		VerificationTokenHash:   &token.Hash,
		VerificationTokenExpiry: &token.ExpiresAt,
	}

	// Two concurrent registrations both pass the lookup; the unique index decides.
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return apperrors.ErrDuplicateKey
		}
		return fmt.Errorf("create user: %w", err)
	}

	msg := mail.NewVerificationMessage(user.Email, mail.VerificationURL(baseURL, token.Plain))
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("verification email failed, rolling back registration")
		if delErr := s.repo.Delete(ctx, user.ID); delErr != nil && !errors.Is(delErr, repository.ErrNotFound) {
			s.log.WithError(delErr).WithField("user_id", user.ID).Error("rollback of unverified user failed")
		}
		return apperrors.ErrEmailNotSent
	}

	s.log.WithField("user_id", user.ID).Info("user registered, verification pending")
	return nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.MatchPassword(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user.Safe(), Token: token}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, plainToken string) (string, error) {
	if strings.TrimSpace(plainToken) == "" {
		return "", apperrors.ErrInvalidVerificationToken
	}

	user, err := s.repo.ConsumeVerificationToken(ctx, auth.HashToken(plainToken), s.clock.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return "", apperrors.ErrInvalidVerificationToken
	}
	if err != nil {
		return "", fmt.Errorf("consume verification token: %w", err)
	}
	s.users.Invalidate(ctx, user.ID)

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	s.log.WithField("user_id", user.ID).Info("email verified")
	return token, nil
}

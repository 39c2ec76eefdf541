package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fomongole/User-Management-Api/internal/auth"
	apperrors "github.com/fomongole/User-Management-Api/internal/errors"
	"github.com/fomongole/User-Management-Api/internal/model"
	"github.com/fomongole/User-Management-Api/internal/repository"
)

// UpdateProfileInput holds the optional profile changes. Nil fields are left as is.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UserService exposes profile and admin user operations.
type UserService interface {
	GetProfile(ctx context.Context, id string) (*model.SafeUser, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*AuthResult, error)
	DeleteProfile(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	repo       repository.UserRepository
	users      *UserCache
	jwtService *auth.JWTService
	log        logrus.FieldLogger
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, users *UserCache, jwtService *auth.JWTService, log logrus.FieldLogger) UserService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &userService{
		repo:       repo,
		users:      users,
		jwtService: jwtService,
		log:        log.WithField("component", "user_service"),
	}
}

func (s *userService) GetProfile(ctx context.Context, id string) (*model.SafeUser, error) {
	return s.users.Resolve(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*AuthResult, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	err = s.repo.Update(ctx, user)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.users.Invalidate(ctx, id)
		return nil, apperrors.ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicateKey):
		return nil, apperrors.ErrDuplicateKey
	case err != nil:
		return nil, fmt.Errorf("update user: %w", err)
	}
	// After the write commits, so a concurrent miss cannot re-cache the old row for long.
	s.users.Invalidate(ctx, id)

	token, err := s.jwtService.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user.Safe(), Token: token}, nil
}

func (s *userService) DeleteProfile(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}

func (s *userService) delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		s.users.Invalidate(ctx, id)
		return apperrors.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.users.Invalidate(ctx, id)
	s.log.WithField("user_id", id).Info("user deleted")
	return nil
}

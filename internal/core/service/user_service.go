package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

// UserService is the administrative user surface.
type UserService struct {
	repo       ports.UserRepository
	bcryptCost int
	logger     zerolog.Logger
}

func NewUserService(repo ports.UserRepository, bcryptCost int, logger zerolog.Logger) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, bcryptCost: bcryptCost, logger: logger}
}

func (s *UserService) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, filter.Role)
	}
	return s.repo.List(ctx, filter)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Create adds a user with any role. Callers must already hold users:write.
func (s *UserService) Create(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	user, err := createUser(ctx, s.repo, input, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	if err := s.checkActor(ctx, id, input); err != nil {
		return nil, err
	}

	patch := ports.UserPatch{
		Phone:      input.Phone,
		FlatNumber: input.FlatNumber,
		Role:       input.Role,
		IsActive:   input.IsActive,
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
		}
		patch.Name = &name
	}
	if input.Role != nil && !input.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, *input.Role)
	}
	if input.Password != nil {
		if *input.Password == "" {
			return nil, fmt.Errorf("%w: password cannot be empty", domain.ErrValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		patch.PasswordHash = &h
	}

	return s.repo.Update(ctx, id, patch)
}

// checkActor keeps role, activation and admin accounts under admin control.
func (s *UserService) checkActor(ctx context.Context, id string, input ports.UpdateUserInput) error {
	if input.Actor == nil || input.Actor.Role == domain.RoleAdmin {
		return nil
	}
	if input.Role != nil || input.IsActive != nil {
		return fmt.Errorf("%w: only an admin may change role or activation", domain.ErrForbidden)
	}
	if input.Actor.ID == id {
		return nil
	}
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleAdmin {
		return fmt.Errorf("%w: only an admin may edit an admin account", domain.ErrForbidden)
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

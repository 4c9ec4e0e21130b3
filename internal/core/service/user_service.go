package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

const minPasswordLength = 6

var validate = validator.New()

// UserService implements administration of user accounts.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Create registers an account. Role defaults to CAPTURISTA and status to ACTIVO.
func (s *UserService) Create(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalid("nombre is required")
	}
	if in.Email == nil || strings.TrimSpace(*in.Email) == "" {
		return nil, domain.Invalid("correo is required")
	}
	if in.Password == nil {
		return nil, domain.Invalid("password is required")
	}

	user := &domain.User{Role: domain.RoleCapturista, Status: domain.StatusActive}
	if err := s.apply(ctx, user, in); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info().Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}

func (s *UserService) Update(ctx context.Context, id int64, in ports.UserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, user, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return user, nil
}

// Toggle flips the account between ACTIVO and INACTIVO.
func (s *UserService) Toggle(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Status = user.Status.Toggle()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("toggle user %d: %w", id, err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	s.log.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) apply(ctx context.Context, user *domain.User, in ports.UserInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.Invalid("nombre cannot be empty")
		}
		user.Name = name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if err := validate.Var(email, "required,email"); err != nil {
			return domain.Invalid("correo must be a valid email")
		}
		if email != user.Email {
			existing, err := s.repo.FindByEmail(ctx, email)
			if err == nil && existing.ID != user.ID {
				return domain.Conflict(fmt.Sprintf("email %s is already registered", email))
			}
		}
		user.Email = email
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return domain.Invalid(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return domain.Invalid(fmt.Sprintf("invalid rol %q", *in.Role))
		}
		user.Role = *in.Role
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return domain.Invalid(fmt.Sprintf("invalid estatus %q", *in.Status))
		}
		user.Status = *in.Status
	}
	return nil
}

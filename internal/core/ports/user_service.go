package ports

import (
	"context"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

// UserInput carries admin edits to an account. Password is re-hashed when set.
type UserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *domain.Role
	Status   *domain.Status
}

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, in UserInput) (*domain.User, error)
	Update(ctx context.Context, id int64, in UserInput) (*domain.User, error)
	Toggle(ctx context.Context, id int64) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

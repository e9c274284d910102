package repository

import (
	"context"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User y sus roles (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id entity.UserID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// AssignRole es idempotente: asignar un rol ya presente no falla.
	AssignRole(ctx context.Context, userID entity.UserID, role entity.RoleName) error
	GetRoles(ctx context.Context, userID entity.UserID) ([]*entity.Role, error)
}

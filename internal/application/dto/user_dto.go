package dto

import (
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// CreateUserRequest alta de usuario. Password opcional (se hashea en el use case); Roles opcionales.
type CreateUserRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	DisplayName string   `json:"display_name" validate:"required,min=1,max=200"`
	Kind        string   `json:"kind" validate:"required,oneof=admin employee external"`
	Password    string   `json:"password,omitempty" validate:"omitempty,min=8"`
	Roles       []string `json:"roles,omitempty"`
}

// AssignRoleRequest nombre de rol a asignar.
type AssignRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Kind        string    `json:"kind"`
	IsActive    bool      `json:"is_active"`
	Roles       []string  `json:"roles"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserListResponse listado paginado de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// RoleResponse rol con sus permisos.
type RoleResponse struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y perfil.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // segundos
	User      UserResponse `json:"user"`
}

// UserFromEntity mapea usuario y roles.
func UserFromEntity(u *entity.User, roles []*entity.Role) UserResponse {
	return UserResponse{
		ID:          string(u.ID),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Kind:        string(u.Kind),
		IsActive:    u.IsActive,
		Roles:       entity.RoleNames(roles),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// RolesFromEntities mapea roles con permisos.
func RolesFromEntities(roles []*entity.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		perms := make([]string, len(r.Permissions))
		for i, p := range r.Permissions {
			perms[i] = string(p)
		}
		out = append(out, RoleResponse{Name: string(r.Name), Permissions: perms})
	}
	return out
}

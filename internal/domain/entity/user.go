package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain"
)

// UserKind tipo de usuario.
type UserKind string

const (
	UserKindAdmin    UserKind = "admin"
	UserKindEmployee UserKind = "employee"
	UserKindExternal UserKind = "external"
)

// User representa una identidad del sistema. Los roles viven en una tabla aparte
// (user_roles) y nunca se embeben aquí: actualizar el perfil no puede escalar privilegios.
type User struct {
	ID           UserID
	Email        string
	DisplayName  string
	Kind         UserKind
	IsActive     bool
	PasswordHash string // bcrypt; vacío = sin acceso por contraseña
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser valida y normaliza (email en minúsculas).
func NewUser(u User) (*User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.DisplayName = strings.TrimSpace(u.DisplayName)
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return nil, domain.NewValidationError("User email must be a non-empty, valid email address.")
	}
	if u.DisplayName == "" {
		return nil, domain.NewValidationError("User display name is required.")
	}
	switch u.Kind {
	case UserKindAdmin, UserKindEmployee, UserKindExternal:
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("Unknown user kind: %s", u.Kind))
	}
	return &u, nil
}

// IsAdmin true para usuarios de tipo admin.
func (u *User) IsAdmin() bool { return u.Kind == UserKindAdmin }

// Deactivate devuelve una copia inactiva.
func (u *User) Deactivate(now time.Time) *User {
	next := *u
	next.IsActive = false
	next.UpdatedAt = now
	return &next
}

// Activate devuelve una copia activa.
func (u *User) Activate(now time.Time) *User {
	next := *u
	next.IsActive = true
	next.UpdatedAt = now
	return &next
}

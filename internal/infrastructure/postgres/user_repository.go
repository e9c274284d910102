package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, email, display_name, kind, is_active, password_hash, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db Querier) *UserRepo {
	return &UserRepo{db: db}
}

// Create persiste un nuevo usuario. Email repetido -> ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`
	_, err := r.db.Exec(ctx, query,
		string(user.ID), user.Email, user.DisplayName, string(user.Kind), user.IsActive,
		user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id entity.UserID) (*entity.User, error) {
	if !isUUID(string(id)) {
		return nil, nil
	}
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, string(id))
}

// GetByEmail busca por email normalizado.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = lower($1)`, email)
}

func (r *UserRepo) get(ctx context.Context, query, arg string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// List usuarios con paginación, más recientes primero.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	list, err := collectRows(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return list, nil
}

// Update actualiza perfil y estado; los roles no se tocan aquí.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	if !isUUID(string(user.ID)) {
		return domain.ErrUserNotFound
	}
	query := `
		UPDATE users
		SET email = $2, display_name = $3, kind = $4, is_active = $5, password_hash = NULLIF($6, ''), updated_at = $7
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		string(user.ID), user.Email, user.DisplayName, string(user.Kind), user.IsActive, user.PasswordHash, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// AssignRole agrega el rol al usuario; si ya lo tenía no hace nada.
func (r *UserRepo) AssignRole(ctx context.Context, userID entity.UserID, role entity.RoleName) error {
	if !isUUID(string(userID)) {
		return domain.ErrUserNotFound
	}
	query := `
		INSERT INTO user_roles (user_id, role_name, assigned_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, role_name) DO NOTHING`
	if _, err := r.db.Exec(ctx, query, string(userID), string(role)); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

// GetRoles roles del usuario con sus permisos, en orden de asignación.
func (r *UserRepo) GetRoles(ctx context.Context, userID entity.UserID) ([]*entity.Role, error) {
	if !isUUID(string(userID)) {
		return []*entity.Role{}, nil
	}
	query := `
		SELECT r.name, r.permissions
		FROM user_roles ur
		JOIN roles r ON r.name = ur.role_name
		WHERE ur.user_id = $1
		ORDER BY ur.assigned_at, r.name`
	rows, err := r.db.Query(ctx, query, string(userID))
	if err != nil {
		return nil, fmt.Errorf("get roles: %w", err)
	}
	roles, err := collectRows(rows, scanRole)
	if err != nil {
		return nil, fmt.Errorf("scan role: %w", err)
	}
	return roles, nil
}

func scanUser(row rowScanner) (*entity.User, error) {
	var (
		id, email, displayName, kind string
		isActive                     bool
		passwordHash                 *string
		createdAt, updatedAt         time.Time
	)
	if err := row.Scan(&id, &email, &displayName, &kind, &isActive, &passwordHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	u := entity.User{
		ID:          entity.UserID(id),
		Email:       email,
		DisplayName: displayName,
		Kind:        entity.UserKind(kind),
		IsActive:    isActive,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	return entity.NewUser(u)
}

func scanRole(row rowScanner) (*entity.Role, error) {
	var (
		name  string
		perms []string
	)
	if err := row.Scan(&name, &perms); err != nil {
		return nil, err
	}
	permissions := make([]entity.Permission, len(perms))
	for i, p := range perms {
		permissions[i] = entity.Permission(p)
	}
	return entity.NewRole(entity.RoleName(name), permissions)
}

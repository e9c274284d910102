package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ecolend-api/internal/application/audit"
	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/application/ports"
	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios y roles.
type UserUseCase struct {
	txRunner IdentityTxRunner
	repo     repository.UserRepository
	sessions ports.SessionRevoker
	now      func() time.Time
}

// NewUserUseCase construye el caso de uso. sessions puede ser nil (sin revocación).
func NewUserUseCase(txRunner IdentityTxRunner, repo repository.UserRepository, sessions ports.SessionRevoker) *UserUseCase {
	if sessions == nil {
		sessions = ports.NoopSessionRevoker{}
	}
	return &UserUseCase{
		txRunner: txRunner,
		repo:     repo,
		sessions: sessions,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateUser crea un usuario activo. Los roles se validan antes de tocar la BD.
func (uc *UserUseCase) CreateUser(ctx context.Context, performedBy string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	roleNames := make([]entity.RoleName, 0, len(in.Roles))
	for _, r := range in.Roles {
		name, err := entity.ParseRoleName(r)
		if err != nil {
			return nil, err
		}
		roleNames = append(roleNames, name)
	}

	var hash string
	if in.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(h)
	}

	now := uc.now()
	user, err := entity.NewUser(entity.User{
		ID:           entity.UserID(uuid.New().String()),
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		Kind:         entity.UserKind(in.Kind),
		IsActive:     true,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	var roles []*entity.Role
	err = uc.txRunner.RunIdentity(ctx, func(userRepo repository.UserRepository, auditRepo repository.AuditLogRepository) error {
		existing, err := userRepo.GetByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		for _, name := range roleNames {
			if err := userRepo.AssignRole(ctx, user.ID, name); err != nil {
				return err
			}
		}
		if roles, err = userRepo.GetRoles(ctx, user.ID); err != nil {
			return err
		}
		return audit.Record(ctx, auditRepo, audit.Entry{
			Action:     entity.AuditUserCreated,
			EntityType: entity.AuditEntityUser,
			EntityID:   string(user.ID),
			By:         actor(performedBy, user.ID),
			At:         now,
			Metadata:   map[string]any{"email": user.Email, "roles": entity.RoleNames(roles)},
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.UserFromEntity(user, roles)
	return &out, nil
}

// GetUser perfil con roles.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.mustGet(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	roles, err := uc.repo.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	out := dto.UserFromEntity(user, roles)
	return &out, nil
}

// ActivateUser reactiva al usuario y restaura sus sesiones. Ya activo = no-op.
func (uc *UserUseCase) ActivateUser(ctx context.Context, performedBy, id string) (*dto.UserResponse, error) {
	out, err := uc.setActive(ctx, performedBy, id, true)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Restore(ctx, id); err != nil {
		return nil, fmt.Errorf("restore sessions: %w", err)
	}
	return out, nil
}

// DeactivateUser desactiva al usuario y revoca sus tokens. La revocación se repite aunque
// el usuario ya estuviera inactivo, así un reintento completa una revocación fallida.
func (uc *UserUseCase) DeactivateUser(ctx context.Context, performedBy, id string) (*dto.UserResponse, error) {
	out, err := uc.setActive(ctx, performedBy, id, false)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Revoke(ctx, id); err != nil {
		return nil, fmt.Errorf("revoke sessions: %w", err)
	}
	return out, nil
}

func (uc *UserUseCase) setActive(ctx context.Context, performedBy, id string, active bool) (*dto.UserResponse, error) {
	now := uc.now()
	var (
		user  *entity.User
		roles []*entity.Role
	)
	err := uc.txRunner.RunIdentity(ctx, func(userRepo repository.UserRepository, auditRepo repository.AuditLogRepository) error {
		current, err := uc.mustGet(ctx, userRepo, id)
		if err != nil {
			return err
		}
		if roles, err = userRepo.GetRoles(ctx, current.ID); err != nil {
			return err
		}
		if current.IsActive == active {
			user = current
			return nil
		}

		action := entity.AuditUserDeactivated
		next := current.Deactivate(now)
		if active {
			action = entity.AuditUserActivated
			next = current.Activate(now)
		}
		if err := userRepo.Update(ctx, next); err != nil {
			return err
		}
		user = next
		return audit.Record(ctx, auditRepo, audit.Entry{
			Action:     action,
			EntityType: entity.AuditEntityUser,
			EntityID:   string(next.ID),
			By:         entity.UserID(performedBy),
			At:         now,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.UserFromEntity(user, roles)
	return &out, nil
}

// AssignRole asigna un rol (idempotente) y devuelve los roles resultantes.
func (uc *UserUseCase) AssignRole(ctx context.Context, performedBy, userID, role string) ([]dto.RoleResponse, error) {
	name, err := entity.ParseRoleName(role)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	var roles []*entity.Role
	err = uc.txRunner.RunIdentity(ctx, func(userRepo repository.UserRepository, auditRepo repository.AuditLogRepository) error {
		user, err := uc.mustGet(ctx, userRepo, userID)
		if err != nil {
			return err
		}
		if err := userRepo.AssignRole(ctx, user.ID, name); err != nil {
			return err
		}
		if roles, err = userRepo.GetRoles(ctx, user.ID); err != nil {
			return err
		}
		return audit.Record(ctx, auditRepo, audit.Entry{
			Action:     entity.AuditRoleAssigned,
			EntityType: entity.AuditEntityUser,
			EntityID:   string(user.ID),
			By:         entity.UserID(performedBy),
			At:         now,
			Metadata:   map[string]any{"role": string(name)},
		})
	})
	if err != nil {
		return nil, err
	}
	return dto.RolesFromEntities(roles), nil
}

// ListUsers listado paginado con roles.
func (uc *UserUseCase) ListUsers(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		roles, err := uc.repo.GetRoles(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.UserFromEntity(u, roles))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetRoles roles del usuario con sus permisos.
func (uc *UserUseCase) GetRoles(ctx context.Context, userID string) ([]dto.RoleResponse, error) {
	user, err := uc.mustGet(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}
	roles, err := uc.repo.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return dto.RolesFromEntities(roles), nil
}

// HasPermission consulta los roles vigentes en la BD; usuarios inexistentes o inactivos no tienen permisos.
func (uc *UserUseCase) HasPermission(ctx context.Context, userID string, p entity.Permission) (bool, error) {
	user, err := uc.repo.GetByID(ctx, entity.UserID(userID))
	if err != nil {
		return false, err
	}
	if user == nil || !user.IsActive {
		return false, nil
	}
	roles, err := uc.repo.GetRoles(ctx, user.ID)
	if err != nil {
		return false, err
	}
	return entity.HasAnyPermission(roles, p), nil
}

func (uc *UserUseCase) mustGet(ctx context.Context, repo repository.UserRepository, id string) (*entity.User, error) {
	user, err := repo.GetByID(ctx, entity.UserID(id))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// actor usuario que figura en la auditoría; el propio usuario si no hay caller (bootstrap).
func actor(performedBy string, self entity.UserID) entity.UserID {
	if performedBy == "" {
		return self
	}
	return entity.UserID(performedBy)
}

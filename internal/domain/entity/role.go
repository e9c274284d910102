package entity

import (
	"fmt"

	"github.com/jhoicas/ecolend-api/internal/domain"
)

// Permission capacidad atómica que un rol puede otorgar.
type Permission string

const (
	PermManageSystem      Permission = "MANAGE_SYSTEM"
	PermManageUsers       Permission = "MANAGE_USERS"
	PermViewUsers         Permission = "VIEW_USERS"
	PermViewData          Permission = "VIEW_DATA"
	PermEditData          Permission = "EDIT_DATA"
	PermManageOperations  Permission = "MANAGE_OPERATIONS"
	PermExecuteOperations Permission = "EXECUTE_OPERATIONS"
	PermViewAssignedTasks Permission = "VIEW_ASSIGNED_TASKS"
	PermViewReports       Permission = "VIEW_REPORTS"
	PermManageCompliance  Permission = "MANAGE_COMPLIANCE"
)

// PermissionImplies MANAGE_SYSTEM implica todo; cualquier otro permiso solo se implica a sí mismo.
func PermissionImplies(granted, required Permission) bool {
	return granted == PermManageSystem || granted == required
}

// RoleName nombres de rol soportados.
type RoleName string

const (
	RoleAdmin             RoleName = "ADMIN"
	RoleOperationsManager RoleName = "OPERATIONS_MANAGER"
	RoleFieldTechnician   RoleName = "FIELD_TECHNICIAN"
	RoleComplianceESG     RoleName = "COMPLIANCE_ESG"
)

// ParseRoleName convierte s en RoleName o devuelve ErrUnknownRole.
func ParseRoleName(s string) (RoleName, error) {
	switch n := RoleName(s); n {
	case RoleAdmin, RoleOperationsManager, RoleFieldTechnician, RoleComplianceESG:
		return n, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnknownRole, s)
}

// DefaultPermissions mapeo fijo rol -> permisos usado al aprovisionar roles.
func DefaultPermissions(name RoleName) ([]Permission, error) {
	switch name {
	case RoleAdmin:
		return []Permission{PermManageSystem}, nil
	case RoleOperationsManager:
		return []Permission{PermManageOperations, PermViewReports}, nil
	case RoleFieldTechnician:
		return []Permission{PermExecuteOperations, PermViewAssignedTasks}, nil
	case RoleComplianceESG:
		return []Permission{PermViewReports, PermManageCompliance}, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRole, name)
}

// Role conjunto no vacío y sin duplicados de permisos.
type Role struct {
	Name        RoleName
	Permissions []Permission
}

// NewRole valida el nombre y colapsa permisos duplicados conservando el orden.
func NewRole(name RoleName, perms []Permission) (*Role, error) {
	if _, err := ParseRoleName(string(name)); err != nil {
		return nil, err
	}
	if len(perms) == 0 {
		return nil, domain.NewValidationError("Role must define at least one permission.")
	}
	seen := make(map[Permission]struct{}, len(perms))
	unique := make([]Permission, 0, len(perms))
	for _, p := range perms {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}
	return &Role{Name: name, Permissions: unique}, nil
}

// RoleFor construye el rol con sus permisos por defecto.
func RoleFor(name RoleName) (*Role, error) {
	perms, err := DefaultPermissions(name)
	if err != nil {
		return nil, err
	}
	return NewRole(name, perms)
}

// HasPermission true si algún permiso del rol implica p.
func (r *Role) HasPermission(p Permission) bool {
	for _, granted := range r.Permissions {
		if PermissionImplies(granted, p) {
			return true
		}
	}
	return false
}

// HasAnyPermission true si alguno de los roles otorga p.
func HasAnyPermission(roles []*Role, p Permission) bool {
	for _, r := range roles {
		if r != nil && r.HasPermission(p) {
			return true
		}
	}
	return false
}

// RoleNames extrae los nombres de una lista de roles.
func RoleNames(roles []*Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r.Name))
	}
	return out
}

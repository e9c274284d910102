package usecase

import (
	"context"

	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

// EquipmentTxRunner transacción para cambios de equipo; incluye préstamos para validar el borrado.
type EquipmentTxRunner interface {
	RunEquipment(ctx context.Context, fn func(
		equipmentRepo repository.EquipmentRepository,
		loanRepo repository.LoanRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// IdentityTxRunner transacción para usuarios, roles y su auditoría.
type IdentityTxRunner interface {
	RunIdentity(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

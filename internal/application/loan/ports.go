package loan

import (
	"context"

	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Equipo, préstamo y auditoría se confirman juntos o no se confirma nada.
// userRepo permite verificar al prestatario dentro de la misma transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		equipmentRepo repository.EquipmentRepository,
		loanRepo repository.LoanRepository,
		userRepo repository.UserRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

package loan

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ecolend-api/internal/application/audit"
	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/application/ports"
	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

// LoanUseCase ciclo de vida del préstamo: checkout, devolución y reporte de daño.
// Toda mutación corre en una transacción con la fila del equipo bloqueada (SELECT FOR UPDATE),
// así dos checkouts simultáneos nunca reservan más unidades de las que existen.
type LoanUseCase struct {
	txRunner TxRunner
	loanRepo repository.LoanRepository
	observer ports.LoanObserver
	now      func() time.Time
}

// NewLoanUseCase construye el caso de uso. observer puede ser nil.
func NewLoanUseCase(txRunner TxRunner, loanRepo repository.LoanRepository, observer ports.LoanObserver) *LoanUseCase {
	if observer == nil {
		observer = ports.NoopLoanObserver{}
	}
	return &LoanUseCase{
		txRunner: txRunner,
		loanRepo: loanRepo,
		observer: observer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *LoanUseCase) WithClock(now func() time.Time) *LoanUseCase {
	uc.now = now
	return uc
}

// CreateLoanInput checkout de unidades de un equipo por un usuario.
type CreateLoanInput struct {
	UserID      string
	EquipmentID string
	Quantity    int
}

// ReturnLoanInput devolución. AsManager indica que el caller tiene MANAGE_OPERATIONS.
type ReturnLoanInput struct {
	LoanID      string
	PerformedBy string
	AsManager   bool
}

// MarkDamagedInput devolución con daño; Comment obligatorio.
type MarkDamagedInput struct {
	ReturnLoanInput
	Comment string
}

// Create reserva unidades y crea el préstamo ACTIVE.
func (uc *LoanUseCase) Create(ctx context.Context, in CreateLoanInput) (*dto.LoanResponse, error) {
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("Loan quantity must be positive.")
	}
	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.EquipmentID) == "" {
		return nil, domain.NewValidationError("Loan user and equipment are required.")
	}
	now := uc.now()

	var created *entity.Loan
	err := uc.txRunner.Run(ctx, func(
		equipmentRepo repository.EquipmentRepository,
		loanRepo repository.LoanRepository,
		userRepo repository.UserRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		// ── 0. Solo un usuario existente y activo puede tomar equipo ──
		borrower, err := userRepo.GetByID(ctx, entity.UserID(in.UserID))
		if err != nil {
			return err
		}
		if borrower == nil {
			return domain.ErrUserNotFound
		}
		if !borrower.IsActive {
			return domain.ErrForbidden
		}

		// ── 1. Bloquear equipo y revalidar disponibilidad dentro del lock ──
		equipment, err := equipmentRepo.GetByIDForUpdate(ctx, entity.EquipmentID(in.EquipmentID))
		if err != nil {
			return err
		}
		if equipment == nil {
			return domain.ErrEquipmentNotFound
		}
		reserved, err := equipment.Reserve(in.Quantity, now)
		if err != nil {
			return err
		}

		// ── 2. Préstamo + equipo ──
		loan, err := entity.NewLoan(entity.Loan{
			ID:          entity.LoanID(uuid.New().String()),
			UserID:      entity.UserID(in.UserID),
			EquipmentID: equipment.ID,
			Quantity:    in.Quantity,
			Status:      entity.LoanActive,
			CreatedAt:   now,
		})
		if err != nil {
			return err
		}
		if err := loanRepo.Create(ctx, loan); err != nil {
			return err
		}
		if err := equipmentRepo.Update(ctx, reserved); err != nil {
			return err
		}

		// ── 3. Auditoría en la misma transacción ──
		if err := audit.Record(ctx, auditRepo, audit.Entry{
			Action:     entity.AuditLoanCreated,
			EntityType: entity.AuditEntityLoan,
			EntityID:   string(loan.ID),
			By:         loan.UserID,
			At:         now,
			Metadata: map[string]any{
				"equipment_id": string(loan.EquipmentID),
				"quantity":     loan.Quantity,
			},
		}); err != nil {
			return err
		}
		created = loan
		return nil
	})
	if err != nil {
		uc.observer.LoanRejected("create", RejectionReason(err))
		return nil, err
	}

	uc.observer.LoanCreated(created)
	out := dto.LoanFromEntity(created)
	return &out, nil
}

// Return cierra el préstamo como RETURNED y libera sus unidades.
func (uc *LoanUseCase) Return(ctx context.Context, in ReturnLoanInput) (*dto.LoanResponse, error) {
	return uc.settle(ctx, "return", in, func(l *entity.Loan, now time.Time) (*entity.Loan, error) {
		return l.MarkAsReturned(now)
	}, entity.AuditLoanReturned, nil)
}

// MarkDamaged cierra el préstamo como DAMAGED con comentario y libera sus unidades.
func (uc *LoanUseCase) MarkDamaged(ctx context.Context, in MarkDamagedInput) (*dto.LoanResponse, error) {
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, domain.NewValidationError("Damage comment is required.")
	}
	return uc.settle(ctx, "damage", in.ReturnLoanInput, func(l *entity.Loan, now time.Time) (*entity.Loan, error) {
		return l.MarkAsDamaged(comment, now)
	}, entity.AuditLoanDamaged, map[string]any{"comment": comment})
}

// settle flujo común de devolución: las unidades se liberan exactamente una vez porque
// la fila del préstamo queda bloqueada y un préstamo no activo se rechaza.
func (uc *LoanUseCase) settle(
	ctx context.Context,
	op string,
	in ReturnLoanInput,
	transition func(*entity.Loan, time.Time) (*entity.Loan, error),
	action string,
	extra map[string]any,
) (*dto.LoanResponse, error) {
	if strings.TrimSpace(in.LoanID) == "" {
		return nil, domain.NewValidationError("Loan id is required.")
	}
	now := uc.now()

	var settled *entity.Loan
	err := uc.txRunner.Run(ctx, func(
		equipmentRepo repository.EquipmentRepository,
		loanRepo repository.LoanRepository,
		_ repository.UserRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		loan, err := loanRepo.GetByIDForUpdate(ctx, entity.LoanID(in.LoanID))
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.ErrLoanNotFound
		}
		if string(loan.UserID) != in.PerformedBy && !in.AsManager {
			return domain.ErrForbidden
		}
		next, err := transition(loan, now)
		if err != nil {
			return err
		}

		equipment, err := equipmentRepo.GetByIDForUpdate(ctx, loan.EquipmentID)
		if err != nil {
			return err
		}
		if equipment == nil {
			return domain.ErrEquipmentNotFound
		}
		released, err := equipment.Release(loan.Quantity, now)
		if err != nil {
			return err
		}

		if err := loanRepo.Update(ctx, next); err != nil {
			return err
		}
		if err := equipmentRepo.Update(ctx, released); err != nil {
			return err
		}

		meta := map[string]any{
			"equipment_id": string(loan.EquipmentID),
			"quantity":     loan.Quantity,
		}
		for k, v := range extra {
			meta[k] = v
		}
		if err := audit.Record(ctx, auditRepo, audit.Entry{
			Action:     action,
			EntityType: entity.AuditEntityLoan,
			EntityID:   string(loan.ID),
			By:         entity.UserID(in.PerformedBy),
			At:         now,
			Metadata:   meta,
		}); err != nil {
			return err
		}
		settled = next
		return nil
	})
	if err != nil {
		uc.observer.LoanRejected(op, RejectionReason(err))
		return nil, err
	}

	uc.observer.LoanSettled(settled)
	out := dto.LoanFromEntity(settled)
	return &out, nil
}

// RejectionReason clasifica el error para métricas y logs.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientAvailability):
		return "insufficient_availability"
	case errors.Is(err, domain.ErrEquipmentDiscarded):
		return "discarded"
	case errors.Is(err, domain.ErrLoanNotActive):
		return "not_active"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "internal"
	}
}

// ListActive préstamos abiertos.
func (uc *LoanUseCase) ListActive(ctx context.Context) ([]dto.LoanResponse, error) {
	list, err := uc.loanRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return dto.LoansFromEntities(list), nil
}

// ListByUser historial del usuario.
func (uc *LoanUseCase) ListByUser(ctx context.Context, userID string) ([]dto.LoanResponse, error) {
	list, err := uc.loanRepo.ListByUser(ctx, entity.UserID(userID))
	if err != nil {
		return nil, err
	}
	return dto.LoansFromEntities(list), nil
}

// ListActiveByEquipment préstamos abiertos de un equipo.
func (uc *LoanUseCase) ListActiveByEquipment(ctx context.Context, equipmentID string) ([]dto.LoanResponse, error) {
	list, err := uc.loanRepo.ListActiveByEquipment(ctx, entity.EquipmentID(equipmentID))
	if err != nil {
		return nil, err
	}
	return dto.LoansFromEntities(list), nil
}

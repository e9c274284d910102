package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ecolend-api/internal/application/audit"
	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

// EquipmentUseCase CRUD del catálogo de equipos. QuantityInUse solo cambia vía préstamos.
type EquipmentUseCase struct {
	txRunner EquipmentTxRunner
	repo     repository.EquipmentRepository
	now      func() time.Time
}

// NewEquipmentUseCase construye el caso de uso.
func NewEquipmentUseCase(txRunner EquipmentTxRunner, repo repository.EquipmentRepository) *EquipmentUseCase {
	return &EquipmentUseCase{
		txRunner: txRunner,
		repo:     repo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create da de alta un equipo con QuantityInUse = 0.
func (uc *EquipmentUseCase) Create(ctx context.Context, performedBy string, in dto.CreateEquipmentRequest) (*dto.EquipmentResponse, error) {
	status := entity.EquipmentStatus(in.Status)
	if status == "" {
		status = entity.EquipmentAvailable
	}
	now := uc.now()
	e, err := entity.NewEquipment(entity.Equipment{
		ID:            entity.EquipmentID(uuid.New().String()),
		Name:          in.Name,
		Category:      in.Category,
		Certification: in.Certification,
		Status:        status,
		TotalQuantity: in.TotalQuantity,
		QuantityInUse: 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.RunEquipment(ctx, func(
		equipmentRepo repository.EquipmentRepository,
		_ repository.LoanRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		if err := equipmentRepo.Create(ctx, e); err != nil {
			return err
		}
		return audit.Record(ctx, auditRepo, audit.Entry{
			Action:     entity.AuditEquipmentCreated,
			EntityType: entity.AuditEntityEquipment,
			EntityID:   string(e.ID),
			By:         entity.UserID(performedBy),
			At:         now,
			Metadata:   map[string]any{"name": e.Name, "total_quantity": e.TotalQuantity},
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.EquipmentFromEntity(e)
	return &out, nil
}

// GetByID devuelve ErrEquipmentNotFound si no existe.
func (uc *EquipmentUseCase) GetByID(ctx context.Context, id string) (*dto.EquipmentResponse, error) {
	e, err := uc.repo.GetByID(ctx, entity.EquipmentID(id))
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrEquipmentNotFound
	}
	out := dto.EquipmentFromEntity(e)
	return &out, nil
}

// List catálogo completo.
func (uc *EquipmentUseCase) List(ctx context.Context) ([]dto.EquipmentResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EquipmentResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.EquipmentFromEntity(e))
	}
	return items, nil
}

// Update aplica cambios parciales con la fila bloqueada; un total menor a las unidades prestadas falla.
func (uc *EquipmentUseCase) Update(ctx context.Context, performedBy, id string, in dto.UpdateEquipmentRequest) (*dto.EquipmentResponse, error) {
	changes := entity.EquipmentChanges{
		Name:               in.Name,
		Category:           in.Category,
		Certification:      in.Certification,
		ClearCertification: in.ClearCertification,
		TotalQuantity:      in.TotalQuantity,
	}
	if in.Status != nil {
		s := entity.EquipmentStatus(*in.Status)
		changes.Status = &s
	}
	now := uc.now()

	var updated *entity.Equipment
	err := uc.txRunner.RunEquipment(ctx, func(
		equipmentRepo repository.EquipmentRepository,
		_ repository.LoanRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		current, err := equipmentRepo.GetByIDForUpdate(ctx, entity.EquipmentID(id))
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrEquipmentNotFound
		}
		next, err := current.Update(changes, now)
		if err != nil {
			return err
		}
		if err := equipmentRepo.Update(ctx, next); err != nil {
			return err
		}
		updated = next
		return audit.Record(ctx, auditRepo, audit.Entry{
			Action:     entity.AuditEquipmentUpdated,
			EntityType: entity.AuditEntityEquipment,
			EntityID:   string(next.ID),
			By:         entity.UserID(performedBy),
			At:         now,
			Metadata:   changedFields(current, next),
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.EquipmentFromEntity(updated)
	return &out, nil
}

// Delete rechaza el borrado mientras haya préstamos activos.
func (uc *EquipmentUseCase) Delete(ctx context.Context, performedBy, id string) error {
	now := uc.now()
	return uc.txRunner.RunEquipment(ctx, func(
		equipmentRepo repository.EquipmentRepository,
		loanRepo repository.LoanRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		current, err := equipmentRepo.GetByIDForUpdate(ctx, entity.EquipmentID(id))
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrEquipmentNotFound
		}
		active, err := loanRepo.ListActiveByEquipment(ctx, current.ID)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			return domain.ErrEquipmentHasActiveLoans
		}
		if err := equipmentRepo.Delete(ctx, current.ID); err != nil {
			return err
		}
		return audit.Record(ctx, auditRepo, audit.Entry{
			Action:     entity.AuditEquipmentDeleted,
			EntityType: entity.AuditEntityEquipment,
			EntityID:   string(current.ID),
			By:         entity.UserID(performedBy),
			At:         now,
			Metadata:   map[string]any{"name": current.Name},
		})
	})
}

// changedFields metadatos de auditoría: solo los campos que cambiaron, con su nuevo valor.
func changedFields(before, after *entity.Equipment) map[string]any {
	out := map[string]any{}
	if before.Name != after.Name {
		out["name"] = after.Name
	}
	if before.Category != after.Category {
		out["category"] = after.Category
	}
	if before.Status != after.Status {
		out["status"] = string(after.Status)
	}
	if before.TotalQuantity != after.TotalQuantity {
		out["total_quantity"] = after.TotalQuantity
	}
	if (before.Certification == nil) != (after.Certification == nil) ||
		(before.Certification != nil && *before.Certification != *after.Certification) {
		out["certification"] = dtoOptional(after.Certification)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func dtoOptional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

package analytics

import (
	"context"

	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

// AuditLogUseCase lectura paginada de la bitácora, más recientes primero.
type AuditLogUseCase struct {
	repo repository.AuditLogRepository
}

// NewAuditLogUseCase construye el caso de uso.
func NewAuditLogUseCase(repo repository.AuditLogRepository) *AuditLogUseCase {
	return &AuditLogUseCase{repo: repo}
}

// List limit <= 0 usa 100, limit > 500 se recorta; offset negativo = 0.
func (uc *AuditLogUseCase) List(ctx context.Context, limit, offset int) (*dto.AuditLogListResponse, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditLogResponse, 0, len(list))
	for _, a := range list {
		items = append(items, dto.AuditLogFromEntity(a))
	}
	return &dto.AuditLogListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

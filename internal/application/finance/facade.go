// Package finance agrupa los casos de uso de proveedores, contratos, facturas y gastos.
package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/ecolend-api/internal/application/audit"
	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

// overviewWindow cantidad de gastos y facturas abiertas recientes que entran al resumen.
const overviewWindow = 10

const dateLayout = "2006-01-02"

// Facade punto único de entrada del módulo financiero.
type Facade struct {
	txRunner FinanceTxRunner
	repos    Repositories
	now      func() time.Time
}

// NewFacade construye la fachada.
func NewFacade(txRunner FinanceTxRunner, repos Repositories) *Facade {
	return &Facade{
		txRunner: txRunner,
		repos:    repos,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (f *Facade) WithClock(now func() time.Time) *Facade {
	f.now = now
	return f
}

// ──────────────────────────────────────────────────────────────────────────────
// Resumen
// ──────────────────────────────────────────────────────────────────────────────

// Overview totales por moneda: todos los contratos, los últimos 10 gastos y las últimas 10 facturas abiertas.
func (f *Facade) Overview(ctx context.Context) (*dto.FinancialOverviewDTO, error) {
	var (
		contracts []*entity.Contract
		expenses  []*entity.Expense
		invoices  []*entity.Invoice
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		contracts, err = f.repos.Contracts.List(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = f.repos.Expenses.ListRecent(gctx, overviewWindow)
		return err
	})
	g.Go(func() (err error) {
		invoices, err = f.repos.Invoices.ListRecentOpen(gctx, overviewWindow)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("finance overview: %w", err)
	}

	out := &dto.FinancialOverviewDTO{
		ContractsTotalByCurrency:    map[string]decimal.Decimal{},
		ExpensesTotalByCurrency:     map[string]decimal.Decimal{},
		OpenInvoicesTotalByCurrency: map[string]decimal.Decimal{},
	}
	for _, c := range contracts {
		addTo(out.ContractsTotalByCurrency, c.Currency, c.Value)
	}
	for _, e := range expenses {
		addTo(out.ExpensesTotalByCurrency, e.Currency, e.Amount)
	}
	for _, i := range invoices {
		if !i.IsOpen() {
			continue
		}
		addTo(out.OpenInvoicesTotalByCurrency, i.Currency, i.Amount)
	}
	return out, nil
}

func addTo(m map[string]decimal.Decimal, currency string, v decimal.Decimal) {
	m[currency] = m[currency].Add(v)
}

// ──────────────────────────────────────────────────────────────────────────────
// Proveedores
// ──────────────────────────────────────────────────────────────────────────────

// ListSuppliers todos los proveedores.
func (f *Facade) ListSuppliers(ctx context.Context) ([]dto.SupplierResponse, error) {
	list, err := f.repos.Suppliers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SupplierFromEntity(s))
	}
	return out, nil
}

// CreateSupplier alta con tipo EQUIPMENT por defecto y estado ACTIVE.
func (f *Facade) CreateSupplier(ctx context.Context, performedBy string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	serviceType := entity.SupplierServiceType(in.ServiceType)
	if serviceType == "" {
		serviceType = entity.ServiceEquipment
	}
	now := f.now()
	s, err := entity.NewSupplier(entity.Supplier{
		ID:             entity.SupplierID(uuid.New().String()),
		Name:           in.Name,
		ServiceType:    serviceType,
		ContactInfo:    in.ContactInfo,
		Certifications: in.Certifications,
		Status:         entity.SupplierActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, err
	}
	err = f.txRunner.RunFinance(ctx, func(
		supplierRepo repository.SupplierRepository,
		_ repository.ContractRepository,
		_ repository.InvoiceRepository,
		_ repository.ExpenseRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		if err := supplierRepo.Create(ctx, s); err != nil {
			return err
		}
		return audit.Record(ctx, auditRepo, audit.Entry{
			Action: entity.AuditSupplierCreated, EntityType: entity.AuditEntitySupplier,
			EntityID: string(s.ID), By: entity.UserID(performedBy), At: now,
			Metadata: map[string]any{"name": s.Name},
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.SupplierFromEntity(s)
	return &out, nil
}

// UpdateSupplier cambios parciales.
func (f *Facade) UpdateSupplier(ctx context.Context, performedBy, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	changes := entity.SupplierChanges{
		Name:           in.Name,
		ContactInfo:    in.ContactInfo,
		Certifications: in.Certifications,
	}
	if in.ServiceType != nil {
		st := entity.SupplierServiceType(*in.ServiceType)
		changes.ServiceType = &st
	}
	if in.Status != nil {
		st := entity.SupplierStatus(*in.Status)
		changes.Status = &st
	}
	now := f.now()

	var updated *entity.Supplier
	err := f.txRunner.RunFinance(ctx, func(
		supplierRepo repository.SupplierRepository,
		_ repository.ContractRepository,
		_ repository.InvoiceRepository,
		_ repository.ExpenseRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		current, err := supplierRepo.GetByID(ctx, entity.SupplierID(id))
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrSupplierNotFound
		}
		next, err := current.Update(changes, now)
		if err != nil {
			return err
		}
		if err := supplierRepo.Update(ctx, next); err != nil {
			return err
		}
		updated = next
		return audit.Record(ctx, auditRepo, audit.Entry{
			Action: entity.AuditSupplierUpdated, EntityType: entity.AuditEntitySupplier,
			EntityID: string(next.ID), By: entity.UserID(performedBy), At: now,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.SupplierFromEntity(updated)
	return &out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Contratos
// ──────────────────────────────────────────────────────────────────────────────

// ListContracts todos, o solo los del proveedor si supplierID no está vacío.
func (f *Facade) ListContracts(ctx context.Context, supplierID string) ([]dto.ContractResponse, error) {
	var filter *entity.SupplierID
	if supplierID != "" {
		id := entity.SupplierID(supplierID)
		filter = &id
	}
	list, err := f.repos.Contracts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContractResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ContractFromEntity(c))
	}
	return out, nil
}

// CreateContract el proveedor debe existir.
func (f *Facade) CreateContract(ctx context.Context, performedBy string, in dto.CreateContractRequest) (*dto.ContractResponse, error) {
	start, err := parseDate("start date", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end date", in.EndDate)
	if err != nil {
		return nil, err
	}
	var project *entity.ProjectID
	if in.ProjectID != nil && strings.TrimSpace(*in.ProjectID) != "" {
		p := entity.ProjectID(strings.TrimSpace(*in.ProjectID))
		project = &p
	}
	now := f.now()
	c, err := entity.NewContract(entity.Contract{
		ID:          entity.ContractID(uuid.New().String()),
		SupplierID:  entity.SupplierID(in.SupplierID),
		ProjectID:   project,
		Title:       in.Title,
		Description: in.Description,
		StartDate:   start,
		EndDate:     end,
		Value:       in.Value,
		Currency:    in.Currency,
		Status:      entity.ContractActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, now)
	if err != nil {
		return nil, err
	}

	err = f.txRunner.RunFinance(ctx, func(
		supplierRepo repository.SupplierRepository,
		contractRepo repository.ContractRepository,
		_ repository.InvoiceRepository,
		_ repository.ExpenseRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		if err := requireSupplier(ctx, supplierRepo, c.SupplierID); err != nil {
			return err
		}
		if err := contractRepo.Create(ctx, c); err != nil {
			return err
		}
		return audit.Record(ctx, auditRepo, audit.Entry{
			Action: entity.AuditContractCreated, EntityType: entity.AuditEntityContract,
			EntityID: string(c.ID), By: entity.UserID(performedBy), At: now,
			Metadata: map[string]any{"supplier_id": string(c.SupplierID), "value": c.Value.String(), "currency": c.Currency},
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ContractFromEntity(c)
	return &out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas
// ──────────────────────────────────────────────────────────────────────────────

// ListInvoices todas las facturas con su estado recalculado.
func (f *Facade) ListInvoices(ctx context.Context) ([]dto.InvoiceResponse, error) {
	list, err := f.repos.Invoices.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, i := range list {
		out = append(out, dto.InvoiceFromEntity(i))
	}
	return out, nil
}

// CreateInvoice el proveedor se toma del contrato.
func (f *Facade) CreateInvoice(ctx context.Context, performedBy string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	due, err := parseDate("due date", in.DueDate)
	if err != nil {
		return nil, err
	}
	now := f.now()

	var created *entity.Invoice
	err = f.txRunner.RunFinance(ctx, func(
		_ repository.SupplierRepository,
		contractRepo repository.ContractRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.ExpenseRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		contract, err := contractRepo.GetByID(ctx, entity.ContractID(in.ContractID))
		if err != nil {
			return err
		}
		if contract == nil {
			return domain.ErrContractNotFound
		}
		inv, err := entity.NewInvoice(entity.Invoice{
			ID:          entity.InvoiceID(uuid.New().String()),
			SupplierID:  contract.SupplierID,
			ContractID:  contract.ID,
			Amount:      in.Amount,
			Currency:    in.Currency,
			DueDate:     due,
			Status:      entity.InvoicePending,
			DocumentURL: in.DocumentURL,
			CreatedAt:   now,
		}, now)
		if err != nil {
			return err
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		created = inv
		return audit.Record(ctx, auditRepo, audit.Entry{
			Action: entity.AuditInvoiceCreated, EntityType: entity.AuditEntityInvoice,
			EntityID: string(inv.ID), By: entity.UserID(performedBy), At: now,
			Metadata: map[string]any{"contract_id": string(inv.ContractID), "amount": inv.Amount.String(), "currency": inv.Currency},
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.InvoiceFromEntity(created)
	return &out, nil
}

// MarkInvoicePaid PENDING/OVERDUE -> PAID; una factura ya pagada devuelve ErrConflict.
func (f *Facade) MarkInvoicePaid(ctx context.Context, performedBy, id string) (*dto.InvoiceResponse, error) {
	now := f.now()
	var paid *entity.Invoice
	err := f.txRunner.RunFinance(ctx, func(
		_ repository.SupplierRepository,
		_ repository.ContractRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.ExpenseRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		inv, err := invoiceRepo.GetByID(ctx, entity.InvoiceID(id))
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		next, err := inv.MarkPaid(now)
		if err != nil {
			return err
		}
		if err := invoiceRepo.Update(ctx, next); err != nil {
			return err
		}
		paid = next
		return audit.Record(ctx, auditRepo, audit.Entry{
			Action: entity.AuditInvoicePaid, EntityType: entity.AuditEntityInvoice,
			EntityID: string(next.ID), By: entity.UserID(performedBy), At: now,
			Metadata: map[string]any{"previous_status": string(inv.Status)},
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.InvoiceFromEntity(paid)
	return &out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Gastos
// ──────────────────────────────────────────────────────────────────────────────

// CreateExpense el proveedor debe existir.
func (f *Facade) CreateExpense(ctx context.Context, performedBy string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if in.IncurredAt.IsZero() {
		return nil, domain.NewValidationError("Expense incurred date is required.")
	}
	var project *entity.ProjectID
	if in.ProjectID != nil && strings.TrimSpace(*in.ProjectID) != "" {
		p := entity.ProjectID(strings.TrimSpace(*in.ProjectID))
		project = &p
	}
	now := f.now()
	e, err := entity.NewExpense(entity.Expense{
		ID:          entity.ExpenseID(uuid.New().String()),
		ProjectID:   project,
		SupplierID:  entity.SupplierID(in.SupplierID),
		Category:    in.Category,
		Amount:      in.Amount,
		Currency:    in.Currency,
		IncurredAt:  in.IncurredAt.UTC(),
		Description: in.Description,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, err
	}
	err = f.txRunner.RunFinance(ctx, func(
		supplierRepo repository.SupplierRepository,
		_ repository.ContractRepository,
		_ repository.InvoiceRepository,
		expenseRepo repository.ExpenseRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		if err := requireSupplier(ctx, supplierRepo, e.SupplierID); err != nil {
			return err
		}
		if err := expenseRepo.Create(ctx, e); err != nil {
			return err
		}
		return audit.Record(ctx, auditRepo, audit.Entry{
			Action: entity.AuditExpenseCreated, EntityType: entity.AuditEntityExpense,
			EntityID: string(e.ID), By: entity.UserID(performedBy), At: now,
			Metadata: map[string]any{"category": e.Category, "amount": e.Amount.String(), "currency": e.Currency},
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.ExpenseFromEntity(e)
	return &out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Job de estados
// ──────────────────────────────────────────────────────────────────────────────

// RefreshStatuses persiste los estados derivados: contratos vencidos -> EXPIRED, facturas vencidas -> OVERDUE.
// Las lecturas ya devuelven el estado correcto; esto mantiene la BD alineada para consultas externas.
func (f *Facade) RefreshStatuses(ctx context.Context, now time.Time) (*dto.RefreshResult, error) {
	var res dto.RefreshResult
	err := f.txRunner.RunFinance(ctx, func(
		_ repository.SupplierRepository,
		contractRepo repository.ContractRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.ExpenseRepository,
		_ repository.AuditLogRepository,
	) error {
		n, err := contractRepo.ExpireEnded(ctx, now)
		if err != nil {
			return err
		}
		res.ContractsExpired = n
		if n, err = invoiceRepo.MarkOverdue(ctx, now); err != nil {
			return err
		}
		res.InvoicesOverdue = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func requireSupplier(ctx context.Context, repo repository.SupplierRepository, id entity.SupplierID) error {
	s, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrSupplierNotFound
	}
	return nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, domain.NewValidationError(fmt.Sprintf("Invalid %s: %q (expected YYYY-MM-DD).", field, s))
	}
	return t, nil
}

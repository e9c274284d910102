package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// CreateSupplierRequest alta de proveedor. ServiceType vacío = EQUIPMENT.
type CreateSupplierRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	ServiceType    string  `json:"service_type,omitempty" validate:"omitempty,oneof=EQUIPMENT MAINTENANCE WASTE_DISPOSAL CONSULTING"`
	ContactInfo    *string `json:"contact_info,omitempty"`
	Certifications *string `json:"certifications,omitempty"`
}

// UpdateSupplierRequest cambios parciales.
type UpdateSupplierRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,max=200"`
	ServiceType    *string `json:"service_type,omitempty" validate:"omitempty,oneof=EQUIPMENT MAINTENANCE WASTE_DISPOSAL CONSULTING"`
	ContactInfo    *string `json:"contact_info,omitempty"`
	Certifications *string `json:"certifications,omitempty"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

type SupplierResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ServiceType    string    `json:"service_type"`
	ContactInfo    *string   `json:"contact_info,omitempty"`
	Certifications *string   `json:"certifications,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateContractRequest fechas en formato YYYY-MM-DD.
type CreateContractRequest struct {
	SupplierID  string          `json:"supplier_id" validate:"required"`
	ProjectID   *string         `json:"project_id,omitempty"`
	Title       string          `json:"title" validate:"required,max=300"`
	Description *string         `json:"description,omitempty"`
	StartDate   string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string          `json:"end_date" validate:"required,datetime=2006-01-02"`
	Value       decimal.Decimal `json:"value"`
	Currency    string          `json:"currency" validate:"required,len=3"`
}

type ContractResponse struct {
	ID          string          `json:"id"`
	SupplierID  string          `json:"supplier_id"`
	ProjectID   *string         `json:"project_id,omitempty"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Value       decimal.Decimal `json:"value"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
}

type CreateInvoiceRequest struct {
	ContractID  string          `json:"contract_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" validate:"required,len=3"`
	DueDate     string          `json:"due_date" validate:"required,datetime=2006-01-02"`
	DocumentURL string          `json:"document_url" validate:"required,url"`
}

type InvoiceResponse struct {
	ID          string          `json:"id"`
	SupplierID  string          `json:"supplier_id"`
	ContractID  string          `json:"contract_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	DueDate     string          `json:"due_date"`
	Status      string          `json:"status"`
	DocumentURL string          `json:"document_url"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CreateExpenseRequest struct {
	SupplierID  string          `json:"supplier_id" validate:"required"`
	ProjectID   *string         `json:"project_id,omitempty"`
	Category    string          `json:"category" validate:"required,max=100"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" validate:"required,len=3"`
	IncurredAt  time.Time       `json:"incurred_at" validate:"required"`
	Description *string         `json:"description,omitempty"`
}

type ExpenseResponse struct {
	ID          string          `json:"id"`
	SupplierID  string          `json:"supplier_id"`
	ProjectID   *string         `json:"project_id,omitempty"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	IncurredAt  time.Time       `json:"incurred_at"`
	Description *string         `json:"description,omitempty"`
}

// FinancialOverviewDTO totales por moneda.
type FinancialOverviewDTO struct {
	ContractsTotalByCurrency    map[string]decimal.Decimal `json:"contracts_total_by_currency"`
	ExpensesTotalByCurrency     map[string]decimal.Decimal `json:"expenses_total_by_currency"`
	OpenInvoicesTotalByCurrency map[string]decimal.Decimal `json:"open_invoices_total_by_currency"`
}

// RefreshResult filas cambiadas por el job de estados.
type RefreshResult struct {
	ContractsExpired int64 `json:"contracts_expired"`
	InvoicesOverdue  int64 `json:"invoices_overdue"`
}

const dateLayout = "2006-01-02"

func SupplierFromEntity(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:             string(s.ID),
		Name:           s.Name,
		ServiceType:    string(s.ServiceType),
		ContactInfo:    optionalString(s.ContactInfo),
		Certifications: optionalString(s.Certifications),
		Status:         string(s.Status),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func ContractFromEntity(c *entity.Contract) ContractResponse {
	var project *string
	if c.ProjectID != nil {
		p := string(*c.ProjectID)
		project = &p
	}
	return ContractResponse{
		ID:          string(c.ID),
		SupplierID:  string(c.SupplierID),
		ProjectID:   project,
		Title:       c.Title,
		Description: optionalString(c.Description),
		StartDate:   c.StartDate.UTC().Format(dateLayout),
		EndDate:     c.EndDate.UTC().Format(dateLayout),
		Value:       c.Value,
		Currency:    c.Currency,
		Status:      string(c.Status),
	}
}

func InvoiceFromEntity(i *entity.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:          string(i.ID),
		SupplierID:  string(i.SupplierID),
		ContractID:  string(i.ContractID),
		Amount:      i.Amount,
		Currency:    i.Currency,
		DueDate:     i.DueDate.UTC().Format(dateLayout),
		Status:      string(i.Status),
		DocumentURL: i.DocumentURL,
		CreatedAt:   i.CreatedAt,
	}
}

func ExpenseFromEntity(e *entity.Expense) ExpenseResponse {
	var project *string
	if e.ProjectID != nil {
		p := string(*e.ProjectID)
		project = &p
	}
	return ExpenseResponse{
		ID:          string(e.ID),
		SupplierID:  string(e.SupplierID),
		ProjectID:   project,
		Category:    e.Category,
		Amount:      e.Amount,
		Currency:    e.Currency,
		IncurredAt:  e.IncurredAt,
		Description: optionalString(e.Description),
	}
}

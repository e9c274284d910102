package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain"
)

// Acciones auditadas.
const (
	AuditLoanCreated      = "LOAN_CREATED"
	AuditLoanReturned     = "LOAN_RETURNED"
	AuditLoanDamaged      = "LOAN_DAMAGED"
	AuditEquipmentCreated = "EQUIPMENT_CREATED"
	AuditEquipmentUpdated = "EQUIPMENT_UPDATED"
	AuditEquipmentDeleted = "EQUIPMENT_DELETED"
	AuditUserCreated      = "USER_CREATED"
	AuditUserActivated    = "USER_ACTIVATED"
	AuditUserDeactivated  = "USER_DEACTIVATED"
	AuditRoleAssigned     = "ROLE_ASSIGNED"
	AuditSupplierCreated  = "SUPPLIER_CREATED"
	AuditSupplierUpdated  = "SUPPLIER_UPDATED"
	AuditContractCreated  = "CONTRACT_CREATED"
	AuditInvoiceCreated   = "INVOICE_CREATED"
	AuditInvoicePaid      = "INVOICE_PAID"
	AuditExpenseCreated   = "EXPENSE_CREATED"
)

// Tipos de entidad referenciados por la auditoría.
const (
	AuditEntityLoan      = "loan"
	AuditEntityEquipment = "equipment"
	AuditEntityUser      = "user"
	AuditEntitySupplier  = "supplier"
	AuditEntityContract  = "contract"
	AuditEntityInvoice   = "invoice"
	AuditEntityExpense   = "expense"
)

// AuditLog registro inmutable de una acción crítica. Solo se agrega; no existe update ni delete.
type AuditLog struct {
	ID                AuditLogID
	Action            string
	EntityType        string
	EntityID          *string
	PerformedByUserID UserID
	CreatedAt         time.Time
	Metadata          map[string]any
}

// NewAuditLog valida los campos obligatorios.
func NewAuditLog(a AuditLog) (*AuditLog, error) {
	a.Action = strings.TrimSpace(a.Action)
	a.EntityType = strings.TrimSpace(a.EntityType)
	switch {
	case a.ID == "":
		return nil, domain.NewValidationError("Audit log id is required.")
	case a.Action == "":
		return nil, domain.NewValidationError("Audit log action is required.")
	case a.EntityType == "":
		return nil, domain.NewValidationError("Audit log entity type is required.")
	case a.PerformedByUserID == "":
		return nil, domain.NewValidationError("Audit log performer is required.")
	case a.CreatedAt.IsZero():
		return nil, domain.NewValidationError("Audit log createdAt is required.")
	}
	return &a, nil
}

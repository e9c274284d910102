package entity

// Identificadores tipados: evitan mezclar IDs de entidades distintas en tiempo de compilación.
type (
	EquipmentID string
	LoanID      string
	UserID      string
	AuditLogID  string
	SupplierID  string
	ContractID  string
	InvoiceID   string
	ExpenseID   string
	ProjectID   string
)

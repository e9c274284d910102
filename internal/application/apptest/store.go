// Package apptest repositorios en memoria para probar los casos de uso sin base de datos.
//
// Store serializa las transacciones con un mutex y trabaja sobre una copia del estado:
// si la función devuelve error la copia se descarta (rollback), si no reemplaza al estado confirmado.
package apptest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/domain/esg"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
)

type state struct {
	equipment map[entity.EquipmentID]entity.Equipment
	loans     []entity.Loan
	users     []entity.User
	roles     map[entity.UserID][]entity.RoleName
	suppliers []entity.Supplier
	contracts []entity.Contract
	invoices  []entity.Invoice
	expenses  []entity.Expense
	audits    []entity.AuditLog
}

func newState() *state {
	return &state{
		equipment: map[entity.EquipmentID]entity.Equipment{},
		roles:     map[entity.UserID][]entity.RoleName{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.equipment {
		c.equipment[k] = v
	}
	for k, v := range s.roles {
		c.roles[k] = append([]entity.RoleName(nil), v...)
	}
	c.loans = append(c.loans, s.loans...)
	c.users = append(c.users, s.users...)
	c.suppliers = append(c.suppliers, s.suppliers...)
	c.contracts = append(c.contracts, s.contracts...)
	c.invoices = append(c.invoices, s.invoices...)
	c.expenses = append(c.expenses, s.expenses...)
	c.audits = append(c.audits, s.audits...)
	return c
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu   sync.Mutex
	data *state

	// FailAudit, si no es nil, lo devuelve cada escritura de auditoría.
	FailAudit error
	// FailLoanRecords, si no es nil, lo devuelve LoanRecords.
	FailLoanRecords error
	// Now reloj usado para recalcular estados financieros. Por defecto time.Now.
	Now func() time.Time
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{data: newState(), Now: time.Now}
}

func (s *Store) now() time.Time { return s.Now().UTC() }

// view ejecuta fn sobre el estado: el de la tx si existe, si no el confirmado bajo el mutex.
type view struct {
	s  *Store
	tx *state
}

func (v view) do(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	fn(v.s.data)
}

func (s *Store) inTx(fn func(v view) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.data.clone()
	if err := fn(view{s: s, tx: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

// ── TxRunner ──

// Run misma firma que el TxRunner de postgres.
func (s *Store) Run(ctx context.Context, fn func(
	equipmentRepo repository.EquipmentRepository,
	loanRepo repository.LoanRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return s.inTx(func(v view) error {
		return fn(&EquipmentRepo{v}, &LoanRepo{v}, &UserRepo{v}, &AuditRepo{v})
	})
}

// RunEquipment transacción del catálogo de equipos.
func (s *Store) RunEquipment(ctx context.Context, fn func(
	equipmentRepo repository.EquipmentRepository,
	loanRepo repository.LoanRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return s.inTx(func(v view) error {
		return fn(&EquipmentRepo{v}, &LoanRepo{v}, &AuditRepo{v})
	})
}

// RunIdentity transacción de usuarios + auditoría.
func (s *Store) RunIdentity(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return s.inTx(func(v view) error {
		return fn(&UserRepo{v}, &AuditRepo{v})
	})
}

// RunFinance transacción de finanzas + auditoría.
func (s *Store) RunFinance(ctx context.Context, fn func(
	supplierRepo repository.SupplierRepository,
	contractRepo repository.ContractRepository,
	invoiceRepo repository.InvoiceRepository,
	expenseRepo repository.ExpenseRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return s.inTx(func(v view) error {
		return fn(&SupplierRepo{v}, &ContractRepo{v}, &InvoiceRepo{v}, &ExpenseRepo{v}, &AuditRepo{v})
	})
}

// ── Accesores fuera de transacción ──

func (s *Store) Equipment() *EquipmentRepo { return &EquipmentRepo{view{s: s}} }
func (s *Store) Loans() *LoanRepo          { return &LoanRepo{view{s: s}} }
func (s *Store) Audit() *AuditRepo         { return &AuditRepo{view{s: s}} }
func (s *Store) Users() *UserRepo          { return &UserRepo{view{s: s}} }
func (s *Store) Suppliers() *SupplierRepo  { return &SupplierRepo{view{s: s}} }
func (s *Store) Contracts() *ContractRepo  { return &ContractRepo{view{s: s}} }
func (s *Store) Invoices() *InvoiceRepo    { return &InvoiceRepo{view{s: s}} }
func (s *Store) Expenses() *ExpenseRepo    { return &ExpenseRepo{view{s: s}} }
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{view{s: s}} }

// AuditActions acciones confirmadas, en orden de inserción.
func (s *Store) AuditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.data.audits))
	for _, a := range s.data.audits {
		out = append(out, a.Action)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Equipos y préstamos
// ──────────────────────────────────────────────────────────────────────────────

type EquipmentRepo struct{ v view }

func (r *EquipmentRepo) Create(_ context.Context, e *entity.Equipment) error {
	r.v.do(func(st *state) { st.equipment[e.ID] = *e })
	return nil
}

func (r *EquipmentRepo) GetByID(_ context.Context, id entity.EquipmentID) (*entity.Equipment, error) {
	var out *entity.Equipment
	r.v.do(func(st *state) {
		if e, ok := st.equipment[id]; ok {
			out = &e
		}
	})
	return out, nil
}

func (r *EquipmentRepo) GetByIDForUpdate(ctx context.Context, id entity.EquipmentID) (*entity.Equipment, error) {
	return r.GetByID(ctx, id)
}

func (r *EquipmentRepo) List(_ context.Context) ([]*entity.Equipment, error) {
	var out []*entity.Equipment
	r.v.do(func(st *state) {
		for _, e := range st.equipment {
			out = append(out, &e)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *EquipmentRepo) Update(_ context.Context, e *entity.Equipment) error {
	var err error
	r.v.do(func(st *state) {
		if _, ok := st.equipment[e.ID]; !ok {
			err = domain.ErrEquipmentNotFound
			return
		}
		st.equipment[e.ID] = *e
	})
	return err
}

func (r *EquipmentRepo) Delete(_ context.Context, id entity.EquipmentID) error {
	var err error
	r.v.do(func(st *state) {
		if _, ok := st.equipment[id]; !ok {
			err = domain.ErrEquipmentNotFound
			return
		}
		for _, l := range st.loans {
			if l.EquipmentID == id {
				err = domain.ErrConflict
				return
			}
		}
		delete(st.equipment, id)
	})
	return err
}

type LoanRepo struct{ v view }

func (r *LoanRepo) Create(_ context.Context, l *entity.Loan) error {
	r.v.do(func(st *state) { st.loans = append(st.loans, *l) })
	return nil
}

func (r *LoanRepo) GetByID(_ context.Context, id entity.LoanID) (*entity.Loan, error) {
	var out *entity.Loan
	r.v.do(func(st *state) {
		for _, l := range st.loans {
			if l.ID == id {
				out = &l
				return
			}
		}
	})
	return out, nil
}

func (r *LoanRepo) GetByIDForUpdate(ctx context.Context, id entity.LoanID) (*entity.Loan, error) {
	return r.GetByID(ctx, id)
}

func (r *LoanRepo) filter(keep func(entity.Loan) bool) []*entity.Loan {
	var out []*entity.Loan
	r.v.do(func(st *state) {
		for _, l := range st.loans {
			if keep(l) {
				out = append(out, &l)
			}
		}
	})
	return out
}

func (r *LoanRepo) ListByUser(_ context.Context, userID entity.UserID) ([]*entity.Loan, error) {
	return r.filter(func(l entity.Loan) bool { return l.UserID == userID }), nil
}

func (r *LoanRepo) ListActive(_ context.Context) ([]*entity.Loan, error) {
	return r.filter(func(l entity.Loan) bool { return l.IsActive() }), nil
}

func (r *LoanRepo) ListActiveByEquipment(_ context.Context, id entity.EquipmentID) ([]*entity.Loan, error) {
	return r.filter(func(l entity.Loan) bool { return l.IsActive() && l.EquipmentID == id }), nil
}

func (r *LoanRepo) Update(_ context.Context, l *entity.Loan) error {
	err := domain.ErrLoanNotFound
	r.v.do(func(st *state) {
		for i := range st.loans {
			if st.loans[i].ID == l.ID {
				st.loans[i] = *l
				err = nil
				return
			}
		}
	})
	return err
}

type AuditRepo struct{ v view }

func (r *AuditRepo) Create(_ context.Context, a *entity.AuditLog) error {
	if r.v.s.FailAudit != nil {
		return r.v.s.FailAudit
	}
	r.v.do(func(st *state) { st.audits = append(st.audits, *a) })
	return nil
}

func (r *AuditRepo) List(_ context.Context, limit, offset int) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	r.v.do(func(st *state) {
		for i := len(st.audits) - 1; i >= 0; i-- {
			a := st.audits[i]
			out = append(out, &a)
		}
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type AnalyticsRepo struct{ v view }

func (r *AnalyticsRepo) LoanRecords(_ context.Context, from, to time.Time) ([]esg.LoanRecord, error) {
	if r.v.s.FailLoanRecords != nil {
		return nil, r.v.s.FailLoanRecords
	}
	var out []esg.LoanRecord
	r.v.do(func(st *state) {
		for _, l := range st.loans {
			if l.CreatedAt.Before(from) || l.CreatedAt.After(to) {
				continue
			}
			out = append(out, esg.LoanRecord{CreatedAt: l.CreatedAt, Status: l.Status, Quantity: l.Quantity})
		}
	})
	return out, nil
}

func (r *AnalyticsRepo) StockOverview(_ context.Context) (repository.StockOverview, error) {
	var out repository.StockOverview
	r.v.do(func(st *state) {
		for _, e := range st.equipment {
			if e.Status == entity.EquipmentDiscarded {
				continue
			}
			out.TotalQuantity += int64(e.TotalQuantity)
			out.QuantityInUse += int64(e.QuantityInUse)
		}
		for _, l := range st.loans {
			if l.IsActive() {
				out.ActiveLoans++
			}
		}
	})
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Identidad
// ──────────────────────────────────────────────────────────────────────────────

type UserRepo struct{ v view }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	var err error
	r.v.do(func(st *state) {
		for _, existing := range st.users {
			if existing.Email == u.Email {
				err = domain.ErrEmailAlreadyExists
				return
			}
		}
		st.users = append(st.users, *u)
	})
	return err
}

func (r *UserRepo) find(match func(entity.User) bool) *entity.User {
	var out *entity.User
	r.v.do(func(st *state) {
		for _, u := range st.users {
			if match(u) {
				out = &u
				return
			}
		}
	})
	return out
}

func (r *UserRepo) GetByID(_ context.Context, id entity.UserID) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id }), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email }), nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	r.v.do(func(st *state) {
		for i, u := range st.users {
			if i < offset || len(out) >= limit {
				continue
			}
			out = append(out, &u)
		}
	})
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	err := domain.ErrUserNotFound
	r.v.do(func(st *state) {
		for i := range st.users {
			if st.users[i].ID == u.ID {
				st.users[i] = *u
				err = nil
				return
			}
		}
	})
	return err
}

func (r *UserRepo) AssignRole(_ context.Context, userID entity.UserID, role entity.RoleName) error {
	err := domain.ErrUserNotFound
	r.v.do(func(st *state) {
		for _, u := range st.users {
			if u.ID != userID {
				continue
			}
			err = nil
			for _, existing := range st.roles[userID] {
				if existing == role {
					return
				}
			}
			st.roles[userID] = append(st.roles[userID], role)
			return
		}
	})
	return err
}

func (r *UserRepo) GetRoles(_ context.Context, userID entity.UserID) ([]*entity.Role, error) {
	var names []entity.RoleName
	r.v.do(func(st *state) { names = append(names, st.roles[userID]...) })
	out := make([]*entity.Role, 0, len(names))
	for _, n := range names {
		role, err := entity.RoleFor(n)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Finanzas
// ──────────────────────────────────────────────────────────────────────────────

type SupplierRepo struct{ v view }

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.v.do(func(st *state) { st.suppliers = append(st.suppliers, *s) })
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id entity.SupplierID) (*entity.Supplier, error) {
	var out *entity.Supplier
	r.v.do(func(st *state) {
		for _, s := range st.suppliers {
			if s.ID == id {
				out = &s
				return
			}
		}
	})
	return out, nil
}

func (r *SupplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	r.v.do(func(st *state) {
		for _, s := range st.suppliers {
			out = append(out, &s)
		}
	})
	return out, nil
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	err := domain.ErrSupplierNotFound
	r.v.do(func(st *state) {
		for i := range st.suppliers {
			if st.suppliers[i].ID == s.ID {
				st.suppliers[i] = *s
				err = nil
				return
			}
		}
	})
	return err
}

type ContractRepo struct{ v view }

func (r *ContractRepo) Create(_ context.Context, c *entity.Contract) error {
	r.v.do(func(st *state) { st.contracts = append(st.contracts, *c) })
	return nil
}

func (r *ContractRepo) GetByID(_ context.Context, id entity.ContractID) (*entity.Contract, error) {
	var stored *entity.Contract
	r.v.do(func(st *state) {
		for _, c := range st.contracts {
			if c.ID == id {
				stored = &c
				return
			}
		}
	})
	if stored == nil {
		return nil, nil
	}
	return entity.NewContract(*stored, r.v.s.now())
}

func (r *ContractRepo) List(_ context.Context, supplierID *entity.SupplierID) ([]*entity.Contract, error) {
	var stored []entity.Contract
	r.v.do(func(st *state) {
		for _, c := range st.contracts {
			if supplierID == nil || c.SupplierID == *supplierID {
				stored = append(stored, c)
			}
		}
	})
	out := make([]*entity.Contract, 0, len(stored))
	for _, c := range stored {
		rebuilt, err := entity.NewContract(c, r.v.s.now())
		if err != nil {
			return nil, err
		}
		out = append(out, rebuilt)
	}
	return out, nil
}

func (r *ContractRepo) ExpireEnded(_ context.Context, now time.Time) (int64, error) {
	var n int64
	r.v.do(func(st *state) {
		for i, c := range st.contracts {
			if c.Status != entity.ContractActive {
				continue
			}
			rebuilt, err := entity.NewContract(c, now)
			if err == nil && rebuilt.Status == entity.ContractExpired {
				st.contracts[i].Status = entity.ContractExpired
				n++
			}
		}
	})
	return n, nil
}

type InvoiceRepo struct{ v view }

func (r *InvoiceRepo) Create(_ context.Context, i *entity.Invoice) error {
	r.v.do(func(st *state) { st.invoices = append(st.invoices, *i) })
	return nil
}

func (r *InvoiceRepo) rebuild(list []entity.Invoice) ([]*entity.Invoice, error) {
	out := make([]*entity.Invoice, 0, len(list))
	for _, i := range list {
		inv, err := entity.NewInvoice(i, r.v.s.now())
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id entity.InvoiceID) (*entity.Invoice, error) {
	var stored []entity.Invoice
	r.v.do(func(st *state) {
		for _, i := range st.invoices {
			if i.ID == id {
				stored = append(stored, i)
			}
		}
	})
	if len(stored) == 0 {
		return nil, nil
	}
	out, err := r.rebuild(stored)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *InvoiceRepo) List(_ context.Context) ([]*entity.Invoice, error) {
	var stored []entity.Invoice
	r.v.do(func(st *state) { stored = append(stored, st.invoices...) })
	return r.rebuild(stored)
}

func (r *InvoiceRepo) ListRecentOpen(_ context.Context, limit int) ([]*entity.Invoice, error) {
	var stored []entity.Invoice
	r.v.do(func(st *state) {
		for _, i := range st.invoices {
			if i.Status != entity.InvoicePaid {
				stored = append(stored, i)
			}
		}
	})
	sort.SliceStable(stored, func(a, b int) bool { return stored[a].CreatedAt.After(stored[b].CreatedAt) })
	if limit < len(stored) {
		stored = stored[:limit]
	}
	return r.rebuild(stored)
}

func (r *InvoiceRepo) Update(_ context.Context, i *entity.Invoice) error {
	err := domain.ErrInvoiceNotFound
	r.v.do(func(st *state) {
		for k := range st.invoices {
			if st.invoices[k].ID == i.ID {
				st.invoices[k].Status = i.Status
				err = nil
				return
			}
		}
	})
	return err
}

func (r *InvoiceRepo) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	r.v.do(func(st *state) {
		for k, i := range st.invoices {
			if i.Status != entity.InvoicePending {
				continue
			}
			rebuilt, err := entity.NewInvoice(i, now)
			if err == nil && rebuilt.Status == entity.InvoiceOverdue {
				st.invoices[k].Status = entity.InvoiceOverdue
				n++
			}
		}
	})
	return n, nil
}

type ExpenseRepo struct{ v view }

func (r *ExpenseRepo) Create(_ context.Context, e *entity.Expense) error {
	r.v.do(func(st *state) { st.expenses = append(st.expenses, *e) })
	return nil
}

func (r *ExpenseRepo) ListRecent(_ context.Context, limit int) ([]*entity.Expense, error) {
	var out []*entity.Expense
	r.v.do(func(st *state) {
		for _, e := range st.expenses {
			out = append(out, &e)
		}
	})
	sort.SliceStable(out, func(a, b int) bool { return out[a].IncurredAt.After(out[b].IncurredAt) })
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Interfaces cubiertas.
var (
	_ repository.EquipmentRepository    = (*EquipmentRepo)(nil)
	_ repository.LoanRepository         = (*LoanRepo)(nil)
	_ repository.AuditLogRepository     = (*AuditRepo)(nil)
	_ repository.ESGAnalyticsRepository = (*AnalyticsRepo)(nil)
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.SupplierRepository     = (*SupplierRepo)(nil)
	_ repository.ContractRepository     = (*ContractRepo)(nil)
	_ repository.InvoiceRepository      = (*InvoiceRepo)(nil)
	_ repository.ExpenseRepository      = (*ExpenseRepo)(nil)
)

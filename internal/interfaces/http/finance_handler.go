package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/application/finance"
)

// FinanceHandler proveedores, contratos, facturas y gastos.
type FinanceHandler struct {
	facade *finance.Facade
	now    func() time.Time
}

// NewFinanceHandler construye el handler.
func NewFinanceHandler(facade *finance.Facade) *FinanceHandler {
	return &FinanceHandler{facade: facade, now: func() time.Time { return time.Now().UTC() }}
}

// Overview godoc
// @Summary      Resumen financiero
// @Description  Totales de contratos, últimos 10 gastos y últimas 10 facturas abiertas, por moneda.
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.FinancialOverviewDTO
// @Router       /api/finance/overview [get]
func (h *FinanceHandler) Overview(c *fiber.Ctx) error {
	out, err := h.facade.Overview(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListSuppliers godoc
// @Summary      Listar proveedores
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SupplierResponse
// @Router       /api/finance/suppliers [get]
func (h *FinanceHandler) ListSuppliers(c *fiber.Ctx) error {
	out, err := h.facade.ListSuppliers(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateSupplier godoc
// @Summary      Registrar proveedor
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplierRequest  true  "Datos del proveedor"
// @Success      201   {object}  dto.SupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/finance/suppliers [post]
func (h *FinanceHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.facade.CreateSupplier(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateSupplier godoc
// @Summary      Actualizar proveedor
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del proveedor"
// @Param        body  body  dto.UpdateSupplierRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.SupplierResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/finance/suppliers/{id} [put]
func (h *FinanceHandler) UpdateSupplier(c *fiber.Ctx) error {
	var in dto.UpdateSupplierRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.facade.UpdateSupplier(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListContracts godoc
// @Summary      Listar contratos
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        supplier_id  query  string  false  "Filtrar por proveedor"
// @Success      200  {array}  dto.ContractResponse
// @Router       /api/finance/contracts [get]
func (h *FinanceHandler) ListContracts(c *fiber.Ctx) error {
	out, err := h.facade.ListContracts(c.UserContext(), c.Query("supplier_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateContract godoc
// @Summary      Registrar contrato
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateContractRequest  true  "Datos del contrato"
// @Success      201   {object}  dto.ContractResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/finance/contracts [post]
func (h *FinanceHandler) CreateContract(c *fiber.Ctx) error {
	var in dto.CreateContractRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.facade.CreateContract(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListInvoices godoc
// @Summary      Listar facturas
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/finance/invoices [get]
func (h *FinanceHandler) ListInvoices(c *fiber.Ctx) error {
	out, err := h.facade.ListInvoices(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateInvoice godoc
// @Summary      Registrar factura de proveedor
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Datos de la factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/finance/invoices [post]
func (h *FinanceHandler) CreateInvoice(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.facade.CreateInvoice(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PayInvoice godoc
// @Summary      Marcar factura como pagada
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/finance/invoices/{id}/pay [post]
func (h *FinanceHandler) PayInvoice(c *fiber.Ctx) error {
	out, err := h.facade.MarkInvoicePaid(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateExpense godoc
// @Summary      Registrar gasto
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExpenseRequest  true  "Datos del gasto"
// @Success      201   {object}  dto.ExpenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/finance/expenses [post]
func (h *FinanceHandler) CreateExpense(c *fiber.Ctx) error {
	var in dto.CreateExpenseRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.facade.CreateExpense(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RefreshStatuses godoc
// @Summary      Recalcular estados de contratos y facturas
// @Description  Misma tarea que ejecuta el scheduler.
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RefreshResult
// @Router       /api/finance/refresh-statuses [post]
func (h *FinanceHandler) RefreshStatuses(c *fiber.Ctx) error {
	out, err := h.facade.RefreshStatuses(c.UserContext(), h.now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/application/loan"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// LoanHandler ciclo de préstamo: checkout, devolución, daño y consultas.
type LoanHandler struct {
	uc      *loan.LoanUseCase
	checker permissionChecker
}

// NewLoanHandler construye el handler.
func NewLoanHandler(uc *loan.LoanUseCase, checker permissionChecker) *LoanHandler {
	return &LoanHandler{uc: uc, checker: checker}
}

// Create godoc
// @Summary      Solicitar préstamo
// @Description  El usuario autenticado toma unidades de un equipo. 409 si no hay disponibilidad.
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLoanRequest  true  "equipo y cantidad"
// @Success      201   {object}  dto.LoanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/loans [post]
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLoanRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), loan.CreateLoanInput{
		UserID:      GetUserID(c),
		EquipmentID: in.EquipmentID,
		Quantity:    in.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Return godoc
// @Summary      Devolver préstamo
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del préstamo"
// @Success      200  {object}  dto.LoanResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/loans/{id}/return [post]
func (h *LoanHandler) Return(c *fiber.Ctx) error {
	in, err := h.returnInput(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Return(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkDamaged godoc
// @Summary      Devolver préstamo con daño
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del préstamo"
// @Param        body  body  dto.MarkDamagedRequest  true  "comentario del daño"
// @Success      200   {object}  dto.LoanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/loans/{id}/damage [post]
func (h *LoanHandler) MarkDamaged(c *fiber.Ctx) error {
	var body dto.MarkDamagedRequest
	if ok, err := parseBody(c, &body); !ok {
		return err
	}
	in, err := h.returnInput(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.MarkDamaged(c.UserContext(), loan.MarkDamagedInput{ReturnLoanInput: in, Comment: body.Comment})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *LoanHandler) returnInput(c *fiber.Ctx) (loan.ReturnLoanInput, error) {
	userID := GetUserID(c)
	manager, err := h.checker.HasPermission(c.UserContext(), userID, entity.PermManageOperations)
	if err != nil {
		return loan.ReturnLoanInput{}, err
	}
	return loan.ReturnLoanInput{LoanID: c.Params("id"), PerformedBy: userID, AsManager: manager}, nil
}

// Mine godoc
// @Summary      Mis préstamos
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LoanResponse
// @Router       /api/loans/mine [get]
func (h *LoanHandler) Mine(c *fiber.Ctx) error {
	out, err := h.uc.ListByUser(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Active godoc
// @Summary      Préstamos activos
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LoanResponse
// @Router       /api/loans/active [get]
func (h *LoanHandler) Active(c *fiber.Ctx) error {
	out, err := h.uc.ListActive(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByUser godoc
// @Summary      Historial de préstamos de un usuario
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {array}  dto.LoanResponse
// @Router       /api/users/{id}/loans [get]
func (h *LoanHandler) ByUser(c *fiber.Ctx) error {
	out, err := h.uc.ListByUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-pos/internal/application/cashregister"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
)

// CashRegisterHandler consultas y movimientos de caja.
type CashRegisterHandler struct {
	uc *cashregister.UseCase
}

// NewCashRegisterHandler construye el handler.
func NewCashRegisterHandler(uc *cashregister.UseCase) *CashRegisterHandler {
	return &CashRegisterHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener caja
// @Tags         cash-registers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la caja"
// @Success      200  {object}  dto.CashRegisterResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-registers/{id} [get]
func (h *CashRegisterHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transactions godoc
// @Summary      Movimientos de caja
// @Tags         cash-registers
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la caja"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.CashTransactionListResponse
// @Router       /api/cash-registers/{id}/transactions [get]
func (h *CashRegisterHandler) Transactions(c *fiber.Ctx) error {
	out, err := h.uc.Transactions(c.Context(), GetCompanyID(c), c.Params("id"), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Deposit godoc
// @Summary      Depositar en caja
// @Tags         cash-registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la caja"
// @Param        body  body  dto.CashMovementRequest  true  "Desglose depositado"
// @Success      200   {object}  dto.CashRegisterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cash-registers/{id}/deposit [post]
func (h *CashRegisterHandler) Deposit(c *fiber.Ctx) error {
	return h.move(c, h.uc.Deposit)
}

// Withdraw godoc
// @Summary      Retirar de caja
// @Tags         cash-registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la caja"
// @Param        body  body  dto.CashMovementRequest  true  "Desglose retirado"
// @Success      200   {object}  dto.CashRegisterResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/cash-registers/{id}/withdraw [post]
func (h *CashRegisterHandler) Withdraw(c *fiber.Ctx) error {
	return h.move(c, h.uc.Withdraw)
}

type cashMove func(ctx context.Context, companyID, userID, id string, in dto.CashMovementRequest) (*dto.CashRegisterResponse, error)

func (h *CashRegisterHandler) move(c *fiber.Ctx, fn cashMove) error {
	companyID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CashMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := fn(c.Context(), companyID, userID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Arqueo de caja
// @Description  Compara el conteo declarado contra el sistema y deja la caja con lo declarado.
// @Tags         cash-registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la caja"
// @Param        body  body  dto.ReconcileRequest  true  "Conteo físico"
// @Success      200   {object}  dto.ReconcileResponse
// @Router       /api/cash-registers/{id}/reconcile [post]
func (h *CashRegisterHandler) Reconcile(c *fiber.Ctx) error {
	companyID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.ReconcileRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Reconcile(c.Context(), companyID, userID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

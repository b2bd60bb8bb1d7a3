package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
	"github.com/jhoicas/Inventario-pos/internal/application/pos"
)

// POSHandler terminal de punto de venta.
type POSHandler struct {
	uc *pos.CheckoutUseCase
}

// NewPOSHandler construye el handler.
func NewPOSHandler(uc *pos.CheckoutUseCase) *POSHandler {
	return &POSHandler{uc: uc}
}

// Checkout godoc
// @Summary      Cobrar venta POS
// @Description  Descuenta stock FIFO entre bodegas activas, registra el pago y, en efectivo, entrega el cambio
// @Description  por denominación. Con idempotency_key repetida devuelve la venta original (duplicate=true).
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Carrito, cliente y pago"
// @Param        Idempotency-Key  header  string  false  "Llave de idempotencia (alternativa al campo del body)"
// @Success      201   {object}  dto.CheckoutResponse
// @Success      200   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/pos/checkout [post]
func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	companyID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.IdempotencyKey == "" {
		in.IdempotencyKey = c.Get("Idempotency-Key")
	}
	if in.WarehouseID == "" {
		in.WarehouseID = GetWarehouseID(c)
	}
	out, err := h.uc.Checkout(c.Context(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	if out.Duplicate {
		return c.JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PreviewChange godoc
// @Summary      Calcular cambio
// @Description  Cambio que entregaría la caja sin modificarla.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePreviewRequest  true  "Caja, monto y desglose recibido"
// @Success      200   {object}  dto.ChangePreviewResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/pos/change [post]
func (h *POSHandler) PreviewChange(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.ChangePreviewRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.PreviewChange(c.Context(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-pos/internal/application/branch"
	"github.com/jhoicas/Inventario-pos/internal/application/dto"
)

// BranchHandler notificaciones y traslados entre sucursales.
type BranchHandler struct {
	uc *branch.UseCase
}

// NewBranchHandler construye el handler.
func NewBranchHandler(uc *branch.UseCase) *BranchHandler {
	return &BranchHandler{uc: uc}
}

// List godoc
// @Summary      Listar notificaciones
// @Description  incoming: las que debe responder la bodega; outgoing: las que solicitó. Sin dirección, ambas.
// @Tags         branch-notifications
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega (por defecto la del token)"
// @Param        direction     query  string  false  "incoming u outgoing"
// @Param        status        query  string  false  "PENDING, ACKNOWLEDGED, ACCEPTED, REJECTED o COMPLETED"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.BranchNotificationListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/branch-notifications [get]
func (h *BranchHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	in := dto.NotificationListRequest{
		WarehouseID: c.Query("warehouse_id", GetWarehouseID(c)),
		Direction:   c.Query("direction"),
		Status:      c.Query("status"),
		PageRequest: pageFromQuery(c),
	}
	out, err := h.uc.List(c.Context(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener notificación
// @Tags         branch-notifications
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la notificación"
// @Success      200  {object}  dto.BranchNotificationDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/branch-notifications/{id} [get]
func (h *BranchHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Request godoc
// @Summary      Solicitar stock a otras sucursales
// @Description  Elige la mejor sucursal con stock y, si la urgencia es alta, crea respaldos.
// @Description  Una solicitud abierta del mismo producto y bodega se actualiza en vez de duplicarse.
// @Tags         branch-notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RequestStockRequest  true  "Bodega solicitante, producto y cantidad"
// @Success      201   {object}  dto.RequestStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/branch-notifications [post]
func (h *BranchHandler) Request(c *fiber.Ctx) error {
	companyID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.RequestStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.WarehouseID == "" {
		in.WarehouseID = GetWarehouseID(c)
	}
	out, err := h.uc.RequestStockFromRequest(c.Context(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Acknowledge godoc
// @Summary      Marcar notificación como vista
// @Tags         branch-notifications
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la notificación"
// @Success      200  {object}  dto.BranchNotificationDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/branch-notifications/{id}/acknowledge [post]
func (h *BranchHandler) Acknowledge(c *fiber.Ctx) error {
	out, err := h.uc.Acknowledge(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Respond godoc
// @Summary      Responder notificación
// @Description  ACCEPT o PARTIAL_ACCEPT reservan stock y crean el traslado; REJECT solo cierra la notificación.
// @Tags         branch-notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la notificación"
// @Param        body  body  dto.RespondNotificationRequest  true  "Tipo de respuesta y cantidad confirmada"
// @Success      200   {object}  dto.RespondNotificationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/branch-notifications/{id}/respond [post]
func (h *BranchHandler) Respond(c *fiber.Ctx) error {
	companyID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.RespondNotificationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Respond(c.Context(), companyID, userID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListTransfers godoc
// @Summary      Listar traslados
// @Tags         branch-transfers
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING, IN_TRANSIT o RECEIVED"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.BranchTransferDTO
// @Router       /api/branch-transfers [get]
func (h *BranchHandler) ListTransfers(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.ListTransfers(c.Context(), companyID, c.Query("status"), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetTransfer godoc
// @Summary      Obtener traslado
// @Tags         branch-transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.BranchTransferDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/branch-transfers/{id} [get]
func (h *BranchHandler) GetTransfer(c *fiber.Ctx) error {
	out, err := h.uc.GetTransfer(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Dispatch godoc
// @Summary      Despachar traslado
// @Description  Marca el traslado en tránsito con quién despacha y cuándo.
// @Tags         branch-transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.BranchTransferDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/branch-transfers/{id}/dispatch [post]
func (h *BranchHandler) Dispatch(c *fiber.Ctx) error {
	out, err := h.uc.DispatchTransfer(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Recibir traslado
// @Description  Consume la reserva en origen, ingresa el stock en destino y completa la notificación.
// @Tags         branch-transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.BranchTransferDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/branch-transfers/{id}/receive [post]
func (h *BranchHandler) Receive(c *fiber.Ctx) error {
	out, err := h.uc.ReceiveTransfer(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

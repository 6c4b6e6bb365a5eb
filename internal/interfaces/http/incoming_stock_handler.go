package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-planner/internal/application/dto"
	"github.com/jhoicas/fulfillment-planner/internal/application/inventory"
)

// IncomingStockHandler pronósticos de stock entrante (protegido).
type IncomingStockHandler struct {
	uc *inventory.IncomingStockUseCase
}

// NewIncomingStockHandler construye el handler.
func NewIncomingStockHandler(uc *inventory.IncomingStockUseCase) *IncomingStockHandler {
	return &IncomingStockHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar stock entrante
// @Tags         incoming-stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIncomingStockRequest  true  "Producto, cantidad y fecha de la semana"
// @Success      201   {object}  dto.IncomingStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/incoming-stock [post]
func (h *IncomingStockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateIncomingStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Stock entrante de una semana
// @Tags         incoming-stock
// @Security     Bearer
// @Produce      json
// @Param        week  query  string  true  "Cualquier fecha de la semana (YYYY-MM-DD)"
// @Success      200   {object}  dto.IncomingStockListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/incoming-stock [get]
func (h *IncomingStockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListByWeek(c.Context(), c.Query("week"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener stock entrante
// @Tags         incoming-stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.IncomingStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/incoming-stock/{id} [get]
func (h *IncomingStockHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Link godoc
// @Summary      Vincular proveedor y precio
// @Tags         incoming-stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID"
// @Param        body  body  dto.LinkIncomingStockRequest  true  "Proveedor y precio unitario"
// @Success      200   {object}  dto.IncomingStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/incoming-stock/{id}/link [post]
func (h *IncomingStockHandler) Link(c *fiber.Ctx) error {
	var in dto.LinkIncomingStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Link(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Recibir stock entrante
// @Description  Pasa a received y suma la cantidad recibida al inventario del producto en la misma transacción.
// @Tags         incoming-stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true   "ID"
// @Param        body  body  dto.ReceiveIncomingStockRequest  false  "Cantidad recibida (por defecto la pronosticada)"
// @Success      200   {object}  dto.IncomingStockResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/incoming-stock/{id}/receive [post]
func (h *IncomingStockHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveIncomingStockRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.Receive(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar stock entrante
// @Tags         incoming-stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true   "ID"
// @Param        body  body  dto.CancelIncomingStockRequest  false  "Motivo"
// @Success      200   {object}  dto.IncomingStockResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/incoming-stock/{id}/cancel [post]
func (h *IncomingStockHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelIncomingStockRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AttachPurchaseOrder godoc
// @Summary      Asociar orden de compra
// @Tags         incoming-stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID"
// @Param        body  body  dto.AttachPurchaseOrderRequest  true  "ID de la orden de compra"
// @Success      200   {object}  dto.IncomingStockResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/incoming-stock/{id}/purchase-order [post]
func (h *IncomingStockHandler) AttachPurchaseOrder(c *fiber.Ctx) error {
	var in dto.AttachPurchaseOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AttachPurchaseOrder(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

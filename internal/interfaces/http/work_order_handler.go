package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-planner/internal/application/dto"
	"github.com/jhoicas/fulfillment-planner/internal/application/planning"
)

// WorkOrderHandler orden de trabajo semanal: planeación, alistamiento y faltantes (protegido).
type WorkOrderHandler struct {
	uc *planning.WorkOrderUseCase
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(uc *planning.WorkOrderUseCase) *WorkOrderHandler {
	return &WorkOrderHandler{uc: uc}
}

// List godoc
// @Summary      Órdenes de trabajo de una semana
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        week  query  string  true  "Cualquier fecha de la semana (YYYY-MM-DD)"
// @Success      200   {object}  dto.WorkOrderListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/work-orders [get]
func (h *WorkOrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListByWeek(c.Context(), c.Query("week"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Preview godoc
// @Summary      Vista previa del plan semanal
// @Description  Agrega demanda y oferta y calcula la asignación sin guardar nada.
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        week  query  string  true  "Cualquier fecha de la semana (YYYY-MM-DD)"
// @Success      200   {object}  dto.WorkOrderPreviewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/work-orders/preview [get]
func (h *WorkOrderHandler) Preview(c *fiber.Ctx) error {
	out, err := h.uc.Preview(c.Context(), c.Query("week"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateDraft godoc
// @Summary      Crear orden en draft
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WorkOrderWeekRequest  true  "Semana"
// @Success      201   {object}  dto.WorkOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-orders/draft [post]
func (h *WorkOrderHandler) CreateDraft(c *fiber.Ctx) error {
	var in dto.WorkOrderWeekRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateDraft(c.Context(), GetUserID(c), in.Week)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Confirm godoc
// @Summary      Confirmar la orden de la semana
// @Description  Calcula faltantes y asignaciones y deja la orden en confirmed. Una sola por semana.
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WorkOrderWeekRequest  true  "Semana"
// @Success      201   {object}  dto.WorkOrderResponse
// @Failure      409   {object}  dto.ErrorResponse  "ALREADY_CONFIRMED o CONCURRENT_CONFIRMATION"
// @Router       /api/work-orders/confirm [post]
func (h *WorkOrderHandler) Confirm(c *fiber.Ctx) error {
	var in dto.WorkOrderWeekRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Confirm(c.Context(), GetUserID(c), in.Week)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/cancel [post]
func (h *WorkOrderHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      409  {object}  dto.ErrorResponse  "INCOMPLETE_PICKING"
// @Router       /api/work-orders/{id}/complete [post]
func (h *WorkOrderHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ResolveShortage godoc
// @Summary      Resolver faltante de un producto
// @Description  Suma stock tardío y reasigna solo ese producto. Devuelve las tiendas afectadas.
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string                      true  "ID de la orden"
// @Param        productId  path  string                      true  "ID del producto"
// @Param        body       body  dto.ResolveShortageRequest  true  "Cantidad adicional y notas"
// @Success      200  {object}  dto.ResolveShortageResponse
// @Failure      409  {object}  dto.ErrorResponse  "CONCURRENT_RESOLUTION"
// @Router       /api/work-orders/{id}/products/{productId}/resolve [post]
func (h *WorkOrderHandler) ResolveShortage(c *fiber.Ctx) error {
	var in dto.ResolveShortageRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.ResolveShortage(c.Context(), c.Params("id"), c.Params("productId"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StartPicking godoc
// @Summary      Iniciar alistamiento de una tienda
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id       path  string  true  "ID de la orden"
// @Param        storeId  path  string  true  "ID de la tienda"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/stores/{storeId}/start [post]
func (h *WorkOrderHandler) StartPicking(c *fiber.Ctx) error {
	out, err := h.uc.StartPicking(c.Context(), c.Params("id"), c.Params("storeId"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PickItem godoc
// @Summary      Marcar ítem alistado
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID de la orden"
// @Param        storeId    path  string  true  "ID de la tienda"
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/stores/{storeId}/items/{productId}/pick [post]
func (h *WorkOrderHandler) PickItem(c *fiber.Ctx) error {
	out, err := h.uc.PickItem(c.Context(), c.Params("id"), c.Params("storeId"), c.Params("productId"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

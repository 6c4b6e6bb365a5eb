package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-planner/internal/application/catalog"
	"github.com/jhoicas/fulfillment-planner/internal/application/dto"
)

// PalletHandler cálculo de capacidad de tarima y geometría de caja por producto (protegido).
type PalletHandler struct {
	uc *catalog.PalletUseCase
}

// NewPalletHandler construye el handler.
func NewPalletHandler(uc *catalog.PalletUseCase) *PalletHandler {
	return &PalletHandler{uc: uc}
}

// Calculate godoc
// @Summary      Calcular capacidad de tarima
// @Description  Casos por capa, capas por tarima y total. Una caja que no cabe devuelve capacidad cero con advertencia.
// @Tags         pallet
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PalletCapacityRequest  true  "Geometría (pulgadas) y peso (lb) de la caja"
// @Success      200   {object}  dto.PalletCapacityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pallet/capacity [post]
func (h *PalletHandler) Calculate(c *fiber.Ctx) error {
	var in dto.PalletCapacityRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Calculate(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Validate godoc
// @Summary      Validar capacidad manual
// @Tags         pallet
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ManualCapacityRequest  true  "Capacidad declarada, geometría y peso"
// @Success      200   {object}  dto.ManualCapacityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pallet/validate [post]
func (h *PalletHandler) Validate(c *fiber.Ctx) error {
	var in dto.ManualCapacityRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Validate(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PalletsNeeded godoc
// @Summary      Tarimas necesarias
// @Description  Con product_id usa la capacidad cacheada del producto; si no, cases_per_pallet.
// @Tags         pallet
// @Security     Bearer
// @Produce      json
// @Param        quantity          query  int     true   "Cajas"
// @Param        cases_per_pallet  query  int     false  "Cajas por tarima"
// @Param        product_id        query  string  false  "Producto"
// @Success      200  {object}  dto.PalletsNeededResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pallet/pallets-needed [get]
func (h *PalletHandler) PalletsNeeded(c *fiber.Ctx) error {
	out, err := h.uc.PalletsNeeded(c.Context(), c.Query("product_id"), c.QueryInt("quantity", 0), c.QueryInt("cases_per_pallet", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateCaseGeometry godoc
// @Summary      Actualizar geometría de caja del producto
// @Description  Recalcula (auto) o valida (manual) la capacidad de tarima y la guarda en el producto.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del producto"
// @Param        body  body  dto.UpdateCaseGeometryRequest  true  "Geometría, peso y modo"
// @Success      200   {object}  dto.ProductCapacityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/case-geometry [put]
func (h *PalletHandler) UpdateCaseGeometry(c *fiber.Ctx) error {
	var in dto.UpdateCaseGeometryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateCaseGeometry(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

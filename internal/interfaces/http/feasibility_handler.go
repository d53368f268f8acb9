package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/jcastanov/planta-api/internal/application/bom"
	"github.com/jcastanov/planta-api/internal/application/dto"
)

// FeasibilityHandler maneja la verificación de factibilidad de producción (protegido).
type FeasibilityHandler struct {
	uc *bom.FeasibilityUseCase
}

// NewFeasibilityHandler construye el handler.
func NewFeasibilityHandler(uc *bom.FeasibilityUseCase) *FeasibilityHandler {
	return &FeasibilityHandler{uc: uc}
}

// CheckFeasibility godoc
// @Summary      ¿Puedo producir N unidades del padre con el stock actual?
// @Description  Verificación de un solo nivel de BOM: faltante por componente,
//               cuello de botella, máximo producible y tasa de cumplimiento valorada.
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        parent_item_id  path   string  true   "Item padre"
// @Param        quantity        query  number  true   "Cantidad solicitada (> 0)"
// @Param        warehouse_id    query  string  false  "Limitar el disponible a una bodega"
// @Success      200  {object}  dto.FeasibilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bom/{parent_item_id}/feasibility [get]
func (h *FeasibilityHandler) CheckFeasibility(c *fiber.Ctx) error {
	requested, err := decimal.NewFromString(c.Query("quantity"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser numérica"})
	}
	report, err := h.uc.CheckFeasibility(c.Context(), c.Params("parent_item_id"), requested, optionalQuery(c, "warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FeasibilityFromReport(report))
}

package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jcastanov/planta-api/internal/application/dto"
	"github.com/jcastanov/planta-api/internal/application/stock"
	"github.com/jcastanov/planta-api/internal/domain"
)

// StockHandler maneja las peticiones HTTP del motor de inventario (protegido).
type StockHandler struct {
	query    *stock.QueryUseCase
	post     *stock.PostMovementUseCase
	transfer *stock.TransferUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(query *stock.QueryUseCase, post *stock.PostMovementUseCase, transfer *stock.TransferUseCase) *StockHandler {
	return &StockHandler{query: query, post: post, transfer: transfer}
}

// GetCurrentStock godoc
// @Summary      Stock actual de un item
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id       path   string  true   "Item"
// @Param        warehouse_id  query  string  false  "Bodega (vacío = total en todas)"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{item_id} [get]
func (h *StockHandler) GetCurrentStock(c *fiber.Ctx) error {
	itemID := c.Params("item_id")
	warehouseID := optionalQuery(c, "warehouse_id")

	quantity, err := h.query.CurrentStock(c.Context(), itemID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.StockResponse{ItemID: itemID, Quantity: quantity}
	if warehouseID != nil {
		resp.WarehouseID = *warehouseID
	}
	return c.JSON(resp)
}

// GetStockAsOf godoc
// @Summary      Stock reconstruido a un instante pasado
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id       path   string  true   "Item"
// @Param        instant       query  string  true   "Instante RFC3339 (pasado o presente)"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{item_id}/as-of [get]
func (h *StockHandler) GetStockAsOf(c *fiber.Ctx) error {
	itemID := c.Params("item_id")
	warehouseID := optionalQuery(c, "warehouse_id")

	instant, err := time.Parse(time.RFC3339, c.Query("instant"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "instant debe ser RFC3339"})
	}
	quantity, err := h.query.StockAsOf(c.Context(), itemID, warehouseID, instant)
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.StockResponse{ItemID: itemID, Quantity: quantity, AsOf: &instant}
	if warehouseID != nil {
		resp.WarehouseID = *warehouseID
	}
	return c.JSON(resp)
}

// ListMovements godoc
// @Summary      Historial de movimientos de un item
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id       path   string  true   "Item"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        limit         query  int     false  "Tamaño de página"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{item_id}/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	itemID := c.Params("item_id")
	warehouseID := optionalQuery(c, "warehouse_id")

	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	movements, err := h.query.ListMovements(c.Context(), itemID, warehouseID, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementFromEntity(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// GetBucket godoc
// @Summary      Proyección de stock de una (bodega, item)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id       path  string  true  "Bodega"
// @Param        item_id  path  string  true  "Item"
// @Success      200  {object}  dto.BucketResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/stock/{item_id} [get]
func (h *StockHandler) GetBucket(c *fiber.Ctx) error {
	bucket, err := h.query.GetBucket(c.Context(), c.Params("id"), c.Params("item_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BucketFromEntity(bucket))
}

// PostMovement godoc
// @Summary      Publicar un movimiento del libro de inventario
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostMovementRequest  true  "item_id, type, quantity; warehouse_id, occurred_at, reference y note opcionales"
// @Success      201  {object}  dto.PostMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *StockHandler) PostMovement(c *fiber.Ctx) error {
	var in dto.PostMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := stock.MovementInputDTO{
		ItemID:    in.ItemID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reference: in.Reference,
		Note:      in.Note,
		CreatedBy: GetUserID(c),
	}
	if in.WarehouseID != "" {
		warehouseID := in.WarehouseID
		input.WarehouseID = &warehouseID
	}
	if in.OccurredAt != nil {
		input.OccurredAt = *in.OccurredAt
	}
	movementID, err := h.post.PostMovement(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PostMovementResponse{MovementID: movementID})
}

// Transfer godoc
// @Summary      Trasladar stock entre bodegas (atómico)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "from_warehouse_id, to_warehouse_id, item_id, quantity; reference y note opcionales"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.transfer.Transfer(c.Context(), stock.TransferInputDTO{
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		ItemID:          in.ItemID,
		Quantity:        in.Quantity,
		Reference:       in.Reference,
		Note:            in.Note,
		CreatedBy:       GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "traslado aplicado"})
}

// optionalQuery devuelve el query param como *string, nil si viene vacío.
func optionalQuery(c *fiber.Ctx, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}

// writeError traduce los errores de dominio a códigos HTTP.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "item, bodega o bucket no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrDuplicateReference):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_REFERENCE", Message: "referencia ya utilizada"})
	case errors.Is(err, domain.ErrLedgerInconsistency):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "LEDGER_INCONSISTENCY", Message: "inconsistencia del libro de inventario"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

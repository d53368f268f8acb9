package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jcastanov/planta-api/internal/domain/entity"
)

// PostMovementRequest cuerpo para publicar un movimiento del libro.
// quantity admite signo solo cuando type es ADJUSTMENT.
type PostMovementRequest struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"` // vacío = movimiento sin bodega
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	OccurredAt  *time.Time      `json:"occurred_at"` // nil = ahora
	Reference   string          `json:"reference"`
	Note        string          `json:"note"`
}

// PostMovementResponse respuesta con el id monótono asignado.
type PostMovementResponse struct {
	MovementID int64 `json:"movement_id"`
}

// TransferRequest cuerpo para un traslado entre bodegas.
type TransferRequest struct {
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	ItemID          string          `json:"item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Reference       string          `json:"reference"`
	Note            string          `json:"note"`
}

// StockResponse cantidad agregada para una clave (item[, bodega]).
type StockResponse struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	AsOf        *time.Time      `json:"as_of,omitempty"` // presente en consultas punto-en-el-tiempo
}

// MovementDTO un movimiento del historial.
type MovementDTO struct {
	MovementID int64           `json:"movement_id"`
	ItemID     string          `json:"item_id"`
	WarehouseID string         `json:"warehouse_id,omitempty"`
	Type       string          `json:"type"`
	Quantity   decimal.Decimal `json:"quantity"` // con signo: efecto sobre el stock
	OccurredAt time.Time       `json:"occurred_at"`
	RecordedAt time.Time       `json:"recorded_at"`
	Reference  string          `json:"reference,omitempty"`
	Note       string          `json:"note,omitempty"`
}

// MovementFromEntity mapea la entidad al DTO de historial.
func MovementFromEntity(m *entity.Movement) MovementDTO {
	d := MovementDTO{
		MovementID: m.ID,
		ItemID:     m.ItemID,
		Type:       m.Type,
		Quantity:   m.SignedQuantity(),
		OccurredAt: m.OccurredAt,
		RecordedAt: m.RecordedAt,
		Reference:  m.Reference,
		Note:       m.Note,
	}
	if m.WarehouseID != nil {
		d.WarehouseID = *m.WarehouseID
	}
	return d
}

// BucketResponse snapshot de la proyección por (bodega, item).
type BucketResponse struct {
	WarehouseID       string          `json:"warehouse_id"`
	ItemID            string          `json:"item_id"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	MinStock          decimal.Decimal `json:"min_stock"`
	MaxStock          decimal.Decimal `json:"max_stock"`
	BelowMin          bool            `json:"below_min"`
	LastInAt          *time.Time      `json:"last_in_at,omitempty"`
	LastOutAt         *time.Time      `json:"last_out_at,omitempty"`
}

// BucketFromEntity mapea la entidad al DTO de snapshot.
func BucketFromEntity(b *entity.StockBucket) BucketResponse {
	return BucketResponse{
		WarehouseID:       b.WarehouseID,
		ItemID:            b.ItemID,
		CurrentQuantity:   b.CurrentQuantity,
		ReservedQuantity:  b.ReservedQuantity,
		AvailableQuantity: b.AvailableQuantity(),
		MinStock:          b.MinStock,
		MaxStock:          b.MaxStock,
		BelowMin:          b.BelowMin(),
		LastInAt:          b.LastInAt,
		LastOutAt:         b.LastOutAt,
	}
}

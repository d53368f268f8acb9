package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferAudit es el registro de auditoría de un traslado entre bodegas.
// Complementa la pareja TRANSFER_OUT/TRANSFER_IN del libro: conserva la nota
// del originador y las dos bodegas en una sola fila consultable.
type TransferAudit struct {
	ID              int64
	ItemID          string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        decimal.Decimal
	Reference       string
	Note            string
	CreatedBy       string
	CreatedAt       time.Time
}

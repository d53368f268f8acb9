package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBucket es la proyección materializada del libro para una (bodega, item):
// lectura rápida para dashboards y verificación de disponibilidad en traslados.
// El libro de movimientos es la fuente de verdad; el bucket siempre debe poder
// rederivarse sumando los movimientos de su clave.
type StockBucket struct {
	WarehouseID      string
	ItemID           string
	CurrentQuantity  decimal.Decimal
	ReservedQuantity decimal.Decimal
	MinStock         decimal.Decimal
	MaxStock         decimal.Decimal
	LastInAt         *time.Time
	LastOutAt        *time.Time
	UpdatedAt        time.Time
}

// NewStockBucket crea un bucket en cero para una clave que aún no tiene stock.
func NewStockBucket(warehouseID, itemID string) *StockBucket {
	return &StockBucket{
		WarehouseID:      warehouseID,
		ItemID:           itemID,
		CurrentQuantity:  decimal.Zero,
		ReservedQuantity: decimal.Zero,
		MinStock:         decimal.Zero,
		MaxStock:         decimal.Zero,
	}
}

// AvailableQuantity devuelve el stock disponible (actual menos reservado).
func (b *StockBucket) AvailableQuantity() decimal.Decimal {
	return b.CurrentQuantity.Sub(b.ReservedQuantity)
}

// BelowMin indica si el disponible cayó por debajo del stock mínimo configurado.
func (b *StockBucket) BelowMin() bool {
	if b.MinStock.IsZero() {
		return false
	}
	return b.AvailableQuantity().LessThan(b.MinStock)
}

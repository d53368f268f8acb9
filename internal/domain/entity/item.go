package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del maestro de materiales (dato externo, solo lectura
// para el motor de inventario). Price es el precio unitario usado para valorar
// la tasa de cumplimiento en la verificación de factibilidad.
type Item struct {
	ID          string
	SKU         string
	Name        string
	UnitMeasure string
	Price       decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario (append-only).
const (
	MovementTypeIN            = "IN"             // entrada por compra/recepción
	MovementTypeOUT           = "OUT"            // salida por venta/despacho
	MovementTypeProductionIN  = "PRODUCTION_IN"  // entrada de producto terminado
	MovementTypeProductionOUT = "PRODUCTION_OUT" // consumo de componentes en producción
	MovementTypeADJUSTMENT    = "ADJUSTMENT"     // ajuste con signo explícito
	MovementTypeTransferOUT   = "TRANSFER_OUT"   // salida por traslado entre bodegas
	MovementTypeTransferIN    = "TRANSFER_IN"    // entrada por traslado entre bodegas
)

// DirectionOf devuelve el signo fijo de un tipo de movimiento (+1 entradas, -1 salidas).
// ADJUSTMENT no tiene signo fijo: el registro lleva Direction explícito (fixed=false).
func DirectionOf(movementType string) (direction int, fixed bool) {
	switch movementType {
	case MovementTypeIN, MovementTypeProductionIN, MovementTypeTransferIN:
		return 1, true
	case MovementTypeOUT, MovementTypeProductionOUT, MovementTypeTransferOUT:
		return -1, true
	}
	return 0, false
}

// IsValidMovementType verifica que el tipo pertenezca al catálogo.
func IsValidMovementType(movementType string) bool {
	if _, fixed := DirectionOf(movementType); fixed {
		return true
	}
	return movementType == MovementTypeADJUSTMENT
}

// Movement es una entrada del libro de inventario. Inmutable una vez escrita:
// las correcciones se registran como movimientos compensatorios, nunca como updates.
type Movement struct {
	ID          int64           // asignado por la BD al insertar (monótono)
	ItemID      string
	WarehouseID *string         // nil = stock sin bodega (total del item)
	Type        string
	Quantity    decimal.Decimal // magnitud, siempre > 0
	Direction   int             // +1 o -1; derivado del tipo salvo ADJUSTMENT
	OccurredAt  time.Time       // momento lógico del hecho
	RecordedAt  time.Time       // momento físico de escritura
	Reference   string          // correlación: idempotencia y pareja de traslado
	Note        string
	CreatedBy   string
}

// SignedQuantity devuelve el efecto del movimiento sobre el stock agregado.
func (m *Movement) SignedQuantity() decimal.Decimal {
	if m.Direction < 0 {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

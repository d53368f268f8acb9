package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jcastanov/planta-api/internal/domain/entity"
)

// MovementRepository es el acceso al libro de movimientos. Append-only por
// contrato: no expone update ni delete; las correcciones son movimientos
// compensatorios nuevos.
type MovementRepository interface {
	// Create inserta el movimiento y asigna m.ID (monótono, orden de commit).
	Create(m *entity.Movement) error

	// ListByItem devuelve los movimientos de un item en orden ascendente por
	// occurred_at con desempate por id. warehouseID nil = todos los movimientos
	// del item (clave sin bodega). after no nil filtra occurred_at > after.
	ListByItem(itemID string, warehouseID *string, after *time.Time) ([]*entity.Movement, error)

	// ListRecent devuelve los movimientos más recientes primero (historial paginado).
	ListRecent(itemID string, warehouseID *string, limit, offset int) ([]*entity.Movement, error)

	// SumByItem devuelve la suma con signo de los movimientos de la clave.
	// warehouseID nil = total del item en todas las bodegas.
	SumByItem(itemID string, warehouseID *string) (decimal.Decimal, error)

	// SumUnscoped devuelve la suma con signo de los movimientos sin bodega del
	// item (la sub-clave warehouse_id NULL). Es el saldo que guarda la
	// no-negatividad de las publicaciones sin bodega: cada sub-clave se cuida
	// sola y el total del item queda no negativo por construcción.
	SumUnscoped(itemID string) (decimal.Decimal, error)

	// ExistsByReference indica si alguna operación ya usó la referencia (idempotencia).
	ExistsByReference(reference string) (bool, error)

	// LockItem serializa las publicaciones sin bodega de un item dentro de la
	// transacción actual (no hay fila de bucket que bloquear).
	LockItem(itemID string) error
}

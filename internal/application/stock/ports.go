package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jcastanov/planta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la frontera de atomicidad del motor:
// o se aplican todos los efectos (buckets + libro + auditoría) o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		bucketRepo repository.StockBucketRepository,
		auditRepo repository.TransferAuditRepository,
	) error) error
}

// AnomalyReporter recibe inconsistencias del libro detectadas en lectura
// (p. ej. la reconstrucción punto-en-el-tiempo tuvo que recortar a cero).
// Indica un bug en otra parte, no un error del usuario: se alerta, no se corrige.
type AnomalyReporter interface {
	ReportLedgerInconsistency(itemID string, warehouseID *string, at time.Time, computed decimal.Decimal)
}

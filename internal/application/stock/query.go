package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jcastanov/planta-api/internal/domain"
	"github.com/jcastanov/planta-api/internal/domain/entity"
	"github.com/jcastanov/planta-api/internal/domain/repository"
)

// QueryUseCase son las lecturas del motor: stock actual (agregación del libro),
// stock a un instante pasado (agregación en reversa sobre el sufijo del libro),
// historial de movimientos y snapshot del bucket. No bloquea a los escritores.
type QueryUseCase struct {
	movRepo    repository.MovementRepository
	bucketRepo repository.StockBucketRepository
	itemRepo   repository.ItemRepository
	anomalies  AnomalyReporter
}

// NewQueryUseCase construye el caso de uso con repositorios de solo lectura
// (atados al pool, no a una transacción).
func NewQueryUseCase(
	movRepo repository.MovementRepository,
	bucketRepo repository.StockBucketRepository,
	itemRepo repository.ItemRepository,
	anomalies AnomalyReporter,
) *QueryUseCase {
	return &QueryUseCase{
		movRepo:    movRepo,
		bucketRepo: bucketRepo,
		itemRepo:   itemRepo,
		anomalies:  anomalies,
	}
}

// CurrentStock devuelve la suma con signo de los movimientos de la clave.
// warehouseID nil = total del item en todas las bodegas. Idempotente: el libro
// es la fuente de verdad, nunca la proyección.
func (uc *QueryUseCase) CurrentStock(ctx context.Context, itemID string, warehouseID *string) (decimal.Decimal, error) {
	if err := uc.requireItem(itemID); err != nil {
		return decimal.Zero, err
	}
	return uc.movRepo.SumByItem(itemID, warehouseID)
}

// StockAsOf reconstruye el stock que existía en el instante dado: parte del
// stock actual y revierte el efecto de cada movimiento con occurred_at
// posterior al instante. Rechaza instantes futuros.
//
// El resultado se recorta a cero de forma defensiva: un libro bien mantenido
// nunca lo necesita, así que el recorte se reporta como anomalía, no se traga.
func (uc *QueryUseCase) StockAsOf(ctx context.Context, itemID string, warehouseID *string, instant time.Time) (decimal.Decimal, error) {
	if instant.After(time.Now()) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if err := uc.requireItem(itemID); err != nil {
		return decimal.Zero, err
	}

	current, err := uc.movRepo.SumByItem(itemID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	suffix, err := uc.movRepo.ListByItem(itemID, warehouseID, &instant)
	if err != nil {
		return decimal.Zero, err
	}

	quantity := current
	for _, m := range suffix {
		quantity = quantity.Sub(m.SignedQuantity())
	}
	if quantity.IsNegative() {
		uc.anomalies.ReportLedgerInconsistency(itemID, warehouseID, instant, quantity)
		quantity = decimal.Zero
	}
	return quantity, nil
}

// ListMovements devuelve el historial del item, más recientes primero.
func (uc *QueryUseCase) ListMovements(ctx context.Context, itemID string, warehouseID *string, limit, offset int) ([]*entity.Movement, error) {
	if err := uc.requireItem(itemID); err != nil {
		return nil, err
	}
	return uc.movRepo.ListRecent(itemID, warehouseID, limit, offset)
}

// GetBucket devuelve la proyección de una (bodega, item) o ErrNotFound.
func (uc *QueryUseCase) GetBucket(ctx context.Context, warehouseID, itemID string) (*entity.StockBucket, error) {
	bucket, err := uc.bucketRepo.Get(warehouseID, itemID)
	if err != nil {
		return nil, err
	}
	if bucket == nil {
		return nil, domain.ErrNotFound
	}
	return bucket, nil
}

func (uc *QueryUseCase) requireItem(itemID string) error {
	if itemID == "" {
		return domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jcastanov/planta-api/internal/domain/entity"
	"github.com/jcastanov/planta-api/internal/domain/repository"
)

var _ repository.StockBucketRepository = (*StockBucketRepo)(nil)

// StockBucketRepo implementación de la proyección (bodega, item) sobre PostgreSQL.
type StockBucketRepo struct {
	q Querier
}

// NewStockBucketRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBucketRepository(q Querier) *StockBucketRepo {
	return &StockBucketRepo{q: q}
}

const bucketColumns = `warehouse_id, item_id, current_quantity, reserved_quantity, min_stock, max_stock, last_in_at, last_out_at, updated_at`

// Get obtiene el bucket o nil si la clave no existe.
func (r *StockBucketRepo) Get(warehouseID, itemID string) (*entity.StockBucket, error) {
	return r.get(warehouseID, itemID, "")
}

// GetForUpdate obtiene el bucket bloqueando la fila (SELECT FOR UPDATE) o nil
// si la clave no existe. Llamar solo dentro de una transacción.
func (r *StockBucketRepo) GetForUpdate(warehouseID, itemID string) (*entity.StockBucket, error) {
	return r.get(warehouseID, itemID, " FOR UPDATE")
}

func (r *StockBucketRepo) get(warehouseID, itemID, suffix string) (*entity.StockBucket, error) {
	query := `SELECT ` + bucketColumns + ` FROM warehouse_stock WHERE warehouse_id = $1 AND item_id = $2` + suffix
	var b entity.StockBucket
	err := r.q.QueryRow(context.Background(), query, warehouseID, itemID).Scan(
		&b.WarehouseID, &b.ItemID, &b.CurrentQuantity, &b.ReservedQuantity,
		&b.MinStock, &b.MaxStock, &b.LastInAt, &b.LastOutAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bucket: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza el bucket por (bodega, item). available_quantity
// es una columna generada (current - reserved): no se escribe nunca.
func (r *StockBucketRepo) Upsert(b *entity.StockBucket) error {
	query := `
		INSERT INTO warehouse_stock (warehouse_id, item_id, current_quantity, reserved_quantity, min_stock, max_stock, last_in_at, last_out_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (warehouse_id, item_id) DO UPDATE SET
			current_quantity  = EXCLUDED.current_quantity,
			reserved_quantity = EXCLUDED.reserved_quantity,
			last_in_at        = COALESCE(EXCLUDED.last_in_at, warehouse_stock.last_in_at),
			last_out_at       = COALESCE(EXCLUDED.last_out_at, warehouse_stock.last_out_at),
			updated_at        = now()`
	_, err := r.q.Exec(context.Background(), query,
		b.WarehouseID, b.ItemID, b.CurrentQuantity, b.ReservedQuantity,
		b.MinStock, b.MaxStock, b.LastInAt, b.LastOutAt,
	)
	if err != nil {
		return fmt.Errorf("upsert bucket: %w", err)
	}
	return nil
}

package repository

import "github.com/jcastanov/planta-api/internal/domain/entity"

// StockBucketRepository administra la proyección por (bodega, item).
type StockBucketRepository interface {
	// Get devuelve el bucket o nil si la clave no existe.
	Get(warehouseID, itemID string) (*entity.StockBucket, error)

	// GetForUpdate devuelve el bucket bloqueando la fila (SELECT FOR UPDATE)
	// o nil si la clave no existe. Solo tiene sentido dentro de una transacción.
	GetForUpdate(warehouseID, itemID string) (*entity.StockBucket, error)

	// Upsert inserta o actualiza el bucket por (bodega, item).
	Upsert(b *entity.StockBucket) error
}

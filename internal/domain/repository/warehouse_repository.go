package repository

import "github.com/jcastanov/planta-api/internal/domain/entity"

// WarehouseRepository acceso de solo lectura al maestro de bodegas.
type WarehouseRepository interface {
	// GetByID devuelve la bodega o nil si no existe.
	GetByID(id string) (*entity.Warehouse, error)
}

package repository

import "github.com/jcastanov/planta-api/internal/domain/entity"

// ItemRepository acceso de solo lectura al maestro de materiales (colaborador externo).
type ItemRepository interface {
	// GetByID devuelve el item o nil si no existe.
	GetByID(id string) (*entity.Item, error)
}

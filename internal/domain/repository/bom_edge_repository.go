package repository

import "github.com/jcastanov/planta-api/internal/domain/entity"

// BOMEdgeRepository acceso de solo lectura a la lista de materiales.
type BOMEdgeRepository interface {
	// ListByParent devuelve las aristas activas de un padre en orden
	// ascendente por child_item_id (orden estable para el cuello de botella).
	ListByParent(parentItemID string) ([]*entity.BOMEdge, error)
}

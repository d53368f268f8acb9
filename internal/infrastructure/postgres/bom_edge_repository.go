package postgres

import (
	"context"
	"fmt"

	"github.com/jcastanov/planta-api/internal/domain/entity"
	"github.com/jcastanov/planta-api/internal/domain/repository"
)

var _ repository.BOMEdgeRepository = (*BOMEdgeRepo)(nil)

// BOMEdgeRepo lectura de la lista de materiales (un nivel).
type BOMEdgeRepo struct {
	q Querier
}

// NewBOMEdgeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBOMEdgeRepository(q Querier) *BOMEdgeRepo {
	return &BOMEdgeRepo{q: q}
}

// ListByParent devuelve las aristas activas de un padre, ordenadas por
// child_item_id ascendente (el desempate estable del cuello de botella).
func (r *BOMEdgeRepo) ListByParent(parentItemID string) ([]*entity.BOMEdge, error) {
	query := `
		SELECT parent_item_id, child_item_id, quantity_per_unit, level, active
		FROM bom_edges
		WHERE parent_item_id = $1 AND active
		ORDER BY child_item_id ASC`
	rows, err := r.q.Query(context.Background(), query, parentItemID)
	if err != nil {
		return nil, fmt.Errorf("list bom edges: %w", err)
	}
	defer rows.Close()

	var list []*entity.BOMEdge
	for rows.Next() {
		var e entity.BOMEdge
		if err := rows.Scan(&e.ParentItemID, &e.ChildItemID, &e.QuantityPerUnit, &e.Level, &e.Active); err != nil {
			return nil, fmt.Errorf("scan bom edge: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

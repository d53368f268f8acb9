package postgres

import (
	"context"
	"fmt"

	"github.com/jcastanov/planta-api/internal/domain"
	"github.com/jcastanov/planta-api/internal/domain/entity"
	"github.com/jcastanov/planta-api/internal/domain/repository"
)

var _ repository.TransferAuditRepository = (*TransferAuditRepo)(nil)

// TransferAuditRepo persiste el registro de auditoría de traslados.
type TransferAuditRepo struct {
	q Querier
}

// NewTransferAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferAuditRepository(q Querier) *TransferAuditRepo {
	return &TransferAuditRepo{q: q}
}

// Create inserta la fila de auditoría del traslado.
func (r *TransferAuditRepo) Create(a *entity.TransferAudit) error {
	query := `
		INSERT INTO transfer_audit (item_id, from_warehouse_id, to_warehouse_id, quantity, reference, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	createdBy := (*string)(nil)
	if a.CreatedBy != "" {
		createdBy = &a.CreatedBy
	}
	err := r.q.QueryRow(context.Background(), query,
		a.ItemID, a.FromWarehouseID, a.ToWarehouseID, a.Quantity,
		a.Reference, a.Note, createdBy, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReference
		}
		return fmt.Errorf("create transfer audit: %w", err)
	}
	return nil
}

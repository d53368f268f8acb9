package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jcastanov/planta-api/internal/domain"
	"github.com/jcastanov/planta-api/internal/domain/entity"
	"github.com/jcastanov/planta-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL.
// Solo INSERT y SELECT: el libro es append-only, no se emite UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, item_id, warehouse_id, type, quantity, direction, occurred_at, recorded_at, reference, note, created_by`

// Create inserta el movimiento; el id BIGSERIAL queda en m.ID (monótono por
// commit). El índice único parcial sobre reference respalda la verificación
// previa de idempotencia: si dos publicaciones concurrentes pasan el check con
// la misma referencia, la segunda choca aquí con ErrDuplicateReference.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (item_id, warehouse_id, type, quantity, direction, occurred_at, recorded_at, reference, note, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	reference := (*string)(nil)
	if m.Reference != "" {
		reference = &m.Reference
	}
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	err := r.q.QueryRow(context.Background(), query,
		m.ItemID, m.WarehouseID, m.Type, m.Quantity, m.Direction,
		m.OccurredAt, m.RecordedAt, reference, m.Note, createdBy,
	).Scan(&m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReference
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ListByItem devuelve los movimientos de la clave en orden ascendente por
// occurred_at, desempatado por id. warehouseID nil = todos los del item.
func (r *MovementRepo) ListByItem(itemID string, warehouseID *string, after *time.Time) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE item_id = $1`
	args := []any{itemID}
	pos := 2
	if warehouseID != nil {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, *warehouseID)
		pos++
	}
	if after != nil {
		query += fmt.Sprintf(" AND occurred_at > $%d", pos)
		args = append(args, *after)
		pos++
	}
	query += " ORDER BY occurred_at ASC, id ASC"
	return r.list(query, args)
}

// ListRecent devuelve el historial paginado, más recientes primero.
func (r *MovementRepo) ListRecent(itemID string, warehouseID *string, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE item_id = $1`
	args := []any{itemID}
	pos := 2
	if warehouseID != nil {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, *warehouseID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY occurred_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(query, args)
}

func (r *MovementRepo) list(query string, args []any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var reference, note, createdBy *string
		if err := rows.Scan(&m.ID, &m.ItemID, &m.WarehouseID, &m.Type, &m.Quantity, &m.Direction,
			&m.OccurredAt, &m.RecordedAt, &reference, &note, &createdBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if reference != nil {
			m.Reference = *reference
		}
		if note != nil {
			m.Note = *note
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByItem agrega la clave en SQL: suma de quantity * direction.
func (r *MovementRepo) SumByItem(itemID string, warehouseID *string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity * direction), 0) FROM stock_movements WHERE item_id = $1`
	args := []any{itemID}
	if warehouseID != nil {
		query += " AND warehouse_id = $2"
		args = append(args, *warehouseID)
	}
	var total decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return total, nil
}

// SumUnscoped agrega la sub-clave sin bodega del item.
func (r *MovementRepo) SumUnscoped(itemID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity * direction), 0) FROM stock_movements WHERE item_id = $1 AND warehouse_id IS NULL`,
		itemID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum unscoped movements: %w", err)
	}
	return total, nil
}

// ExistsByReference verifica si alguna operación ya usó la referencia.
func (r *MovementRepo) ExistsByReference(reference string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM stock_movements WHERE reference = $1)`, reference,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by reference: %w", err)
	}
	return exists, nil
}

// LockItem toma un advisory lock transaccional por item: serializa las
// publicaciones sin bodega, que no tienen fila de bucket que bloquear.
// Se libera solo al terminar la transacción.
func (r *MovementRepo) LockItem(itemID string) error {
	_, err := r.q.Exec(context.Background(), `SELECT pg_advisory_xact_lock(hashtext($1))`, itemID)
	if err != nil {
		return fmt.Errorf("lock item: %w", err)
	}
	return nil
}

package stock_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jcastanov/planta-api/internal/application/stock"
	"github.com/jcastanov/planta-api/internal/domain"
	"github.com/jcastanov/planta-api/internal/domain/entity"
	"github.com/jcastanov/planta-api/internal/domain/repository"
)

// Dobles en memoria para los casos de uso del motor. El txRunner de prueba
// trabaja sobre una copia del estado y solo publica al terminar bien: el
// rollback es real, no simulado.

type memState struct {
	movements []entity.Movement
	buckets   map[string]entity.StockBucket // clave "bodega|item"
	audits    []entity.TransferAudit
	nextID    int64
}

func newMemState() *memState {
	return &memState{buckets: map[string]entity.StockBucket{}, nextID: 1}
}

func (s *memState) clone() *memState {
	c := &memState{
		movements: append([]entity.Movement(nil), s.movements...),
		buckets:   make(map[string]entity.StockBucket, len(s.buckets)),
		audits:    append([]entity.TransferAudit(nil), s.audits...),
		nextID:    s.nextID,
	}
	for k, v := range s.buckets {
		c.buckets[k] = v
	}
	return c
}

func bucketKey(warehouseID, itemID string) string { return warehouseID + "|" + itemID }

func (s *memState) seedBucket(warehouseID, itemID string, current int64) {
	b := entity.NewStockBucket(warehouseID, itemID)
	b.CurrentQuantity = decimal.NewFromInt(current)
	s.buckets[bucketKey(warehouseID, itemID)] = *b
}

func (s *memState) seedMovement(itemID string, warehouseID *string, movType string, qty int64, occurredAt time.Time) {
	direction, fixed := entity.DirectionOf(movType)
	if !fixed {
		direction = 1
		if qty < 0 {
			direction = -1
			qty = -qty
		}
	}
	s.movements = append(s.movements, entity.Movement{
		ID:          s.nextID,
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Type:        movType,
		Quantity:    decimal.NewFromInt(qty),
		Direction:   direction,
		OccurredAt:  occurredAt,
		RecordedAt:  occurredAt,
	})
	s.nextID++
}

// ── Repositorio de movimientos ───────────────────────────────────────────────

type memMovementRepo struct {
	s *memState
	// emula una verificación previa que perdió la carrera: ExistsByReference
	// miente y el índice único del insert tiene que atrapar el duplicado
	staleRefCheck bool
}

func isTransferType(movType string) bool {
	return movType == entity.MovementTypeTransferOUT || movType == entity.MovementTypeTransferIN
}

func (r *memMovementRepo) Create(m *entity.Movement) error {
	// Espejo del índice único parcial: referencia única entre publicaciones
	// que no son pareja de traslado.
	if m.Reference != "" && !isTransferType(m.Type) {
		for i := range r.s.movements {
			prev := &r.s.movements[i]
			if prev.Reference == m.Reference && !isTransferType(prev.Type) {
				return domain.ErrDuplicateReference
			}
		}
	}
	m.ID = r.s.nextID
	r.s.nextID++
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *memMovementRepo) matches(m *entity.Movement, itemID string, warehouseID *string) bool {
	if m.ItemID != itemID {
		return false
	}
	if warehouseID == nil {
		return true
	}
	return m.WarehouseID != nil && *m.WarehouseID == *warehouseID
}

func (r *memMovementRepo) ListByItem(itemID string, warehouseID *string, after *time.Time) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if !r.matches(&m, itemID, warehouseID) {
			continue
		}
		if after != nil && !m.OccurredAt.After(*after) {
			continue
		}
		mc := m
		out = append(out, &mc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out, nil
}

func (r *memMovementRepo) ListRecent(itemID string, warehouseID *string, limit, offset int) ([]*entity.Movement, error) {
	all, _ := r.ListByItem(itemID, warehouseID, nil)
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memMovementRepo) SumByItem(itemID string, warehouseID *string) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range r.s.movements {
		m := r.s.movements[i]
		if r.matches(&m, itemID, warehouseID) {
			total = total.Add(m.SignedQuantity())
		}
	}
	return total, nil
}

func (r *memMovementRepo) SumUnscoped(itemID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.ItemID == itemID && m.WarehouseID == nil {
			total = total.Add(m.SignedQuantity())
		}
	}
	return total, nil
}

func (r *memMovementRepo) ExistsByReference(reference string) (bool, error) {
	if r.staleRefCheck {
		return false, nil
	}
	for i := range r.s.movements {
		if r.s.movements[i].Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMovementRepo) LockItem(string) error { return nil }

// ── Repositorio de buckets ───────────────────────────────────────────────────

type memBucketRepo struct{ s *memState }

func (r *memBucketRepo) Get(warehouseID, itemID string) (*entity.StockBucket, error) {
	if b, ok := r.s.buckets[bucketKey(warehouseID, itemID)]; ok {
		bc := b
		return &bc, nil
	}
	return nil, nil
}

func (r *memBucketRepo) GetForUpdate(warehouseID, itemID string) (*entity.StockBucket, error) {
	return r.Get(warehouseID, itemID)
}

func (r *memBucketRepo) Upsert(b *entity.StockBucket) error {
	r.s.buckets[bucketKey(b.WarehouseID, b.ItemID)] = *b
	return nil
}

// ── Auditoría de traslados ───────────────────────────────────────────────────

type memAuditRepo struct {
	s   *memState
	err error // inyectable: fuerza el rollback de la transacción
}

func (r *memAuditRepo) Create(a *entity.TransferAudit) error {
	if r.err != nil {
		return r.err
	}
	a.ID = int64(len(r.s.audits) + 1)
	r.s.audits = append(r.s.audits, *a)
	return nil
}

// ── TxRunner con copy-on-write ───────────────────────────────────────────────

type memTxRunner struct {
	s             *memState
	auditErr      error
	staleRefCheck bool
}

func (t *memTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	bucketRepo repository.StockBucketRepository,
	auditRepo repository.TransferAuditRepository,
) error) error {
	work := t.s.clone()
	err := fn(&memMovementRepo{s: work, staleRefCheck: t.staleRefCheck}, &memBucketRepo{s: work}, &memAuditRepo{s: work, err: t.auditErr})
	if err != nil {
		return err
	}
	*t.s = *work
	return nil
}

// ── Maestros ─────────────────────────────────────────────────────────────────

type memItemRepo struct{ items map[string]entity.Item }

func (r *memItemRepo) GetByID(id string) (*entity.Item, error) {
	if it, ok := r.items[id]; ok {
		return &it, nil
	}
	return nil, nil
}

type memWarehouseRepo struct{ warehouses map[string]entity.Warehouse }

func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	if w, ok := r.warehouses[id]; ok {
		return &w, nil
	}
	return nil, nil
}

func newItemRepo(ids ...string) *memItemRepo {
	r := &memItemRepo{items: map[string]entity.Item{}}
	for _, id := range ids {
		r.items[id] = entity.Item{ID: id, SKU: id, Name: id, Active: true}
	}
	return r
}

func newWarehouseRepo(ids ...string) *memWarehouseRepo {
	r := &memWarehouseRepo{warehouses: map[string]entity.Warehouse{}}
	for _, id := range ids {
		r.warehouses[id] = entity.Warehouse{ID: id, Name: id, Active: true}
	}
	return r
}

// ── Reportero de anomalías ───────────────────────────────────────────────────

type recordingAnomalies struct {
	calls  int
	itemID string
}

func (a *recordingAnomalies) ReportLedgerInconsistency(itemID string, _ *string, _ time.Time, _ decimal.Decimal) {
	a.calls++
	a.itemID = itemID
}

var _ stock.AnomalyReporter = (*recordingAnomalies)(nil)

func strPtr(s string) *string { return &s }

package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jcastanov/planta-api/internal/domain"
	"github.com/jcastanov/planta-api/internal/domain/entity"
	"github.com/jcastanov/planta-api/internal/domain/repository"
)

// PostMovementUseCase registra movimientos del libro de inventario de forma
// transaccional: bloqueo de la fila del bucket (SELECT FOR UPDATE) o bloqueo
// advisory por item cuando el movimiento no tiene bodega, verificación de
// no-negatividad antes de escribir, y actualización del bucket junto al append.
type PostMovementUseCase struct {
	txRunner      TxRunner
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
}

// NewPostMovementUseCase construye el caso de uso.
func NewPostMovementUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
) *PostMovementUseCase {
	return &PostMovementUseCase{
		txRunner:      txRunner,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
	}
}

// MovementInputDTO entrada para publicar un movimiento.
// Quantity debe ser > 0 salvo para ADJUSTMENT, donde el signo indica la dirección.
// OccurredAt en cero usa el instante actual. Reference vacía = sin idempotencia.
type MovementInputDTO struct {
	ItemID      string
	WarehouseID *string
	Type        string
	Quantity    decimal.Decimal
	OccurredAt  time.Time
	Reference   string
	Note        string
	CreatedBy   string
}

// PostMovement valida la entrada, abre la transacción y aplica el movimiento.
// Devuelve el id monótono asignado por el libro.
//
// Garantías: si el tipo es un decremento y dejaría la clave en negativo,
// devuelve ErrInsufficientStock sin escribir nada; si Reference ya fue usada
// por otra operación, devuelve ErrDuplicateReference sin escribir nada.
func (uc *PostMovementUseCase) PostMovement(ctx context.Context, input MovementInputDTO) (int64, error) {
	if input.ItemID == "" || !entity.IsValidMovementType(input.Type) {
		return 0, domain.ErrInvalidInput
	}

	direction, fixed := entity.DirectionOf(input.Type)
	quantity := input.Quantity
	if fixed {
		if !quantity.GreaterThan(decimal.Zero) {
			return 0, domain.ErrInvalidInput
		}
	} else {
		// ADJUSTMENT: el signo de la cantidad define la dirección.
		if quantity.IsZero() {
			return 0, domain.ErrInvalidInput
		}
		direction = 1
		if quantity.IsNegative() {
			direction = -1
			quantity = quantity.Neg()
		}
	}

	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, domain.ErrNotFound
	}
	if input.WarehouseID != nil {
		wh, err := uc.warehouseRepo.GetByID(*input.WarehouseID)
		if err != nil {
			return 0, err
		}
		if wh == nil {
			return 0, domain.ErrNotFound
		}
	}

	now := time.Now()
	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	var movementID int64
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		bucketRepo repository.StockBucketRepository,
		_ repository.TransferAuditRepository,
	) error {
		if input.WarehouseID == nil {
			// Sin bodega no hay fila de bucket: serializar por item.
			if err := movRepo.LockItem(input.ItemID); err != nil {
				return err
			}
		}
		if input.Reference != "" {
			used, err := movRepo.ExistsByReference(input.Reference)
			if err != nil {
				return err
			}
			if used {
				return domain.ErrDuplicateReference
			}
		}

		if input.WarehouseID != nil {
			bucket, err := bucketRepo.GetForUpdate(*input.WarehouseID, input.ItemID)
			if err != nil {
				return err
			}
			if bucket == nil {
				bucket = entity.NewStockBucket(*input.WarehouseID, input.ItemID)
			}
			if direction < 0 {
				if bucket.AvailableQuantity().LessThan(quantity) {
					return domain.ErrInsufficientStock
				}
				bucket.CurrentQuantity = bucket.CurrentQuantity.Sub(quantity)
				bucket.LastOutAt = &now
			} else {
				bucket.CurrentQuantity = bucket.CurrentQuantity.Add(quantity)
				bucket.LastInAt = &now
			}
			bucket.UpdatedAt = now
			if err := bucketRepo.Upsert(bucket); err != nil {
				return err
			}
		} else if direction < 0 {
			// El saldo sin bodega es una sub-clave propia: un decremento sin
			// bodega solo puede consumir lo que entró sin bodega. Así ninguna
			// sub-clave queda negativa y el total del item tampoco.
			balance, err := movRepo.SumUnscoped(input.ItemID)
			if err != nil {
				return err
			}
			if balance.LessThan(quantity) {
				return domain.ErrInsufficientStock
			}
		}

		mov := &entity.Movement{
			ItemID:      input.ItemID,
			WarehouseID: input.WarehouseID,
			Type:        input.Type,
			Quantity:    quantity,
			Direction:   direction,
			OccurredAt:  occurredAt,
			RecordedAt:  now,
			Reference:   input.Reference,
			Note:        input.Note,
			CreatedBy:   input.CreatedBy,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		movementID = mov.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return movementID, nil
}

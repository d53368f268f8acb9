package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jcastanov/planta-api/internal/domain"
	"github.com/jcastanov/planta-api/internal/domain/entity"
	"github.com/jcastanov/planta-api/internal/domain/repository"
)

// TransferUseCase traslada una cantidad de un item entre bodegas como unidad
// atómica: decrementa el bucket origen, incrementa (o crea) el bucket destino,
// y registra la pareja TRANSFER_OUT/TRANSFER_IN con la misma referencia de
// correlación, más la fila de auditoría con la nota del originador.
type TransferUseCase struct {
	txRunner      TxRunner
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:      txRunner,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
	}
}

// TransferInputDTO entrada para un traslado entre bodegas.
// Reference vacía genera un uuid; un reintento con la misma referencia
// devuelve ErrDuplicateReference en lugar de aplicar el traslado dos veces.
type TransferInputDTO struct {
	FromWarehouseID string
	ToWarehouseID   string
	ItemID          string
	Quantity        decimal.Decimal
	Reference       string
	Note            string
	CreatedBy       string
}

// Transfer ejecuta el traslado. Precondiciones en orden, cada una con su error:
// cantidad > 0 y bodegas distintas (ErrInvalidInput), item y bodegas existen
// (ErrNotFound), bucket origen existe (ErrNotFound), disponible suficiente
// (ErrInsufficientStock).
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInputDTO) error {
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if input.ItemID == "" || input.FromWarehouseID == "" || input.ToWarehouseID == "" {
		return domain.ErrInvalidInput
	}
	// Un traslado a la misma bodega es una petición sin sentido: se rechaza,
	// no se acepta en silencio.
	if input.FromWarehouseID == input.ToWarehouseID {
		return domain.ErrInvalidInput
	}

	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	for _, whID := range []string{input.FromWarehouseID, input.ToWarehouseID} {
		wh, err := uc.warehouseRepo.GetByID(whID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrNotFound
		}
	}

	reference := input.Reference
	if reference == "" {
		reference = uuid.New().String()
	}
	now := time.Now()

	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		bucketRepo repository.StockBucketRepository,
		auditRepo repository.TransferAuditRepository,
	) error {
		// Bloquear las dos filas en orden lexicográfico de bodega para que dos
		// traslados cruzados sobre el mismo item no se bloqueen mutuamente.
		var origin, dest *entity.StockBucket
		var err error
		if input.FromWarehouseID < input.ToWarehouseID {
			origin, err = bucketRepo.GetForUpdate(input.FromWarehouseID, input.ItemID)
			if err != nil {
				return err
			}
			dest, err = bucketRepo.GetForUpdate(input.ToWarehouseID, input.ItemID)
		} else {
			dest, err = bucketRepo.GetForUpdate(input.ToWarehouseID, input.ItemID)
			if err != nil {
				return err
			}
			origin, err = bucketRepo.GetForUpdate(input.FromWarehouseID, input.ItemID)
		}
		if err != nil {
			return err
		}
		if origin == nil {
			return domain.ErrNotFound
		}

		used, err := movRepo.ExistsByReference(reference)
		if err != nil {
			return err
		}
		if used {
			return domain.ErrDuplicateReference
		}

		if origin.AvailableQuantity().LessThan(input.Quantity) {
			return domain.ErrInsufficientStock
		}
		if dest == nil {
			dest = entity.NewStockBucket(input.ToWarehouseID, input.ItemID)
		}

		origin.CurrentQuantity = origin.CurrentQuantity.Sub(input.Quantity)
		origin.LastOutAt = &now
		origin.UpdatedAt = now
		if err := bucketRepo.Upsert(origin); err != nil {
			return err
		}
		dest.CurrentQuantity = dest.CurrentQuantity.Add(input.Quantity)
		dest.LastInAt = &now
		dest.UpdatedAt = now
		if err := bucketRepo.Upsert(dest); err != nil {
			return err
		}

		fromID, toID := input.FromWarehouseID, input.ToWarehouseID
		outMov := &entity.Movement{
			ItemID:      input.ItemID,
			WarehouseID: &fromID,
			Type:        entity.MovementTypeTransferOUT,
			Quantity:    input.Quantity,
			Direction:   -1,
			OccurredAt:  now,
			RecordedAt:  now,
			Reference:   reference,
			Note:        input.Note,
			CreatedBy:   input.CreatedBy,
		}
		if err := movRepo.Create(outMov); err != nil {
			return err
		}
		inMov := &entity.Movement{
			ItemID:      input.ItemID,
			WarehouseID: &toID,
			Type:        entity.MovementTypeTransferIN,
			Quantity:    input.Quantity,
			Direction:   1,
			OccurredAt:  now,
			RecordedAt:  now,
			Reference:   reference,
			Note:        input.Note,
			CreatedBy:   input.CreatedBy,
		}
		if err := movRepo.Create(inMov); err != nil {
			return err
		}

		return auditRepo.Create(&entity.TransferAudit{
			ItemID:          input.ItemID,
			FromWarehouseID: input.FromWarehouseID,
			ToWarehouseID:   input.ToWarehouseID,
			Quantity:        input.Quantity,
			Reference:       reference,
			Note:            input.Note,
			CreatedBy:       input.CreatedBy,
			CreatedAt:       now,
		})
	})
}

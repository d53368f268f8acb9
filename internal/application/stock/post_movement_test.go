package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jcastanov/planta-api/internal/application/stock"
	"github.com/jcastanov/planta-api/internal/domain"
	"github.com/jcastanov/planta-api/internal/domain/entity"
)

func newPostUC(state *memState, items *memItemRepo, warehouses *memWarehouseRepo) *stock.PostMovementUseCase {
	return stock.NewPostMovementUseCase(&memTxRunner{s: state}, items, warehouses)
}

func TestPostMovement_EntradaActualizaBucketYLibro(t *testing.T) {
	state := newMemState()
	uc := newPostUC(state, newItemRepo("tornillo"), newWarehouseRepo("bod-1"))

	id, err := uc.PostMovement(context.Background(), stock.MovementInputDTO{
		ItemID:      "tornillo",
		WarehouseID: strPtr("bod-1"),
		Type:        entity.MovementTypeIN,
		Quantity:    decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id, "el primer movimiento recibe el id 1")

	require.Len(t, state.movements, 1)
	assert.Equal(t, entity.MovementTypeIN, state.movements[0].Type)
	assert.True(t, state.movements[0].SignedQuantity().Equal(decimal.NewFromInt(10)))

	bucket := state.buckets[bucketKey("bod-1", "tornillo")]
	assert.True(t, bucket.CurrentQuantity.Equal(decimal.NewFromInt(10)))
	assert.NotNil(t, bucket.LastInAt, "una entrada debe marcar last_in_at")
	assert.Nil(t, bucket.LastOutAt)
}

func TestPostMovement_SalidaSinStockNoEscribeNada(t *testing.T) {
	state := newMemState()
	state.seedBucket("bod-1", "tornillo", 3)
	uc := newPostUC(state, newItemRepo("tornillo"), newWarehouseRepo("bod-1"))

	_, err := uc.PostMovement(context.Background(), stock.MovementInputDTO{
		ItemID:      "tornillo",
		WarehouseID: strPtr("bod-1"),
		Type:        entity.MovementTypeOUT,
		Quantity:    decimal.NewFromInt(5),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, state.movements, "una salida rechazada no deja registro en el libro")
	bucket := state.buckets[bucketKey("bod-1", "tornillo")]
	assert.True(t, bucket.CurrentQuantity.Equal(decimal.NewFromInt(3)), "el bucket no debe cambiar")
}

func TestPostMovement_SalidaDescuentaYMarcaLastOut(t *testing.T) {
	state := newMemState()
	state.seedBucket("bod-1", "tornillo", 8)
	uc := newPostUC(state, newItemRepo("tornillo"), newWarehouseRepo("bod-1"))

	_, err := uc.PostMovement(context.Background(), stock.MovementInputDTO{
		ItemID:      "tornillo",
		WarehouseID: strPtr("bod-1"),
		Type:        entity.MovementTypeProductionOUT,
		Quantity:    decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	bucket := state.buckets[bucketKey("bod-1", "tornillo")]
	assert.True(t, bucket.CurrentQuantity.IsZero(), "consumir todo deja el bucket en cero, nunca negativo")
	assert.NotNil(t, bucket.LastOutAt)
}

func TestPostMovement_AjusteNegativoLlevaDireccionExplicita(t *testing.T) {
	state := newMemState()
	state.seedBucket("bod-1", "tornillo", 5)
	uc := newPostUC(state, newItemRepo("tornillo"), newWarehouseRepo("bod-1"))

	_, err := uc.PostMovement(context.Background(), stock.MovementInputDTO{
		ItemID:      "tornillo",
		WarehouseID: strPtr("bod-1"),
		Type:        entity.MovementTypeADJUSTMENT,
		Quantity:    decimal.NewFromInt(-3),
	})
	require.NoError(t, err)

	require.Len(t, state.movements, 1)
	assert.Equal(t, -1, state.movements[0].Direction)
	assert.True(t, state.movements[0].Quantity.Equal(decimal.NewFromInt(3)), "la magnitud se guarda positiva")
	bucket := state.buckets[bucketKey("bod-1", "tornillo")]
	assert.True(t, bucket.CurrentQuantity.Equal(decimal.NewFromInt(2)))
}

func TestPostMovement_SinBodegaUsaElSaldoSinBodega(t *testing.T) {
	state := newMemState()
	uc := newPostUC(state, newItemRepo("tornillo"), newWarehouseRepo())

	_, err := uc.PostMovement(context.Background(), stock.MovementInputDTO{
		ItemID:   "tornillo",
		Type:     entity.MovementTypeIN,
		Quantity: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	_, err = uc.PostMovement(context.Background(), stock.MovementInputDTO{
		ItemID:   "tornillo",
		Type:     entity.MovementTypeOUT,
		Quantity: decimal.NewFromInt(4),
	})
	require.NoError(t, err)

	// Saldo sin bodega: 10 - 4 = 6; pedir 7 viola la no-negatividad.
	_, err = uc.PostMovement(context.Background(), stock.MovementInputDTO{
		ItemID:   "tornillo",
		Type:     entity.MovementTypeOUT,
		Quantity: decimal.NewFromInt(7),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Len(t, state.movements, 2)
}

func TestPostMovement_SalidaSinBodegaNoConsumeStockDeBodegas(t *testing.T) {
	state := newMemState()
	state.seedBucket("bod-1", "tornillo", 10)
	state.seedMovement("tornillo", strPtr("bod-1"), entity.MovementTypeIN, 10, time.Now())
	uc := newPostUC(state, newItemRepo("tornillo"), newWarehouseRepo("bod-1"))

	// Todo el stock del item vive en bod-1: una salida sin bodega no tiene
	// de dónde descontar, aunque el total del item sea 10.
	_, err := uc.PostMovement(context.Background(), stock.MovementInputDTO{
		ItemID:   "tornillo",
		Type:     entity.MovementTypeOUT,
		Quantity: decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La salida de bodega sigue disponible y el total nunca baja de cero.
	_, err = uc.PostMovement(context.Background(), stock.MovementInputDTO{
		ItemID:      "tornillo",
		WarehouseID: strPtr("bod-1"),
		Type:        entity.MovementTypeOUT,
		Quantity:    decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	movRepo := &memMovementRepo{s: state}
	total, err := movRepo.SumByItem("tornillo", nil)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(5)), "total del item: %s", total)
	assert.False(t, total.IsNegative())
}

func TestPostMovement_IndiceUnicoRespaldaLaReferencia(t *testing.T) {
	state := newMemState()
	tx := &memTxRunner{s: state, staleRefCheck: true}
	uc := stock.NewPostMovementUseCase(tx, newItemRepo("tornillo"), newWarehouseRepo("bod-1"))

	input := stock.MovementInputDTO{
		ItemID:      "tornillo",
		WarehouseID: strPtr("bod-1"),
		Type:        entity.MovementTypeIN,
		Quantity:    decimal.NewFromInt(10),
		Reference:   "oc-2026-002",
	}
	_, err := uc.PostMovement(context.Background(), input)
	require.NoError(t, err)

	// La verificación previa no ve la referencia (dos publicaciones que
	// pasaron el check a la vez): el insert choca con el índice único y la
	// transacción se revierte completa.
	_, err = uc.PostMovement(context.Background(), input)
	require.ErrorIs(t, err, domain.ErrDuplicateReference)

	assert.Len(t, state.movements, 1, "exactamente un efecto en el libro")
	bucket := state.buckets[bucketKey("bod-1", "tornillo")]
	assert.True(t, bucket.CurrentQuantity.Equal(decimal.NewFromInt(10)), "el bucket no se toca dos veces")
}

func TestPostMovement_ReferenciaRepetidaEsIdempotente(t *testing.T) {
	state := newMemState()
	uc := newPostUC(state, newItemRepo("tornillo"), newWarehouseRepo("bod-1"))

	input := stock.MovementInputDTO{
		ItemID:      "tornillo",
		WarehouseID: strPtr("bod-1"),
		Type:        entity.MovementTypeIN,
		Quantity:    decimal.NewFromInt(10),
		Reference:   "oc-2026-001",
	}
	_, err := uc.PostMovement(context.Background(), input)
	require.NoError(t, err)

	_, err = uc.PostMovement(context.Background(), input)
	require.ErrorIs(t, err, domain.ErrDuplicateReference, "un reintento con la misma referencia no aplica dos veces")

	assert.Len(t, state.movements, 1, "exactamente un efecto en el libro")
	bucket := state.buckets[bucketKey("bod-1", "tornillo")]
	assert.True(t, bucket.CurrentQuantity.Equal(decimal.NewFromInt(10)))
}

func TestPostMovement_EntradasInvalidas(t *testing.T) {
	state := newMemState()
	uc := newPostUC(state, newItemRepo("tornillo"), newWarehouseRepo("bod-1"))

	cases := []struct {
		name  string
		input stock.MovementInputDTO
		want  error
	}{
		{"tipo desconocido", stock.MovementInputDTO{ItemID: "tornillo", Type: "REGALO", Quantity: decimal.NewFromInt(1)}, domain.ErrInvalidInput},
		{"cantidad cero", stock.MovementInputDTO{ItemID: "tornillo", Type: entity.MovementTypeIN, Quantity: decimal.Zero}, domain.ErrInvalidInput},
		{"cantidad negativa en entrada", stock.MovementInputDTO{ItemID: "tornillo", Type: entity.MovementTypeIN, Quantity: decimal.NewFromInt(-2)}, domain.ErrInvalidInput},
		{"ajuste cero", stock.MovementInputDTO{ItemID: "tornillo", Type: entity.MovementTypeADJUSTMENT, Quantity: decimal.Zero}, domain.ErrInvalidInput},
		{"item inexistente", stock.MovementInputDTO{ItemID: "fantasma", Type: entity.MovementTypeIN, Quantity: decimal.NewFromInt(1)}, domain.ErrNotFound},
		{"bodega inexistente", stock.MovementInputDTO{ItemID: "tornillo", WarehouseID: strPtr("bod-9"), Type: entity.MovementTypeIN, Quantity: decimal.NewFromInt(1)}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.PostMovement(context.Background(), tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, state.movements)
}

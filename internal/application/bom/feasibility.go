package bom

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jcastanov/planta-api/internal/domain"
	"github.com/jcastanov/planta-api/internal/domain/repository"
)

// StockReader es el puerto hacia el agregador de stock: la verificación de
// factibilidad lee stock agregado, no el libro crudo.
type StockReader interface {
	CurrentStock(ctx context.Context, itemID string, warehouseID *string) (decimal.Decimal, error)
}

// FeasibilityUseCase responde "¿puedo producir N unidades del padre P con el
// stock actual de sus componentes?" en un solo nivel de BOM: no recorre el BOM
// del hijo, ni siquiera el del cuello de botella.
type FeasibilityUseCase struct {
	edgeRepo repository.BOMEdgeRepository
	itemRepo repository.ItemRepository
	stock    StockReader
}

// NewFeasibilityUseCase construye el verificador.
func NewFeasibilityUseCase(
	edgeRepo repository.BOMEdgeRepository,
	itemRepo repository.ItemRepository,
	stock StockReader,
) *FeasibilityUseCase {
	return &FeasibilityUseCase{edgeRepo: edgeRepo, itemRepo: itemRepo, stock: stock}
}

// ComponentCheck es el resultado por componente.
type ComponentCheck struct {
	ChildItemID     string
	ChildName       string
	QuantityPerUnit decimal.Decimal
	Required        decimal.Decimal
	Available       decimal.Decimal
	Shortage        decimal.Decimal
	Sufficient      bool
	MaxProducible   decimal.Decimal // unidades enteras del padre que este componente permite
	UnitPrice       decimal.Decimal
}

// FeasibilityReport es el resultado agregado de la verificación.
type FeasibilityReport struct {
	ParentItemID          string
	RequestedQuantity     decimal.Decimal
	CanProduce            bool
	MaxProducibleQuantity decimal.Decimal
	ShortageQuantity      decimal.Decimal // unidades del padre que no alcanzan a producirse
	FulfillmentRate       decimal.Decimal // valor disponible / valor requerido, en [0,1]
	BottleneckItemID      string          // vacío si el padre no tiene componentes
	Components            []ComponentCheck
}

// CheckFeasibility calcula por componente requerido/disponible/faltante y el
// máximo producible, identifica el cuello de botella (mínimo producible, con
// desempate por la primera arista en orden ascendente de child_item_id) y la
// tasa de cumplimiento en términos monetarios.
//
// Un padre sin aristas activas es trivialmente producible: max = solicitado.
func (uc *FeasibilityUseCase) CheckFeasibility(ctx context.Context, parentItemID string, requested decimal.Decimal, warehouseID *string) (*FeasibilityReport, error) {
	if parentItemID == "" || !requested.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	parent, err := uc.itemRepo.GetByID(parentItemID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}

	edges, err := uc.edgeRepo.ListByParent(parentItemID)
	if err != nil {
		return nil, err
	}

	report := &FeasibilityReport{
		ParentItemID:          parentItemID,
		RequestedQuantity:     requested,
		CanProduce:            true,
		MaxProducibleQuantity: requested,
		ShortageQuantity:      decimal.Zero,
		FulfillmentRate:       decimal.Zero,
		Components:            make([]ComponentCheck, 0, len(edges)),
	}
	if len(edges) == 0 {
		return report, nil
	}

	var (
		minProducible     decimal.Decimal
		haveBottleneck    bool
		totalRequiredVal  decimal.Decimal
		totalAvailableVal decimal.Decimal
	)

	for _, edge := range edges {
		child, err := uc.itemRepo.GetByID(edge.ChildItemID)
		if err != nil {
			return nil, err
		}
		if child == nil {
			return nil, domain.ErrNotFound
		}
		available, err := uc.stock.CurrentStock(ctx, edge.ChildItemID, warehouseID)
		if err != nil {
			return nil, err
		}

		required := edge.QuantityPerUnit.Mul(requested)
		shortage := required.Sub(available)
		if shortage.IsNegative() {
			shortage = decimal.Zero
		}
		maxByComponent := available.Div(edge.QuantityPerUnit).Floor()
		if maxByComponent.IsNegative() {
			maxByComponent = decimal.Zero
		}

		check := ComponentCheck{
			ChildItemID:     edge.ChildItemID,
			ChildName:       child.Name,
			QuantityPerUnit: edge.QuantityPerUnit,
			Required:        required,
			Available:       available,
			Shortage:        shortage,
			Sufficient:      shortage.IsZero(),
			MaxProducible:   maxByComponent,
			UnitPrice:       child.Price,
		}
		report.Components = append(report.Components, check)

		if !check.Sufficient {
			report.CanProduce = false
		}
		// Cuello de botella: estrictamente menor conserva el primero en caso de empate.
		if !haveBottleneck || maxByComponent.LessThan(minProducible) {
			minProducible = maxByComponent
			report.BottleneckItemID = edge.ChildItemID
			haveBottleneck = true
		}

		// Valoración monetaria: el disponible cuenta hasta lo requerido, para
		// que un componente sobrado no oculte a uno faltante.
		countedAvailable := available
		if countedAvailable.GreaterThan(required) {
			countedAvailable = required
		}
		if countedAvailable.IsNegative() {
			countedAvailable = decimal.Zero
		}
		totalRequiredVal = totalRequiredVal.Add(required.Mul(child.Price))
		totalAvailableVal = totalAvailableVal.Add(countedAvailable.Mul(child.Price))
	}

	if minProducible.LessThan(requested) {
		report.MaxProducibleQuantity = minProducible
	}
	report.ShortageQuantity = requested.Sub(report.MaxProducibleQuantity)
	if report.ShortageQuantity.IsNegative() {
		report.ShortageQuantity = decimal.Zero
	}
	if !totalRequiredVal.IsZero() {
		report.FulfillmentRate = totalAvailableVal.Div(totalRequiredVal).Round(4)
	}
	return report, nil
}

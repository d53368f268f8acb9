package entity

import "github.com/shopspring/decimal"

// BOMEdge es una arista de la lista de materiales: cuántas unidades del hijo
// consume una unidad del padre. Un solo nivel: el motor no recorre el BOM del
// hijo (Level es una anotación precalculada del maestro, no se usa para recursión).
// Invariantes del maestro: ParentItemID != ChildItemID y QuantityPerUnit > 0.
type BOMEdge struct {
	ParentItemID    string
	ChildItemID     string
	QuantityPerUnit decimal.Decimal
	Level           int
	Active          bool
}

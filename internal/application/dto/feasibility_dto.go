package dto

import (
	"github.com/shopspring/decimal"
	"github.com/jcastanov/planta-api/internal/application/bom"
)

// ComponentCheckDTO desglose por componente de la verificación de factibilidad.
type ComponentCheckDTO struct {
	ChildItemID     string          `json:"child_item_id"`
	ChildName       string          `json:"child_name"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	Required        decimal.Decimal `json:"required"`
	Available       decimal.Decimal `json:"available"`
	Shortage        decimal.Decimal `json:"shortage"`
	Sufficient      bool            `json:"sufficient"`
	MaxProducible   decimal.Decimal `json:"max_producible"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

// FeasibilityResponse reporte de factibilidad de producción.
type FeasibilityResponse struct {
	ParentItemID          string              `json:"parent_item_id"`
	RequestedQuantity     decimal.Decimal     `json:"requested_quantity"`
	CanProduce            bool                `json:"can_produce"`
	MaxProducibleQuantity decimal.Decimal     `json:"max_producible_quantity"`
	ShortageQuantity      decimal.Decimal     `json:"shortage_quantity"`
	FulfillmentRate       decimal.Decimal     `json:"fulfillment_rate"`
	BottleneckItemID      string              `json:"bottleneck_item_id,omitempty"`
	Components            []ComponentCheckDTO `json:"components"`
}

// FeasibilityFromReport mapea el reporte del caso de uso al DTO HTTP.
func FeasibilityFromReport(r *bom.FeasibilityReport) FeasibilityResponse {
	out := FeasibilityResponse{
		ParentItemID:          r.ParentItemID,
		RequestedQuantity:     r.RequestedQuantity,
		CanProduce:            r.CanProduce,
		MaxProducibleQuantity: r.MaxProducibleQuantity,
		ShortageQuantity:      r.ShortageQuantity,
		FulfillmentRate:       r.FulfillmentRate,
		BottleneckItemID:      r.BottleneckItemID,
		Components:            make([]ComponentCheckDTO, 0, len(r.Components)),
	}
	for _, c := range r.Components {
		out.Components = append(out.Components, ComponentCheckDTO{
			ChildItemID:     c.ChildItemID,
			ChildName:       c.ChildName,
			QuantityPerUnit: c.QuantityPerUnit,
			Required:        c.Required,
			Available:       c.Available,
			Shortage:        c.Shortage,
			Sufficient:      c.Sufficient,
			MaxProducible:   c.MaxProducible,
			UnitPrice:       c.UnitPrice,
		})
	}
	return out
}

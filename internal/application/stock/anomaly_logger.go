package stock

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jcastanov/planta-api/pkg/logger"
)

var _ AnomalyReporter = (*LogAnomalyReporter)(nil)

// LogAnomalyReporter es la implementación por defecto de AnomalyReporter:
// alerta por log estructurado a nivel error, para que el operador lo vea.
type LogAnomalyReporter struct {
	log *logger.Logger
}

// NewLogAnomalyReporter construye el reportero sobre el logger de la app.
func NewLogAnomalyReporter(log *logger.Logger) *LogAnomalyReporter {
	return &LogAnomalyReporter{log: log}
}

// ReportLedgerInconsistency registra la anomalía con la clave y el valor calculado.
func (r *LogAnomalyReporter) ReportLedgerInconsistency(itemID string, warehouseID *string, at time.Time, computed decimal.Decimal) {
	ev := r.log.Error().
		Str("item_id", itemID).
		Time("as_of", at).
		Str("computed", computed.String())
	if warehouseID != nil {
		ev = ev.Str("warehouse_id", *warehouseID)
	}
	ev.Msg("reconstrucción punto-en-el-tiempo recortada a cero: libro inconsistente")
}

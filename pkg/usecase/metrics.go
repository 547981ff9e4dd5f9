package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/secmon-lab/riskregister/pkg/domain/types"
)

var (
	// risksWritten counts committed risk writes by operation and resulting current level
	risksWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskregister_risks_written_total",
		Help: "Total committed risk writes by operation and current risk level",
	}, []string{"operation", "level"})

	// riskIDConflicts counts generated risk IDs lost to a concurrent writer
	riskIDConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riskregister_risk_id_conflicts_total",
		Help: "Total generated risk IDs that were taken by a concurrent writer",
	})
)

func recordRiskWrite(operation string, level types.RiskLevel) {
	risksWritten.WithLabelValues(operation, level.String()).Inc()
}

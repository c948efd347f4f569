// Package metrics expone los contadores Prometheus del motor de kardex.
// Se publican en /metrics vía promhttp (montado en el router fiber).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsCommitted transacciones confirmadas en el ledger, por tipo.
	TransactionsCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kardex",
		Name:      "transactions_committed_total",
		Help:      "Transacciones de inventario confirmadas, por tipo.",
	}, []string{"type"})

	// TransactionsRejected operaciones rechazadas antes del commit, por motivo.
	TransactionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kardex",
		Name:      "transactions_rejected_total",
		Help:      "Operaciones rechazadas sin escribir nada, por motivo.",
	}, []string{"reason"})

	// LockTimeouts adquisiciones de candado vencidas por contención.
	LockTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kardex",
		Name:      "lock_timeouts_total",
		Help:      "Timeouts adquiriendo el candado de una clave (bodega, parte).",
	})

	// DiscrepanciesDetected divergencias caché vs ledger encontradas.
	DiscrepanciesDetected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kardex",
		Name:      "reconcile_discrepancies_total",
		Help:      "Discrepancias detectadas por el motor de conciliación.",
	})

	// CommitDuration latencia de la sección crítica (candado tomado).
	CommitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kardex",
		Name:      "commit_duration_seconds",
		Help:      "Duración de validar-stock + append + actualizar saldo.",
		Buckets:   prometheus.DefBuckets,
	})
)

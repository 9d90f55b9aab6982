package keeper

import (
	"math/big"
	"sync"

	sdkmath "cosmossdk.io/math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// XYKMetrics holds all Prometheus metrics for the xyk module
type XYKMetrics struct {
	// Operation outcomes
	Operations      *prometheus.CounterVec
	Rejections      *prometheus.CounterVec
	FatalViolations *prometheus.CounterVec

	// Swap metrics
	SwapsTotal *prometheus.CounterVec
	SwapVolume *prometheus.CounterVec
	SwapFees   *prometheus.CounterVec

	// Liquidity metrics
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec

	// Pool metrics
	PoolsActive    prometheus.Gauge
	PoolsCreated   prometheus.Counter
	PoolsDestroyed prometheus.Counter
}

var (
	xykMetricsOnce sync.Once
	xykMetrics     *XYKMetrics
)

// NewXYKMetrics creates and registers xyk metrics (singleton pattern)
func NewXYKMetrics() *XYKMetrics {
	xykMetricsOnce.Do(func() {
		xykMetrics = &XYKMetrics{
			Operations: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "xyk",
					Subsystem: "amm",
					Name:      "operations_total",
					Help:      "Operations handled by the xyk keeper by outcome",
				},
				[]string{"operation", "status"},
			),
			Rejections: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "xyk",
					Subsystem: "amm",
					Name:      "rejections_total",
					Help:      "Rejected operations by error class",
				},
				[]string{"operation", "class"},
			),
			FatalViolations: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "xyk",
					Subsystem: "amm",
					Name:      "fatal_invariant_violations_total",
					Help:      "Executions that failed after validation and were discarded",
				},
				[]string{"operation"},
			),
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "xyk",
					Subsystem: "amm",
					Name:      "swaps_total",
					Help:      "Total number of swaps executed",
				},
				[]string{"kind", "asset_in", "asset_out", "discount"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "xyk",
					Subsystem: "amm",
					Name:      "swap_volume_total",
					Help:      "Total amount paid into pools by swaps in base units",
				},
				[]string{"asset"},
			),
			SwapFees: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "xyk",
					Subsystem: "amm",
					Name:      "swap_fees_total",
					Help:      "Reference asset burned for discounted fees",
				},
				[]string{"asset"},
			),
			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "xyk",
					Subsystem: "amm",
					Name:      "liquidity_added_total",
					Help:      "Shares minted by liquidity additions",
				},
				[]string{"pool"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "xyk",
					Subsystem: "amm",
					Name:      "liquidity_removed_total",
					Help:      "Shares burned by liquidity removals",
				},
				[]string{"pool"},
			),
			PoolsActive: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "xyk",
					Subsystem: "amm",
					Name:      "pools_active",
					Help:      "Pools created minus pools destroyed since start",
				},
			),
			PoolsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "xyk",
					Subsystem: "amm",
					Name:      "pools_created_total",
					Help:      "Total number of pools created",
				},
			),
			PoolsDestroyed: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "xyk",
					Subsystem: "amm",
					Name:      "pools_destroyed_total",
					Help:      "Total number of pools destroyed by full withdrawal",
				},
			),
		}
	})
	return xykMetrics
}

// metricAmount converts a ledger amount to a float for counters. Precision loss above 2^53 is
// acceptable for metrics.
func metricAmount(v sdkmath.Int) float64 {
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}

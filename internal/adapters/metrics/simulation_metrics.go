package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
)

// SimulationMetricsCollector tracks tick timing and the live structure census.
// Tick durations are pushed from the simulation goroutine; the census is
// polled from the world's thread-safe stats snapshot.
type SimulationMetricsCollector struct {
	stats func() simulation.WorldStats

	tickDuration      prometheus.Histogram
	ticksTotal        prometheus.Gauge
	buildingsTotal    prometheus.Gauge
	buildingsByStatus *prometheus.GaugeVec

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// Compile-time check: the simulation loop pushes tick samples here
var _ simulation.TickMetrics = (*SimulationMetricsCollector)(nil)

// NewSimulationMetricsCollector creates a collector reading the given stats snapshot
func NewSimulationMetricsCollector(stats func() simulation.WorldStats) *SimulationMetricsCollector {
	return &SimulationMetricsCollector{
		stats: stats,

		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Simulation tick execution time distribution",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),

		ticksTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Ticks executed since the world was created",
			},
		),

		buildingsTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "buildings_total",
				Help:      "Structures currently tracked by the world, including those in removal grace",
			},
		),

		buildingsByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "buildings",
				Help:      "Structures currently tracked by the world, by lifecycle status",
			},
			[]string{"status"},
		),
	}
}

// Register registers all simulation metrics with the Prometheus registry
func (c *SimulationMetricsCollector) Register() error {
	return registerAll(
		c.tickDuration,
		c.ticksTotal,
		c.buildingsTotal,
		c.buildingsByStatus,
	)
}

// ObserveTick records one simulation tick duration
func (c *SimulationMetricsCollector) ObserveTick(duration time.Duration) {
	c.tickDuration.Observe(duration.Seconds())
}

// Start begins the census polling goroutine
func (c *SimulationMetricsCollector) Start(ctx context.Context) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.collect(10 * time.Second)
}

// Stop gracefully stops the census polling
func (c *SimulationMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *SimulationMetricsCollector) collect(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.update()
		}
	}
}

// update reads the current world stats and refreshes the gauges
func (c *SimulationMetricsCollector) update() {
	if c.stats == nil {
		return
	}

	stats := c.stats()
	c.ticksTotal.Set(float64(stats.Ticks))
	c.buildingsTotal.Set(float64(stats.TotalBuildings))

	// Reset to drop statuses no structure is in anymore
	c.buildingsByStatus.Reset()
	for status, count := range stats.StatusCounts {
		c.buildingsByStatus.WithLabelValues(string(status)).Set(float64(count))
	}
}

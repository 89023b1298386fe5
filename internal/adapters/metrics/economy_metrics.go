package metrics

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	appEconomy "github.com/alanli-ML/ai-rts-sub008/internal/application/economy"
)

// EconomyMetricsCollector polls the team ledger and exports per-team stock
// levels and power rates. The ledger is internally locked, so polling never
// touches the simulation goroutine.
type EconomyMetricsCollector struct {
	teams func() []appEconomy.TeamEconomySnapshot

	teamStocks      *prometheus.GaugeVec
	teamGeneration  *prometheus.GaugeVec
	teamConsumption *prometheus.GaugeVec
	teamSources     *prometheus.GaugeVec

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewEconomyMetricsCollector creates a collector reading the given team snapshots
func NewEconomyMetricsCollector(teams func() []appEconomy.TeamEconomySnapshot) *EconomyMetricsCollector {
	return &EconomyMetricsCollector{
		teams: teams,

		teamStocks: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "team_stock",
				Help:      "Current resource stock per team",
			},
			[]string{"team_id", "resource"},
		),

		teamGeneration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "team_generation_rate",
				Help:      "Per-second resource generation per team from operational structures",
			},
			[]string{"team_id", "resource"},
		),

		teamConsumption: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "team_consumption_rate",
				Help:      "Per-second resource consumption per team from operational structures",
			},
			[]string{"team_id", "resource"},
		),

		teamSources: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "team_rate_sources",
				Help:      "Registered generators and consumers per team",
			},
			[]string{"team_id", "role"},
		),
	}
}

// Register registers all economy metrics with the Prometheus registry
func (c *EconomyMetricsCollector) Register() error {
	return registerAll(
		c.teamStocks,
		c.teamGeneration,
		c.teamConsumption,
		c.teamSources,
	)
}

// Start begins the ledger polling goroutine
func (c *EconomyMetricsCollector) Start(ctx context.Context) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.collect(10 * time.Second)
}

// Stop gracefully stops the ledger polling
func (c *EconomyMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *EconomyMetricsCollector) collect(interval time.Duration) {
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

// update reads every team snapshot and refreshes the gauges
func (c *EconomyMetricsCollector) update() {
	if c.teams == nil {
		return
	}

	for _, team := range c.teams() {
		teamID := strconv.Itoa(team.TeamID)

		for resource, amount := range team.Stocks {
			c.teamStocks.WithLabelValues(teamID, string(resource)).Set(amount)
		}
		for resource, rate := range team.GenerationRates {
			c.teamGeneration.WithLabelValues(teamID, string(resource)).Set(rate)
		}
		for resource, rate := range team.ConsumptionRates {
			c.teamConsumption.WithLabelValues(teamID, string(resource)).Set(rate)
		}
		c.teamSources.WithLabelValues(teamID, "generator").Set(float64(team.GeneratorCount))
		c.teamSources.WithLabelValues(teamID, "consumer").Set(float64(team.ConsumerCount))
	}
}

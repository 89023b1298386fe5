package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alanli-ML/ai-rts-sub008/internal/adapters/gateway"
	"github.com/alanli-ML/ai-rts-sub008/internal/adapters/metrics"
	"github.com/alanli-ML/ai-rts-sub008/internal/adapters/persistence"
	"github.com/alanli-ML/ai-rts-sub008/internal/adapters/spatial"
	appBuilding "github.com/alanli-ML/ai-rts-sub008/internal/application/building"
	appEconomy "github.com/alanli-ML/ai-rts-sub008/internal/application/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/logging"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/setup"
	"github.com/alanli-ML/ai-rts-sub008/internal/application/simulation"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
	"github.com/alanli-ML/ai-rts-sub008/internal/domain/economy"
	"github.com/alanli-ML/ai-rts-sub008/internal/infrastructure/config"
	"github.com/alanli-ML/ai-rts-sub008/internal/infrastructure/database"
	"github.com/alanli-ML/ai-rts-sub008/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configPath := flag.String("config", "", "Path to config file (searches default paths if empty)")
	flag.Parse()

	fmt.Println("RTS Daemon v0.1.0")
	fmt.Println("=================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configPath)

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	err := pf.Acquire()
	if err != nil {
		if *forceFlag {
			// Force mode: kill existing daemon and try again
			fmt.Println("Force mode enabled - attempting to kill existing daemon...")
			if killErr := pf.KillExisting(); killErr != nil {
				log.Fatalf("Failed to kill existing daemon: %v", killErr)
			}
			fmt.Println("Existing daemon killed")

			if err := pf.Acquire(); err != nil {
				log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
			}
		} else {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
	}

	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	// Initialize application
	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	// 1. Setup database connection
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	fmt.Println("Database connected")

	// 2. Initialize repositories
	buildingRepo := persistence.NewGormBuildingRepository(db, nil) // nil = use RealClock in production
	stockRepo := persistence.NewGormTeamStockRepository(db)
	eventRepo := persistence.NewGormBuildingEventRepository(db, nil)

	// 3. Initialize team ledger and restore persisted stocks
	ledger := appEconomy.NewLedgerService(cfg.Economy.Teams, map[economy.ResourceKind]float64{
		economy.ResourceEnergy:   cfg.Economy.StartingEnergy,
		economy.ResourceMinerals: cfg.Economy.StartingMinerals,
	})
	stocks, err := stockRepo.LoadAllStocks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load team stocks: %w", err)
	}
	if len(stocks) > 0 {
		ledger.RestoreStocks(stocks)
		fmt.Printf("Restored stocks for %d teams\n", len(stocks))
	}
	fmt.Printf("Ledger initialized for teams %v\n", cfg.Economy.Teams)

	// 4. Initialize the building catalog with balance overrides
	catalog := building.NewCatalogWithOverrides(balanceOverrides(&cfg.Balance))
	fmt.Printf("Catalog initialized (%d building types)\n", len(catalog.Types()))

	// 5. Initialize event bus and world
	bus := appBuilding.NewBuildingEventBus()
	world := simulation.NewWorld(
		catalog,
		ledger,
		spatial.NewGridIndex(0), // 0 = default cell size
		bus,
		nil, // nil = timer-based removal scheduler
		buildingRepo,
		logging.NewStdoutLogger("simulation"),
		nil, // nil = RealClock
	)

	// 6. Initialize the simulation loop and restore persisted buildings
	loop := simulation.NewLoop(world, cfg.Simulation.TickInterval, logging.NewStdoutLogger("loop"))
	world.SetExecutor(loop)

	if err := world.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore world state: %w", err)
	}
	fmt.Printf("World restored (%d structures)\n", world.Stats().TotalBuildings)

	// 7. Start the event recorder so the lifecycle log persists across restarts
	recorder := persistence.NewEventRecorder(eventRepo, bus, logging.NewStdoutLogger("events"))
	recorder.Start()

	// 8. Initialize mediator and register all handlers
	registry := setup.NewHandlerRegistry(loop, ledger, eventRepo)
	med, err := registry.CreateConfiguredMediator()
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}
	fmt.Println("Mediator configured")

	// 9. Initialize gateway server
	gatewayServer := gateway.NewServer(med, bus, logging.NewStdoutLogger("gateway"), gateway.Options{
		Path:            cfg.Gateway.Path,
		MaxClients:      cfg.Gateway.MaxClients,
		MaxMessageBytes: cfg.Gateway.MaxMessageBytes,
		WriteTimeout:    cfg.Gateway.WriteTimeout,
		PingInterval:    cfg.Gateway.PingInterval,
		RateLimit: gateway.RateLimitOptions{
			CommandsPerSecond: cfg.Gateway.RateLimit.CommandsPerSecond,
			Burst:             cfg.Gateway.RateLimit.Burst,
		},
	})

	// 10. Initialize metrics when enabled
	metricsCtx, stopMetrics := context.WithCancel(ctx)
	defer stopMetrics()
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		simCollector := metrics.NewSimulationMetricsCollector(world.Stats)
		econCollector := metrics.NewEconomyMetricsCollector(ledger.AllTeams)
		commandCollector := metrics.NewCommandMetricsCollector()
		gatewayCollector := metrics.NewGatewayMetricsCollector()
		for _, err := range []error{
			simCollector.Register(),
			econCollector.Register(),
			commandCollector.Register(),
			gatewayCollector.Register(),
		} {
			if err != nil {
				return fmt.Errorf("failed to register metrics: %w", err)
			}
		}

		loop.SetMetrics(simCollector)
		med.RegisterMiddleware(metrics.PrometheusMiddleware(commandCollector))
		gatewayServer.SetMetrics(gatewayCollector)

		simCollector.Start(metricsCtx)
		econCollector.Start(metricsCtx)
		defer simCollector.Stop()
		defer econCollector.Stop()

		metricsServer = metrics.NewServer(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
		if metricsServer != nil {
			metricsServer.Start()
			fmt.Printf("Metrics endpoint on http://%s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
		}
	}

	// 11. Start the simulation and the gateway
	loop.Start()
	if err := gatewayServer.Start(cfg.Gateway.Address); err != nil {
		loop.Stop()
		return fmt.Errorf("failed to start gateway: %w", err)
	}
	fmt.Printf("Gateway listening on ws://%s%s\n", gatewayServer.Addr(), cfg.Gateway.Path)

	// 12. Persist team stocks on an interval so a crash loses little
	persistCtx, stopPersist := context.WithCancel(ctx)
	defer stopPersist()
	go persistStocksLoop(persistCtx, ledger, stockRepo, cfg.Economy.PersistInterval)

	fmt.Println("\n✓ Daemon is ready to accept connections")
	fmt.Println("Press Ctrl+C to stop")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	fmt.Println("\nShutdown signal received, stopping daemon...")

	// 13. Shut down in dependency order: stop intake, drain the loop,
	// persist world and stocks, then release the event stream.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
	defer cancel()

	if err := gatewayServer.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Warning: gateway shutdown: %v\n", err)
	}
	stopPersist()
	loop.Stop()

	if err := world.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Warning: world persistence: %v\n", err)
	}
	if err := ledger.PersistStocks(shutdownCtx, stockRepo); err != nil {
		fmt.Printf("Warning: stock persistence: %v\n", err)
	}
	recorder.Stop()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Warning: metrics shutdown: %v\n", err)
		}
	}

	fmt.Println("Daemon stopped")
	return nil
}

// balanceOverrides converts config balance entries into catalog overrides
func balanceOverrides(cfg *config.BalanceConfig) map[building.BuildingType]building.ConfigOverride {
	if len(cfg.Buildings) == 0 {
		return nil
	}
	overrides := make(map[building.BuildingType]building.ConfigOverride, len(cfg.Buildings))
	for typeKey, balance := range cfg.Buildings {
		overrides[building.BuildingType(typeKey)] = building.ConfigOverride{
			MaxHealth:        balance.MaxHealth,
			ConstructionTime: balance.ConstructionTime,
			ConstructionCost: balance.ConstructionCost,
			PowerGeneration:  balance.PowerGeneration,
			PowerConsumption: balance.PowerConsumption,
			PlacementRadius:  balance.PlacementRadius,
		}
	}
	return overrides
}

// persistStocksLoop writes team stocks to the database on an interval
func persistStocksLoop(ctx context.Context, ledger *appEconomy.LedgerService, repo economy.StockRepository, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ledger.PersistStocks(ctx, repo); err != nil {
				fmt.Printf("Warning: periodic stock persistence: %v\n", err)
			}
		}
	}
}

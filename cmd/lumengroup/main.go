// Lumen Group Core - Virtual Group Lighting Service
//
// This is the main entry point for the Lumen Group Core application.
// It builds virtual group lights from configuration: each group validates
// its colour palette, resolves its member lights against the device
// catalogue, folds member power states into a single availability flag,
// and fans commands out to its members over MQTT one at a time.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/ferndale-labs/lumengroup-core/migrations"

	"github.com/ferndale-labs/lumengroup-core/internal/api"
	"github.com/ferndale-labs/lumengroup-core/internal/control"
	"github.com/ferndale-labs/lumengroup-core/internal/device"
	"github.com/ferndale-labs/lumengroup-core/internal/grouplight"
	"github.com/ferndale-labs/lumengroup-core/internal/infrastructure/config"
	"github.com/ferndale-labs/lumengroup-core/internal/infrastructure/database"
	"github.com/ferndale-labs/lumengroup-core/internal/infrastructure/influxdb"
	"github.com/ferndale-labs/lumengroup-core/internal/infrastructure/logging"
	"github.com/ferndale-labs/lumengroup-core/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error { //nolint:gocognit // Linear startup sequence; splitting obscures the defer ordering
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Lumen Group Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath, "groups", len(cfg.Groups))

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise device registry
	deviceRepo := device.NewSQLiteRepository(db.DB)
	deviceRegistry := device.NewRegistry(deviceRepo)
	deviceRegistry.SetLogger(log)

	if refreshErr := deviceRegistry.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading device registry: %w", refreshErr)
	}
	log.Info("device registry initialised", "devices", deviceRegistry.GetDeviceCount())

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the command controller: publishes device commands and
	// correlates the acknowledgements that group fanout blocks on.
	qos := byte(cfg.MQTT.QoS)
	controller := control.NewController(mqttClient, qos)
	controller.SetLogger(log)
	if startErr := controller.Start(); startErr != nil {
		return fmt.Errorf("starting command controller: %w", startErr)
	}
	log.Info("command controller started")

	// Build the configured groups. An invalid group aborts startup.
	groups, err := grouplight.Setup(ctx, cfg.Groups, deviceRegistry, controller, log)
	if err != nil {
		return fmt.Errorf("building groups: %w", err)
	}
	log.Info("groups initialised", "count", groups.Count())

	// Start the API server
	apiDeps := api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Security: cfg.Security,
		Logger:   log,
		Registry: deviceRegistry,
		Groups:   groups,
		Version:  version,
	}
	if influxClient != nil {
		apiDeps.Recorder = influxClient
	}
	server, err := api.New(apiDeps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	// Push availability transitions to WebSocket clients and InfluxDB.
	hub := server.Hub()
	for _, g := range groups.List() {
		g.SetAvailabilityHandler(func(key string, available bool) {
			log.Info("group availability changed", "group", key, "available", available)
			hub.Broadcast(api.ChannelGroupAvailability, map[string]any{
				"group":     key,
				"available": available,
			})
			if influxClient != nil {
				influxClient.WriteGroupAvailability(key, available)
			}
		})
	}

	// Listen for device state reports: update the catalogue, feed group
	// availability, and relay to WebSocket clients.
	stateListener := control.NewStateListener(mqttClient, qos, deviceRegistry)
	stateListener.SetLogger(log)
	stateListener.OnStateChange(func(deviceID string, on bool) {
		groups.Observe(deviceID, on)
		hub.Broadcast(api.ChannelDeviceState, map[string]any{
			"device_id": deviceID,
			"on":        on,
		})
		if influxClient != nil {
			influxClient.WriteDevicePowerState(deviceID, on)
		}
	})
	if startErr := stateListener.Start(); startErr != nil {
		return fmt.Errorf("starting state listener: %w", startErr)
	}
	log.Info("state listener started")

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, server, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT
	// 4. Database

	log.Info("Lumen Group Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses LUMENGROUP_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("LUMENGROUP_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check
//   - server: API server to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, server *api.Server, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pigdevice/src/config"
	"pigdevice/src/interfaces"
	"pigdevice/src/logger"
	"pigdevice/src/models"
	"pigdevice/src/observability"
	"pigdevice/src/server"
	"pigdevice/src/store"
	"pigdevice/src/telemetry"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	config, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(config.LogLevel, config.Name)

	// Setup Components
	metrics := observability.NewMetrics()

	var deviceStore interfaces.IDeviceStore = store.NewDeviceStore(config.DefaultCurrency)

	var adapter interfaces.ITelemetryAdapter = telemetry.NewMQTTAdapter(
		config.Telemetry,
		logger.NewLogger(config.LogLevel, "telemetry"),
		metrics,
	)

	srv := server.NewWebServer(config.MConfig, appLogger, deviceStore, adapter, metrics)
	var pusher interfaces.IStatePusher = srv

	// Telemetry ingress: every decoded mutation goes through the same
	// apply-then-fan-out path as the HTTP surface. Connection failures are
	// non-fatal; the HTTP surface stays fully functional without telemetry.
	sink := func(deviceID string, m models.MMutation) {
		deviceStore.Update(deviceID, m, pusher.PushDeviceState)
		metrics.MutationsApplied.WithLabelValues("telemetry").Inc()
	}
	if err := adapter.Start(sink); err != nil {
		appLogger.Error("Telemetry adapter failed to start: %v", err)
	}
	defer adapter.Stop()

	// Start Server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		appLogger.Critical("Server failed: %v", err)
	case <-quit:
		appLogger.Info("Shutting down...")
	}
}

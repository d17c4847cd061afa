package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/capto/internal/app"
	"github.com/ternarybob/capto/internal/common"
	"github.com/ternarybob/capto/internal/server"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	serverPort   = flag.Int("port", 0, "Trigger server port (overrides config)")
	serverPortP  = flag.Int("p", 0, "Trigger server port (shorthand, overrides config)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Capto version %s\n", common.GetVersion())
		os.Exit(0)
	}

	finalPort := *serverPort
	if *serverPortP != 0 {
		finalPort = *serverPortP
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("capto.toml"); err == nil {
			configFiles = append(configFiles, "capto.toml")
		} else if _, err := os.Stat("deployments/local/capto.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/capto.toml")
		}
	}

	// Load configuration (defaults -> files -> env -> CLI)
	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	common.ApplyFlagOverrides(config, finalPort, "")

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	// Missing identity or secret is fatal before the loop is entered
	if err := config.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	maskedEmail := config.Cloud.Email
	if len(maskedEmail) > 3 {
		maskedEmail = maskedEmail[:3] + "***"
	}
	logger.Info().
		Str("backend_url", config.Backend.URL).
		Str("cloud_email", maskedEmail).
		Dur("refresh_interval", time.Duration(config.Refresh.SuccessInterval)).
		Dur("retry_interval", time.Duration(config.Refresh.RetryInterval)).
		Int("trigger_port", config.Server.Port).
		Msg("Capto starting")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Trigger server in background
	srv := server.New(application)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("Trigger server failed")
			cancel()
		}
	}()

	// Supervisor loop in background; first capture fires immediately
	done := make(chan struct{})
	go func() {
		application.Supervisor.Run(ctx)
		close(done)
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case <-ctx.Done():
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Server shutdown error")
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		logger.Warn().Msg("Supervisor did not stop within timeout")
	}

	logger.Info().Msg("Capto stopped")
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/safing/iconloader/base/info"
	"github.com/safing/iconloader/base/log"
	"github.com/safing/iconloader/service"
)

var (
	configFile string
	logLevel   string
	dataDir    string
	policy     string

	instance *service.Instance

	rootCmd = &cobra.Command{
		Use:               "iconloader",
		Short:             "Extract the best icon from ICNS and ICO files.",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "set config file")
	flags.StringVar(&logLevel, "log", "", "set log level to [trace|debug|info|warning|error|critical]")
	flags.StringVar(&dataDir, "data-dir", "", "set data directory, holds the cache and logs")
	flags.StringVar(&policy, "policy", "", "set ICNS selection policy to [first|largest]")
}

func main() {
	info.Set("iconloader", "")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	teardown()
	if err != nil {
		cancel()
		os.Exit(1)
	}
}

// setup loads the config, starts logging and creates the service instance.
func setup(cmd *cobra.Command, args []string) error {
	cfg := &service.Config{}
	if configFile != "" {
		var err error
		cfg, err = service.LoadConfig(configFile)
		if err != nil {
			return err
		}
	}

	// Flags override the config file.
	if cmd.Flags().Changed("log") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if cmd.Flags().Changed("policy") {
		cfg.SelectionPolicy = policy
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warning"
	}
	// Only the server logs to files.
	if cmd == serveCmd {
		if serveListen != "" {
			cfg.ListenAddress = serveListen
		}
	} else {
		cfg.LogToStdout = true
	}
	if err := cfg.Init(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Start logging.
	// Note: Must be started before the service instance, so that it uses the right logger.
	if err := log.Start(cfg.LogLevel, cfg.LogToStdout, cfg.LogDir); err != nil {
		return err
	}

	var err error
	instance, err = service.New(info.Version(), cfg)
	if err != nil {
		log.Shutdown()
		return fmt.Errorf("create instance: %w", err)
	}
	return nil
}

// teardown stops the instance and logging, if started.
func teardown() {
	if instance != nil {
		if err := instance.Stop(); err != nil {
			log.Errorf("iconloader: failed to stop: %s", err)
		}
		instance = nil
	}
	log.Shutdown()
}

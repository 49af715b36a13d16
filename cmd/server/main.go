// Package main is the entry point for the POTA hunting logger server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pota-logger/backend/internal/config"
	"github.com/pota-logger/backend/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the loaded configuration to subcommands.
type app struct {
	v   *viper.Viper
	cfg *config.Config
}

func rootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "pota-logger",
		Short:         "Parks on the Air hunting logger backend",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	config.RegisterFlags(root.PersistentFlags())
	config.RegisterServeFlags(root.PersistentFlags())

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.load(cmd)
	}

	root.AddCommand(
		serveCommand(a),
		exportCommand(a),
		migrateCommand(a),
		healthCheckCommand(a),
	)

	return root
}

// load reads .env, binds flags and configures logging.
func (a *app) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	a.v = config.New()
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	a.cfg = cfg

	// Allow overriding version via environment (e.g., injected by container build/runtime)
	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	return logging.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

func serveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

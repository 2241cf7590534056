package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	fleetconsole "github.com/routerfleet/FleetConsole"
	"github.com/routerfleet/FleetConsole/internal/env"
)

var rootCmd = &cobra.Command{
	Use:   "fleetconsole",
	Short: "Batch firmware operations for a RouterOS device fleet",
	Long:  `fleetconsole drives a device-registry service: it lists the fleet, runs sequential bulk firmware updates with halt-and-recover on missing packages, refreshes device facts in server-side batches, and imports devices from spreadsheets.`,
}

var rootRegistryURL string

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	rootCmd.PersistentFlags().StringVar(&rootRegistryURL, "registry-url", "", "Registry base URL overriding $FLEET_REGISTRY_URL")
	rootCmd.AddCommand(
		newConsoleCmd(),
		newDevicesCmd(),
		newUpdateCmd(),
		newRefreshCmd(),
		newImportCmd(),
		newUploadPackageCmd(),
		newPingCmd(),
	)
	_ = env.Ensure()
	if level, err := zerolog.ParseLevel(fleetconsole.EnvString(fleetconsole.EnvLogLevel, "info")); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if path := env.LoadedPath(); path != "" {
		log.Debug().Str("dotenv", path).Msg("environment loaded")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("fleetconsole command failed")
	}
}

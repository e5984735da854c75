package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/module"
	"github.com/tristendillon/appdef/core/server"
)

var (
	devHost string
	devPort int
)

// devCmd represents the dev command
var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Run the development server",
	Long: `Serves the app from the routes directory. Page modules are interpreted,
so edits show up on the next request without a rebuild, and editors connected
to the websocket endpoint are told about every change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = devHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = devPort
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg, m := server.NewMetrics(cfg)
		loader, err := module.NewInterpLoader(m)
		if err != nil {
			return err
		}
		defer loader.Close()

		logger.Debug("Serving routes from %s", cfg.RoutesDir())
		return server.NewServer(cfg, loader, reg, m).Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(devCmd)

	devCmd.Flags().StringVar(&devHost, "host", "", "Host to listen on (overrides the config)")
	devCmd.Flags().IntVarP(&devPort, "port", "p", 0, "Port to listen on (overrides the config)")
}

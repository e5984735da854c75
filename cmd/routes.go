/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tristendillon/appdef/core/generator"
	"github.com/tristendillon/appdef/core/logger"
)

var (
	routesOut   string
	routesCheck bool
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Prints the routing tree for the project",
	Long: `Computes the route manifest from the routes directory and prints it as a
tree. --check parses every module for missing exports and unusable imports,
--out writes the manifest as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("routes called")
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		generator := generator.NewRouteGenerator(cfg)
		m, err := generator.GenerateRouteTree(logger.INFO)
		if err != nil {
			return fmt.Errorf("failed to generate route tree: %w", err)
		}

		if routesOut != "" {
			if _, err := generator.WriteManifest(m, routesOut); err != nil {
				return err
			}
		}

		if routesCheck {
			problems := generator.Check(m)
			for _, p := range problems {
				logger.Error("%s: %s", p.Module, p.Message)
			}
			if len(problems) > 0 {
				return fmt.Errorf("found %d problems", len(problems))
			}
			logger.Info("All modules look fine")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)

	routesCmd.Flags().StringVarP(&routesOut, "out", "o", "", "Write the manifest as JSON to this file")
	routesCmd.Flags().BoolVar(&routesCheck, "check", false, "Check every module for problems")
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/manifest"
	"github.com/tristendillon/appdef/core/scaffold"
	"github.com/tristendillon/appdef/core/server"
	"github.com/tristendillon/appdef/core/shared"
)

var dryRun bool

var newCmd = &cobra.Command{
	Use:   "new <path>",
	Short: "Scaffold a new page",
	Long: `Creates the page module for a route path such as /product/:slug or
product.$slug. Pages with dynamic segments get a Loader returning their params.
Use "/" for the home page.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		wanted, err := shared.ParseRoutePath(args[0])
		if err != nil {
			return err
		}

		m, err := manifest.NewCompiler(cfg, nil).Compute()
		if err != nil {
			return err
		}

		proposal := scaffold.NewScaffolder(cfg.Routes).Propose(m, cfg.RoutesDir(), wanted)
		if !proposal.IsValid {
			return fmt.Errorf("%s", proposal.ErrorMessage)
		}

		if dryRun {
			fmt.Printf("// %s\n%s", proposal.PageModule, proposal.NewPageSourceCode)
			return nil
		}
		if err := server.WritePage(proposal); err != nil {
			return err
		}
		logger.Info("Created %s", proposal.PageModule)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the page instead of writing it")
}

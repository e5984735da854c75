/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/template_engine"
)

var (
	force bool
)

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Initialize a new appdef project",
	Long:  `Creates the boilerplate for a new app: config, root layout, home and error pages.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("init called")
		dir := args[0]
		if _, err := os.Stat(dir); err == nil {
			if !force {
				return fmt.Errorf("directory %s already exists, use --force to overwrite", dir)
			}
			logger.Debug("Directory %s already exists. Overwriting.", dir)
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("failed to clear %s: %w", dir, err)
			}
		}

		name := strings.ToLower(filepath.Base(dir))
		initData := map[string]string{
			"AppName":          name,
			"ModuleName":       name,
			"MetricsNamespace": strings.ReplaceAll(name, "-", "_"),
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}

		engine := template_engine.NewTemplateEngine()
		if err := engine.GenerateFolder(template_engine.TEMPLATES.INIT.Ref, dir, initData); err != nil {
			return fmt.Errorf("failed to generate project: %w", err)
		}
		logger.Info("Successfully generated project: %s", dir)

		fmt.Printf("Next Steps:\n")
		fmt.Printf("  - cd %s\n", dir)
		fmt.Printf("  - appdef new /products\n")
		fmt.Printf("  - appdef dev\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing files")
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/masonbuild/mason/internal/app"
	"github.com/masonbuild/mason/internal/config"
	"github.com/masonbuild/mason/internal/env"
	"github.com/masonbuild/mason/internal/logger"
	"github.com/masonbuild/mason/internal/task"
)

func newListCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mounted units and the hooks they respond to",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.ParseConfig(root.configPath)
			if err != nil {
				return err
			}

			snap := env.NewSnapshot(cfg)
			log, err := logger.New(logger.Options{Level: "error"})
			if err != nil {
				return err
			}

			a := app.New(cfg, snap, log)
			if err := a.Mount(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, category := range []task.Category{task.CategoryWorkers, task.CategoryPlugins} {
				fmt.Fprintf(out, "%s:\n", category)
				for _, name := range a.Registry().Names(category) {
					hooks := a.Registry().HooksFor(category, name)
					fmt.Fprintf(out, "  %s (%s)\n", name, strings.Join(hooks, ", "))
				}
			}
			return nil
		},
	}

	return cmd
}

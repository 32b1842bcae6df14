// jobberctl is the operations CLI: managing records, reviewing jobs and
// maintaining the search index from a shell on the host.
package main

import (
	"context"
	"fmt"
	"os"

	"jobber/internal/app"
	"jobber/internal/config"
	"jobber/internal/logging"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "jobberctl",
		Short:         "Manage the job board from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(buildCompanyCommand())
	root.AddCommand(buildLocationCommand())
	root.AddCommand(buildJobCommand())
	root.AddCommand(buildIndexCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withContainer loads config, builds the full container, runs fn and tears
// everything down again. Every subcommand goes through here.
func withContainer(fn func(ctx context.Context, c *app.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.App.Environment)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	container, err := app.NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = container.Close() }()

	return fn(context.Background(), container)
}

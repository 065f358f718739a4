package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tordrt/erd2prisma/internal/persist"
)

var resetCmd = &cobra.Command{
	Use:   "reset [store-url]",
	Short: "Delete the saved design from a store",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	url := cfg.Store.URL
	if len(args) > 0 {
		url = args[0]
	}

	backend, err := persist.Open(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			warnf(cmd.ErrOrStderr(), "failed to close store: %v", err)
		}
	}()

	repo := persist.NewRepository(backend, cfg.Store.Namespace)
	if err := repo.Clear(ctx); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), successFmt("cleared %s from %s", repo.Namespace(), url))
	return nil
}

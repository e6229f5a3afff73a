package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/roster-core/internal/application/handlers"
	"github.com/ersonp/roster-core/internal/infrastructure/config"
	"github.com/ersonp/roster-core/internal/infrastructure/logging"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new roster project",
		Long:  "Creates a .roster directory with default configuration and sets up the entity and audit schemas.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir, err := projectDir()
	if err != nil {
		return err
	}

	logger := logging.Setup(config.Default().Log)
	initHandler := handlers.NewInitHandler(storeOpener(dir, logger))

	res, err := initHandler.Handle(cmd.Context(), dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", res.ConfigPath)
	fmt.Fprintf(out, "Entity store: %s, audit store: %s\n", res.StoreDriver, res.AuditDriver)
	fmt.Fprintln(out, "Roster initialized successfully!")

	return nil
}

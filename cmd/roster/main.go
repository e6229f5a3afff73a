// Package main provides the entry point for the roster CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version   = "0.1.0-dev"
	globalDir string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "roster",
		Short:         "Company and employee registry with an audit trail",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalDir, "dir", "d", "", "Project directory (default: current directory)")

	rootCmd.AddCommand(
		newInitCmd(),
		newServeCmd(),
		newCompanyCmd(),
		newEmployeeCmd(),
		newImportCmd(),
		newAuditCmd(),
	)

	return rootCmd
}

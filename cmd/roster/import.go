package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ersonp/roster-core/internal/application/handlers"
)

type importFlags struct {
	format string
	dryRun bool
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import companies from JSON or CSV",
		Long:  "Creates one company per record. Each record is its own transaction, so rejected records are reported without affecting the rest.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (json, csv, auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	if !slices.Contains(validFormats, flags.format) {
		return fmt.Errorf("invalid --format value %q (valid: %v)", flags.format, validFormats)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(d *Deps) error {
		opts := handlers.ImportOptions{
			Format: flags.format,
			DryRun: flags.dryRun,
		}

		fmt.Fprintf(out, "Importing %s...\n", filePath)

		result, err := d.ImportHandler.Handle(ctx, filePath, opts)
		if err != nil {
			return fmt.Errorf("importing file: %w", err)
		}

		// Display errors
		if len(result.Errors) > 0 {
			fmt.Fprintf(out, "\nRejected records (%d):\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  %s\n", e.Error())
			}
		}

		// Display summary
		fmt.Fprintln(out)
		if flags.dryRun {
			fmt.Fprintf(out, "Dry run: %d companies would be imported", result.Imported)
		} else {
			fmt.Fprintf(out, "Imported: %d companies", result.Imported)
		}

		if len(result.Errors) > 0 {
			fmt.Fprintf(out, ", %d errors", len(result.Errors))
		}

		fmt.Fprintln(out)

		return nil
	})
}

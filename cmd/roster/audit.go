package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/roster-core/internal/application/handlers"
	"github.com/ersonp/roster-core/internal/domain/entities"
)

type auditFlags struct {
	resource   string
	identifier string
	limit      int
	json       bool
}

func newAuditCmd() *cobra.Command {
	var flags auditFlags

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List the audit trail",
		Long:  "Lists audit records, newest first, with optional filtering by resource and identifier.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAudit(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.resource, "resource", "r", "", "Filter by resource (company, employee)")
	cmd.Flags().StringVarP(&flags.identifier, "identifier", "i", "", "Filter by company name or employee email")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultAuditLimit, "Maximum number of records to display")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print records as JSON")

	return cmd
}

func runAudit(cmd *cobra.Command, flags auditFlags) error {
	if _, err := handlers.ParseResource(flags.resource); err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(d *Deps) error {
		records, err := d.AuditHandler.Handle(ctx, handlers.AuditQuery{
			Resource:   flags.resource,
			Identifier: flags.identifier,
			Limit:      flags.limit,
		})
		if err != nil {
			return err
		}

		if flags.json {
			return printJSON(out, records)
		}

		if len(records) == 0 {
			fmt.Fprintln(out, "No audit records found.")
			return nil
		}

		for i := range records {
			displayRecord(out, &records[i])
		}
		return nil
	})
}

func displayRecord(w io.Writer, rec *entities.AuditRecord) {
	fmt.Fprintf(w, "%s  %s %s  %s\n", rec.CreatedAt.Format(time.RFC3339), rec.EventType, rec.ResourceType, rec.UniqueIdentifierValue)
	for _, entry := range rec.Changeset {
		if entry.OldValue == "" {
			fmt.Fprintf(w, "    %s: %s\n", entry.Key, entry.NewValue)
		} else {
			fmt.Fprintf(w, "    %s: %s -> %s\n", entry.Key, entry.OldValue, entry.NewValue)
		}
	}
	if rec.Comment != "" {
		fmt.Fprintf(w, "    (%s)\n", rec.Comment)
	}
	fmt.Fprintln(w)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/services"
)

type employeeFlags struct {
	email      string
	title      string
	companyIDs []int64
}

func newEmployeeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage employees",
	}

	cmd.AddCommand(newEmployeeCreateCmd())

	return cmd
}

func newEmployeeCreateCmd() *cobra.Command {
	var flags employeeFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an employee",
		Long:  "Creates an employee and attaches it to the given existing companies.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEmployeeCreate(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.email, "email", "", "Employee email")
	cmd.Flags().StringVarP(&flags.title, "title", "t", "", "Employee title (Developer, Manager, Tester)")
	cmd.Flags().Int64SliceVarP(&flags.companyIDs, "company-id", "c", nil, "Company to join (repeatable or comma-separated)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func runEmployeeCreate(cmd *cobra.Command, flags employeeFlags) error {
	title, err := entities.ParseTitle(flags.title)
	if err != nil {
		return err
	}

	req := services.CreateEmployeeRequest{
		Email:      flags.email,
		Title:      title,
		CompanyIDs: flags.companyIDs,
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		res := d.EmployeeHandler.Handle(ctx, req)
		if res.HasError() {
			return fmt.Errorf("creating employee: %w", res.Err())
		}
		return printJSON(cmd.OutOrStdout(), res.Value())
	})
}

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/services"
)

type companyFlags struct {
	name      string
	employees []string
}

func newCompanyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Manage companies",
	}

	cmd.AddCommand(newCompanyCreateCmd())

	return cmd
}

func newCompanyCreateCmd() *cobra.Command {
	var flags companyFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a company",
		Long: `Creates a company with its employees in one transaction.

Each --employee either references an existing employee or describes a new one:
  --employee id=3
  --employee email=dev@example.com,title=Developer`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompanyCreate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "Company name")
	cmd.Flags().StringArrayVarP(&flags.employees, "employee", "e", nil, "Employee spec (repeatable)")

	return cmd
}

func runCompanyCreate(cmd *cobra.Command, flags companyFlags) error {
	req := services.CreateCompanyRequest{
		Name:      flags.name,
		Employees: make([]services.EmployeeSpec, 0, len(flags.employees)),
	}
	for _, raw := range flags.employees {
		spec, err := parseEmployeeSpec(raw)
		if err != nil {
			return fmt.Errorf("invalid --employee %q: %w", raw, err)
		}
		req.Employees = append(req.Employees, spec)
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		res := d.CompanyHandler.Handle(ctx, req)
		if res.HasError() {
			return fmt.Errorf("creating company: %w", res.Err())
		}
		return printJSON(cmd.OutOrStdout(), res.Value())
	})
}

// parseEmployeeSpec parses comma-separated key=value pairs. Keys are id,
// email and title. Mixing id with the others is left to the workflow to reject.
func parseEmployeeSpec(raw string) (services.EmployeeSpec, error) {
	var spec services.EmployeeSpec

	if strings.TrimSpace(raw) == "" {
		return spec, errors.New("empty employee spec")
	}

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return services.EmployeeSpec{}, fmt.Errorf("expected key=value, got %q", pair)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "id":
			id, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return services.EmployeeSpec{}, fmt.Errorf("invalid id %q", value)
			}
			spec.ID = &id
		case "email":
			spec.Email = value
		case "title":
			title, err := entities.ParseTitle(value)
			if err != nil {
				return services.EmployeeSpec{}, err
			}
			spec.Title = &title
		default:
			return services.EmployeeSpec{}, fmt.Errorf("unknown key %q (valid: id, email, title)", key)
		}
	}

	return spec, nil
}

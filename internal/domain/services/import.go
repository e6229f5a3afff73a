package services

import (
	"context"
	"fmt"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/result"
	"github.com/ersonp/roster-core/internal/infrastructure/parsers"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool // Validate without saving
}

// ImportError represents an error for a specific company during import.
type ImportError struct {
	Line    int    // Line number (1-indexed, 0 if unknown)
	Company string // Company name as read from the file
	Key     string // Request field the error refers to
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Company, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Company, e.Message)
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported  int
	Errors    []ImportError
	Companies []CompanyResponse
}

// CompanyCreator runs the company creation workflow.
type CompanyCreator interface {
	CreateCompany(ctx context.Context, req CreateCompanyRequest) result.Result[CompanyResponse]
}

// CompanyCreatorFunc adapts a function to CompanyCreator.
type CompanyCreatorFunc func(ctx context.Context, req CreateCompanyRequest) result.Result[CompanyResponse]

// CreateCompany calls f(ctx, req).
func (f CompanyCreatorFunc) CreateCompany(ctx context.Context, req CreateCompanyRequest) result.Result[CompanyResponse] {
	return f(ctx, req)
}

// ImportService bulk-creates companies. Each record runs its own
// CreateCompany workflow, so one rejected record does not affect the others.
type ImportService struct {
	companies CompanyCreator
}

// NewImportService creates a new import service.
func NewImportService(companies CompanyCreator) *ImportService {
	return &ImportService{
		companies: companies,
	}
}

// Import converts raw records into requests and creates them in file order.
func (s *ImportService) Import(ctx context.Context, rawCompanies []parsers.RawCompany, opts ImportOptions) (*ImportResult, error) {
	res := &ImportResult{}

	for i := range rawCompanies {
		raw := &rawCompanies[i]
		lineNum := raw.LineNum
		if lineNum == 0 {
			lineNum = i + 1
		}

		req, convErr := toCreateCompanyRequest(raw, lineNum)
		if convErr != nil {
			res.Errors = append(res.Errors, *convErr)
			continue
		}

		if opts.DryRun {
			if err := validateCompanyRequest(req); err != nil {
				res.Errors = append(res.Errors, ImportError{Line: lineNum, Company: raw.Name, Key: err.Key(), Message: err.Message()})
				continue
			}
			res.Imported++
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("importing companies: %w", err)
		}

		created := s.companies.CreateCompany(ctx, req)
		if created.HasError() {
			err := created.Err()
			res.Errors = append(res.Errors, ImportError{Line: lineNum, Company: raw.Name, Key: err.Key(), Message: err.Message()})
			continue
		}

		res.Imported++
		res.Companies = append(res.Companies, created.Value())
	}

	return res, nil
}

// toCreateCompanyRequest converts a raw record, rejecting unknown titles.
func toCreateCompanyRequest(raw *parsers.RawCompany, lineNum int) (CreateCompanyRequest, *ImportError) {
	req := CreateCompanyRequest{
		Name:      raw.Name,
		Employees: make([]EmployeeSpec, 0, len(raw.Employees)),
	}

	for _, e := range raw.Employees {
		spec := EmployeeSpec{ID: e.ID, Email: e.Email}
		if e.Title != "" {
			title, err := entities.ParseTitle(e.Title)
			if err != nil {
				return CreateCompanyRequest{}, &ImportError{Line: lineNum, Company: raw.Name, Key: result.KeyEmployeesTitle, Message: err.Error()}
			}
			spec.Title = &title
		}
		req.Employees = append(req.Employees, spec)
	}

	return req, nil
}

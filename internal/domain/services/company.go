package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/ports"
	"github.com/ersonp/roster-core/internal/domain/result"
)

// CompanyService creates companies together with new or existing employees.
type CompanyService struct {
	store  ports.EntityStore
	logger zerolog.Logger
}

// NewCompanyService creates a new company service.
func NewCompanyService(store ports.EntityStore, logger zerolog.Logger) *CompanyService {
	return &CompanyService{
		store:  store,
		logger: logger.With().Str("workflow", "create_company").Logger(),
	}
}

var companyConflicts = conflictMapping{
	ports.ErrCompanyNameTaken:    result.CompanyNameConflict,
	ports.ErrEmployeeEmailTaken:  func() *result.Error { return result.EmployeeEmailConflict(result.KeyEmployeesEmail) },
	ports.ErrTitleTakenInCompany: result.DuplicateTitleInCompany,
}

// CreateCompany validates the request and creates the company and its new
// employees in one transaction. The first failing check wins.
func (s *CompanyService) CreateCompany(ctx context.Context, req CreateCompanyRequest) result.Result[CompanyResponse] {
	if err := validateCompanyRequest(req); err != nil {
		return result.Failure[CompanyResponse](err)
	}

	created := inSession(ctx, s.store, s.logger, companyConflicts, func(session ports.Session) (*entities.Company, error) {
		return s.createCompany(ctx, session, req)
	})
	return result.Map(created, toCompanyResponse)
}

// validateCompanyRequest runs the structural checks that need no storage access.
func validateCompanyRequest(req CreateCompanyRequest) *result.Error {
	if req.Name == "" {
		return result.MissingUniqueIdentifier(result.KeyName)
	}
	for _, spec := range req.Employees {
		if !spec.isExisting() && spec.Email == "" {
			return result.MissingUniqueIdentifier(result.KeyEmployeesEmail)
		}
	}
	for _, spec := range req.Employees {
		if spec.isExisting() && (spec.Email != "" || spec.Title != nil) {
			return result.CannotCreateEmployeeWithID()
		}
	}
	return nil
}

func (s *CompanyService) createCompany(ctx context.Context, session ports.Session, req CreateCompanyRequest) (*entities.Company, error) {
	nameTaken, err := session.Companies().AnyMatch(ctx, ports.CompanyFilter{Names: []string{req.Name}})
	if err != nil {
		return nil, err
	}
	if nameTaken {
		return nil, reject(result.CompanyNameConflict())
	}

	var ids []int64
	var newEmails []string
	var newEmployees []*entities.Employee
	for _, spec := range req.Employees {
		switch {
		case spec.isExisting():
			ids = append(ids, *spec.ID)
		case spec.isNew():
			newEmails = append(newEmails, spec.Email)
			newEmployees = append(newEmployees, entities.NewEmployee(spec.Email, *spec.Title, nil))
		}
	}

	if len(newEmails) > 0 {
		emailTaken, err := session.Employees().AnyMatch(ctx, ports.EmployeeFilter{Emails: newEmails})
		if err != nil {
			return nil, err
		}
		if emailTaken {
			return nil, reject(result.EmployeeEmailConflict(result.KeyEmployeesEmail))
		}
	}

	var existing []*entities.Employee
	if len(ids) > 0 {
		existing, err = session.Employees().WhereWithRelated(ctx, ports.EmployeeFilter{IDs: ids})
		if err != nil {
			return nil, err
		}
		if len(existing) != len(ids) {
			return nil, reject(result.EmployeeNotFound())
		}
	}

	candidates := make([]*entities.Employee, 0, len(existing)+len(newEmployees))
	candidates = append(candidates, existing...)
	candidates = append(candidates, newEmployees...)
	if hasDuplicate(candidates, func(e *entities.Employee) string { return string(e.Title) }) {
		return nil, reject(result.DuplicateTitleInCompany())
	}
	if hasDuplicate(candidates, func(e *entities.Employee) string { return e.Email }) {
		return nil, reject(result.DuplicateEmailInCompany())
	}

	return session.Companies().Add(ctx, entities.NewCompany(req.Name, candidates))
}

// hasDuplicate reports whether two employees share the same key.
func hasDuplicate(employees []*entities.Employee, key func(*entities.Employee) string) bool {
	seen := make(map[string]struct{}, len(employees))
	for _, e := range employees {
		k := key(e)
		if _, ok := seen[k]; ok {
			return true
		}
		seen[k] = struct{}{}
	}
	return false
}

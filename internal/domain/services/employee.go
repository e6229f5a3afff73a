package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/ports"
	"github.com/ersonp/roster-core/internal/domain/result"
)

// EmployeeService creates employees and attaches them to existing companies.
type EmployeeService struct {
	store  ports.EntityStore
	logger zerolog.Logger
}

// NewEmployeeService creates a new employee service.
func NewEmployeeService(store ports.EntityStore, logger zerolog.Logger) *EmployeeService {
	return &EmployeeService{
		store:  store,
		logger: logger.With().Str("workflow", "create_employee").Logger(),
	}
}

var employeeConflicts = conflictMapping{
	ports.ErrEmployeeEmailTaken:  func() *result.Error { return result.EmployeeEmailConflict(result.KeyEmail) },
	ports.ErrTitleTakenInCompany: result.TitleTakenInCompany,
}

// CreateEmployee validates the request and creates the employee in one transaction.
func (s *EmployeeService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) result.Result[EmployeeResponse] {
	if req.Email == "" {
		return result.Failure[EmployeeResponse](result.MissingUniqueIdentifier(result.KeyEmail))
	}

	return inSession(ctx, s.store, s.logger, employeeConflicts, func(session ports.Session) (EmployeeResponse, error) {
		employee, companies, err := s.createEmployee(ctx, session, req)
		if err != nil {
			return EmployeeResponse{}, err
		}

		ids := make([]int64, 0, len(companies))
		for _, c := range companies {
			ids = append(ids, c.ID)
		}
		return toEmployeeResponse(employee, ids), nil
	})
}

func (s *EmployeeService) createEmployee(ctx context.Context, session ports.Session, req CreateEmployeeRequest) (*entities.Employee, []*entities.Company, error) {
	emailTaken, err := session.Employees().AnyMatch(ctx, ports.EmployeeFilter{Emails: []string{req.Email}})
	if err != nil {
		return nil, nil, err
	}
	if emailTaken {
		return nil, nil, reject(result.EmployeeEmailConflict(result.KeyEmail))
	}

	var companies []*entities.Company
	if len(req.CompanyIDs) > 0 {
		companies, err = session.Companies().WhereWithRelated(ctx, ports.CompanyFilter{IDs: req.CompanyIDs})
		if err != nil {
			return nil, nil, err
		}
		if len(companies) != len(req.CompanyIDs) {
			return nil, nil, reject(result.CompanyNotFound())
		}
	}

	for _, c := range companies {
		if c.HasTitle(req.Title) {
			return nil, nil, reject(result.TitleTakenInCompany())
		}
	}

	employee, err := session.Employees().Add(ctx, entities.NewEmployee(req.Email, req.Title, companies))
	if err != nil {
		return nil, nil, err
	}
	return employee, companies, nil
}

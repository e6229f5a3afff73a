package services

import (
	"time"

	"github.com/ersonp/roster-core/internal/domain/entities"
)

// EmployeeSpec describes one employee of a company creation request: either
// an existing employee by ID, or a new one by email and title.
type EmployeeSpec struct {
	ID    *int64          `json:"id,omitempty"`
	Email string          `json:"email,omitempty"`
	Title *entities.Title `json:"title,omitempty"`
}

func (s EmployeeSpec) isExisting() bool {
	return s.ID != nil
}

func (s EmployeeSpec) isNew() bool {
	return s.Email != "" && s.Title != nil
}

// CreateCompanyRequest is the input of CreateCompany.
type CreateCompanyRequest struct {
	Name      string         `json:"name"`
	Employees []EmployeeSpec `json:"employees,omitempty"`
}

// CreateEmployeeRequest is the input of CreateEmployee.
type CreateEmployeeRequest struct {
	Email      string         `json:"email"`
	Title      entities.Title `json:"title"`
	CompanyIDs []int64        `json:"companyIds,omitempty"`
}

// EmployeeResponse is the output shape of a created or attached employee.
type EmployeeResponse struct {
	ID         int64          `json:"id"`
	Email      string         `json:"email"`
	Title      entities.Title `json:"title"`
	CreatedAt  time.Time      `json:"createdAt"`
	CompanyIDs []int64        `json:"companyIds"`
}

// CompanyResponse is the output shape of a created company.
type CompanyResponse struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	CreatedAt time.Time          `json:"createdAt"`
	Employees []EmployeeResponse `json:"employees"`
}

func toEmployeeResponse(e *entities.Employee, companyIDs []int64) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		Email:      e.Email,
		Title:      e.Title,
		CreatedAt:  e.CreatedAt,
		CompanyIDs: companyIDs,
	}
}

func toCompanyResponse(c *entities.Company) CompanyResponse {
	employees := make([]EmployeeResponse, 0, len(c.Employees))
	for _, e := range c.Employees {
		employees = append(employees, toEmployeeResponse(e, e.CompanyIDs()))
	}
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		Employees: employees,
	}
}

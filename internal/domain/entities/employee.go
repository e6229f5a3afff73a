package entities

import "time"

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Employee works for zero or more companies. Email is unique across all
// employees; within one company no two employees share a title.
type Employee struct {
	AuditableFields
	Email     string     `json:"email"`
	Title     Title      `json:"title"`
	Companies []*Company `json:"-"`
}

// NewEmployee builds an unsaved employee and links it to the given companies
// in both directions.
func NewEmployee(email string, title Title, companies []*Company) *Employee {
	e := &Employee{
		AuditableFields: AuditableFields{CreatedAt: timeNow().UTC()},
		Email:           email,
		Title:           title,
	}
	for _, c := range companies {
		c.Attach(e)
	}
	return e
}

// CompanyIDs returns the IDs of every company the employee belongs to.
func (e *Employee) CompanyIDs() []int64 {
	ids := make([]int64, 0, len(e.Companies))
	for _, c := range e.Companies {
		ids = append(ids, c.ID)
	}
	return ids
}

// ResourceType implements Auditable.
func (e *Employee) ResourceType() ResourceType {
	return ResourceEmployee
}

// BusinessIdentifier implements Auditable.
func (e *Employee) BusinessIdentifier() string {
	return e.Email
}

// Properties implements Auditable.
func (e *Employee) Properties() []Property {
	return append(e.properties(),
		Property{Key: "email", Value: e.Email},
		Property{Key: "title", Value: string(e.Title)},
	)
}

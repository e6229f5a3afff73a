package entities

// Company is an organization employing any number of employees.
// Name is unique across all companies.
type Company struct {
	AuditableFields
	Name      string      `json:"name"`
	Employees []*Employee `json:"-"`
}

// NewCompany builds an unsaved company and links it to the given employees
// in both directions.
func NewCompany(name string, employees []*Employee) *Company {
	c := &Company{
		AuditableFields: AuditableFields{CreatedAt: timeNow().UTC()},
		Name:            name,
	}
	for _, e := range employees {
		c.Attach(e)
	}
	return c
}

// Attach links an employee to the company in both directions.
func (c *Company) Attach(e *Employee) {
	c.Employees = append(c.Employees, e)
	e.Companies = append(e.Companies, c)
}

// HasTitle reports whether any employee of the company holds the title.
func (c *Company) HasTitle(title Title) bool {
	for _, e := range c.Employees {
		if e.Title == title {
			return true
		}
	}
	return false
}

// ResourceType implements Auditable.
func (c *Company) ResourceType() ResourceType {
	return ResourceCompany
}

// BusinessIdentifier implements Auditable.
func (c *Company) BusinessIdentifier() string {
	return c.Name
}

// Properties implements Auditable.
func (c *Company) Properties() []Property {
	return append(c.properties(), Property{Key: "name", Value: c.Name})
}

package result

import "fmt"

// Kind enumerates the closed set of domain errors.
type Kind int

const (
	KindMissingUniqueIdentifier Kind = iota + 1
	KindCannotCreateEmployeeWithID
	KindCompanyNameConflict
	KindEmployeeEmailConflict
	KindEmployeeNotFound
	KindCompanyNotFound
	KindDuplicateTitleInCompany
	KindDuplicateEmailInCompany
	KindInternal
)

var kindNames = map[Kind]string{
	KindMissingUniqueIdentifier:    "missing_unique_identifier",
	KindCannotCreateEmployeeWithID: "cannot_create_employee_with_id",
	KindCompanyNameConflict:        "company_name_conflict",
	KindEmployeeEmailConflict:      "employee_email_conflict",
	KindEmployeeNotFound:           "employee_not_found",
	KindCompanyNotFound:            "company_not_found",
	KindDuplicateTitleInCompany:    "duplicate_title_in_company",
	KindDuplicateEmailInCompany:    "duplicate_email_in_company",
	KindInternal:                   "internal",
}

// String returns a snake_case name usable as a metric label.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error keys attribute a failure to a request field.
const (
	KeyName           = "name"
	KeyEmail          = "email"
	KeyTitle          = "title"
	KeyCompanyIDs     = "companyIds"
	KeyEmployeesID    = "employees.id"
	KeyEmployeesEmail = "employees.email"
	KeyEmployeesTitle = "employees.title"
)

// Error is a domain error with a stable key and a client-facing message.
// Values are only built through the constructors below.
type Error struct {
	kind    Kind
	key     string
	message string
}

// Kind returns the error's member of the closed set.
func (e *Error) Kind() Kind { return e.kind }

// Key returns the request field the error refers to. May be empty.
func (e *Error) Key() string { return e.key }

// Message returns the client-facing description.
func (e *Error) Message() string { return e.message }

func (e *Error) Error() string {
	if e.key == "" {
		return e.message
	}
	return e.key + ": " + e.message
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == e.kind
}

// MissingUniqueIdentifier reports an empty name or email.
func MissingUniqueIdentifier(key string) *Error {
	return &Error{kind: KindMissingUniqueIdentifier, key: key, message: "Unique identifier cannot be null or empty."}
}

// CannotCreateEmployeeWithID reports an employee spec mixing an ID with email or title.
func CannotCreateEmployeeWithID() *Error {
	return &Error{
		kind:    KindCannotCreateEmployeeWithID,
		key:     KeyEmployeesID,
		message: "Cannot create an employee with an assigned Id. Properties Email and Title are mutually exclusive with the Id property.",
	}
}

// CompanyNameConflict reports a company name already in use.
func CompanyNameConflict() *Error {
	return &Error{kind: KindCompanyNameConflict, key: KeyName, message: "A company with the same name already exists."}
}

// EmployeeEmailConflict reports an employee email already in use.
func EmployeeEmailConflict(key string) *Error {
	return &Error{kind: KindEmployeeEmailConflict, key: key, message: "An Employee with the same email address already exists."}
}

// EmployeeNotFound reports a referenced employee ID that does not exist.
func EmployeeNotFound() *Error {
	return &Error{kind: KindEmployeeNotFound, key: KeyEmployeesID, message: "The specified employee does not exist."}
}

// CompanyNotFound reports a referenced company ID that does not exist.
func CompanyNotFound() *Error {
	return &Error{kind: KindCompanyNotFound, key: KeyCompanyIDs, message: "The specified company does not exist."}
}

// DuplicateTitleInCompany reports two employees of one company sharing a title
// in a company creation request.
func DuplicateTitleInCompany() *Error {
	return &Error{
		kind:    KindDuplicateTitleInCompany,
		key:     KeyEmployeesTitle,
		message: "Cannot create more than one employee in a company with the same title.",
	}
}

// TitleTakenInCompany reports that a company the new employee joins already
// has someone with the same title.
func TitleTakenInCompany() *Error {
	return &Error{
		kind:    KindDuplicateTitleInCompany,
		key:     KeyTitle,
		message: "An Employee with the same title already exists within the company.",
	}
}

// DuplicateEmailInCompany reports two employees of one company sharing an email.
func DuplicateEmailInCompany() *Error {
	return &Error{
		kind:    KindDuplicateEmailInCompany,
		key:     KeyEmployeesEmail,
		message: "Cannot create more than one employee in a company with the same email.",
	}
}

// Internal hides an unexpected fault from the caller.
func Internal() *Error {
	return &Error{kind: KindInternal, message: "An internal server error has occured."}
}

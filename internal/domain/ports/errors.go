package ports

import "errors"

// Storage-level uniqueness violations. Stores wrap these so workflows can map
// a lost race to the matching domain conflict.
var (
	ErrCompanyNameTaken    = errors.New("company name already exists")
	ErrEmployeeEmailTaken  = errors.New("employee email already exists")
	ErrTitleTakenInCompany = errors.New("title already held within company")
)

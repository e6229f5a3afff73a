package a

import "context"

type EmployeeFilter struct {
	Emails []string
}

type Employees interface {
	AnyMatch(ctx context.Context, f EmployeeFilter) (bool, error)
}

type Store interface {
	BeginTx(ctx context.Context) (Employees, error)
}

func bad(ctx context.Context, emails []string, store Store, repo Employees) {
	for _, email := range emails {
		repo.AnyMatch(ctx, EmployeeFilter{Emails: []string{email}}) // want "potential N\\+1: AnyMatch called inside loop - collect the values into one filter"
	}
	for i := 0; i < len(emails); i++ {
		store.BeginTx(ctx) // want "potential N\\+1: BeginTx called inside loop - run the loop inside one session"
	}
}

func good(ctx context.Context, emails []string, repo Employees) {
	filter := EmployeeFilter{}
	for _, email := range emails {
		filter.Emails = append(filter.Emails, email)
	}
	repo.AnyMatch(ctx, filter)
}

func nested(ctx context.Context, groups [][]string, repo Employees) {
	for _, group := range groups {
		for _, email := range group {
			repo.AnyMatch(ctx, EmployeeFilter{Emails: []string{email}}) // want "potential N\\+1: AnyMatch called inside loop"
		}
	}
}

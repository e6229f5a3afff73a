package entities

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Title is the role an employee holds.
type Title string

const (
	TitleDeveloper Title = "Developer"
	TitleManager   Title = "Manager"
	TitleTester    Title = "Tester"
)

// Titles lists every valid title.
var Titles = []Title{TitleDeveloper, TitleManager, TitleTester}

// IsValid reports whether t is one of the known titles.
func (t Title) IsValid() bool {
	switch t {
	case TitleDeveloper, TitleManager, TitleTester:
		return true
	default:
		return false
	}
}

// ParseTitle converts a case-insensitive name into a Title.
func ParseTitle(s string) (Title, error) {
	for _, t := range Titles {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid title %q (valid: Developer, Manager, Tester)", s)
}

// UnmarshalJSON accepts only known titles.
func (t *Title) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("title must be a string: %w", err)
	}
	parsed, err := ParseTitle(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

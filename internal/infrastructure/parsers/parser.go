// Package parsers provides parsers for bulk-importing companies from files.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawEmployee is an employee entry as read from a file, before validation.
type RawEmployee struct {
	ID    *int64 `json:"id,omitempty"` // Pointer to distinguish 0 from unset
	Email string `json:"email,omitempty"`
	Title string `json:"title,omitempty"`
}

// RawCompany is a company record as read from a file, before validation.
type RawCompany struct {
	Name      string        `json:"name"`
	Employees []RawEmployee `json:"employees,omitempty"`
	LineNum   int           `json:"-"` // Line number in source file (set by parser)
}

// Parser defines the interface for parsing companies from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawCompany, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	return ForFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
}

package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses an array of companies in request shape.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed companies.
func (p *JSONParser) Parse(r io.Reader) ([]RawCompany, error) {
	var companies []RawCompany

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&companies); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Array index + 1 stands in for the line number
	for i := range companies {
		companies[i].LineNum = i + 1
	}

	return companies, nil
}

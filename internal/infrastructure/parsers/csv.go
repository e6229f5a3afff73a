package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSVParser parses one employee per row, grouped by company.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed companies in order of
// first appearance. Expected columns: company, employee_id, email, title.
// A row with only a company name declares a company without employees.
func (p *CSVParser) Parse(r io.Reader) ([]RawCompany, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	if _, ok := colIndex["company"]; !ok {
		return nil, fmt.Errorf("missing required column: company")
	}

	return colIndex, nil
}

// readRecords reads all data rows and groups them by company name.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawCompany, error) {
	var companies []RawCompany
	byName := make(map[string]int)
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		name := getColumn(record, colIndex, "company")
		idx, ok := byName[name]
		if !ok {
			idx = len(companies)
			byName[name] = idx
			companies = append(companies, RawCompany{Name: name, LineNum: lineNum})
		}

		employee, present, err := p.parseEmployee(record, colIndex, lineNum)
		if err != nil {
			return nil, err
		}
		if present {
			companies[idx].Employees = append(companies[idx].Employees, employee)
		}
	}

	return companies, nil
}

// parseEmployee converts the employee columns of a row. present is false when
// all of them are blank.
func (p *CSVParser) parseEmployee(record []string, colIndex map[string]int, lineNum int) (RawEmployee, bool, error) {
	employee := RawEmployee{
		Email: getColumn(record, colIndex, "email"),
		Title: getColumn(record, colIndex, "title"),
	}

	idStr := getColumn(record, colIndex, "employee_id")
	if idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return RawEmployee{}, false, fmt.Errorf("line %d: invalid employee_id %q: %w", lineNum, idStr, err)
		}
		employee.ID = &id
	}

	present := employee.ID != nil || employee.Email != "" || employee.Title != ""
	return employee, present, nil
}

// getColumn safely retrieves a trimmed column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

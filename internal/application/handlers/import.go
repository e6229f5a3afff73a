package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/roster-core/internal/domain/services"
	"github.com/ersonp/roster-core/internal/infrastructure/parsers"
)

// ImportHandler handles importing companies from files.
type ImportHandler struct {
	service *services.ImportService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *services.ImportService) *ImportHandler {
	return &ImportHandler{
		service: service,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format string // "json", "csv", or "auto"
	DryRun bool   // Validate without saving
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported  int
	Errors    []services.ImportError
	Companies []services.CompanyResponse
}

// Handle imports companies from a file.
func (h *ImportHandler) Handle(ctx context.Context, filePath string, opts ImportOptions) (*ImportResult, error) {
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	rawCompanies, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	if len(rawCompanies) == 0 {
		return &ImportResult{}, nil
	}

	serviceResult, err := h.service.Import(ctx, rawCompanies, services.ImportOptions{DryRun: opts.DryRun})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Imported:  serviceResult.Imported,
		Errors:    serviceResult.Errors,
		Companies: serviceResult.Companies,
	}, nil
}

// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/roster-core/internal/domain/ports"
	"github.com/ersonp/roster-core/internal/infrastructure/config"
)

// StoreOpener opens the entity and audit stores described by cfg.
type StoreOpener func(ctx context.Context, cfg *config.Config) (ports.EntityStore, ports.AuditStore, error)

// InitHandler handles project initialization.
type InitHandler struct {
	open StoreOpener
}

// NewInitHandler creates a new init handler.
func NewInitHandler(open StoreOpener) *InitHandler {
	return &InitHandler{open: open}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath  string
	StoreDriver string
	AuditDriver string
}

// Handle writes the default config and creates both schemas.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("roster already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store, audit, err := h.open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening stores: %w", err)
	}
	defer store.Close()
	defer audit.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("creating entity schema: %w", err)
	}
	if err := audit.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("creating audit schema: %w", err)
	}

	return &InitResult{
		ConfigPath:  config.ConfigFilePath(basePath),
		StoreDriver: cfg.Store.Driver,
		AuditDriver: cfg.Audit.Driver,
	}, nil
}

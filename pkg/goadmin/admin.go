package goadmin

import (
	"context"
	"errors"

	"github.com/goliatone/go-board/components/board"
)

// MenuBuilder ensures board entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures board link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the board service and feature flags into an admin shell.
type Config struct {
	EnableBoard     bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Service         *board.Service
	DefaultMenuItem MenuItem

	// RestoreLayouts imports the stored layouts during Bootstrap.
	RestoreLayouts bool
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed board menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableBoard && cfg.Service == nil {
		return nil, errors.New("goadmin: board service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Board"
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = "admin.board"
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "layout"
	}
	return &Admin{cfg: cfg}, nil
}

// Board exposes the configured board service when enabled.
func (a *Admin) Board() *board.Service {
	if !a.cfg.EnableBoard {
		return nil
	}
	return a.cfg.Service
}

// Bootstrap seeds menu entries and optionally restores stored layouts.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableBoard {
		return nil
	}
	if a.cfg.RestoreLayouts {
		if _, err := a.cfg.Service.ImportLocal(ctx); err != nil {
			return err
		}
	}
	if a.cfg.MenuBuilder == nil {
		return nil
	}
	return a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, a.cfg.DefaultMenuItem)
}

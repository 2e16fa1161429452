package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-board/components/board"
	"github.com/goliatone/go-board/components/board/widgets"
	"github.com/goliatone/go-board/pkg/datasource"
)

// BoardFlags are shared by commands that build a board from a config file.
type BoardFlags struct {
	Config   string   `arg:"" type:"existingfile" help:"Board configuration (YAML or JSON)."`
	Manifest []string `help:"Component manifests to load into the registry."`
	Source   []string `help:"CSV data sources as name=path (repeatable)."`
	Width    float64  `default:"1200" help:"Container width in pixels."`
	Height   float64  `default:"800" help:"Container height in pixels."`
}

func (f BoardFlags) registry(sources *datasource.Registry) (*board.ComponentRegistry, error) {
	reg := board.NewComponentRegistry()
	if err := widgets.Register(reg, widgets.Config{Sources: sources, Cache: widgets.NewChartCache(0)}); err != nil {
		return nil, err
	}
	for _, path := range f.Manifest {
		if _, err := reg.LoadManifestFile(path); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (f BoardFlags) sources() (*datasource.Registry, error) {
	sources := datasource.NewRegistry()
	for _, raw := range f.Source {
		name, path, ok := strings.Cut(raw, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("boardctl: source %q must be name=path", raw)
		}
		if err := sources.Register(datasource.NewCSVFile(name, path, datasource.CSVOptions{})); err != nil {
			return nil, err
		}
	}
	return sources, nil
}

// mount builds the board headless and runs every pending frame and load.
// Component errors, including async load failures, come back alongside a
// usable board.
func (f BoardFlags) mount(ctx context.Context, logger *slog.Logger, store board.LayoutStore) (*board.Board, error) {
	cfg, err := board.LoadConfig(f.Config)
	if err != nil {
		return nil, err
	}
	sources, err := f.sources()
	if err != nil {
		return nil, err
	}
	reg, err := f.registry(sources)
	if err != nil {
		return nil, err
	}
	doc := board.NewDocument()
	doc.CreateContainer("board", f.Width, f.Height)
	b, err := board.Mount(ctx, doc, "board", board.Options{
		Config:   cfg,
		Registry: reg,
		Logger:   logger,
		Store:    store,
	})
	if b == nil {
		return nil, err
	}
	errs := []error{err}
	off := b.On(board.EventError, func(ev board.Event) {
		errs = append(errs, fmt.Errorf("component %s in cell %s: %s", ev.Target, ev.Cell, ev.Error))
	})
	b.Settle()
	off()
	return b, errors.Join(errs...)
}

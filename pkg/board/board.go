package board

import (
	"context"

	core "github.com/goliatone/go-board/components/board"
	"github.com/goliatone/go-board/components/board/widgets"
)

// Board exposes the underlying components/board.Board type.
type Board = core.Board

// Options re-export for convenience.
type Options = core.Options

// Config is the declarative board configuration.
type Config = core.Config

// ComponentOptions configures one component binding.
type ComponentOptions = core.ComponentOptions

// Service is the goroutine-safe board facade.
type Service = core.Service

// WidgetConfig carries the collaborators of the built-in widgets.
type WidgetConfig = widgets.Config

// NewRegistry returns a component registry with the built-in widgets registered.
func NewRegistry(cfg WidgetConfig) (*core.ComponentRegistry, error) {
	reg := core.NewComponentRegistry()
	if err := widgets.Register(reg, cfg); err != nil {
		return nil, err
	}
	return reg, nil
}

// Mount proxies to the core constructor, defaulting the registry to one
// holding the built-in widgets.
func Mount(ctx context.Context, doc *core.Document, containerID string, opts Options) (*Board, error) {
	if opts.Registry == nil {
		reg, err := NewRegistry(WidgetConfig{Cache: widgets.NewChartCache(0)})
		if err != nil {
			return nil, err
		}
		opts.Registry = reg
	}
	return core.Mount(ctx, doc, containerID, opts)
}

// NewService proxies to the core constructor.
func NewService(b *Board) *Service {
	return core.NewService(b)
}

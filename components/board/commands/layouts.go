package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

type layoutService interface {
	ExportLocal(ctx context.Context) error
	ImportLocal(ctx context.Context) (int, error)
}

// LayoutsInput selects the persistence direction.
type LayoutsInput struct {
	Import bool `json:"import"`
}

// PersistLayoutsCommand exports every layout to the layout store, or imports
// stored snapshots back into the board.
type PersistLayoutsCommand struct {
	service   layoutService
	telemetry Telemetry
}

// NewPersistLayoutsCommand creates a command instance.
func NewPersistLayoutsCommand(service layoutService, telemetry Telemetry) *PersistLayoutsCommand {
	return &PersistLayoutsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[LayoutsInput] = (*PersistLayoutsCommand)(nil)

// Execute runs the export or import.
func (c *PersistLayoutsCommand) Execute(ctx context.Context, msg LayoutsInput) error {
	if c.service == nil {
		return errors.New("layouts command requires service")
	}
	if !msg.Import {
		if err := c.service.ExportLocal(ctx); err != nil {
			return err
		}
		c.telemetry.Record(ctx, "board.command.export_layouts", nil)
		return nil
	}
	n, err := c.service.ImportLocal(ctx)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "board.command.import_layouts", map[string]any{"imported": n})
	return nil
}

package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-board/components/board"
)

type geometryService interface {
	SetSize(ctx context.Context, req board.SizeRequest) (board.SizeResult, error)
	Redraw(ctx context.Context, cellID string) error
	Reflow(ctx context.Context) bool
}

// ResizeCommand applies a setSize request to any node of the board.
type ResizeCommand struct {
	service   geometryService
	telemetry Telemetry
}

// NewResizeCommand creates a command instance.
func NewResizeCommand(service geometryService, telemetry Telemetry) *ResizeCommand {
	return &ResizeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[board.SizeRequest] = (*ResizeCommand)(nil)

// Execute resizes the target node.
func (c *ResizeCommand) Execute(ctx context.Context, msg board.SizeRequest) error {
	if c.service == nil {
		return errors.New("resize command requires service")
	}
	res, err := c.service.SetSize(ctx, msg)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "board.command.resize", map[string]any{
		"target":  res.Target,
		"kind":    res.Kind,
		"changed": res.Changed,
	})
	return nil
}

// RedrawInput names the cell whose component must redraw.
type RedrawInput struct {
	Cell string `json:"cell"`
}

// RedrawCommand forces a component to recompute its output.
type RedrawCommand struct {
	service   geometryService
	telemetry Telemetry
}

// NewRedrawCommand creates a command instance.
func NewRedrawCommand(service geometryService, telemetry Telemetry) *RedrawCommand {
	return &RedrawCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RedrawInput] = (*RedrawCommand)(nil)

// Execute redraws the component.
func (c *RedrawCommand) Execute(ctx context.Context, msg RedrawInput) error {
	if c.service == nil {
		return errors.New("redraw command requires service")
	}
	if err := c.service.Redraw(ctx, msg.Cell); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "board.command.redraw", map[string]any{"cell": msg.Cell})
	return nil
}

// ReflowInput carries no parameters; the board re-measures its container.
type ReflowInput struct{}

// ReflowCommand re-measures the board container after the host resized.
type ReflowCommand struct {
	service   geometryService
	telemetry Telemetry
}

// NewReflowCommand creates a command instance.
func NewReflowCommand(service geometryService, telemetry Telemetry) *ReflowCommand {
	return &ReflowCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReflowInput] = (*ReflowCommand)(nil)

// Execute reflows the board.
func (c *ReflowCommand) Execute(ctx context.Context, _ ReflowInput) error {
	if c.service == nil {
		return errors.New("reflow command requires service")
	}
	changed := c.service.Reflow(ctx)
	c.telemetry.Record(ctx, "board.command.reflow", map[string]any{"changed": changed})
	return nil
}

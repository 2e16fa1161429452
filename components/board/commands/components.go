package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-board/components/board"
)

type componentService interface {
	AddComponent(ctx context.Context, opts board.ComponentOptions) (*board.ComponentSnapshot, error)
	RemoveComponent(ctx context.Context, cellID string) error
	MoveComponent(ctx context.Context, from, to string) (*board.ComponentSnapshot, error)
}

// AddComponentCommand binds a component to a cell through the board service.
type AddComponentCommand struct {
	service   componentService
	telemetry Telemetry
}

// NewAddComponentCommand creates a command instance.
func NewAddComponentCommand(service componentService, telemetry Telemetry) *AddComponentCommand {
	return &AddComponentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[board.ComponentOptions] = (*AddComponentCommand)(nil)

// Execute delegates to the board service.
func (c *AddComponentCommand) Execute(ctx context.Context, msg board.ComponentOptions) error {
	if c.service == nil {
		return errors.New("add component command requires service")
	}
	snap, err := c.service.AddComponent(ctx, msg)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "board.command.add_component", map[string]any{
		"component_id": snap.ID,
		"type":         msg.Type,
		"cell":         msg.CellID(),
	})
	return nil
}

// RemoveComponentInput names the cell to empty.
type RemoveComponentInput struct {
	Cell string `json:"cell"`
}

// RemoveComponentCommand destroys the component mounted in a cell.
type RemoveComponentCommand struct {
	service   componentService
	telemetry Telemetry
}

// NewRemoveComponentCommand creates a command instance.
func NewRemoveComponentCommand(service componentService, telemetry Telemetry) *RemoveComponentCommand {
	return &RemoveComponentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveComponentInput] = (*RemoveComponentCommand)(nil)

// Execute removes the component.
func (c *RemoveComponentCommand) Execute(ctx context.Context, msg RemoveComponentInput) error {
	if c.service == nil {
		return errors.New("remove component command requires service")
	}
	if msg.Cell == "" {
		return errors.New("cell is required")
	}
	if err := c.service.RemoveComponent(ctx, msg.Cell); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "board.command.remove_component", map[string]any{"cell": msg.Cell})
	return nil
}

// MoveComponentInput drags a component between cells.
type MoveComponentInput struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MoveComponentCommand rebinds a component to an empty cell.
type MoveComponentCommand struct {
	service   componentService
	telemetry Telemetry
}

// NewMoveComponentCommand creates a command instance.
func NewMoveComponentCommand(service componentService, telemetry Telemetry) *MoveComponentCommand {
	return &MoveComponentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[MoveComponentInput] = (*MoveComponentCommand)(nil)

// Execute moves the component.
func (c *MoveComponentCommand) Execute(ctx context.Context, msg MoveComponentInput) error {
	if c.service == nil {
		return errors.New("move component command requires service")
	}
	if msg.From == "" || msg.To == "" {
		return errors.New("from and to cells are required")
	}
	if _, err := c.service.MoveComponent(ctx, msg.From, msg.To); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "board.command.move_component", map[string]any{
		"from": msg.From,
		"to":   msg.To,
	})
	return nil
}

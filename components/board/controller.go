package board

import (
	"context"
	"fmt"
	"io"
)

// Renderer describes the template renderer contract needed by the controller.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// PageSource provides what the page template needs.
type PageSource interface {
	HTML() (string, error)
	Snapshot(ctx context.Context) BoardJSON
}

// ControllerOptions configures page rendering.
type ControllerOptions struct {
	Service   PageSource
	Renderer  Renderer
	Template  string
	Title     string
	EventsURL string
}

// Controller renders a board into an HTML page.
type Controller struct {
	opts ControllerOptions
}

// NewController wires a board source into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = "board"
	}
	if opts.Title == "" {
		opts.Title = "Board"
	}
	return &Controller{opts: opts}
}

// RenderTemplate writes the board page to out.
func (c *Controller) RenderTemplate(ctx context.Context, out io.Writer) error {
	if c.opts.Service == nil {
		return fmt.Errorf("board: controller has no board source")
	}
	if c.opts.Renderer == nil {
		return fmt.Errorf("board: controller has no renderer")
	}
	markup, err := c.opts.Service.HTML()
	if err != nil {
		return err
	}
	snapshot := c.opts.Service.Snapshot(ctx)
	data := map[string]any{
		"title":      c.opts.Title,
		"board_id":   snapshot.Options.ContainerID,
		"board_html": markup,
		"edit_mode":  snapshot.Options.EditMode,
		"events_url": c.opts.EventsURL,
	}
	if _, err := c.opts.Renderer.Render(c.opts.Template, data, out); err != nil {
		return fmt.Errorf("board: render %s: %w", c.opts.Template, err)
	}
	return nil
}

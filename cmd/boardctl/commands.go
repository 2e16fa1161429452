package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-board/components/board"
	"github.com/goliatone/go-board/pkg/sqlitestore"
)

type validateCmd struct {
	BoardFlags `embed:""`
}

func (cmd *validateCmd) Run(rc *runContext) error {
	b, err := cmd.mount(rc.ctx, rc.logger, nil)
	if b != nil {
		defer b.Destroy()
	}
	if err != nil {
		return fmt.Errorf("boardctl: %s is invalid: %w", cmd.Config, err)
	}
	fmt.Fprintf(rc.out, "✓ %s: %d layouts, %d cells, %d components\n",
		cmd.Config, len(b.Layouts()), len(b.Cells()), len(b.Mounted()))
	return nil
}

type treeCmd struct {
	BoardFlags `embed:""`
}

func (cmd *treeCmd) Run(rc *runContext) error {
	b, err := cmd.mount(rc.ctx, rc.logger, nil)
	if b == nil {
		return err
	}
	defer b.Destroy()
	if err != nil {
		rc.logger.Warn("some components failed to bind", "error", err)
	}
	writeTree(rc.out, b)
	return nil
}

func writeTree(w io.Writer, b *board.Board) {
	fmt.Fprintf(w, "board %s %s\n", b.ID(), b.Size())
	for _, l := range b.Layouts() {
		writeLayout(w, l, 1)
	}
}

func writeLayout(w io.Writer, l *board.Layout, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%slayout %s %s\n", indent, l.ID(), l.Size())
	for _, r := range l.Rows() {
		fmt.Fprintf(w, "%s  row %s %s\n", indent, r.ID(), r.Size())
		for _, c := range r.Cells() {
			line := fmt.Sprintf("%s    cell %s %s", indent, c.ID(), c.Size())
			if inst := c.Component(); inst != nil {
				line += fmt.Sprintf(" [%s %s %s]", inst.Type(), inst.ID(), inst.State())
			}
			fmt.Fprintln(w, line)
			if nested := c.Layout(); nested != nil {
				writeLayout(w, nested, depth+3)
			}
		}
	}
}

type renderCmd struct {
	BoardFlags `embed:""`
	Out        string `short:"o" type:"path" help:"Write HTML to this file instead of stdout."`
	Page       bool   `help:"Wrap the board markup in the full HTML page template."`
	Title      string `default:"Board" help:"Page title when --page is set."`
	Select     string `help:"Only print elements matching this CSS selector."`
}

func (cmd *renderCmd) Run(rc *runContext) error {
	b, err := cmd.mount(rc.ctx, rc.logger, nil)
	if b == nil {
		return err
	}
	defer b.Destroy()
	if err != nil {
		rc.logger.Warn("some components failed to bind", "error", err)
	}

	var buf bytes.Buffer
	switch {
	case cmd.Select != "":
		for _, el := range b.Document().Find(cmd.Select) {
			markup, err := el.OuterHTML()
			if err != nil {
				return err
			}
			buf.WriteString(markup)
			buf.WriteByte('\n')
		}
	case cmd.Page:
		renderer, err := board.NewTemplateRenderer()
		if err != nil {
			return err
		}
		controller := board.NewController(board.ControllerOptions{
			Service:  board.NewService(b),
			Renderer: renderer,
			Title:    cmd.Title,
		})
		if err := controller.RenderTemplate(rc.ctx, &buf); err != nil {
			return err
		}
	default:
		markup, err := b.HTML()
		if err != nil {
			return err
		}
		buf.WriteString(markup)
	}

	if cmd.Out == "" {
		_, err := rc.out.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(cmd.Out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("boardctl: write %s: %w", cmd.Out, err)
	}
	rc.logger.Info("rendered board", "path", cmd.Out, "bytes", buf.Len())
	return nil
}

type exportCmd struct {
	BoardFlags `embed:""`
	DB         string `required:"" type:"path" help:"SQLite database file for stored layouts."`
	Import     bool   `help:"Import stored layouts into the board and print the resulting snapshot."`
}

func (cmd *exportCmd) Run(rc *runContext) error {
	store, err := sqlitestore.Open(cmd.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	b, err := cmd.mount(rc.ctx, rc.logger, store)
	if b == nil {
		return err
	}
	defer b.Destroy()
	if err != nil {
		rc.logger.Warn("some components failed to bind", "error", err)
	}

	if !cmd.Import {
		if err := b.ExportLocal(rc.ctx); err != nil {
			return err
		}
		keys, err := store.Keys(rc.ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(rc.out, "✓ exported %d layouts to %s\n", len(keys), cmd.DB)
		return nil
	}

	n, err := b.ImportLocal(rc.ctx)
	if err != nil && n == 0 {
		return err
	}
	if err != nil {
		rc.logger.Warn("some layouts failed to import", "error", err)
	}
	b.Settle()
	encoder := json.NewEncoder(rc.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(b.ToJSON())
}

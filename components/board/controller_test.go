package board

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureRenderer struct {
	name string
	data map[string]any
	err  error
}

func (r *captureRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.name = name
	r.data, _ = data.(map[string]any)
	if r.err != nil {
		return "", r.err
	}
	for _, w := range out {
		_, _ = io.WriteString(w, "page")
	}
	return "page", nil
}

func TestControllerRenderTemplate(t *testing.T) {
	f := newFixture(t, Config{EditMode: EditModeOptions{Enabled: true}}, nil)
	renderer := &captureRenderer{}
	controller := NewController(ControllerOptions{
		Service:   NewService(f.board),
		Renderer:  renderer,
		EventsURL: "/board/events",
	})

	var buf bytes.Buffer
	require.NoError(t, controller.RenderTemplate(context.Background(), &buf))
	assert.Equal(t, "page", buf.String())
	assert.Equal(t, "board", renderer.name)
	assert.Equal(t, "Board", renderer.data["title"])
	assert.Equal(t, "container", renderer.data["board_id"])
	assert.Equal(t, true, renderer.data["edit_mode"])
	assert.Equal(t, "/board/events", renderer.data["events_url"])
	assert.Contains(t, renderer.data["board_html"], `class="board"`)
}

func TestControllerRequiresCollaborators(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	var buf bytes.Buffer

	err := NewController(ControllerOptions{Renderer: &captureRenderer{}}).RenderTemplate(context.Background(), &buf)
	assert.Error(t, err)
	err = NewController(ControllerOptions{Service: NewService(f.board)}).RenderTemplate(context.Background(), &buf)
	assert.Error(t, err)

	failing := &captureRenderer{err: errors.New("template missing")}
	err = NewController(ControllerOptions{Service: NewService(f.board), Renderer: failing}).RenderTemplate(context.Background(), &buf)
	assert.ErrorContains(t, err, "template missing")
}

func TestEmbeddedTemplateRenders(t *testing.T) {
	f := newFixture(t, Config{}, nil)
	f.add(t, "cell-1")
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	controller := NewController(ControllerOptions{
		Service:  NewService(f.board),
		Renderer: renderer,
		Title:    "Ops",
	})
	var buf bytes.Buffer
	require.NoError(t, controller.RenderTemplate(context.Background(), &buf))
	page := buf.String()
	assert.Contains(t, page, "<title>Ops</title>")
	assert.Contains(t, page, `data-board="container"`)
	assert.Contains(t, page, `id="recorder-cell-1"`)
	assert.NotContains(t, page, "EventSource")
}

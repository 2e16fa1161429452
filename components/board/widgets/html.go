package widgets

import (
	"context"
	"fmt"

	"github.com/goliatone/go-board/components/board"
)

// HTMLType is the registry name of the HTML component.
const HTMLType = "HTML"

// HTMLElement describes one element of an HTML component.
type HTMLElement struct {
	TagName     string            `json:"tagName"`
	TextContent string            `json:"textContent,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// HTML renders a static list of elements or a raw markup fragment.
type HTML struct {
	elements []HTMLElement
	markup   string
	body     *board.Element
}

// NewHTML builds the component from its elements or html setting.
func NewHTML(o board.ComponentOptions) (*HTML, error) {
	h := &HTML{markup: stringValue(o.Settings["html"], "")}
	raw, _ := o.Settings["elements"].([]any)
	for i, item := range raw {
		m := mapValue(item)
		if m == nil {
			return nil, fmt.Errorf("html element %d: expected an object", i)
		}
		el := HTMLElement{
			TagName:     stringValue(m["tagName"], ""),
			TextContent: stringValue(m["textContent"], ""),
		}
		if el.TagName == "" {
			return nil, fmt.Errorf("html element %d: tagName is required", i)
		}
		if attrs := mapValue(m["attributes"]); attrs != nil {
			el.Attributes = make(map[string]string, len(attrs))
			for k, v := range attrs {
				el.Attributes[k] = fmt.Sprint(v)
			}
		}
		h.elements = append(h.elements, el)
	}
	return h, nil
}

func (h *HTML) Type() string { return HTMLType }

// Elements returns the configured elements.
func (h *HTML) Elements() []HTMLElement { return h.elements }

func (h *HTML) Load(_ context.Context, root *board.Element) error {
	doc := root.Document()
	h.body = doc.CreateElement("div")
	h.body.AddClass("board-html")
	if h.markup != "" {
		if err := h.body.SetInnerHTML(h.markup); err != nil {
			return err
		}
	}
	for _, el := range h.elements {
		node := doc.CreateElement(el.TagName)
		for k, v := range el.Attributes {
			node.SetAttr(k, v)
		}
		if el.TextContent != "" {
			node.SetText(el.TextContent)
		}
		h.body.AppendChild(node)
	}
	root.AppendChild(h.body)
	return nil
}

// Render has nothing size dependent to recompute; the driver sizes the root.
func (h *HTML) Render(*board.Element, board.Frame) error { return nil }

func (h *HTML) Destroy() { h.body = nil }

func (h *HTML) OptionsOnDrop(sc board.SidebarContext) board.ComponentOptions {
	return board.ComponentOptions{
		Type: HTMLType,
		Cell: sc.Cell,
		Settings: map[string]any{
			"elements": []any{
				map[string]any{"tagName": "span", "textContent": "Custom HTML"},
			},
		},
	}
}

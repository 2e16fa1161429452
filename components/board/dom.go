package board

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the headless host tree boards render into.
type Document struct {
	root     *html.Node
	body     *html.Node
	elements map[*html.Node]*Element
}

// NewDocument builds an empty html/head/body document.
func NewDocument() *Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlNode := elementNode("html")
	head := elementNode("head")
	body := elementNode("body")
	root.AppendChild(htmlNode)
	htmlNode.AppendChild(head)
	htmlNode.AppendChild(body)
	return &Document{
		root:     root,
		body:     body,
		elements: make(map[*html.Node]*Element),
	}
}

func elementNode(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// Body returns the document body element.
func (d *Document) Body() *Element {
	return d.wrap(d.body)
}

// CreateElement returns a detached element owned by the document.
func (d *Document) CreateElement(tag string) *Element {
	return d.wrap(elementNode(tag))
}

// CreateContainer appends a measured div with the given id to the body.
func (d *Document) CreateContainer(id string, width, height float64) *Element {
	el := d.CreateElement("div")
	el.SetID(id)
	el.SetExtents(width, height)
	d.Body().AppendChild(el)
	return el
}

// GetElementByID walks the attached tree for an element with the id.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
			if c.Type == html.ElementNode && attr(c, "id") == id {
				found = c
				return
			}
			walk(c)
		}
	}
	walk(d.root)
	if found == nil {
		return nil
	}
	return d.wrap(found)
}

// Find returns attached elements matching a CSS selector.
func (d *Document) Find(selector string) []*Element {
	var out []*Element
	goquery.NewDocumentFromNode(d.root).Find(selector).Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			out = append(out, d.wrap(n))
		}
	})
	return out
}

// HTML serializes the whole document.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", fmt.Errorf("board: render document: %w", err)
	}
	return buf.String(), nil
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.elements[n] = el
	return el
}

func (d *Document) forget(n *html.Node) {
	delete(d.elements, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forget(c)
	}
}

// Element is a node of the headless tree. Measured extents stand in for the
// size a browser layout engine would report for the node.
type Element struct {
	doc      *Document
	node     *html.Node
	measured Size
	hasSize  bool
}

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

func (e *Element) Tag() string { return e.node.Data }

func (e *Element) ID() string { return attr(e.node, "id") }

func (e *Element) SetID(id string) { e.SetAttr("id", id) }

// Attr returns the attribute value or "".
func (e *Element) Attr(key string) string { return attr(e.node, key) }

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(key, value string) {
	for i, a := range e.node.Attr {
		if a.Key == key {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr drops an attribute if present.
func (e *Element) RemoveAttr(key string) {
	out := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Key != key {
			out = append(out, a)
		}
	}
	e.node.Attr = out
}

// AddClass appends class names not already present.
func (e *Element) AddClass(names ...string) {
	current := strings.Fields(e.Attr("class"))
	for _, name := range names {
		for _, part := range strings.Fields(name) {
			if !containsString(current, part) {
				current = append(current, part)
			}
		}
	}
	if len(current) > 0 {
		e.SetAttr("class", strings.Join(current, " "))
	}
}

// HasClass reports whether the class attribute lists name.
func (e *Element) HasClass(name string) bool {
	return containsString(strings.Fields(e.Attr("class")), name)
}

// SetText replaces the children with a single text node.
func (e *Element) SetText(text string) {
	e.clearChildren()
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Text concatenates descendant text nodes.
func (e *Element) Text() string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
			walk(c)
		}
	}
	walk(e.node)
	return b.String()
}

// SetInnerHTML parses markup as a fragment and replaces the children with it.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		return fmt.Errorf("board: parse fragment: %w", err)
	}
	e.clearChildren()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

func (e *Element) clearChildren() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		e.doc.forget(c)
		c = next
	}
}

// AppendChild moves child under e.
func (e *Element) AppendChild(child *Element) {
	if child == nil {
		return
	}
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// Parent returns the parent element, nil when detached or at the document node.
func (e *Element) Parent() *Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// Children returns the element children in order.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// Attached reports whether the element is reachable from the document root.
func (e *Element) Attached() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// Find returns descendants matching a CSS selector.
func (e *Element) Find(selector string) []*Element {
	var out []*Element
	goquery.NewDocumentFromNode(e.node).Find(selector).Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			out = append(out, e.doc.wrap(n))
		}
	})
	return out
}

// SetExtents records the size the host layout reports for the element.
func (e *Element) SetExtents(width, height float64) {
	e.measured = clampSize(Size{Width: width, Height: height})
	e.hasSize = true
}

// ClearExtents forgets the measured size.
func (e *Element) ClearExtents() {
	e.measured = Size{}
	e.hasSize = false
}

// Measure returns the measured extents, if any were reported.
func (e *Element) Measure() (Size, bool) {
	return e.measured, e.hasSize
}

// StyleSize reads width/height back from the inline style.
func (e *Element) StyleSize() (Size, bool) {
	var out Size
	var w, h bool
	for _, decl := range strings.Split(e.Attr("style"), ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
		if err != nil {
			continue
		}
		switch strings.TrimSpace(k) {
		case "width":
			out.Width, w = f, true
		case "height":
			out.Height, h = f, true
		}
	}
	return out, w && h
}

func (e *Element) setStyleSize(s Size) {
	e.SetAttr("style", fmt.Sprintf("width:%spx;height:%spx", formatPx(s.Width), formatPx(s.Height)))
}

// OuterHTML serializes the element and its subtree.
func (e *Element) OuterHTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, e.node); err != nil {
		return "", fmt.Errorf("board: render element: %w", err)
	}
	return buf.String(), nil
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// RemoveClass drops the named classes.
func (e *Element) RemoveClass(names ...string) {
	var kept []string
	for _, c := range strings.Fields(e.Attr("class")) {
		if !containsString(names, c) {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

package widgets

import (
	"context"
	"fmt"
	"net/url"

	"github.com/goliatone/go-board/components/board"
)

const (
	// IFrameType embeds an arbitrary page.
	IFrameType = "IFrame"
	// YouTubeType embeds a YouTube video by id.
	YouTubeType = "YouTube"

	youTubeEmbedURL     = "https://www.youtube.com/embed/"
	defaultYouTubeVideo = "115hdz9NsrY"
)

// IFrame embeds external content sized to the component.
type IFrame struct {
	typeName string
	src      string
	title    string
	frame    *board.Element
}

// NewIFrame builds an iframe component. The YouTube variant derives src
// from the videoId setting.
func NewIFrame(o board.ComponentOptions) (*IFrame, error) {
	f := &IFrame{
		typeName: firstNonEmpty(o.Type, IFrameType),
		src:      stringValue(o.Settings["src"], ""),
		title:    stringValue(o.Settings["frameTitle"], ""),
	}
	if f.typeName == YouTubeType {
		if id := stringValue(o.Settings["videoId"], ""); id != "" {
			f.src = youTubeEmbedURL + url.PathEscape(id)
		}
		if f.title == "" {
			f.title = "YouTube video player"
		}
	}
	return f, nil
}

func (f *IFrame) Type() string { return f.typeName }

// Src returns the embedded address.
func (f *IFrame) Src() string { return f.src }

func (f *IFrame) Load(_ context.Context, root *board.Element) error {
	if f.src == "" {
		if f.typeName == YouTubeType {
			return fmt.Errorf("videoId is required")
		}
		return fmt.Errorf("src is required")
	}
	f.frame = root.Document().CreateElement("iframe")
	f.frame.SetAttr("src", f.src)
	if f.title != "" {
		f.frame.SetAttr("title", f.title)
	}
	f.frame.SetAttr("frameborder", "0")
	f.frame.SetAttr("allowfullscreen", "")
	root.AppendChild(f.frame)
	return nil
}

func (f *IFrame) Render(_ *board.Element, frame board.Frame) error {
	if f.frame == nil {
		return board.ErrComponentNotMounted
	}
	f.frame.SetAttr("width", fmt.Sprintf("%.0f", frame.Size.Width))
	f.frame.SetAttr("height", fmt.Sprintf("%.0f", frame.Size.Height))
	return nil
}

func (f *IFrame) Destroy() { f.frame = nil }

func (f *IFrame) OptionsOnDrop(sc board.SidebarContext) board.ComponentOptions {
	opts := board.ComponentOptions{Type: f.typeName, Cell: sc.Cell, Settings: map[string]any{}}
	if f.typeName == YouTubeType {
		opts.Settings["videoId"] = defaultYouTubeVideo
	} else {
		opts.Settings["src"] = "about:blank"
	}
	return opts
}

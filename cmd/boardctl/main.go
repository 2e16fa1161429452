package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
)

type cli struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Minimum log level."`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format."`

	Validate validateCmd `cmd:"" help:"Validate a board configuration by building it headless."`
	Tree     treeCmd     `cmd:"" help:"Print the layout tree with resolved sizes and bound components."`
	Render   renderCmd   `cmd:"" help:"Render a board configuration to HTML."`
	Export   exportCmd   `cmd:"" help:"Export board layouts to a SQLite store, or import them back."`
	Scaffold scaffoldCmd `cmd:"" help:"Scaffold a component definition, widget stub, and manifest entry."`
}

// runContext carries what every command needs once flags are parsed.
type runContext struct {
	ctx    context.Context
	logger *slog.Logger
	out    io.Writer
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("boardctl"),
		kong.Description("Tooling for go-board configurations and component manifests."),
		kong.UsageOnError(),
	)
	logger, err := newLogger(c.LogLevel, c.LogFormat, os.Stderr)
	kctx.FatalIfErrorf(err)
	err = kctx.Run(&runContext{ctx: context.Background(), logger: logger, out: os.Stdout})
	kctx.FatalIfErrorf(err)
}

func newLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("boardctl: invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("boardctl: unknown log format %q", format)
	}
}

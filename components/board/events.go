package board

import (
	"context"
	"log/slog"
	"sync"
)

// EventType names a board lifecycle or geometry event.
type EventType string

const (
	EventResize  EventType = "resize"
	EventRedraw  EventType = "redraw"
	EventLoad    EventType = "load"
	EventMount   EventType = "mount"
	EventUnmount EventType = "unmount"
	EventDestroy EventType = "destroy"
	EventError   EventType = "error"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventResize, EventRedraw, EventLoad, EventMount, EventUnmount, EventDestroy, EventError:
		return true
	}
	return false
}

// NodeKind identifies which tree level produced an event.
type NodeKind string

const (
	KindBoard     NodeKind = "board"
	KindLayout    NodeKind = "layout"
	KindRow       NodeKind = "row"
	KindCell      NodeKind = "cell"
	KindComponent NodeKind = "component"
)

// Event describes something observable that happened on a board.
type Event struct {
	Type          EventType `json:"type"`
	Kind          NodeKind  `json:"kind"`
	Target        string    `json:"target"`
	Cell          string    `json:"cell,omitempty"`
	ComponentType string    `json:"componentType,omitempty"`
	Size          Size      `json:"size"`
	Previous      Size      `json:"previous"`
	Error         string    `json:"error,omitempty"`
}

// EventHook receives every board event, typically to forward it to transports.
type EventHook interface {
	BoardEvent(ctx context.Context, event Event) error
}

type noopEventHook struct{}

func (noopEventHook) BoardEvent(context.Context, Event) error { return nil }

// EventHookFunc adapts a function to EventHook.
type EventHookFunc func(ctx context.Context, event Event) error

func (f EventHookFunc) BoardEvent(ctx context.Context, event Event) error { return f(ctx, event) }

type listener struct {
	id int
	fn func(Event)
}

// emitter dispatches events to in-process listeners, the hook and telemetry.
type emitter struct {
	mu        sync.RWMutex
	listeners map[EventType][]listener
	next      int
	hook      EventHook
	telemetry Telemetry
	logger    *slog.Logger
}

func newEmitter(hook EventHook, telemetry Telemetry, logger *slog.Logger) *emitter {
	if hook == nil {
		hook = noopEventHook{}
	}
	return &emitter{
		listeners: make(map[EventType][]listener),
		hook:      hook,
		telemetry: normalizeTelemetry(telemetry),
		logger:    logger,
	}
}

// on registers fn for typ, or for every event type when typ is empty.
func (e *emitter) on(typ EventType, fn func(Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.next
	e.next++
	e.listeners[typ] = append(e.listeners[typ], listener{id: id, fn: fn})
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		list := e.listeners[typ]
		for i, l := range list {
			if l.id == id {
				e.listeners[typ] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

func (e *emitter) emit(ctx context.Context, event Event) {
	e.mu.RLock()
	targets := append([]listener{}, e.listeners[event.Type]...)
	targets = append(targets, e.listeners[""]...)
	e.mu.RUnlock()
	for _, l := range targets {
		l.fn(event)
	}
	if err := e.hook.BoardEvent(ctx, event); err != nil {
		e.logger.Warn("board event hook failed", "event", event.Type, "target", event.Target, "error", err)
	}
	payload := map[string]any{
		"kind":   string(event.Kind),
		"target": event.Target,
	}
	if event.ComponentType != "" {
		payload["component_type"] = event.ComponentType
	}
	if event.Type == EventResize {
		payload["width"] = event.Size.Width
		payload["height"] = event.Size.Height
	}
	if event.Error != "" {
		payload["error"] = event.Error
	}
	e.telemetry.Record(ctx, "board."+string(event.Kind)+"."+string(event.Type), payload)
}

package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownComponentType = errors.New("board: unknown component type")
	ErrDuplicateType        = errors.New("board: component type already registered")
	ErrCellNotFound         = errors.New("board: cell not found")
	ErrNodeNotFound         = errors.New("board: node not found")
	ErrCellOccupied         = errors.New("board: cell already holds a component")
	ErrMissingContainer     = errors.New("board: container not found")
	ErrDoubleLoad           = errors.New("board: component already loaded")
	ErrDuplicateID          = errors.New("board: duplicate node id")
	ErrInvalidOptions       = errors.New("board: invalid component options")

	ErrBoardDestroyed      = errors.New("board: board destroyed")
	ErrComponentDestroyed  = errors.New("board: component destroyed")
	ErrComponentNotMounted = errors.New("board: component not mounted")
	ErrEditModeDisabled    = errors.New("board: edit mode disabled")
	ErrNotResizable        = errors.New("board: component is not resizable")
	ErrInvalidClass        = errors.New("board: unexpected $class")
)

// UnknownComponentTypeError reports a registry miss.
type UnknownComponentTypeError struct {
	Type string
}

func (e *UnknownComponentTypeError) Error() string {
	return fmt.Sprintf("board: unknown component type %q", e.Type)
}

func (e *UnknownComponentTypeError) Is(target error) bool { return target == ErrUnknownComponentType }

// DuplicateTypeError reports a registration collision.
type DuplicateTypeError struct {
	Type string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("board: component type %q already registered", e.Type)
}

func (e *DuplicateTypeError) Is(target error) bool { return target == ErrDuplicateType }

// CellNotFoundError reports a binding that references a cell id missing from the tree.
type CellNotFoundError struct {
	CellID string
}

func (e *CellNotFoundError) Error() string {
	if e.CellID == "" {
		return "board: component options do not name a target cell"
	}
	return fmt.Sprintf("board: cell %q not found", e.CellID)
}

func (e *CellNotFoundError) Is(target error) bool { return target == ErrCellNotFound }

// CellOccupiedError reports a binding whose target cell already holds a component.
type CellOccupiedError struct {
	CellID      string
	ComponentID string
}

func (e *CellOccupiedError) Error() string {
	return fmt.Sprintf("board: cell %q already holds component %q", e.CellID, e.ComponentID)
}

func (e *CellOccupiedError) Is(target error) bool { return target == ErrCellOccupied }

// MissingContainerError reports an absent or invalid mount target.
type MissingContainerError struct {
	ContainerID string
}

func (e *MissingContainerError) Error() string {
	if e.ContainerID == "" {
		return "board: render target is nil"
	}
	return fmt.Sprintf("board: container %q not found", e.ContainerID)
}

func (e *MissingContainerError) Is(target error) bool { return target == ErrMissingContainer }

// DoubleLoadError reports a second Load call on the same component instance.
type DoubleLoadError struct {
	ComponentID string
}

func (e *DoubleLoadError) Error() string {
	return fmt.Sprintf("board: component %q loaded twice", e.ComponentID)
}

func (e *DoubleLoadError) Is(target error) bool { return target == ErrDoubleLoad }

// DuplicateIDError reports two tree nodes sharing an identifier.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("board: id %q is used more than once", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

// InvalidOptionsError wraps a schema validation failure for a component type.
// Fields lists the dotted option paths the schema rejected.
type InvalidOptionsError struct {
	Type   string
	Name   string
	Fields []string
	Err    error
}

func (e *InvalidOptionsError) Error() string {
	label := strconv.Quote(e.Type)
	if e.Name != "" && e.Name != e.Type {
		label += " (" + e.Name + ")"
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("board: options for %s failed validation at %s: %v", label, strings.Join(e.Fields, ", "), e.Err)
	}
	return fmt.Sprintf("board: options for %s failed validation: %v", label, e.Err)
}

func (e *InvalidOptionsError) Is(target error) bool { return target == ErrInvalidOptions }

func (e *InvalidOptionsError) Unwrap() error { return e.Err }

// ComponentError identifies the failed entry of a component batch.
type ComponentError struct {
	Index  int
	CellID string
	Type   string
	Err    error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("board: component #%d (%s -> %s): %v", e.Index, e.Type, e.CellID, e.Err)
}

func (e *ComponentError) Unwrap() error { return e.Err }

// ErrNodeDestroyed is returned by operations on a destroyed layout, row or cell.
var ErrNodeDestroyed = errors.New("board: node destroyed")

// ClassError reports a persisted record whose $class does not match.
type ClassError struct {
	Want string
	Got  string
}

func (e *ClassError) Error() string {
	return fmt.Sprintf("board: expected $class %q, got %q", e.Want, e.Got)
}

func (e *ClassError) Is(target error) bool { return target == ErrInvalidClass }

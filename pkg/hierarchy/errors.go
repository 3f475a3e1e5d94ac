package hierarchy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyGraph is returned by [NewGraph] and [Layout] when no edge has an
	// absent parent, so there is no root to lay out.
	ErrEmptyGraph = errors.New("graph has no root")

	// ErrRootNotFound is returned by [NewGraphWithRoots] when a forced root
	// is not named by any edge.
	ErrRootNotFound = errors.New("root not found")

	// ErrInvalidNodeID is returned by [NewGraph] when an edge has an empty
	// child identifier.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrCycleDetected is matched by [CycleError]. A walk from a root reached
	// a node that is already on its ancestor path.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrDuplicateNodeID is matched by [DuplicateNodeError]. A child id is
	// attached to more than one parent and was not disambiguated upstream.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrCapacityOverflow is matched by [CapacityOverflowError]. A child needs
	// more slots than remain in its parent's range.
	ErrCapacityOverflow = errors.New("capacity overflow")

	// ErrDepthLimit is matched by [DepthLimitError].
	ErrDepthLimit = errors.New("depth limit exceeded")
)

// CycleError reports a node revisited on the current ancestor path.
type CycleError struct {
	Root string
	Node string
	Path []string // ancestor path from Root, ending before Node
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected at %q (path %s -> %s)", e.Node, strings.Join(e.Path, " -> "), e.Node)
}

// Is reports whether target is [ErrCycleDetected].
func (e *CycleError) Is(target error) bool { return target == ErrCycleDetected }

// DuplicateNodeError reports a child id that appears under several parents.
// An empty string in Parents stands for a root edge.
type DuplicateNodeError struct {
	Node    string
	Parents []string
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("duplicate node ID %q (parents %q)", e.Node, e.Parents)
}

// Is reports whether target is [ErrDuplicateNodeID].
func (e *DuplicateNodeError) Is(target error) bool { return target == ErrDuplicateNodeID }

// CapacityOverflowError reports a child whose capacity does not fit in the
// slots left in its parent's range.
type CapacityOverflowError struct {
	Node      string
	Parent    string
	Needed    int
	Remaining int
}

func (e *CapacityOverflowError) Error() string {
	return fmt.Sprintf("capacity overflow at %q under %q: need %d slots, %d remaining",
		e.Node, e.Parent, e.Needed, e.Remaining)
}

// Is reports whether target is [ErrCapacityOverflow].
func (e *CapacityOverflowError) Is(target error) bool { return target == ErrCapacityOverflow }

// DepthLimitError reports a node deeper than the configured maximum.
type DepthLimitError struct {
	Node  string
	Depth int
	Limit int
}

func (e *DepthLimitError) Error() string {
	return fmt.Sprintf("node %q at depth %d exceeds limit %d", e.Node, e.Depth, e.Limit)
}

// Is reports whether target is [ErrDepthLimit].
func (e *DepthLimitError) Is(target error) bool { return target == ErrDepthLimit }

// RootError ties a layout failure to the root whose tree was abandoned.
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string { return fmt.Sprintf("root %q: %v", e.Root, e.Err) }

// Unwrap returns the underlying failure.
func (e *RootError) Unwrap() error { return e.Err }

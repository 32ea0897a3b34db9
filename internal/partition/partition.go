// Package partition splits node identifiers between relays.
//
// Node ids 0..N-1 are cut into R contiguous, inclusive ranges, one per relay
// in relay inventory order. Range sizes differ by at most one and the first
// N mod R relays take the larger size.
package partition

import (
	"fmt"
	"sort"

	"relayctl/internal/inventory"
)

// Range is an inclusive interval of node ids. A range with End < Start is
// empty; it happens when there are more relays than nodes.
type Range struct {
	Start int
	End   int
}

// Size is the number of node ids in the range.
func (r Range) Size() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether id falls inside the range.
func (r Range) Contains(id int) bool {
	return r.Start <= id && id <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d]", r.Start, r.End)
}

// Assignment binds one relay to the node ids it serves.
type Assignment struct {
	Index int
	Relay inventory.HostEntry
	Range Range
}

// Table is the immutable result of Compute.
type Table struct {
	nodes       int
	relays      int
	assignments []Assignment
}

// CoverageError means a node id has no owning relay. It only happens when the
// relay inventory is shorter than the relay count, or the id is outside
// [0, N).
type CoverageError struct {
	NodeID int
	Nodes  int
	Relays int
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("node %d is not covered by any relay range (nodes=%d, relays=%d)", e.NodeID, e.Nodes, e.Relays)
}

// Bounds returns the range of the relay at iteration index i.
func Bounds(nodes, relays, i int) Range {
	q := nodes / relays
	r := nodes % relays
	size := q
	if i < r {
		size++
	}
	start := i*q + min(r, i)
	return Range{Start: start, End: start + size - 1}
}

// Compute assigns ranges to the first relays entries of relayInventory.
func Compute(nodes, relays int, relayInventory *inventory.Inventory) (*Table, error) {
	if nodes < 0 {
		return nil, fmt.Errorf("node count must not be negative, got %d", nodes)
	}
	if relays < 1 {
		return nil, fmt.Errorf("relay count must be at least 1, got %d", relays)
	}

	entries := relayInventory.Entries()
	if len(entries) > relays {
		entries = entries[:relays]
	}

	t := &Table{
		nodes:       nodes,
		relays:      relays,
		assignments: make([]Assignment, len(entries)),
	}
	for i, relay := range entries {
		t.assignments[i] = Assignment{Index: i, Relay: relay, Range: Bounds(nodes, relays, i)}
	}
	return t, nil
}

// Owner returns the relay whose range contains id.
func (t *Table) Owner(id int) (inventory.HostEntry, error) {
	a, err := t.lookup(id)
	if err != nil {
		return inventory.HostEntry{}, err
	}
	return a.Relay, nil
}

// lookup binary-searches on End, which is non-decreasing across assignments.
func (t *Table) lookup(id int) (Assignment, error) {
	if id >= 0 && id < t.nodes {
		i := sort.Search(len(t.assignments), func(i int) bool {
			return t.assignments[i].Range.End >= id
		})
		if i < len(t.assignments) && t.assignments[i].Range.Contains(id) {
			return t.assignments[i], nil
		}
	}
	return Assignment{}, &CoverageError{NodeID: id, Nodes: t.nodes, Relays: t.relays}
}

// Assignments returns a copy of the table in relay iteration order.
func (t *Table) Assignments() []Assignment {
	return append([]Assignment(nil), t.assignments...)
}

// RangeOf returns the range of a relay, if it is in the table.
func (t *Table) RangeOf(relay inventory.HostEntry) (Range, bool) {
	for _, a := range t.assignments {
		if a.Relay == relay {
			return a.Range, true
		}
	}
	return Range{}, false
}

// Nodes is N.
func (t *Table) Nodes() int { return t.nodes }

// Relays is R as requested, which may exceed len(Assignments()).
func (t *Table) Relays() int { return t.relays }

// Complete reports whether every id in [0, N) has an owner.
func (t *Table) Complete() bool {
	covered := 0
	for _, a := range t.assignments {
		covered += a.Range.Size()
	}
	return covered == t.nodes
}

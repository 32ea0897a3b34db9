package inventory

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// HostEntry identifies one process slot: a machine address and the port the
// process listens on. Addresses may repeat across entries.
type HostEntry struct {
	Address string
	Port    int
}

// Key returns the "address:port" form used by host list and extra-args files.
func (h HostEntry) Key() string {
	return fmt.Sprintf("%s:%d", h.Address, h.Port)
}

func (h HostEntry) String() string {
	return h.Key()
}

// Group holds every port listed for one address, in file order.
type Group struct {
	Address string
	Ports   []int
}

// Inventory is an ordered, read-only view of a host list file. Groups appear in
// the order their address was first seen; ports keep their append order.
type Inventory struct {
	groups []Group
	size   int
}

// MalformedLineError reports a host list line that is not <address>:<port>.
type MalformedLineError struct {
	Path   string
	Line   int
	Text   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("%s:%d: malformed host line %q: %s", e.Path, e.Line, e.Text, e.Reason)
}

// Build reads at most num usable lines from the host list at path.
func Build(path string, num int) (*Inventory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open host list %s: %w", path, err)
	}
	defer f.Close()

	return parse(f, path, num)
}

// Parse is Build for an already opened reader.
func Parse(r io.Reader, num int) (*Inventory, error) {
	return parse(r, "<input>", num)
}

func parse(r io.Reader, name string, num int) (*Inventory, error) {
	inv := &Inventory{}
	index := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for inv.size < num && scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry, reason := parseLine(line)
		if reason != "" {
			return nil, &MalformedLineError{Path: name, Line: lineNo, Text: line, Reason: reason}
		}

		pos, seen := index[entry.Address]
		if !seen {
			pos = len(inv.groups)
			index[entry.Address] = pos
			inv.groups = append(inv.groups, Group{Address: entry.Address})
		}
		inv.groups[pos].Ports = append(inv.groups[pos].Ports, entry.Port)
		inv.size++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read host list %s: %w", name, err)
	}

	return inv, nil
}

func parseLine(line string) (HostEntry, string) {
	address, portText, found := strings.Cut(line, ":")
	if !found {
		return HostEntry{}, "missing ':' separator"
	}
	if address == "" {
		return HostEntry{}, "empty address"
	}
	port, err := strconv.Atoi(strings.TrimSpace(portText))
	if err != nil || port < 0 || port > 65535 {
		return HostEntry{}, fmt.Sprintf("invalid port %q", portText)
	}
	return HostEntry{Address: address, Port: port}, ""
}

// Len is the number of host entries consumed from the file.
func (inv *Inventory) Len() int {
	if inv == nil {
		return 0
	}
	return inv.size
}

// Groups returns a copy of the address groups in enumeration order.
func (inv *Inventory) Groups() []Group {
	if inv == nil {
		return nil
	}
	out := make([]Group, len(inv.groups))
	for i, g := range inv.groups {
		out[i] = Group{Address: g.Address, Ports: append([]int(nil), g.Ports...)}
	}
	return out
}

// Entries flattens the inventory: address order first, then port order.
// The position of an entry in this slice is its global index.
func (inv *Inventory) Entries() []HostEntry {
	if inv == nil {
		return nil
	}
	out := make([]HostEntry, 0, inv.size)
	for _, g := range inv.groups {
		for _, p := range g.Ports {
			out = append(out, HostEntry{Address: g.Address, Port: p})
		}
	}
	return out
}

// Addresses lists the distinct addresses in first-seen order.
func (inv *Inventory) Addresses() []string {
	if inv == nil {
		return nil
	}
	out := make([]string, len(inv.groups))
	for i, g := range inv.groups {
		out[i] = g.Address
	}
	return out
}

// Package extraargs loads per-host extra arguments for node processes.
//
// The file format is one host per line:
//
//	10.0.0.1:9000 -Dprofile=slow --fanout 4
//
// The first whitespace-delimited field is the key, taken verbatim; the
// remaining fields are appended to that node's command line.
package extraargs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table maps "address:port" keys to argument tokens. A nil *Table is valid and
// empty.
type Table struct {
	args map[string][]string
}

// Load parses the extra-args file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open extra-args file %s: %w", path, err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read extra-args file %s: %w", path, err)
	}
	return t, nil
}

// Parse reads the table from r. A repeated key replaces the earlier line.
func Parse(r io.Reader) (*Table, error) {
	t := &Table{args: make(map[string][]string)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		t.args[fields[0]] = fields[1:]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// Lookup returns a copy of the tokens for key, or an empty slice.
func (t *Table) Lookup(key string) []string {
	if t == nil {
		return []string{}
	}
	return append([]string{}, t.args[key]...)
}

// Len is the number of hosts with an entry.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.args)
}

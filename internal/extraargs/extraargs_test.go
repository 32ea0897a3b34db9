package extraargs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.txt")
	content := "10.0.0.1:9000 -Dmode=fast --fanout 4\n\n10.0.0.2:9000\t-Dmode=slow\n10.0.0.3:9000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"-Dmode=fast", "--fanout", "4"}, table.Lookup("10.0.0.1:9000"))
	assert.Equal(t, []string{"-Dmode=slow"}, table.Lookup("10.0.0.2:9000"))
	assert.Empty(t, table.Lookup("10.0.0.3:9000"))
}

func TestLookup_UnlistedHostIsEmpty(t *testing.T) {
	table, err := Parse(strings.NewReader("a:1 x\n"))
	require.NoError(t, err)

	got := table.Lookup("b:1")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLookup_NilTable(t *testing.T) {
	var table *Table
	assert.Empty(t, table.Lookup("a:1"))
	assert.Equal(t, 0, table.Len())
}

func TestParse_LastLineWins(t *testing.T) {
	table, err := Parse(strings.NewReader("a:1 first\na:1 second third\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "third"}, table.Lookup("a:1"))
}

func TestLookup_ReturnsCopy(t *testing.T) {
	table, err := Parse(strings.NewReader("a:1 x\n"))
	require.NoError(t, err)

	got := table.Lookup("a:1")
	got[0] = "mutated"
	assert.Equal(t, []string{"x"}, table.Lookup("a:1"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

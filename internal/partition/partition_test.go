package partition

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"relayctl/internal/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relayInventory(t *testing.T, relays int) *inventory.Inventory {
	t.Helper()
	var b strings.Builder
	for i := 0; i < relays; i++ {
		// Two relays per machine exercises the address-then-port order.
		fmt.Fprintf(&b, "10.0.1.%d:%d\n", i/2, 9082+i%2)
	}
	inv, err := inventory.Parse(strings.NewReader(b.String()), relays)
	require.NoError(t, err)
	return inv
}

func TestCompute_FiveNodesTwoRelays(t *testing.T) {
	table, err := Compute(5, 2, relayInventory(t, 2))
	require.NoError(t, err)

	got := table.Assignments()
	require.Len(t, got, 2)
	assert.Equal(t, Range{Start: 0, End: 2}, got[0].Range)
	assert.Equal(t, Range{Start: 3, End: 4}, got[1].Range)
}

func TestCompute_SevenNodesThreeRelays(t *testing.T) {
	table, err := Compute(7, 3, relayInventory(t, 3))
	require.NoError(t, err)

	got := table.Assignments()
	require.Len(t, got, 3)
	assert.Equal(t, Range{Start: 0, End: 2}, got[0].Range)
	assert.Equal(t, Range{Start: 3, End: 4}, got[1].Range)
	assert.Equal(t, Range{Start: 5, End: 6}, got[2].Range)
}

func TestCompute_PartitionProperties(t *testing.T) {
	for nodes := 1; nodes <= 40; nodes++ {
		for relays := 1; relays <= nodes; relays++ {
			table, err := Compute(nodes, relays, relayInventory(t, relays))
			require.NoError(t, err)

			owned := make([]int, nodes)
			next := 0
			for i, a := range table.Assignments() {
				assert.Equal(t, next, a.Range.Start, "N=%d R=%d relay %d is not contiguous", nodes, relays, i)
				next = a.Range.End + 1

				want := nodes / relays
				if i < nodes%relays {
					want++
				}
				assert.Equal(t, want, a.Range.Size(), "N=%d R=%d relay %d", nodes, relays, i)

				for id := a.Range.Start; id <= a.Range.End; id++ {
					owned[id]++
				}
			}
			assert.Equal(t, nodes, next, "N=%d R=%d union must end at N-1", nodes, relays)
			for id, count := range owned {
				assert.Equal(t, 1, count, "N=%d R=%d id %d owned %d times", nodes, relays, id, count)
			}
			assert.True(t, table.Complete())
		}
	}
}

func TestOwner_EveryValidIDHasExactlyOneRelay(t *testing.T) {
	inv := relayInventory(t, 4)
	table, err := Compute(10, 4, inv)
	require.NoError(t, err)

	want := []int{0, 0, 0, 1, 1, 1, 2, 2, 3, 3}
	entries := inv.Entries()
	for id, relayIdx := range want {
		owner, err := table.Owner(id)
		require.NoError(t, err)
		assert.Equal(t, entries[relayIdx], owner, "id %d", id)
	}
}

func TestOwner_OutOfRangeIsCoverageError(t *testing.T) {
	table, err := Compute(5, 2, relayInventory(t, 2))
	require.NoError(t, err)

	for _, id := range []int{-1, 5, 100} {
		_, err := table.Owner(id)
		var coverage *CoverageError
		require.True(t, errors.As(err, &coverage), "id %d", id)
		assert.Equal(t, id, coverage.NodeID)
	}
}

func TestOwner_ShortRelayInventoryLeavesGap(t *testing.T) {
	// Three relays requested, only two listed: ids 5 and 6 are unowned.
	table, err := Compute(7, 3, relayInventory(t, 2))
	require.NoError(t, err)
	assert.False(t, table.Complete())

	_, err = table.Owner(4)
	assert.NoError(t, err)

	_, err = table.Owner(5)
	var coverage *CoverageError
	assert.True(t, errors.As(err, &coverage))
}

func TestCompute_MoreRelaysThanNodes(t *testing.T) {
	table, err := Compute(2, 4, relayInventory(t, 4))
	require.NoError(t, err)

	sizes := []int{}
	for _, a := range table.Assignments() {
		sizes = append(sizes, a.Range.Size())
	}
	assert.Equal(t, []int{1, 1, 0, 0}, sizes)

	owner, err := table.Owner(1)
	require.NoError(t, err)
	assert.Equal(t, relayInventory(t, 4).Entries()[1], owner)
}

func TestCompute_IgnoresRelaysBeyondCount(t *testing.T) {
	table, err := Compute(4, 2, relayInventory(t, 4))
	require.NoError(t, err)
	assert.Len(t, table.Assignments(), 2)
}

func TestCompute_InvalidCounts(t *testing.T) {
	_, err := Compute(4, 0, relayInventory(t, 1))
	assert.Error(t, err)

	_, err = Compute(-1, 1, relayInventory(t, 1))
	assert.Error(t, err)
}

func TestRangeOf(t *testing.T) {
	inv := relayInventory(t, 2)
	table, err := Compute(5, 2, inv)
	require.NoError(t, err)

	r, ok := table.RangeOf(inv.Entries()[1])
	require.True(t, ok)
	assert.Equal(t, "[3,4]", r.String())

	_, ok = table.RangeOf(inventory.HostEntry{Address: "nowhere", Port: 1})
	assert.False(t, ok)
}

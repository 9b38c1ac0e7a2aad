package blocks

import (
	"sort"
	"testing"

	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	"github.com/stretchr/testify/require"
)

func TestROBlockSorting(t *testing.T) {
	one := [32]byte{1}
	two := [32]byte{2}
	cases := []struct {
		name   string
		ros    []ROBlock
		sorted []ROBlock
	}{
		{
			name:   "1 item",
			ros:    []ROBlock{testROBlock(t, 1, [32]byte{})},
			sorted: []ROBlock{testROBlock(t, 1, [32]byte{})},
		},
		{
			name:   "2 items, sorted",
			ros:    []ROBlock{testROBlock(t, 1, [32]byte{}), testROBlock(t, 2, [32]byte{})},
			sorted: []ROBlock{testROBlock(t, 1, [32]byte{}), testROBlock(t, 2, [32]byte{})},
		},
		{
			name:   "2 items, reversed",
			ros:    []ROBlock{testROBlock(t, 2, [32]byte{}), testROBlock(t, 1, [32]byte{})},
			sorted: []ROBlock{testROBlock(t, 1, [32]byte{}), testROBlock(t, 2, [32]byte{})},
		},
		{
			name: "3 items, reversed, with tie breaker",
			ros: []ROBlock{
				testROBlock(t, 2, two),
				testROBlock(t, 2, one),
				testROBlock(t, 1, [32]byte{}),
			},
			sorted: []ROBlock{
				testROBlock(t, 1, [32]byte{}),
				testROBlock(t, 2, one),
				testROBlock(t, 2, two),
			},
		},
		{
			name: "5 items, reversed, with double root tie",
			ros: []ROBlock{
				testROBlock(t, 0, one),
				testROBlock(t, 2, two),
				testROBlock(t, 2, one),
				testROBlock(t, 2, two),
				testROBlock(t, 2, one),
				testROBlock(t, 1, [32]byte{}),
			},
			sorted: []ROBlock{
				testROBlock(t, 0, one),
				testROBlock(t, 1, [32]byte{}),
				testROBlock(t, 2, one),
				testROBlock(t, 2, one),
				testROBlock(t, 2, two),
				testROBlock(t, 2, two),
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sort.Sort(ROBlockSlice(c.ros))
			for i := 0; i < len(c.sorted); i++ {
				require.Equal(t, c.sorted[i].Slot(), c.ros[i].Slot())
				require.Equal(t, c.sorted[i].Root(), c.ros[i].Root())
			}
		})
	}
}

func testROBlock(t *testing.T, slot primitives.Slot, root [32]byte) ROBlock {
	b := &SignedBeaconBlock{Block: &BeaconBlock{Slot: slot, Body: &BeaconBlockBody{}}}
	ro, err := NewROBlockWithRoot(b, root)
	require.NoError(t, err)
	return ro
}

func TestNewROBlock(t *testing.T) {
	cases := []struct {
		name string
		b    *SignedBeaconBlock
		err  error
	}{
		{name: "nil signed block", b: nil, err: ErrNilSignedBeaconBlock},
		{name: "nil block", b: &SignedBeaconBlock{}, err: ErrNilBeaconBlock},
		{name: "nil body", b: &SignedBeaconBlock{Block: &BeaconBlock{}}, err: ErrNilBeaconBlockBody},
		{name: "ok", b: &SignedBeaconBlock{Block: &BeaconBlock{Slot: 3, Body: &BeaconBlockBody{}}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ro, err := NewROBlock(c.b)
			if c.err != nil {
				require.ErrorIs(t, err, c.err)
				return
			}
			require.NoError(t, err)
			want, err := c.b.HashTreeRoot()
			require.NoError(t, err)
			require.Equal(t, want, ro.Root())
			require.Equal(t, primitives.Slot(3), ro.Slot())
		})
	}
}

package ssz_test

import (
	"testing"

	"github.com/prysmaticlabs/prysm-broadcast/crypto/hash"
	"github.com/prysmaticlabs/prysm-broadcast/encoding/ssz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint64Root(t *testing.T) {
	assert.Equal(t, [32]byte{0x01, 0x02}, ssz.Uint64Root(0x0201))
}

func TestDepth(t *testing.T) {
	tests := []struct {
		in  uint64
		out uint8
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, ssz.Depth(tt.in), "depth of %d", tt.in)
	}
}

func TestMerkleize(t *testing.T) {
	a, b, c := [32]byte{1}, [32]byte{2}, [32]byte{3}

	root, err := ssz.Merkleize([][32]byte{a}, 1)
	require.NoError(t, err)
	assert.Equal(t, a, root)

	root, err = ssz.Merkleize([][32]byte{a, b}, 2)
	require.NoError(t, err)
	assert.Equal(t, hash.Concat(a, b), root)

	root, err = ssz.Merkleize([][32]byte{a, b, c}, 4)
	require.NoError(t, err)
	assert.Equal(t, hash.Concat(hash.Concat(a, b), hash.Concat(c, [32]byte{})), root)

	// A larger limit pads with zero subtrees.
	root, err = ssz.Merkleize([][32]byte{a}, 4)
	require.NoError(t, err)
	assert.Equal(t, hash.Concat(hash.Concat(a, [32]byte{}), ssz.ZeroHashes[1]), root)

	root, err = ssz.Merkleize(nil, 8)
	require.NoError(t, err)
	assert.Equal(t, ssz.ZeroHashes[3], root)
}

func TestMerkleize_OverLimit(t *testing.T) {
	_, err := ssz.Merkleize(make([][32]byte, 3), 2)
	require.ErrorIs(t, err, ssz.ErrTooManyChunks)
}

func TestPack(t *testing.T) {
	chunks := ssz.Pack(make([]byte, 33))
	require.Len(t, chunks, 2)
	assert.Empty(t, ssz.Pack(nil))
}

func TestByteListRoot(t *testing.T) {
	data := []byte{1, 2, 3}
	root, err := ssz.ByteListRoot(data, 64)
	require.NoError(t, err)
	inner := hash.Concat([32]byte{1, 2, 3}, [32]byte{})
	assert.Equal(t, ssz.MixInLength(inner, 3), root)

	_, err = ssz.ByteListRoot(make([]byte, 65), 64)
	require.Error(t, err)
}

func TestListRoot(t *testing.T) {
	empty, err := ssz.ListRoot(nil, 16)
	require.NoError(t, err)
	assert.Equal(t, ssz.MixInLength(ssz.ZeroHashes[4], 0), empty)
}

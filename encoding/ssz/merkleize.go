package ssz

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/crypto/hash"
)

// ErrTooManyChunks is returned when a list is merkleized with more chunks than its limit allows.
var ErrTooManyChunks = errors.New("merkleizing list that is too large, over limit")

const maxTreeDepth = 64

// ZeroHashes is a pre-computed table of roots of empty subtrees, indexed by depth.
var ZeroHashes [maxTreeDepth + 1][32]byte

func init() {
	for i := 1; i <= maxTreeDepth; i++ {
		ZeroHashes[i] = hash.Concat(ZeroHashes[i-1], ZeroHashes[i-1])
	}
}

// Depth retrieves the depth of a binary tree holding v leaves, rounding up to the
// next power of two. Zero and one leaves have a depth of 0.
func Depth(v uint64) uint8 {
	var d uint8
	for d < maxTreeDepth && uint64(1)<<d < v {
		d++
	}
	return d
}

// Merkleize computes the root of the given chunks padded with zero subtrees up to
// the next power of two of limit. Padding is never materialized, so large limits
// are cheap.
func Merkleize(chunks [][32]byte, limit uint64) ([32]byte, error) {
	if uint64(len(chunks)) > limit {
		return [32]byte{}, errors.Wrapf(ErrTooManyChunks, "%d chunks, limit %d", len(chunks), limit)
	}
	depth := Depth(limit)
	if len(chunks) == 0 {
		return ZeroHashes[depth], nil
	}
	layer := make([][32]byte, len(chunks))
	copy(layer, chunks)
	for d := uint8(0); d < depth; d++ {
		if len(layer)%2 == 1 {
			layer = append(layer, ZeroHashes[d])
		}
		next := make([][32]byte, len(layer)/2)
		for i := range next {
			next[i] = hash.Concat(layer[2*i], layer[2*i+1])
		}
		layer = next
	}
	return layer[0], nil
}

// MixInLength mixes the length of a list into its root.
func MixInLength(root [32]byte, length uint64) [32]byte {
	return hash.Concat(root, Uint64Root(length))
}

// Package ssz contains the hash tree root helpers used to merkleize beacon
// chain containers according to the Ethereum Simple Serialize specification.
package ssz

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const bytesPerChunk = 32

// Uint64Root computes the HashTreeRoot Merkleization of
// a simple uint64 value according to the Ethereum
// Simple Serialize specification.
func Uint64Root(val uint64) [32]byte {
	var root [32]byte
	binary.LittleEndian.PutUint64(root[:8], val)
	return root
}

// Pack splits serialized data into 32 byte chunks, right-padding the last one with zeros.
func Pack(data []byte) [][32]byte {
	n := (len(data) + bytesPerChunk - 1) / bytesPerChunk
	chunks := make([][32]byte, n)
	for i := range chunks {
		copy(chunks[i][:], data[i*bytesPerChunk:])
	}
	return chunks
}

// FixedBytesRoot computes the HashTreeRoot of a byte vector such as a signature or a commitment.
func FixedBytesRoot(data []byte) [32]byte {
	chunks := Pack(data)
	// The limit equals the chunk count, so this cannot fail.
	root, _ := Merkleize(chunks, uint64(len(chunks)))
	return root
}

// ByteListRoot computes the HashTreeRoot of a variable length byte list bounded by maxBytes.
func ByteListRoot(data []byte, maxBytes uint64) ([32]byte, error) {
	if uint64(len(data)) > maxBytes {
		return [32]byte{}, errors.Errorf("byte list of length %d exceeds limit %d", len(data), maxBytes)
	}
	limit := (maxBytes + bytesPerChunk - 1) / bytesPerChunk
	root, err := Merkleize(Pack(data), limit)
	if err != nil {
		return [32]byte{}, err
	}
	return MixInLength(root, uint64(len(data))), nil
}

// ListRoot computes the HashTreeRoot of a list of composite elements whose roots are given.
func ListRoot(roots [][32]byte, limit uint64) ([32]byte, error) {
	root, err := Merkleize(roots, limit)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not compute list merkleization")
	}
	return MixInLength(root, uint64(len(roots))), nil
}

// Package hash includes all hash-function related helpers for Prysm.
package hash

import (
	"github.com/minio/sha256-simd"
)

// Hash defines a function that returns the sha256 checksum of the data passed in.
// https://github.com/ethereum/consensus-specs/blob/v0.9.3/specs/core/0_beacon-chain.md#hash
func Hash(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Concat returns the sha256 checksum of a and b concatenated, the branch step of a merkle tree.
func Concat(a, b [32]byte) [32]byte {
	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	return sha256.Sum256(buf[:])
}

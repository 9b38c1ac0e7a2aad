package hash_test

import (
	"encoding/hex"
	"testing"

	"github.com/prysmaticlabs/prysm-broadcast/crypto/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	want, err := hex.DecodeString("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")
	require.NoError(t, err)
	got := hash.Hash([]byte("abc"))
	assert.Equal(t, want, got[:])
}

func TestConcat(t *testing.T) {
	a := [32]byte{1}
	b := [32]byte{2}
	buf := append(a[:], b[:]...)
	assert.Equal(t, hash.Hash(buf), hash.Concat(a, b))
}

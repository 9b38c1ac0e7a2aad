package kzg_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/blockchain/kzg"
	"github.com/prysmaticlabs/prysm-broadcast/crypto/hash"
	"github.com/prysmaticlabs/prysm-broadcast/testing/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKzgCommitmentToVersionedHash(t *testing.T) {
	cmt := [48]byte{0xc0, 0x01}
	h := kzg.KzgCommitmentToVersionedHash(cmt)
	digest := hash.Hash(cmt[:])
	assert.Equal(t, byte(0x01), h[0])
	assert.Equal(t, digest[1:], h[1:])
}

func TestIsBlobTransaction(t *testing.T) {
	assert.False(t, kzg.IsBlobTransaction(nil))
	assert.False(t, kzg.IsBlobTransaction([]byte{0x02, 0x05}))
	assert.True(t, kzg.IsBlobTransaction([]byte{0x05}))
}

func TestTxPeekBlobVersionedHashes(t *testing.T) {
	hashes := []common.Hash{{0x01, 0xaa}, {0x01, 0xbb}}
	got, err := kzg.TxPeekBlobVersionedHashes(util.BlobTransaction(hashes...))
	require.NoError(t, err)
	assert.Equal(t, hashes, got)

	got, err = kzg.TxPeekBlobVersionedHashes(util.BlobTransaction())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTxPeekBlobVersionedHashes_Malformed(t *testing.T) {
	valid := util.BlobTransaction(common.Hash{0x01})
	outOfBounds := util.BlobTransaction()
	outOfBounds[1] = 0xff
	cases := []struct {
		name string
		tx   []byte
	}{
		{name: "not a blob tx", tx: []byte{0x02, 0, 0, 0, 0}},
		{name: "too short", tx: []byte{0x05, 0x01}},
		{name: "message offset out of bounds", tx: outOfBounds},
		{name: "truncated hash", tx: valid[:len(valid)-1]},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := kzg.TxPeekBlobVersionedHashes(c.tx)
			require.ErrorIs(t, err, kzg.ErrMalformedBlobTransaction)
		})
	}
}

func TestVerifyKZGCommitmentsAgainstTransactions(t *testing.T) {
	cmts := util.Commitments(3)
	hashes := make([]common.Hash, len(cmts))
	for i := range cmts {
		hashes[i] = kzg.KzgCommitmentToVersionedHash(cmts[i])
	}
	legacyTx := []byte{0x02, 0xde, 0xad}
	cases := []struct {
		name string
		txs  [][]byte
		cmts [][48]byte
		want bool
	}{
		{name: "no blobs", txs: [][]byte{legacyTx}, want: true},
		{name: "single tx", txs: [][]byte{util.BlobTransaction(hashes...)}, cmts: cmts, want: true},
		{
			name: "split across txs",
			txs:  [][]byte{util.BlobTransaction(hashes[0]), legacyTx, util.BlobTransaction(hashes[1:]...)},
			cmts: cmts,
			want: true,
		},
		{name: "wrong order", txs: [][]byte{util.BlobTransaction(hashes[1], hashes[0], hashes[2])}, cmts: cmts},
		{name: "missing commitment", txs: [][]byte{util.BlobTransaction(hashes...)}, cmts: cmts[:2]},
		{name: "missing hash", txs: [][]byte{util.BlobTransaction(hashes[:2]...)}, cmts: cmts},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ok, err := kzg.VerifyKZGCommitmentsAgainstTransactions(c.txs, c.cmts)
			require.NoError(t, err)
			assert.Equal(t, c.want, ok)
		})
	}
}

func TestBlobSidecarsCount(t *testing.T) {
	assert.Equal(t, 0, kzg.BlobSidecarsCount(nil))
	assert.Equal(t, 0, kzg.BlobSidecarsCount(util.GenerateBlock(1)))
	assert.Equal(t, 2, kzg.BlobSidecarsCount(util.GenerateBlock(1, util.WithBlobs(2))))
}

package util

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/blockchain/kzg"
	"github.com/prysmaticlabs/prysm-broadcast/config/params"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
)

// Size of the fixed part of a serialized BlobTransaction message up to and
// including the blob_versioned_hashes offset.
const blobMessageFixedLength = 192

// BlobTransaction builds an opaque blob transaction referencing the given versioned hashes.
// Only the fields located by kzg.TxPeekBlobVersionedHashes are populated.
func BlobTransaction(hashes ...common.Hash) []byte {
	const messageOffset = 5
	tx := make([]byte, messageOffset+blobMessageFixedLength, messageOffset+blobMessageFixedLength+len(hashes)*common.HashLength)
	tx[0] = params.BeaconConfig().BlobTxType
	binary.LittleEndian.PutUint32(tx[1:5], messageOffset-1)
	binary.LittleEndian.PutUint32(tx[messageOffset+188:messageOffset+192], blobMessageFixedLength)
	for _, h := range hashes {
		tx = append(tx, h[:]...)
	}
	return tx
}

// Commitments returns n distinct KZG commitments.
func Commitments(n int) [][48]byte {
	cmts := make([][48]byte, n)
	for i := range cmts {
		cmts[i][0] = 0xc0
		cmts[i][47] = byte(i + 1)
	}
	return cmts
}

// WithBlobs adds n commitments to the block together with a blob transaction
// referencing their versioned hashes.
func WithBlobs(n int) BlockOption {
	return func(b *blocks.SignedBeaconBlock) {
		cmts := Commitments(n)
		hashes := make([]common.Hash, n)
		for i := range cmts {
			hashes[i] = kzg.KzgCommitmentToVersionedHash(cmts[i])
		}
		WithTransactions(BlobTransaction(hashes...))(b)
		WithCommitments(cmts...)(b)
	}
}

// SidecarFor builds a blobs sidecar matching the block.
func SidecarFor(b blocks.ROBlock) *blocks.BlobsSidecar {
	blobs := make([][]byte, len(b.Block.Body.BlobKzgCommitments))
	for i := range blobs {
		blobs[i] = make([]byte, params.BeaconConfig().FieldElementsPerBlob*32)
	}
	return &blocks.BlobsSidecar{
		BeaconBlockRoot: b.Root(),
		BeaconBlockSlot: b.Slot(),
		Blobs:           blobs,
	}
}

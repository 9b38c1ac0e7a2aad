package kzg

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	field_params "github.com/prysmaticlabs/prysm-broadcast/config/fieldparams"
	"github.com/prysmaticlabs/prysm-broadcast/config/params"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/crypto/hash"
)

// ErrMalformedBlobTransaction is returned when the versioned hashes of a blob
// transaction cannot be located inside its serialized bytes.
var ErrMalformedBlobTransaction = errors.New("malformed blob transaction")

// Offset of the blob_versioned_hashes offset inside the serialized BlobTransaction message:
// 32 + 8 + 32 + 32 + 8 + 4 + 32 + 4 + 4 + 32.
const blobVersionedHashesFieldOffset = 188

// KzgCommitmentToVersionedHash computes the versioned hash of a KZG commitment.
//
// Spec pseudocode definition:
//
//	def kzg_commitment_to_versioned_hash(kzg_commitment: KZGCommitment) -> VersionedHash:
//	    return VERSIONED_HASH_VERSION_KZG + hash(kzg_commitment)[1:]
func KzgCommitmentToVersionedHash(commitment [field_params.KzgCommitmentLength]byte) common.Hash {
	h := hash.Hash(commitment[:])
	h[0] = params.BeaconConfig().VersionedHashVersionKzg
	return h
}

// IsBlobTransaction reports whether the typed transaction carries blobs.
func IsBlobTransaction(tx []byte) bool {
	return len(tx) > 0 && tx[0] == params.BeaconConfig().BlobTxType
}

// TxPeekBlobVersionedHashes reads the blob versioned hashes out of a serialized
// blob transaction without decoding the rest of it.
//
// Spec pseudocode definition:
//
//	def tx_peek_blob_versioned_hashes(opaque_tx: Transaction) -> Sequence[VersionedHash]:
//	    assert opaque_tx[0] == BLOB_TX_TYPE
//	    message_offset = 1 + uint32.decode_bytes(opaque_tx[1:5])
//	    # field offset: 32 + 8 + 32 + 32 + 8 + 4 + 32 + 4 + 4 + 32 = 188
//	    blob_versioned_hashes_offset = (
//	        message_offset
//	        + uint32.decode_bytes(opaque_tx[(message_offset + 188):(message_offset + 192)])
//	    )
//	    return [
//	        VersionedHash(opaque_tx[x:(x + 32)])
//	        for x in range(blob_versioned_hashes_offset, len(opaque_tx), 32)
//	    ]
func TxPeekBlobVersionedHashes(tx []byte) ([]common.Hash, error) {
	if !IsBlobTransaction(tx) {
		return nil, errors.Wrap(ErrMalformedBlobTransaction, "transaction is not of blob type")
	}
	if len(tx) < 5 {
		return nil, errors.Wrapf(ErrMalformedBlobTransaction, "transaction of length %d has no message offset", len(tx))
	}
	size := uint64(len(tx))
	messageOffset := uint64(binary.LittleEndian.Uint32(tx[1:5])) + 1
	fieldOffset := messageOffset + blobVersionedHashesFieldOffset
	if fieldOffset+4 > size {
		return nil, errors.Wrapf(ErrMalformedBlobTransaction, "message offset %d out of bounds", messageOffset)
	}
	hashesOffset := messageOffset + uint64(binary.LittleEndian.Uint32(tx[fieldOffset:fieldOffset+4]))
	if hashesOffset > size {
		return nil, errors.Wrapf(ErrMalformedBlobTransaction, "versioned hashes offset %d out of bounds", hashesOffset)
	}
	if (size-hashesOffset)%common.HashLength != 0 {
		return nil, errors.Wrapf(ErrMalformedBlobTransaction, "trailing %d bytes are not a list of hashes", size-hashesOffset)
	}
	hashes := make([]common.Hash, 0, (size-hashesOffset)/common.HashLength)
	for i := hashesOffset; i < size; i += common.HashLength {
		hashes = append(hashes, common.BytesToHash(tx[i:i+common.HashLength]))
	}
	return hashes, nil
}

// VerifyKZGCommitmentsAgainstTransactions checks that the versioned hashes referenced by the
// blob transactions, in order, are exactly the versioned hashes of the given commitments.
//
// Spec pseudocode definition:
//
//	def verify_kzg_commitments_against_transactions(transactions: Sequence[Transaction],
//	                                                kzg_commitments: Sequence[KZGCommitment]) -> bool:
//	    all_versioned_hashes = []
//	    for tx in transactions:
//	        if tx[0] == BLOB_TX_TYPE:
//	            all_versioned_hashes += tx_peek_blob_versioned_hashes(tx)
//	    return all_versioned_hashes == [kzg_commitment_to_versioned_hash(commitment) for commitment in kzg_commitments]
func VerifyKZGCommitmentsAgainstTransactions(txs [][]byte, commitments [][field_params.KzgCommitmentLength]byte) (bool, error) {
	var txHashes []common.Hash
	for i, tx := range txs {
		if !IsBlobTransaction(tx) {
			continue
		}
		hashes, err := TxPeekBlobVersionedHashes(tx)
		if err != nil {
			return false, errors.Wrapf(err, "transaction %d", i)
		}
		txHashes = append(txHashes, hashes...)
	}
	if len(txHashes) != len(commitments) {
		return false, nil
	}
	for i := range commitments {
		if KzgCommitmentToVersionedHash(commitments[i]) != txHashes[i] {
			return false, nil
		}
	}
	return true, nil
}

// BlobSidecarsCount returns the number of blobs committed to by the block, or 0 for a nil block.
func BlobSidecarsCount(b *blocks.SignedBeaconBlock) int {
	if blocks.BeaconBlockIsNil(b) != nil {
		return 0
	}
	return len(b.Block.Body.BlobKzgCommitments)
}

package blocks

import (
	"github.com/pkg/errors"
	field_params "github.com/prysmaticlabs/prysm-broadcast/config/fieldparams"
	"github.com/prysmaticlabs/prysm-broadcast/encoding/ssz"
)

// HashTreeRoot computes the signing root of the signed block, which is the root of the inner block.
func (b *SignedBeaconBlock) HashTreeRoot() ([32]byte, error) {
	if err := BeaconBlockIsNil(b); err != nil {
		return [32]byte{}, err
	}
	return b.Block.HashTreeRoot()
}

// HashTreeRoot merkleizes the block header fields with the root of the body.
func (b *BeaconBlock) HashTreeRoot() ([32]byte, error) {
	if b == nil {
		return [32]byte{}, ErrNilBeaconBlock
	}
	if b.Body == nil {
		return [32]byte{}, ErrNilBeaconBlockBody
	}
	bodyRoot, err := b.Body.HashTreeRoot()
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not compute body root")
	}
	fieldRoots := [][32]byte{
		ssz.Uint64Root(uint64(b.Slot)),
		ssz.Uint64Root(uint64(b.ProposerIndex)),
		b.ParentRoot,
		b.StateRoot,
		bodyRoot,
	}
	return ssz.Merkleize(fieldRoots, uint64(len(fieldRoots)))
}

// HashTreeRoot merkleizes the body fields.
func (b *BeaconBlockBody) HashTreeRoot() ([32]byte, error) {
	if b == nil {
		return [32]byte{}, ErrNilBeaconBlockBody
	}
	txRoots := make([][32]byte, len(b.Transactions))
	for i, tx := range b.Transactions {
		r, err := ssz.ByteListRoot(tx, field_params.MaxBytesPerTxLength)
		if err != nil {
			return [32]byte{}, errors.Wrapf(err, "could not compute root of transaction %d", i)
		}
		txRoots[i] = r
	}
	txsRoot, err := ssz.ListRoot(txRoots, field_params.MaxTxsPerPayloadLength)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not compute transactions root")
	}
	commitmentRoots := make([][32]byte, len(b.BlobKzgCommitments))
	for i := range b.BlobKzgCommitments {
		commitmentRoots[i] = ssz.FixedBytesRoot(b.BlobKzgCommitments[i][:])
	}
	commitmentsRoot, err := ssz.ListRoot(commitmentRoots, field_params.MaxBlobCommitmentsPerBlock)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not compute blob kzg commitments root")
	}
	fieldRoots := [][32]byte{
		ssz.FixedBytesRoot(b.RandaoReveal[:]),
		b.Graffiti,
		txsRoot,
		commitmentsRoot,
	}
	return ssz.Merkleize(fieldRoots, uint64(len(fieldRoots)))
}

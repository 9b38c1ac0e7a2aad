package blocks

import (
	"github.com/pkg/errors"
	field_params "github.com/prysmaticlabs/prysm-broadcast/config/fieldparams"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
)

var (
	// ErrNilSignedBeaconBlock is returned when a nil signed beacon block is received.
	ErrNilSignedBeaconBlock = errors.New("signed beacon block can't be nil")
	// ErrNilBeaconBlock is returned when a nil beacon block is received.
	ErrNilBeaconBlock = errors.New("beacon block can't be nil")
	// ErrNilBeaconBlockBody is returned when a nil beacon block body is received.
	ErrNilBeaconBlockBody = errors.New("beacon block body can't be nil")
)

// SignedBeaconBlock is a beacon block together with the proposer's signature over its root.
type SignedBeaconBlock struct {
	Block     *BeaconBlock
	Signature [field_params.BLSSignatureLength]byte
}

// BeaconBlock is the main unit of the beacon chain.
type BeaconBlock struct {
	Slot          primitives.Slot
	ProposerIndex primitives.ValidatorIndex
	ParentRoot    [field_params.RootLength]byte
	StateRoot     [field_params.RootLength]byte
	Body          *BeaconBlockBody
}

// BeaconBlockBody carries the block operations relevant to publication: the
// execution transactions and the KZG commitments of the blobs they reference.
type BeaconBlockBody struct {
	RandaoReveal       [field_params.BLSSignatureLength]byte
	Graffiti           [field_params.GraffitiLength]byte
	Transactions       [][]byte
	BlobKzgCommitments [][field_params.KzgCommitmentLength]byte
}

// Checkpoint is an (epoch, root) pair identifying an epoch boundary block.
type Checkpoint struct {
	Epoch primitives.Epoch
	Root  [field_params.RootLength]byte
}

// BlobsSidecar carries the blobs committed to by a block.
type BlobsSidecar struct {
	BeaconBlockRoot    [field_params.RootLength]byte
	BeaconBlockSlot    primitives.Slot
	Blobs              [][]byte
	KzgAggregatedProof [field_params.KzgCommitmentLength]byte
}

// BeaconBlockIsNil checks if any composite field of input signed beacon block is nil.
// Access to these nil fields will result in run time panic,
// it is recommended to run these checks as first line of defense.
func BeaconBlockIsNil(b *SignedBeaconBlock) error {
	if b == nil {
		return ErrNilSignedBeaconBlock
	}
	if b.Block == nil {
		return ErrNilBeaconBlock
	}
	if b.Block.Body == nil {
		return ErrNilBeaconBlockBody
	}
	return nil
}

// Copy performs a deep copy of the signed block.
func (b *SignedBeaconBlock) Copy() *SignedBeaconBlock {
	if b == nil {
		return nil
	}
	return &SignedBeaconBlock{
		Block:     b.Block.Copy(),
		Signature: b.Signature,
	}
}

// Copy performs a deep copy of the block.
func (b *BeaconBlock) Copy() *BeaconBlock {
	if b == nil {
		return nil
	}
	cp := *b
	cp.Body = b.Body.Copy()
	return &cp
}

// Copy performs a deep copy of the block body.
func (b *BeaconBlockBody) Copy() *BeaconBlockBody {
	if b == nil {
		return nil
	}
	cp := *b
	if b.Transactions != nil {
		cp.Transactions = make([][]byte, len(b.Transactions))
		for i, tx := range b.Transactions {
			cp.Transactions[i] = append([]byte(nil), tx...)
		}
	}
	if b.BlobKzgCommitments != nil {
		cp.BlobKzgCommitments = append([][field_params.KzgCommitmentLength]byte(nil), b.BlobKzgCommitments...)
	}
	return &cp
}

package util

import (
	"testing"

	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	"github.com/stretchr/testify/require"
)

// NewBeaconBlock creates a beacon block with minimum marshalable fields.
func NewBeaconBlock() *blocks.SignedBeaconBlock {
	return &blocks.SignedBeaconBlock{
		Block: &blocks.BeaconBlock{
			Body: &blocks.BeaconBlockBody{
				Transactions:       [][]byte{},
				BlobKzgCommitments: [][48]byte{},
			},
		},
		Signature: [96]byte{0xc0},
	}
}

// BlockOption mutates a generated block.
type BlockOption func(b *blocks.SignedBeaconBlock)

// WithProposer sets the proposer index of the block.
func WithProposer(idx primitives.ValidatorIndex) BlockOption {
	return func(b *blocks.SignedBeaconBlock) {
		b.Block.ProposerIndex = idx
	}
}

// WithParent sets the parent root of the block.
func WithParent(root [32]byte) BlockOption {
	return func(b *blocks.SignedBeaconBlock) {
		b.Block.ParentRoot = root
	}
}

// WithSignature sets the block signature.
func WithSignature(sig [96]byte) BlockOption {
	return func(b *blocks.SignedBeaconBlock) {
		b.Signature = sig
	}
}

// WithGraffiti sets the graffiti of the block, which is a convenient way to get
// distinct roots for the same slot and proposer.
func WithGraffiti(g string) BlockOption {
	return func(b *blocks.SignedBeaconBlock) {
		copy(b.Block.Body.Graffiti[:], g)
	}
}

// WithTransactions appends transactions to the block body.
func WithTransactions(txs ...[]byte) BlockOption {
	return func(b *blocks.SignedBeaconBlock) {
		b.Block.Body.Transactions = append(b.Block.Body.Transactions, txs...)
	}
}

// WithCommitments appends KZG commitments to the block body.
func WithCommitments(cmts ...[48]byte) BlockOption {
	return func(b *blocks.SignedBeaconBlock) {
		b.Block.Body.BlobKzgCommitments = append(b.Block.Body.BlobKzgCommitments, cmts...)
	}
}

// GenerateBlock builds a signed block at the given slot.
func GenerateBlock(slot primitives.Slot, opts ...BlockOption) *blocks.SignedBeaconBlock {
	b := NewBeaconBlock()
	b.Block.Slot = slot
	for _, o := range opts {
		o(b)
	}
	return b
}

// GenerateROBlock builds a signed block at the given slot and wraps it with its computed root.
func GenerateROBlock(t testing.TB, slot primitives.Slot, opts ...BlockOption) blocks.ROBlock {
	ro, err := blocks.NewROBlock(GenerateBlock(slot, opts...))
	require.NoError(t, err)
	return ro
}

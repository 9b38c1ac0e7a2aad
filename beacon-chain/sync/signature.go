package sync

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
)

var errEmptySignature = errors.New("block signature is empty")

// SignatureVerifier verifies the proposer signature of a block.
type SignatureVerifier interface {
	VerifyBlockSignature(b blocks.ROBlock) error
}

// NonZeroSignatureVerifier only rejects blocks carrying the empty signature.
type NonZeroSignatureVerifier struct{}

// VerifyBlockSignature --
func (NonZeroSignatureVerifier) VerifyBlockSignature(b blocks.ROBlock) error {
	if b.Signature == [96]byte{} {
		return errEmptySignature
	}
	return nil
}

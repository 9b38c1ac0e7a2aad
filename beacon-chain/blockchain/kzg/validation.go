package kzg

import (
	"github.com/pkg/errors"
	field_params "github.com/prysmaticlabs/prysm-broadcast/config/fieldparams"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
)

var (
	// ErrNilSidecar is returned when data availability is checked without a sidecar.
	ErrNilSidecar = errors.New("nil blobs sidecar")
	// ErrSidecarMismatch is returned when the sidecar does not belong to the block.
	ErrSidecarMismatch = errors.New("blobs sidecar does not match block")
	// ErrKzgProofFailed is returned when the aggregated proof does not verify.
	ErrKzgProofFailed = errors.New("failed to prove commitment to blobs sidecar data")
)

// ProofVerifier verifies the aggregated KZG proof of a sidecar against the block commitments.
type ProofVerifier interface {
	VerifyAggregateKZGProof(blobs [][]byte, commitments [][field_params.KzgCommitmentLength]byte, proof [field_params.KzgCommitmentLength]byte) error
}

// NoopProofVerifier accepts every proof. It is used until a trusted setup is loaded.
type NoopProofVerifier struct{}

// VerifyAggregateKZGProof --
func (NoopProofVerifier) VerifyAggregateKZGProof([][]byte, [][field_params.KzgCommitmentLength]byte, [field_params.KzgCommitmentLength]byte) error {
	return nil
}

// IsDataAvailable checks that
// - the sidecar references the block by slot and root
// - the number of blobs matches the number of KZG commitments
// - the aggregated proof verifies against the commitments
func IsDataAvailable(
	slot primitives.Slot,
	root [32]byte,
	commitments [][field_params.KzgCommitmentLength]byte,
	sidecar *blocks.BlobsSidecar,
	verifier ProofVerifier,
) error {
	if sidecar == nil {
		return ErrNilSidecar
	}
	if sidecar.BeaconBlockSlot != slot {
		return errors.Wrapf(ErrSidecarMismatch, "block slot %d, sidecar slot %d", slot, sidecar.BeaconBlockSlot)
	}
	if sidecar.BeaconBlockRoot != root {
		return errors.Wrapf(ErrSidecarMismatch, "block root %#x, sidecar root %#x", root, sidecar.BeaconBlockRoot)
	}
	if len(commitments) != len(sidecar.Blobs) {
		return errors.Wrapf(ErrSidecarMismatch, "expected %d commitments, obtained %d blobs",
			len(commitments), len(sidecar.Blobs))
	}
	if verifier == nil {
		verifier = NoopProofVerifier{}
	}
	if err := verifier.VerifyAggregateKZGProof(sidecar.Blobs, commitments, sidecar.KzgAggregatedProof); err != nil {
		return errors.Wrapf(ErrKzgProofFailed, "%v", err)
	}
	return nil
}

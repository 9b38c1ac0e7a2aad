package transition

import (
	"fmt"
)

// FailureReason classifies why a block could not be imported.
type FailureReason int

const (
	// None means the block was imported, or was already known.
	None FailureReason = iota
	// UnknownParent means the parent of the block is not in the store.
	UnknownParent
	// FailedStateTransition means applying the block to its parent state failed.
	FailedStateTransition
	// FailedDataAvailabilityCheck means the blobs committed to by the block are unavailable or invalid.
	FailedDataAvailabilityCheck
	// DoesNotDescendFromFinalized means the block conflicts with the finalized checkpoint.
	DoesNotDescendFromFinalized
	// Deferred means the block was held back from import because it cannot be judged yet.
	Deferred
)

// String returns the reason as a metrics and log friendly label.
func (r FailureReason) String() string {
	switch r {
	case None:
		return "none"
	case UnknownParent:
		return "unknown_parent"
	case FailedStateTransition:
		return "failed_state_transition"
	case FailedDataAvailabilityCheck:
		return "failed_data_availability_check"
	case DoesNotDescendFromFinalized:
		return "does_not_descend_from_finalized"
	case Deferred:
		return "deferred"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// BlockImportResult is the outcome of handing a block to the import pipeline.
type BlockImportResult struct {
	reason     FailureReason
	knownBlock bool
	cause      error
}

// Successful is the result of a block that was imported.
func Successful() *BlockImportResult {
	return &BlockImportResult{}
}

// KnownBlock is the result of a block that had already been imported. It counts as a success.
func KnownBlock() *BlockImportResult {
	return &BlockImportResult{knownBlock: true}
}

// FailedUnknownParent is the result of a block whose parent is not known.
func FailedUnknownParent() *BlockImportResult {
	return &BlockImportResult{reason: UnknownParent}
}

// FailedStateTransitionResult is the result of a block rejected by the state transition.
func FailedStateTransitionResult(cause error) *BlockImportResult {
	return &BlockImportResult{reason: FailedStateTransition, cause: cause}
}

// FailedDataAvailability is the result of a block whose blobs are not available.
func FailedDataAvailability(cause error) *BlockImportResult {
	return &BlockImportResult{reason: FailedDataAvailabilityCheck, cause: cause}
}

// FailedDescendant is the result of a block that does not descend from the finalized checkpoint.
func FailedDescendant() *BlockImportResult {
	return &BlockImportResult{reason: DoesNotDescendFromFinalized}
}

// DeferredImport is the result of a block that was not handed to the import pipeline.
func DeferredImport() *BlockImportResult {
	return &BlockImportResult{reason: Deferred}
}

// IsSuccessful reports whether the block is now part of the store.
func (r *BlockImportResult) IsSuccessful() bool {
	return r != nil && r.reason == None
}

// IsKnownBlock reports whether the block had been imported before.
func (r *BlockImportResult) IsKnownBlock() bool {
	return r != nil && r.knownBlock
}

// FailureReason returns the reason the import failed, or None.
func (r *BlockImportResult) FailureReason() FailureReason {
	if r == nil {
		return None
	}
	return r.reason
}

// Cause returns the underlying error of a failed import, if any.
func (r *BlockImportResult) Cause() error {
	if r == nil {
		return nil
	}
	return r.cause
}

// String --
func (r *BlockImportResult) String() string {
	if r == nil {
		return "nil"
	}
	if r.IsKnownBlock() {
		return "known_block"
	}
	if r.IsSuccessful() {
		return "success"
	}
	return r.FailureReason().String()
}

//go:build minimal

package field_params

const (
	Preset                     = "minimal"
	RootLength                 = 32         // RootLength defines the byte length of a Merkle root.
	BLSSignatureLength         = 96         // BLSSignatureLength defines the byte length of a BLSSignature.
	BLSPubkeyLength            = 48         // BLSPubkeyLength defines the byte length of a BLSSignature.
	KzgCommitmentLength        = 48         // KzgCommitmentLength defines the byte length of a KZG commitment.
	GraffitiLength             = 32         // GraffitiLength defines the byte length of block graffiti.
	MaxTxsPerPayloadLength     = 1048576    // MaxTxsPerPayloadLength defines the maximum number of transactions that can be included in a payload.
	MaxBytesPerTxLength        = 1073741824 // MaxBytesPerTxLength defines the maximum number of bytes that can be included in a transaction.
	MaxBlobCommitmentsPerBlock = 16         // MaxBlobCommitmentsPerBlock defines the theoretical limit of blobs can be included in a block.
	BlobLength                 = 131072     // BlobLength defines the byte length of a blob.
	SlotsPerEpoch              = 8          // SlotsPerEpoch defines the number of slots per epoch.
)

package beacon

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	field_params "github.com/prysmaticlabs/prysm-broadcast/config/fieldparams"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	"github.com/prysmaticlabs/prysm-broadcast/encoding/bytesutil"
)

// SignedBeaconBlock is the JSON representation of a signed block.
type SignedBeaconBlock struct {
	Message   *BeaconBlock `json:"message" validate:"required"`
	Signature string       `json:"signature" validate:"required,hexadecimal"`
}

// BeaconBlock is the JSON representation of a block.
type BeaconBlock struct {
	Slot          string           `json:"slot" validate:"required,number"`
	ProposerIndex string           `json:"proposer_index" validate:"required,number"`
	ParentRoot    string           `json:"parent_root" validate:"required,hexadecimal"`
	StateRoot     string           `json:"state_root" validate:"required,hexadecimal"`
	Body          *BeaconBlockBody `json:"body" validate:"required"`
}

// BeaconBlockBody is the JSON representation of a block body.
type BeaconBlockBody struct {
	RandaoReveal       string   `json:"randao_reveal" validate:"required,hexadecimal"`
	Graffiti           string   `json:"graffiti" validate:"required,hexadecimal"`
	Transactions       []string `json:"transactions" validate:"dive,hexadecimal"`
	BlobKzgCommitments []string `json:"blob_kzg_commitments" validate:"dive,hexadecimal"`
}

// GetBlockV2Response is returned by the block lookup endpoint.
type GetBlockV2Response struct {
	Version             string             `json:"version"`
	ExecutionOptimistic bool               `json:"execution_optimistic"`
	Finalized           bool               `json:"finalized"`
	Data                *SignedBeaconBlock `json:"data"`
}

// ToConsensus converts the JSON block into the consensus block type.
func (b *SignedBeaconBlock) ToConsensus() (*blocks.SignedBeaconBlock, error) {
	if b == nil || b.Message == nil || b.Message.Body == nil {
		return nil, errors.New("block is incomplete")
	}
	sig, err := decodeFixed(b.Signature, field_params.BLSSignatureLength, "signature")
	if err != nil {
		return nil, err
	}
	msg, err := b.Message.ToConsensus()
	if err != nil {
		return nil, err
	}
	return &blocks.SignedBeaconBlock{Block: msg, Signature: bytesutil.ToBytes96(sig)}, nil
}

// ToConsensus converts the JSON block message into the consensus block type.
func (b *BeaconBlock) ToConsensus() (*blocks.BeaconBlock, error) {
	slot, err := strconv.ParseUint(b.Slot, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "slot")
	}
	proposer, err := strconv.ParseUint(b.ProposerIndex, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "proposer_index")
	}
	parentRoot, err := decodeFixed(b.ParentRoot, field_params.RootLength, "parent_root")
	if err != nil {
		return nil, err
	}
	stateRoot, err := decodeFixed(b.StateRoot, field_params.RootLength, "state_root")
	if err != nil {
		return nil, err
	}
	body, err := b.Body.ToConsensus()
	if err != nil {
		return nil, err
	}
	return &blocks.BeaconBlock{
		Slot:          primitives.Slot(slot),
		ProposerIndex: primitives.ValidatorIndex(proposer),
		ParentRoot:    bytesutil.ToBytes32(parentRoot),
		StateRoot:     bytesutil.ToBytes32(stateRoot),
		Body:          body,
	}, nil
}

// ToConsensus converts the JSON block body into the consensus block body type.
func (b *BeaconBlockBody) ToConsensus() (*blocks.BeaconBlockBody, error) {
	randao, err := decodeFixed(b.RandaoReveal, field_params.BLSSignatureLength, "randao_reveal")
	if err != nil {
		return nil, err
	}
	graffiti, err := decodeFixed(b.Graffiti, field_params.GraffitiLength, "graffiti")
	if err != nil {
		return nil, err
	}
	txs := make([][]byte, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i], err = hexutil.Decode(tx)
		if err != nil {
			return nil, errors.Wrapf(err, "transactions[%d]", i)
		}
	}
	commitments := make([][field_params.KzgCommitmentLength]byte, len(b.BlobKzgCommitments))
	for i, c := range b.BlobKzgCommitments {
		dec, err := decodeFixed(c, field_params.KzgCommitmentLength, "blob_kzg_commitments")
		if err != nil {
			return nil, errors.Wrapf(err, "index %d", i)
		}
		commitments[i] = bytesutil.ToBytes48(dec)
	}
	return &blocks.BeaconBlockBody{
		RandaoReveal:       bytesutil.ToBytes96(randao),
		Graffiti:           bytesutil.ToBytes32(graffiti),
		Transactions:       txs,
		BlobKzgCommitments: commitments,
	}, nil
}

// SignedBeaconBlockFromConsensus converts a consensus block into its JSON representation.
func SignedBeaconBlockFromConsensus(b *blocks.SignedBeaconBlock) *SignedBeaconBlock {
	body := b.Block.Body
	txs := make([]string, len(body.Transactions))
	for i, tx := range body.Transactions {
		txs[i] = hexutil.Encode(tx)
	}
	commitments := make([]string, len(body.BlobKzgCommitments))
	for i, c := range body.BlobKzgCommitments {
		commitments[i] = hexutil.Encode(c[:])
	}
	return &SignedBeaconBlock{
		Message: &BeaconBlock{
			Slot:          strconv.FormatUint(uint64(b.Block.Slot), 10),
			ProposerIndex: strconv.FormatUint(uint64(b.Block.ProposerIndex), 10),
			ParentRoot:    hexutil.Encode(b.Block.ParentRoot[:]),
			StateRoot:     hexutil.Encode(b.Block.StateRoot[:]),
			Body: &BeaconBlockBody{
				RandaoReveal:       hexutil.Encode(body.RandaoReveal[:]),
				Graffiti:           hexutil.Encode(body.Graffiti[:]),
				Transactions:       txs,
				BlobKzgCommitments: commitments,
			},
		},
		Signature: hexutil.Encode(b.Signature[:]),
	}
}

func decodeFixed(s string, length int, field string) ([]byte, error) {
	dec, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, field)
	}
	if len(dec) != length {
		return nil, errors.Errorf("%s: expected %d bytes, got %d", field, length, len(dec))
	}
	return dec, nil
}

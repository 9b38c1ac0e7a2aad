package beacon

import (
	"strings"
	"testing"

	"github.com/prysmaticlabs/prysm-broadcast/testing/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedBeaconBlock_ToConsensus(t *testing.T) {
	b := util.GenerateBlock(
		17,
		util.WithProposer(4),
		util.WithParent([32]byte{0xaa}),
		util.WithGraffiti("prysm"),
		util.WithTransactions([]byte{1, 2, 3}),
		util.WithCommitments([48]byte{0xc0}),
	)
	b.Block.StateRoot = [32]byte{0xbb}

	js := SignedBeaconBlockFromConsensus(b)
	assert.Equal(t, "17", js.Message.Slot)
	assert.Equal(t, "4", js.Message.ProposerIndex)
	assert.Equal(t, []string{"0x010203"}, js.Message.Body.Transactions)

	got, err := js.ToConsensus()
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestSignedBeaconBlock_ToConsensus_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *SignedBeaconBlock)
		wantErr string
	}{
		{
			name:    "missing body",
			mutate:  func(b *SignedBeaconBlock) { b.Message.Body = nil },
			wantErr: "block is incomplete",
		},
		{
			name:    "short parent root",
			mutate:  func(b *SignedBeaconBlock) { b.Message.ParentRoot = "0x01" },
			wantErr: "parent_root: expected 32 bytes, got 1",
		},
		{
			name:    "long graffiti",
			mutate:  func(b *SignedBeaconBlock) { b.Message.Body.Graffiti = "0x" + strings.Repeat("00", 33) },
			wantErr: "graffiti: expected 32 bytes, got 33",
		},
		{
			name:    "negative proposer",
			mutate:  func(b *SignedBeaconBlock) { b.Message.ProposerIndex = "-1" },
			wantErr: "proposer_index",
		},
		{
			name:    "bad transaction",
			mutate:  func(b *SignedBeaconBlock) { b.Message.Body.Transactions = []string{"0xzz"} },
			wantErr: "transactions[0]",
		},
		{
			name:    "short commitment",
			mutate:  func(b *SignedBeaconBlock) { b.Message.Body.BlobKzgCommitments = []string{"0xc0"} },
			wantErr: "blob_kzg_commitments: expected 48 bytes, got 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			js := SignedBeaconBlockFromConsensus(util.GenerateBlock(1))
			tt.mutate(js)
			_, err := js.ToConsensus()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

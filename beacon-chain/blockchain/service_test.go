package blockchain

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/db/iface"
	dbtest "github.com/prysmaticlabs/prysm-broadcast/beacon-chain/db/testing"
	"github.com/prysmaticlabs/prysm-broadcast/config/params"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	"github.com/stretchr/testify/require"
)

type testChain struct {
	s       *Service
	db      iface.Database
	genesis blocks.ROBlock
}

func setupChain(t *testing.T, db iface.Database) *testChain {
	params.SetupTestConfigCleanup(t)
	if db == nil {
		db = dbtest.SetupDB(t)
	}
	s, err := NewService(context.Background(), &Config{
		BeaconDB:       db,
		ValidatorCount: 64,
		ImportWorkers:  2,
		GenesisTime:    time.Now().Add(-10 * params.BeaconConfig().SlotDuration()),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Stop())
	})
	genesis, err := blocks.NewROBlock(GenesisBlock())
	require.NoError(t, err)
	return &testChain{s: s, db: db, genesis: genesis}
}

func TestNewService_InitializesEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	tc := setupChain(t, nil)

	want := &blocks.Checkpoint{Epoch: 0, Root: tc.genesis.Root()}
	require.Equal(t, want, tc.s.FinalizedCheckpoint())
	for _, get := range []func(context.Context) (*blocks.Checkpoint, error){
		tc.db.Anchor, tc.db.JustifiedCheckpoint, tc.db.BestJustifiedCheckpoint, tc.db.FinalizedCheckpoint,
	} {
		cp, err := get(ctx)
		require.NoError(t, err)
		require.Equal(t, want, cp)
	}
	blk, err := tc.db.FinalizedBlock(ctx, tc.genesis.Root())
	require.NoError(t, err)
	require.NotNil(t, blk)

	genesis, ok, err := tc.db.GenesisTime(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, tc.s.GenesisTime(), time.Unix(int64(genesis), 0))
	require.Equal(t, primitives.Slot(10), tc.s.CurrentSlot())
}

func TestNewService_ReusesExistingDatabase(t *testing.T) {
	tc := setupChain(t, nil)
	again, err := NewService(context.Background(), &Config{BeaconDB: tc.db})
	require.NoError(t, err)
	defer func() {
		require.NoError(t, again.Stop())
	}()
	require.Equal(t, tc.s.GenesisTime(), again.GenesisTime())
	require.Equal(t, tc.s.FinalizedCheckpoint(), again.FinalizedCheckpoint())
}

func TestNewService_Errors(t *testing.T) {
	_, err := NewService(context.Background(), &Config{})
	require.ErrorContains(t, err, "beacon db is required")

	_, err = NewService(context.Background(), &Config{BeaconDB: dbtest.SetupDB(t)})
	require.ErrorIs(t, err, errNilGenesisTime)
}

func TestService_StopAndStatus(t *testing.T) {
	tc := setupChain(t, nil)
	tc.s.Start()
	require.NoError(t, tc.s.Status())
	require.NoError(t, tc.s.Stop())
	require.ErrorIs(t, tc.s.Status(), ErrServiceStopped)
	// Stopping twice is harmless.
	require.NoError(t, tc.s.Stop())
}

func TestFinalizedCheckpoint_ReturnsCopy(t *testing.T) {
	tc := setupChain(t, nil)
	cp := tc.s.FinalizedCheckpoint()
	cp.Epoch = 100
	require.Equal(t, primitives.Epoch(0), tc.s.FinalizedCheckpoint().Epoch)
}

type failingHotUpdater struct {
	iface.HotUpdater
}

func (failingHotUpdater) Commit(context.Context) error {
	return errors.New("disk full")
}

type failingDB struct {
	iface.Database
	fail bool
}

func (db *failingDB) HotUpdater() iface.HotUpdater {
	u := db.Database.HotUpdater()
	if db.fail {
		return failingHotUpdater{u}
	}
	return u
}

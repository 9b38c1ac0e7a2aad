package slots

import (
	"testing"
	"time"

	"github.com/prysmaticlabs/prysm-broadcast/config/params"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freezeClock(t *testing.T, at time.Time) {
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func TestStartTime(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	params.OverrideBeaconConfig(params.MainnetConfig())
	assert.Equal(t, time.Unix(1000+3*12, 0), StartTime(1000, 3))
}

func TestCurrentSlot(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	params.OverrideBeaconConfig(params.MainnetConfig())
	freezeClock(t, time.Unix(1000+25, 0))
	assert.Equal(t, primitives.Slot(2), CurrentSlot(1000))

	// Genesis in the future.
	assert.Equal(t, primitives.Slot(0), CurrentSlot(5000))
}

func TestToEpochAndEpochStart(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	params.OverrideBeaconConfig(params.MainnetConfig())
	assert.Equal(t, primitives.Epoch(1), ToEpoch(33))
	assert.Equal(t, primitives.Slot(64), EpochStart(2))
}

func TestVerifyTime(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	params.OverrideBeaconConfig(params.MainnetConfig())
	freezeClock(t, time.Unix(1000+24, 0))

	require.NoError(t, VerifyTime(1000, 2, 0))
	require.ErrorIs(t, VerifyTime(1000, 3, 500*time.Millisecond), ErrFutureSlot)
	require.NoError(t, VerifyTime(1000, 3, 12*time.Second))
}

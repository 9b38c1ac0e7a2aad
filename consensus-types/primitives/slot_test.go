package primitives_test

import (
	"math"
	"testing"

	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	"github.com/stretchr/testify/assert"
)

func TestSlot_Add(t *testing.T) {
	assert.Equal(t, primitives.Slot(5), primitives.Slot(2).Add(3))
	assert.Equal(t, primitives.Slot(math.MaxUint64), primitives.Slot(math.MaxUint64-1).Add(5))
}

func TestSlot_SubSlot(t *testing.T) {
	assert.Equal(t, primitives.Slot(1), primitives.Slot(3).SubSlot(2))
	assert.Equal(t, primitives.Slot(0), primitives.Slot(2).SubSlot(3))
}

func TestSlot_String(t *testing.T) {
	assert.Equal(t, "42", primitives.Slot(42).String())
}

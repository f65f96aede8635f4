package slc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddInput(t *testing.T) {
	r := New(240.0, NoMeta{})
	require.Equal(t, 240.0, r.TPS)
	require.Equal(t, 0, r.Len())

	require.NoError(t, r.AddInput(10, Player{Button: 1, Hold: true}))
	require.NoError(t, r.AddInput(20, Player{Button: 1}))

	// Equal frames are fine.
	require.NoError(t, r.AddInput(20, Player{Button: 1, Player2: true}))

	require.Equal(t, 3, r.Len())
	require.Equal(t, uint64(20), r.LastFrame())
}

func TestAddInputOutOfOrder(t *testing.T) {
	r := New(240.0, NoMeta{})
	require.NoError(t, r.AddInput(100, Death{}))

	err := r.AddInput(99, Death{})
	require.ErrorIs(t, err, ErrInputOutOfOrder)

	// A failed insert leaves the replay unchanged.
	require.Equal(t, []Input{{Frame: 100, Event: Death{}}}, r.Inputs())
}

func TestDirectRateMutation(t *testing.T) {
	r := New(240.0, NoMeta{})
	require.NoError(t, r.AddInput(50, RateChange{TPS: 120.0}))

	r.TPS = 60.0
	require.Equal(t, 60.0, r.TPS)
	require.Equal(t, []Input{{Frame: 50, Event: RateChange{TPS: 120.0}}}, r.Inputs())
}

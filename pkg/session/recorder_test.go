package session

import (
	"bytes"
	"slc"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	recorder := NewRecorder(240.0, slc.NoMeta{})

	require.NoError(t, recorder.Player(200, 1, true, false))
	require.NoError(t, recorder.Death(400))
	require.NoError(t, recorder.Rate(600, 480))

	replay := recorder.Replay()
	require.Equal(t, 3, replay.Len())
	require.Equal(t, 480.0, replay.TPS)

	expected := []slc.Input{
		{Frame: 200, Event: slc.Player{Button: 1, Hold: true}},
		{Frame: 400, Event: slc.Death{}},
		{Frame: 600, Event: slc.RateChange{TPS: 480}},
	}
	require.Equal(t, expected, replay.Inputs())

	var buf bytes.Buffer
	require.NoError(t, recorder.SaveV3(&buf))

	decoded, err := slc.Read(bytes.NewReader(buf.Bytes()), slc.NoMeta{})
	require.NoError(t, err)
	require.Equal(t, replay, decoded)
}

func TestRecorderOutOfOrder(t *testing.T) {
	recorder := NewRecorder(240.0, slc.NoMeta{})
	require.NoError(t, recorder.Death(400))

	require.ErrorIs(t, recorder.Player(200, 1, false, false), slc.ErrInputOutOfOrder)

	// A rejected rate change must not move the container rate either.
	require.ErrorIs(t, recorder.Rate(200, 480), slc.ErrInputOutOfOrder)
	require.Equal(t, 240.0, recorder.Replay().TPS)

	require.Equal(t, 1, recorder.Replay().Len())
}

func TestRecorderButtonTooLarge(t *testing.T) {
	recorder := NewRecorder(240.0, slc.NoMeta{})

	err := recorder.Player(0, slc.MaxButton+1, false, false)
	require.ErrorIs(t, err, slc.ErrButtonTooLarge)
	require.Equal(t, 0, recorder.Replay().Len())
}

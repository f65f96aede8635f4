package slc

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlayerPayload(t *testing.T) {
	cases := []struct {
		name    string
		event   Player
		payload byte
	}{
		{"button1Hold", Player{Button: 1, Hold: true}, 0x41},
		{"button1Release", Player{Button: 1}, 0x01},
		{"button0", Player{}, 0x00},
		{"player2", Player{Button: 2, Player2: true}, 0x82},
		{"allBitsSet", Player{Button: 63, Hold: true, Player2: true}, 0xff},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := tc.event.appendTo(nil)
			require.NoError(t, err)
			require.Equal(t, []byte{TagPlayer, tc.payload}, out)

			ev, err := readEvent(bytes.NewReader(out))
			require.NoError(t, err)
			require.Equal(t, tc.event, ev)
		})
	}
}

func TestPlayerButtonTooLarge(t *testing.T) {
	_, err := Player{Button: MaxButton + 1}.appendTo(nil)
	require.ErrorIs(t, err, ErrButtonTooLarge)
}

func TestEventPayloads(t *testing.T) {
	out, err := Death{}.appendTo(nil)
	require.NoError(t, err)
	require.Equal(t, []byte{TagDeath}, out)

	out, err = RateChange{TPS: 480.0}.appendTo(nil)
	require.NoError(t, err)
	require.Equal(t, []byte{
		TagRateChange,
		0, 0, 0, 0, 0, 0, 0x7e, 0x40, // TPS 480.
	}, out)
}

func TestReadEvent(t *testing.T) {
	t.Run("unknownTag", func(t *testing.T) {
		_, err := readEvent(bytes.NewReader([]byte{0x9}))
		require.ErrorIs(t, err, ErrUnknownEventTag)
	})
	t.Run("truncatedPayload", func(t *testing.T) {
		_, err := readEvent(bytes.NewReader([]byte{TagRateChange, 0, 0}))
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})
	t.Run("missingTag", func(t *testing.T) {
		_, err := readEvent(bytes.NewReader(nil))
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})
}

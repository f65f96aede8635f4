// Package session records live runs and plays replays back in frame
// order.
package session

import (
	"fmt"
	"io"
	"slc"
)

// Recorder captures a live run into a replay container.
type Recorder[M slc.Meta] struct {
	replay *slc.Replay[M]
}

// NewRecorder starts a recording at the given tick rate.
func NewRecorder[M slc.Meta](tps float64, meta M) *Recorder[M] {
	return &Recorder[M]{replay: slc.New(tps, meta)}
}

// Player records a button press or release.
func (r *Recorder[M]) Player(frame uint64, button uint8, hold, player2 bool) error {
	if button > slc.MaxButton {
		return fmt.Errorf("%w: %d", slc.ErrButtonTooLarge, button)
	}
	return r.replay.AddInput(frame, slc.Player{
		Button:  button,
		Hold:    hold,
		Player2: player2,
	})
}

// Death records a player death.
func (r *Recorder[M]) Death(frame uint64) error {
	return r.replay.AddInput(frame, slc.Death{})
}

// Rate records a tick rate change and moves the container to the new
// rate. Decoders see the event, not the mutation.
func (r *Recorder[M]) Rate(frame uint64, tps float64) error {
	if err := r.replay.AddInput(frame, slc.RateChange{TPS: tps}); err != nil {
		return err
	}
	r.replay.TPS = tps
	return nil
}

// Replay returns the container being recorded.
func (r *Recorder[M]) Replay() *slc.Replay[M] {
	return r.replay
}

// Save writes the recording to w.
func (r *Recorder[M]) Save(w io.Writer) error {
	return r.replay.Write(w)
}

// SaveV3 writes the recording to w in the delta-encoded version.
func (r *Recorder[M]) SaveV3(w io.Writer) error {
	return r.replay.WriteV3(w)
}

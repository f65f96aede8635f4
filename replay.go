package slc

import (
	"errors"
	"fmt"
)

// Replay is an in-memory replay: an update rate, caller metadata and an
// ordered sequence of inputs. A Replay is not safe for concurrent use.
type Replay[M Meta] struct {
	// TPS is the update rate in ticks per second. Mutating it directly is
	// always legal and independent of any recorded RateChange events.
	TPS float64

	// Meta travels with the replay and is never interpreted.
	Meta M

	inputs []Input
}

// New creates an empty replay.
func New[M Meta](tps float64, meta M) *Replay[M] {
	return &Replay[M]{TPS: tps, Meta: meta}
}

// ErrInputOutOfOrder input frame precedes the frame before it.
var ErrInputOutOfOrder = errors.New("input out of order")

// AddInput appends an event at the given frame. Frames must be
// non-decreasing; an out-of-order input fails and leaves the replay
// unchanged. Multiple events on the same frame are fine.
func (r *Replay[M]) AddInput(frame uint64, ev Event) error {
	if n := len(r.inputs); n > 0 && frame < r.inputs[n-1].Frame {
		return fmt.Errorf("%w: %d < %d", ErrInputOutOfOrder, frame, r.inputs[n-1].Frame)
	}
	r.inputs = append(r.inputs, Input{Frame: frame, Event: ev})
	return nil
}

// Inputs returns the stored inputs in insertion order. The slice is owned
// by the replay and must not be modified.
func (r *Replay[M]) Inputs() []Input {
	return r.inputs
}

// Len number of stored inputs.
func (r *Replay[M]) Len() int {
	return len(r.inputs)
}

// LastFrame returns the frame of the last stored input, or 0 for an empty
// replay.
func (r *Replay[M]) LastFrame() uint64 {
	if len(r.inputs) == 0 {
		return 0
	}
	return r.inputs[len(r.inputs)-1].Frame
}

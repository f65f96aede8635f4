package session

import "slc"

// Player steps through a replay's inputs in frame order. The cursor
// only moves forward, Rewind starts over.
type Player[M slc.Meta] struct {
	replay *slc.Replay[M]
	pos    int
	tps    float64
}

// NewPlayer starts playback at the first input.
func NewPlayer[M slc.Meta](replay *slc.Replay[M]) *Player[M] {
	return &Player[M]{
		replay: replay,
		tps:    replay.TPS,
	}
}

// Advance returns the inputs due at or before frame that have not been
// delivered yet. The returned slice must not be modified.
func (p *Player[M]) Advance(frame uint64) []slc.Input {
	inputs := p.replay.Inputs()

	start := p.pos
	for p.pos < len(inputs) && inputs[p.pos].Frame <= frame {
		if rate, ok := inputs[p.pos].Event.(slc.RateChange); ok {
			p.tps = rate.TPS
		}
		p.pos++
	}

	if start == p.pos {
		return nil
	}
	return inputs[start:p.pos]
}

// Rewind restarts playback from the first input.
func (p *Player[M]) Rewind() {
	p.pos = 0
	p.tps = p.replay.TPS
}

// Remaining returns the number of inputs not yet delivered.
func (p *Player[M]) Remaining() int {
	return p.replay.Len() - p.pos
}

// CurrentTPS returns the tick rate at the playback position. Rate
// change events take effect as they are delivered.
func (p *Player[M]) CurrentTPS() float64 {
	return p.tps
}

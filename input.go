package slc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Event tags. Tag 0 is reserved and never written.
const (
	TagPlayer     = uint8(0x1)
	TagDeath      = uint8(0x2)
	TagRateChange = uint8(0x3)
)

// Player payload bits.
const (
	playerButtonMask = uint8(0x3f)
	playerFlagHold   = uint8(0x40)
	playerFlagP2     = uint8(0x80)
)

// MaxButton is the largest button id the player payload can hold.
const MaxButton = 63

// Event is a single recorded input event. The set of implementations is
// closed: Player, Death and RateChange.
type Event interface {
	// appendTo appends the event's tag byte and payload to out.
	appendTo(out []byte) ([]byte, error)
}

// Player press or release of a button by one of the players.
type Player struct {
	Button  uint8
	Hold    bool
	Player2 bool
}

// Death player death.
type Death struct{}

// RateChange mid-replay change of the update rate. Decoders replay it as
// an event; it does not touch the container's TPS field.
type RateChange struct {
	TPS float64
}

// Input is an event paired with the frame it occurred on.
type Input struct {
	Frame uint64
	Event Event
}

// ErrButtonTooLarge button id does not fit the player payload.
var ErrButtonTooLarge = errors.New("button id too large")

func (p Player) appendTo(out []byte) ([]byte, error) {
	if p.Button > MaxButton {
		return nil, fmt.Errorf("%w: %d", ErrButtonTooLarge, p.Button)
	}

	b := p.Button
	if p.Hold {
		b |= playerFlagHold
	}
	if p.Player2 {
		b |= playerFlagP2
	}
	return append(out, TagPlayer, b), nil
}

func (Death) appendTo(out []byte) ([]byte, error) {
	return append(out, TagDeath), nil
}

func (rc RateChange) appendTo(out []byte) ([]byte, error) {
	out = append(out, TagRateChange)
	return binary.LittleEndian.AppendUint64(out, math.Float64bits(rc.TPS)), nil
}

// ErrUnknownEventTag unknown event tag.
var ErrUnknownEventTag = errors.New("unknown event tag")

// readEvent reads the tag byte and payload of a single event. The tag
// space is identical in both container versions.
func readEvent(src Source) (Event, error) {
	tag, err := src.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read event tag: %w", unexpectedEOF(err))
	}

	switch tag {
	case TagPlayer:
		b, err := src.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("read player payload: %w", unexpectedEOF(err))
		}
		return Player{
			Button:  b & playerButtonMask,
			Hold:    b&playerFlagHold != 0,
			Player2: b&playerFlagP2 != 0,
		}, nil

	case TagDeath:
		return Death{}, nil

	case TagRateChange:
		var buf [8]byte
		if _, err := io.ReadFull(src, buf[:]); err != nil {
			return nil, fmt.Errorf("read rate payload: %w", unexpectedEOF(err))
		}
		tps := math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))
		return RateChange{TPS: tps}, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownEventTag, tag)
	}
}

package slc

import (
	"encoding/binary"
	"fmt"
)

func appendEventsV3(out []byte, inputs []Input) ([]byte, error) {
	var last uint64
	for _, in := range inputs {
		// Non-decreasing frames are enforced on insertion, so the delta
		// never underflows.
		out = binary.AppendUvarint(out, in.Frame-last)

		var err error
		out, err = in.Event.appendTo(out)
		if err != nil {
			return nil, err
		}
		last = in.Frame
	}
	return out, nil
}

func readEventsV3(src Source, count uint64) ([]Input, error) {
	if count == 0 {
		return nil, nil
	}
	prealloc := count
	if prealloc > maxPrealloc {
		prealloc = maxPrealloc
	}

	inputs := make([]Input, 0, prealloc)
	var last uint64
	for i := uint64(0); i < count; i++ {
		delta, err := binary.ReadUvarint(src)
		if err != nil {
			return nil, fmt.Errorf("read frame delta: %w", unexpectedEOF(err))
		}
		frame := last + delta
		if frame < last {
			return nil, fmt.Errorf("%w: frame delta overflow", ErrInvalidFormat)
		}

		ev, err := readEvent(src)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, Input{Frame: frame, Event: ev})
		last = frame
	}
	return inputs, nil
}

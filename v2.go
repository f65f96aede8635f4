package slc

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Largest v2 event: frame + tag + rate payload.
const maxEventSizeV2 = 8 + 1 + 8

func appendEventsV2(out []byte, inputs []Input) ([]byte, error) {
	for _, in := range inputs {
		out = binary.LittleEndian.AppendUint64(out, in.Frame)

		var err error
		out, err = in.Event.appendTo(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readEventsV2(src Source, count uint64) ([]Input, error) {
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
		var buf [8]byte
		if _, err := io.ReadFull(src, buf[:]); err != nil {
			return nil, fmt.Errorf("read frame: %w", unexpectedEOF(err))
		}
		frame := binary.LittleEndian.Uint64(buf[:])
		if frame < last {
			return nil, fmt.Errorf("%w: %d < %d", ErrInputOutOfOrder, frame, last)
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

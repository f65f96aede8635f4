// Package slc reads and writes replays in the slc container format.
package slc

// Replay container for frame-based input recordings.
// Requirements.
//   1. Two on-disk versions behind a single read entry point.
//   2. Version detected from the header alone, never supplied by the caller.
//   3. Caller metadata stored opaquely, next to the events.
//
//
//
// <name>.slc: single file, all integers little-endian.
//   magic   [4]byte // "SILL"
//   version uint8   // 2 or 3
//   tps     float64
//   metaLen uint64
//   meta    []byte  // metaLen bytes produced by the Meta contract.
//   count   uint64
//   events  []event // count records.
//
//
// event (v2) { // frame is absolute.
//   frame   uint64
//   tag     uint8
//   payload
// }
//
// event (v3) { // delta from the previous event's frame, first event from 0.
//   delta   uvarint
//   tag     uint8
//   payload
// }
//
// payload by tag {
//   0x1 player: 1 byte { bits 0-5 button, bit 6 hold, bit 7 player2 }
//   0x2 death:  none
//   0x3 rate:   float64
// }

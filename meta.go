package slc

// Meta is the serialization contract for replay metadata. The library
// stores and restores metadata without interpreting it; any type whose
// encoding satisfies the contract can ride inside a replay.
//
// MarshalBinary must be deterministic and produce exactly EncodedSize
// bytes. UnmarshalBinary receives exactly the bytes that were stored.
// Types with state need pointer receivers for UnmarshalBinary and are
// used as pointers throughout.
type Meta interface {
	EncodedSize() int
	MarshalBinary() ([]byte, error)
	UnmarshalBinary(data []byte) error
}

// NoMeta is the metadata type for replays that carry none. It encodes to
// zero bytes and decodes successfully regardless of input.
type NoMeta struct{}

// EncodedSize implements Meta.
func (NoMeta) EncodedSize() int { return 0 }

// MarshalBinary implements Meta.
func (NoMeta) MarshalBinary() ([]byte, error) { return nil, nil }

// UnmarshalBinary implements Meta.
func (NoMeta) UnmarshalBinary([]byte) error { return nil }

// RawMeta carries metadata bytes verbatim. Tools that rewrite containers
// without knowing the embedded metadata type read and write through it.
type RawMeta []byte

// EncodedSize implements Meta.
func (m RawMeta) EncodedSize() int { return len(m) }

// MarshalBinary implements Meta.
func (m RawMeta) MarshalBinary() ([]byte, error) { return m, nil }

// UnmarshalBinary implements Meta.
func (m *RawMeta) UnmarshalBinary(data []byte) error {
	*m = append((*m)[:0], data...)
	return nil
}

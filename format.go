package slc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// magic identifies the container family. The byte after it selects the
// version.
const magic = "SILL"

// Version container version.
type Version uint8

// Container versions.
const (
	// V2 stores absolute fixed-width frames. Default write target.
	V2 Version = 2
	// V3 stores varint frame deltas. Tags and payloads are identical to
	// V2, only the frame encoding differs.
	V3 Version = 3
)

func (v Version) valid() bool {
	return v == V2 || v == V3
}

// String implements fmt.Stringer.
func (v Version) String() string {
	return "v" + strconv.Itoa(int(v))
}

// ErrInvalidFormat stream does not start with the container magic.
var ErrInvalidFormat = errors.New("invalid container format")

// ErrUnsupportedVersion unsupported container version.
var ErrUnsupportedVersion = errors.New("unsupported version")

// ErrMetaSizeMismatch metadata marshaled to a different length than it
// declared.
var ErrMetaSizeMismatch = errors.New("metadata size mismatch")

// ErrMetaDecode metadata rejected the stored bytes.
var ErrMetaDecode = errors.New("decode metadata")

// Source is the stream a replay is read from. The codec reads strictly
// forward and does no buffering of its own; *bufio.Reader, *bytes.Buffer
// and *bytes.Reader all implement Source.
type Source interface {
	io.Reader
	io.ByteReader
}

const fileHeaderSize = len(magic) + 1 + 8 + 8 + 8

// Bound on slice preallocation from untrusted counts. A lying count runs
// into end-of-stream instead of exhausting memory.
const maxPrealloc = 1 << 16

// Write encodes the replay in the default container version (v2).
func (r *Replay[M]) Write(w io.Writer) error {
	return r.WriteV2(w)
}

// WriteV2 encodes the replay as a v2 container: absolute fixed-width
// frames, optimized for simplicity.
func (r *Replay[M]) WriteV2(w io.Writer) error {
	return r.write(w, V2)
}

// WriteV3 encodes the replay as a v3 container: varint frame deltas,
// optimized for size. Never larger than v2 for the same content.
func (r *Replay[M]) WriteV3(w io.Writer) error {
	return r.write(w, V3)
}

func (r *Replay[M]) write(w io.Writer, version Version) error {
	buf, err := r.marshal(version)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write container: %w", err)
	}
	return nil
}

func (r *Replay[M]) marshal(version Version) ([]byte, error) {
	metaBuf, err := r.Meta.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	if len(metaBuf) != r.Meta.EncodedSize() {
		return nil, fmt.Errorf("%w: declared %d, marshaled %d",
			ErrMetaSizeMismatch, r.Meta.EncodedSize(), len(metaBuf))
	}

	out := make([]byte, 0, fileHeaderSize+len(metaBuf)+maxEventSizeV2*len(r.inputs))
	out = append(out, magic...)
	out = append(out, byte(version))
	out = binary.LittleEndian.AppendUint64(out, math.Float64bits(r.TPS))
	out = binary.LittleEndian.AppendUint64(out, uint64(len(metaBuf)))
	out = append(out, metaBuf...)
	out = binary.LittleEndian.AppendUint64(out, uint64(len(r.inputs)))

	switch version {
	case V2:
		out, err = appendEventsV2(out, r.inputs)
	case V3:
		out, err = appendEventsV3(out, r.inputs)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Read decodes a replay from src, detecting the container version from
// the header. The stored metadata bytes are decoded into meta, which the
// returned replay then carries. Read never retains src.
func Read[M Meta](src Source, meta M) (*Replay[M], error) {
	version, err := DetectVersion(src)
	if err != nil {
		return nil, err
	}

	var buf [8]byte
	if _, err := io.ReadFull(src, buf[:]); err != nil {
		return nil, fmt.Errorf("read rate: %w", unexpectedEOF(err))
	}
	tps := math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))

	metaBuf, err := readMetaBytes(src)
	if err != nil {
		return nil, err
	}
	if err := meta.UnmarshalBinary(metaBuf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetaDecode, err)
	}

	if _, err := io.ReadFull(src, buf[:]); err != nil {
		return nil, fmt.Errorf("read event count: %w", unexpectedEOF(err))
	}
	count := binary.LittleEndian.Uint64(buf[:])

	var inputs []Input
	switch version {
	case V2:
		inputs, err = readEventsV2(src, count)
	case V3:
		inputs, err = readEventsV3(src, count)
	}
	if err != nil {
		return nil, err
	}

	return &Replay[M]{TPS: tps, Meta: meta, inputs: inputs}, nil
}

func readMetaBytes(src Source) ([]byte, error) {
	var buf [8]byte
	if _, err := io.ReadFull(src, buf[:]); err != nil {
		return nil, fmt.Errorf("read metadata size: %w", unexpectedEOF(err))
	}
	metaLen := binary.LittleEndian.Uint64(buf[:])
	if metaLen == 0 {
		return nil, nil
	}
	if metaLen > math.MaxInt64 {
		return nil, fmt.Errorf("%w: metadata size %d", ErrInvalidFormat, metaLen)
	}

	if metaLen <= maxPrealloc {
		metaBuf := make([]byte, metaLen)
		if _, err := io.ReadFull(src, metaBuf); err != nil {
			return nil, fmt.Errorf("read metadata: %w", unexpectedEOF(err))
		}
		return metaBuf, nil
	}

	// Large size claims grow with the data actually present.
	var metaBuf bytes.Buffer
	if _, err := io.CopyN(&metaBuf, src, int64(metaLen)); err != nil {
		return nil, fmt.Errorf("read metadata: %w", unexpectedEOF(err))
	}
	return metaBuf.Bytes(), nil
}

// DetectVersion reads the container header from r and returns the
// version. Exactly five bytes are consumed.
func DetectVersion(r io.Reader) (Version, error) {
	var buf [5]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read header: %w", unexpectedEOF(err))
	}
	if string(buf[:4]) != magic {
		return 0, fmt.Errorf("%w: magic %q", ErrInvalidFormat, buf[:4])
	}
	version := Version(buf[4])
	if !version.valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, buf[4])
	}
	return version, nil
}

// unexpectedEOF converts a clean EOF into io.ErrUnexpectedEOF. Every
// field of the container is mandatory, so running out of bytes
// mid-structure is a truncation wherever it happens.
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Package store archives replay files in a directory with a bolt index.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"slc"
	"slc/pkg/log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	bolt "go.etcd.io/bbolt"
)

const dbAPIversion = "1"

// Entry describes one archived replay.
type Entry struct {
	Name     string      `json:"name"`
	Version  slc.Version `json:"version"`
	TPS      float64     `json:"tps"`
	Events   int         `json:"events"`
	Size     int64       `json:"size"`
	Checksum uint32      `json:"checksum"` // CRC-32 (IEEE) of the file.
	SavedAt  time.Time   `json:"savedAt"`
}

// Archive stores replay files under a directory and keeps an index of
// them in a bolt database.
type Archive struct {
	dir          string
	maxDiskUsage int

	db     *bolt.DB
	logger *log.Logger

	// Swapped out in tests.
	diskUsage func(path string) (float64, error)

	mu sync.Mutex
}

// NewArchive opens the archive described by env, creating the directory
// and index as needed. Close must be called when done.
func NewArchive(env *Config, logger *log.Logger) (*Archive, error) {
	if err := env.PrepareEnvironment(); err != nil {
		return nil, err
	}

	dbOpts := &bolt.Options{
		Timeout: 1 * time.Second,
	}
	db, err := bolt.Open(env.IndexPath, 0o600, dbOpts)
	if err != nil {
		return nil, fmt.Errorf("could not open index: %v: %w", env.IndexPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(dbAPIversion))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create bucket: %v, %w", dbAPIversion, err)
	}

	return &Archive{
		dir:          env.Dir,
		maxDiskUsage: env.MaxDiskUsage,
		db:           db,
		logger:       logger,
		diskUsage:    diskUsagePercent,
	}, nil
}

// Close the archive index.
func (a *Archive) Close() error {
	return a.db.Close()
}

// ErrInvalidName name is empty or contains a path separator.
var ErrInvalidName = errors.New("invalid replay name")

// ErrReplayNotExist replay does not exist.
var ErrReplayNotExist = errors.New("replay does not exist")

// ErrChecksumMismatch file does not match its indexed checksum.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Save encodes the replay with the given container version and stores it
// under name, overwriting any previous replay with that name.
func Save[M slc.Meta](a *Archive, name string, replay *slc.Replay[M], version slc.Version) (*Entry, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	var err error
	switch version {
	case slc.V2:
		err = replay.WriteV2(&buf)
	case slc.V3:
		err = replay.WriteV3(&buf)
	default:
		err = fmt.Errorf("%w: %d", slc.ErrUnsupportedVersion, version)
	}
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.WriteFile(a.replayPath(name), buf.Bytes(), 0o600); err != nil {
		return nil, fmt.Errorf("write replay file: %w", err)
	}

	entry := Entry{
		Name:     name,
		Version:  version,
		TPS:      replay.TPS,
		Events:   replay.Len(),
		Size:     int64(buf.Len()),
		Checksum: crc32.ChecksumIEEE(buf.Bytes()),
		SavedAt:  time.Now().UTC(),
	}
	if err := a.putEntry(entry); err != nil {
		return nil, fmt.Errorf("index replay: %w", err)
	}
	return &entry, nil
}

// Load reads the replay stored under name, verifying the file against
// its indexed checksum before decoding.
func Load[M slc.Meta](a *Archive, name string, meta M) (*slc.Replay[M], *Entry, error) {
	entry, err := a.Get(name)
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(a.replayPath(name))
	if err != nil {
		return nil, nil, fmt.Errorf("read replay file: %w", err)
	}
	if sum := crc32.ChecksumIEEE(data); sum != entry.Checksum {
		return nil, nil, fmt.Errorf("%w: %v: %08x != %08x",
			ErrChecksumMismatch, name, sum, entry.Checksum)
	}

	replay, err := slc.Read(bytes.NewReader(data), meta)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %v: %w", name, err)
	}
	return replay, entry, nil
}

// Get returns the index entry for name.
func (a *Archive) Get(name string) (*Entry, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	var entry Entry
	err := a.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket([]byte(dbAPIversion)).Get([]byte(name))
		if value == nil {
			return fmt.Errorf("%w: %v", ErrReplayNotExist, name)
		}
		return json.Unmarshal(value, &entry)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns all index entries ordered by name.
func (a *Archive) List() ([]Entry, error) {
	var entries []Entry
	err := a.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(dbAPIversion)).ForEach(func(_, value []byte) error {
			var entry Entry
			if err := json.Unmarshal(value, &entry); err != nil {
				return fmt.Errorf("unmarshal entry: %w", err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes the replay file and its index entry.
func (a *Archive) Delete(name string) error {
	if _, err := a.Get(name); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	err := os.Remove(a.replayPath(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove replay file: %w", err)
	}

	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(dbAPIversion)).Delete([]byte(name))
	})
}

// DiskUsage returns the usage percentage of the filesystem the archive
// directory lives on.
func (a *Archive) DiskUsage() (float64, error) {
	return a.diskUsage(a.dir)
}

// Prune deletes the oldest replays until disk usage drops below the
// configured maximum.
func (a *Archive) Prune() error {
	usage, err := a.diskUsage(a.dir)
	if err != nil {
		return fmt.Errorf("disk usage: %w", err)
	}
	if usage < float64(a.maxDiskUsage) {
		return nil
	}

	entries, err := a.List()
	if err != nil {
		return fmt.Errorf("list replays: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SavedAt.Before(entries[j].SavedAt)
	})

	for _, entry := range entries {
		if err := a.Delete(entry.Name); err != nil {
			return fmt.Errorf("delete %v: %w", entry.Name, err)
		}

		usage, err = a.diskUsage(a.dir)
		if err != nil {
			return fmt.Errorf("disk usage: %w", err)
		}
		if usage < float64(a.maxDiskUsage) {
			return nil
		}
	}
	return nil
}

// PruneLoop runs Prune on an interval until ctx is canceled.
func (a *Archive) PruneLoop(ctx context.Context, interval time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
			if err := a.Prune(); err != nil {
				a.logger.Error().
					Src("store").
					Msgf("could not prune archive: %v", err)
			}
		}
	}
}

func (a *Archive) replayPath(name string) string {
	return filepath.Join(a.dir, name+".slc")
}

func (a *Archive) putEntry(entry Entry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(dbAPIversion)).Put([]byte(entry.Name), value)
	})
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func diskUsagePercent(path string) (float64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.UsedPercent, nil
}

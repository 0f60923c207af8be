// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

// Package statecache persists the last known workspace state to a
// local file so the UI can render from it at startup while the first
// reload is still in flight. The file is a deterministic CBOR document
// compressed with zstd, preceded by a fixed header carrying a BLAKE3
// digest of the compressed payload. A cache that fails any check is
// discarded, never repaired: the next reload rewrites it.
package statecache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/codec"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

// State is the cached entity snapshot.
type State struct {
	Projects []schema.Project    `cbor:"projects"`
	Members  []schema.TeamMember `cbor:"members"`
	Tickets  []schema.Ticket     `cbor:"tickets"`
	SavedAt  time.Time           `cbor:"savedAt"`
}

// ErrCorrupt reports a cache file whose header, digest, or payload
// failed validation.
var ErrCorrupt = errors.New("statecache: cache file corrupt")

// File format: magic (4 bytes) + version (1 byte) + BLAKE3 digest of
// the compressed payload (32 bytes) + zstd-compressed CBOR payload.
const (
	cacheMagic   = "JLC1"
	cacheVersion = 1
	headerSize   = len(cacheMagic) + 1 + 32
)

// zstd.Encoder and zstd.Decoder are safe for concurrent use, so one
// pair serves every Store.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("statecache: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("statecache: zstd decoder initialization failed: " + err.Error())
	}
}

// Store reads and writes the cache file at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the conventional cache location next to the
// session file: $XDG_CONFIG_HOME/jiralite/statecache.bin (or
// ~/.config/jiralite/statecache.bin).
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("statecache: resolving home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "jiralite", "statecache.bin"), nil
}

// Load reads and validates the cache. A missing file returns
// (nil, nil); a structurally invalid one returns ErrCorrupt.
func (s *Store) Load() (*State, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("statecache: reading %s: %w", s.path, err)
	}

	if len(raw) < headerSize || string(raw[:len(cacheMagic)]) != cacheMagic {
		return nil, ErrCorrupt
	}
	if raw[len(cacheMagic)] != cacheVersion {
		return nil, ErrCorrupt
	}
	var digest [32]byte
	copy(digest[:], raw[len(cacheMagic)+1:headerSize])
	compressed := raw[headerSize:]
	if blake3.Sum256(compressed) != digest {
		return nil, ErrCorrupt
	}

	payload, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	var state State
	if err := codec.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &state, nil
}

// Save serializes the state and atomically replaces the cache file.
func (s *Store) Save(state *State) error {
	payload, err := codec.Marshal(state)
	if err != nil {
		return fmt.Errorf("statecache: encoding state: %w", err)
	}
	compressed := zstdEncoder.EncodeAll(payload, nil)
	digest := blake3.Sum256(compressed)

	var file bytes.Buffer
	file.Grow(headerSize + len(compressed))
	file.WriteString(cacheMagic)
	file.WriteByte(cacheVersion)
	file.Write(digest[:])
	file.Write(compressed)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("statecache: creating cache directory: %w", err)
	}
	temp := s.path + ".tmp"
	if err := os.WriteFile(temp, file.Bytes(), 0o600); err != nil {
		return fmt.Errorf("statecache: writing %s: %w", temp, err)
	}
	if err := os.Rename(temp, s.path); err != nil {
		return fmt.Errorf("statecache: replacing %s: %w", s.path, err)
	}
	return nil
}

// Remove deletes the cache file. Removing an absent cache is not an
// error.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("statecache: removing %s: %w", s.path, err)
	}
	return nil
}

// Package store persists synthesized speech payloads on disk so repeated
// study sessions over the same material skip synthesis entirely.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

// Disk is a content-addressed payload store. Values are zstd-compressed;
// keys are hashed so arbitrary text maps to safe filenames.
type Disk struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	mu      sync.Mutex
}

// NewDisk opens (creating if needed) a store rooted at dir.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &Disk{dir: dir, encoder: encoder, decoder: decoder}, nil
}

// Get returns the stored value for key, if present. Corrupt entries are
// removed and reported as absent.
func (d *Disk) Get(key string) ([]byte, bool) {
	path := d.pathFor(key)

	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	d.mu.Lock()
	value, err := d.decoder.DecodeAll(compressed, nil)
	d.mu.Unlock()
	if err != nil {
		log.Warn("removing corrupt store entry", "path", path, "err", err)
		_ = os.Remove(path)
		return nil, false
	}

	return value, true
}

// Put stores value under key, replacing any previous entry. The write
// goes through a temp file so readers never observe a partial entry.
func (d *Disk) Put(key string, value []byte) error {
	d.mu.Lock()
	compressed := d.encoder.EncodeAll(value, nil)
	d.mu.Unlock()

	path := d.pathFor(key)
	tmp, err := os.CreateTemp(d.dir, "put-*")
	if err != nil {
		return fmt.Errorf("store put: %w", err)
	}

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store put: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store put: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store put: %w", err)
	}
	return nil
}

// Len counts the stored entries.
func (d *Disk) Len() int {
	matches, err := filepath.Glob(filepath.Join(d.dir, "*.zst"))
	if err != nil {
		return 0
	}
	return len(matches)
}

func (d *Disk) pathFor(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(d.dir, hex.EncodeToString(sum[:])+".zst")
}

// Package adaptcache persists wrapper-shape-key bookkeeping between driver
// runs, so a second run over an unchanged program graph can skip re-deriving
// wrappers whose shape key it has already seen.
package adaptcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// schemaVersion guards against decoding a payload written by an
// incompatible version of this package.
const schemaVersion uint16 = 1

// Digest is a content hash of a wrapper's shape key.
type Digest [sha256.Size]byte

func HashShapeKey(calleeName, shapeKey string) Digest {
	return sha256.Sum256([]byte(calleeName + "\x00" + shapeKey))
}

// DiskCache stores one Payload per (callee, shape key) digest under a cache
// directory, keyed by hex digest, one msgpack file per entry.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Payload records what AdaptCall produced for a given call shape, so a
// later run with the same shape can be confirmed a cache hit without
// re-running the four adaptation stages.
type Payload struct {
	Schema uint16

	CalleeName    string
	ShapeKey      string
	WrapperName   string
	IsPromotion   bool
	FormalCount   int
	CoercionSteps int
}

// Open initializes a disk cache rooted at dir, creating it if needed.
func Open(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDefault opens a disk cache at the standard XDG cache location for app.
func OpenDefault(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return Open(filepath.Join(base, app))
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "wrappers", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and atomically writes payload under key.
func (c *DiskCache) Put(key Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = schemaVersion

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "adaptcache: remove temp file: %v\n", rmErr)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get deserializes the payload stored under key, reporting false if absent
// or written by an incompatible schema version.
func (c *DiskCache) Get(key Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != schemaVersion {
		return false, nil
	}
	return true, nil
}

// Stats summarizes a disk cache's contents.
type Stats struct {
	Entries   int
	TotalSize int64
	Promoted  int
}

// Stat walks the cache directory, counting entries and their total size and
// decoding each payload to tally how many record a promotion family.
func (c *DiskCache) Stat() (Stats, error) {
	if c == nil {
		return Stats{}, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var s Stats
	root := filepath.Join(c.dir, "wrappers")
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Stats{}, nil
		}
		return Stats{}, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return Stats{}, err
		}
		s.Entries++
		s.TotalSize += info.Size()

		f, err := os.Open(filepath.Join(root, e.Name()))
		if err != nil {
			return Stats{}, err
		}
		var payload Payload
		decodeErr := msgpack.NewDecoder(f).Decode(&payload)
		closeErr := f.Close()
		if decodeErr != nil {
			return Stats{}, decodeErr
		}
		if closeErr != nil {
			return Stats{}, closeErr
		}
		if payload.IsPromotion {
			s.Promoted++
		}
	}
	return s, nil
}

// DropAll invalidates every cached entry, e.g. after a schema bump.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

package native

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Digest identifies a spec document by content.
type Digest [sha256.Size]byte

func DigestOf(data []byte) Digest { return sha256.Sum256(data) }

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskCache keeps parsed specs on disk, keyed by the digest of the XML.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache opens the cache rooted at dir. An empty dir means
// $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenDiskCache(dir, app string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "specs", key.String()+".mp")
}

// Put writes spec under key. The file is replaced atomically.
func (c *DiskCache) Put(key Digest, spec *Spec) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(spec); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the spec stored under key. Entries written by another schema
// version count as misses.
func (c *DiskCache) Get(key Digest) (*Spec, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var spec Spec
	if err := msgpack.NewDecoder(f).Decode(&spec); err != nil {
		return nil, false, fmt.Errorf("decode cached spec %s: %w", key, err)
	}
	if spec.Schema != specSchemaVersion {
		return nil, false, nil
	}
	return &spec, true, nil
}

// DropAll removes every cached entry.
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
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// Cache parses spec documents once per process (LRU by digest) and, when a
// DiskCache is attached, once per machine.
type Cache struct {
	mem  *lru.Cache[Digest, *Spec]
	disk *DiskCache
}

const defaultCacheSize = 8

// NewCache creates a cache holding up to size parsed specs in memory.
func NewCache(size int, disk *DiskCache) *Cache {
	if size <= 0 {
		size = defaultCacheSize
	}
	mem, err := lru.New[Digest, *Spec](size)
	if err != nil {
		// only reachable with a non-positive size
		panic(err)
	}
	return &Cache{mem: mem, disk: disk}
}

// Parse returns the parsed form of data, from cache when possible. A
// broken disk entry is ignored and overwritten. When only the disk write
// fails, the spec is returned together with the error. The returned Spec
// is shared and must not be modified.
func (c *Cache) Parse(data []byte) (*Spec, error) {
	if c == nil {
		return ParseSpec(data)
	}
	key := DigestOf(data)
	if s, ok := c.mem.Get(key); ok {
		return s, nil
	}
	if s, ok, err := c.disk.Get(key); err == nil && ok {
		c.mem.Add(key, s)
		return s, nil
	}
	s, err := ParseSpec(data)
	if err != nil {
		return nil, err
	}
	c.mem.Add(key, s)
	if err := c.disk.Put(key, s); err != nil {
		return s, fmt.Errorf("cache spec %s: %w", key, err)
	}
	return s, nil
}

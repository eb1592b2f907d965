package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"

	rerrors "github.com/PolarWolf314/rimu/internal/errors"
)

// Sum returns the content hash recorded for a plaintext, as lowercase hex.
func Sum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Entry is one persisted record: the repository-relative path it belongs
// to and the content hash of the last plaintext seen there. The path is
// stored inside the record so a record can vouch for itself on read.
type Entry struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

// Cache stores one record file per filtered path. Separate files keep
// concurrent filter processes working on different paths out of each
// other's way; replacing a record is a rename, so a reader never observes
// a half-written record.
type Cache struct {
	dir string
}

// New returns a cache rooted at dir. The directory is created lazily on
// the first store.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// recordFile maps a path to its record file. The name is a digest of the
// path, so path separators and unusual characters never leak into the
// filesystem layout.
func (c *Cache) recordFile(path string) string {
	name := sha256.Sum256([]byte(path))
	return filepath.Join(c.dir, hex.EncodeToString(name[:])+".json")
}

// Lookup returns the recorded content hash for path. Any failure to read
// or decode the record is a miss, never an error: the caller falls back
// to re-encrypting, which is always safe.
func (c *Cache) Lookup(path string) (string, bool) {
	entry, err := c.load(c.recordFile(path))
	if err != nil || entry.Path != path {
		return "", false
	}
	return entry.Hash, true
}

// Store persists the content hash for path. The record is written to a
// temporary file in the cache directory and renamed into place.
func (c *Cache) Store(path, hash string) error {
	if err := os.MkdirAll(c.dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(Entry{Path: path, Hash: hash})
	if err != nil {
		return fmt.Errorf("failed to encode cache record: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create cache record: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache record: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.recordFile(path)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cache record: %w", err)
	}
	return nil
}

// Remove drops the record for path. Removing a path that was never cached
// is not an error.
func (c *Cache) Remove(path string) error {
	if err := os.Remove(c.recordFile(path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache record: %w", err)
	}
	return nil
}

// Purge deletes the entire cache directory.
func (c *Cache) Purge() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Entries returns every decodable record, sorted by path. Corrupt or
// unreadable records are skipped, the same degradation Lookup applies.
func (c *Cache) Entries() ([]Entry, error) {
	dirents, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var entries []Entry
	for _, dirent := range dirents {
		if dirent.IsDir() || !strings.HasSuffix(dirent.Name(), ".json") {
			continue
		}
		entry, err := c.load(filepath.Join(c.dir, dirent.Name()))
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// load reads and validates a single record file.
func (c *Cache) load(file string) (Entry, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read cache record: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", rerrors.ErrCacheCorrupt, err)
	}
	if entry.Path == "" || entry.Hash == "" {
		return Entry{}, fmt.Errorf("%w: record is missing fields", rerrors.ErrCacheCorrupt)
	}
	return entry, nil
}

package diskcache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/go-slippy/slippy/internal/tilecoord"
)

// Store is the {cache_dir}/{tileset_name}/{z}/{x}/{y}.png file-layout
// adapter. It wraps file existence/read/write/delete with Go's os
// package directly — no third-party file-I/O library appears anywhere
// in the retrieved pack, so stdlib is the grounded choice here (see
// DESIGN.md).
type Store struct {
	CacheDir     string
	TilesetName string
}

// NewStore builds a Store rooted at cacheDir/tilesetName.
func NewStore(cacheDir, tilesetName string) *Store {
	return &Store{CacheDir: cacheDir, TilesetName: tilesetName}
}

// Path returns the on-disk path for coord.
func (s *Store) Path(coord tilecoord.Coord) string {
	return filepath.Join(s.CacheDir, s.TilesetName,
		fmt.Sprintf("%d", coord.Z), fmt.Sprintf("%d", coord.X), fmt.Sprintf("%d.png", coord.Y))
}

// Exists reports whether coord's file is present.
func (s *Store) Exists(coord tilecoord.Coord) bool {
	_, err := os.Stat(s.Path(coord))
	return err == nil
}

// Read returns coord's raw PNG bytes.
func (s *Store) Read(coord tilecoord.Coord) ([]byte, error) {
	return os.ReadFile(s.Path(coord))
}

// Write writes bytes to coord's path, creating parent directories as
// needed. Returns the number of bytes written, for the caller to build
// an Entry with.
func (s *Store) Write(coord tilecoord.Coord, bytes []byte) (int64, error) {
	path := s.Path(coord)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("diskcache: creating directory for %s: %w", coord.Key(), err)
	}
	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return 0, fmt.Errorf("diskcache: writing %s (%s): %w", coord.Key(), humanize.Bytes(uint64(len(bytes))), err)
	}
	return int64(len(bytes)), nil
}

// Delete removes coord's file, ignoring a not-exist error (deletion of
// an already-gone file is not itself an error; eviction deletes are
// fire-and-forget from the fetch engine).
func (s *Store) Delete(coord tilecoord.Coord) error {
	err := os.Remove(s.Path(coord))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

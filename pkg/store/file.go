package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hessam/chronos/pkg/story"
)

// FileStore keeps one JSON snapshot file per project inside a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// LoadSnapshot reads the project's snapshot file.
func (s *FileStore) LoadSnapshot(_ context.Context, project string) (story.Snapshot, error) {
	snap, err := ReadSnapshotFile(s.path(project))
	if os.IsNotExist(err) {
		return story.Snapshot{}, fmt.Errorf("%w: %s", ErrProjectNotFound, project)
	}
	return snap, err
}

// SaveSnapshot writes the project's snapshot file atomically via a rename.
func (s *FileStore) SaveSnapshot(_ context.Context, project string, snap story.Snapshot) error {
	tmp := s.path(project) + ".tmp"
	if err := WriteSnapshotFile(snap, tmp); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(project))
}

// Close does nothing for a file store.
func (s *FileStore) Close(context.Context) error { return nil }

func (s *FileStore) path(project string) string {
	return filepath.Join(s.dir, project+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)

// ReadSnapshotFile reads a JSON snapshot from a file.
func ReadSnapshotFile(path string) (story.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return story.Snapshot{}, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// ReadSnapshot decodes a JSON snapshot from a reader.
func ReadSnapshot(r io.Reader) (story.Snapshot, error) {
	var snap story.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return story.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// WriteSnapshotFile writes a snapshot as indented JSON to a file.
func WriteSnapshotFile(snap story.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSnapshot(snap, f)
}

// WriteSnapshot encodes a snapshot as indented JSON to a writer.
func WriteSnapshot(snap story.Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// MarshalSnapshot converts a snapshot to JSON bytes, for hashing and cache
// storage.
func MarshalSnapshot(snap story.Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"sitegraph/pkg/utils"
)

// FileStore keeps the checkpoint as a single JSON file. Save writes to a
// temp file in the same directory, fsyncs, and renames it over the
// configured path, so an interrupted save never leaves a torn checkpoint.
type FileStore struct {
	path string
	log  *logrus.Entry
}

// NewFileStore returns a FileStore writing to path. The parent directory is
// created on the first Save.
func NewFileStore(path string, logger *logrus.Entry) *FileStore {
	return &FileStore{path: path, log: logger}
}

// Save implements the Store interface.
func (s *FileStore) Save(snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating checkpoint directory %q: %w", utils.ErrFilesystem, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp checkpoint file in %q: %w", utils.ErrFilesystem, dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: writing temp checkpoint %q: %w", utils.ErrFilesystem, tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: syncing temp checkpoint %q: %w", utils.ErrFilesystem, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: closing temp checkpoint %q: %w", utils.ErrFilesystem, tmpPath, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: replacing checkpoint %q: %w", utils.ErrFilesystem, s.path, err)
	}

	s.log.WithFields(logrus.Fields{
		"path":  s.path,
		"bytes": len(data),
	}).Debug("Checkpoint written")
	return nil
}

// Load implements the Store interface.
func (s *FileStore) Load() (*Snapshot, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading checkpoint %q: %w", utils.ErrFilesystem, s.path, err)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, false, fmt.Errorf("checkpoint %q: %w", s.path, err)
	}
	return snap, true, nil
}

// Close implements the Store interface. FileStore holds no open resources.
func (s *FileStore) Close() error { return nil }

package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"sitegraph/pkg/log"
	"sitegraph/pkg/utils"
)

// snapshotKey is the sole key the checkpoint occupies within the database.
const snapshotKey = "checkpoint:snapshot"

// BadgerStore keeps the checkpoint as a single value in a BadgerDB at the
// configured directory. A committed transaction replaces the previous
// snapshot atomically; SyncWrites keeps a committed checkpoint durable
// across a crash.
type BadgerStore struct {
	db  *badger.DB
	log *logrus.Entry
}

// NewBadgerStore opens (creating if needed) the checkpoint database at dir.
func NewBadgerStore(dir string, logger *logrus.Entry) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating checkpoint directory %q: %w", utils.ErrFilesystem, dir, err)
	}

	opts := badger.DefaultOptions(dir).
		WithLogger(log.NewBadgerAdapter(logger.WithField("component", "badgerdb"))).
		WithNumVersionsToKeep(1).
		WithSyncWrites(true)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: opening checkpoint database at %q: %w", utils.ErrDatabase, dir, err)
	}

	logger.WithField("dir", dir).Debug("Checkpoint database opened")
	return &BadgerStore{db: db, log: logger}, nil
}

// Save implements the Store interface.
func (s *BadgerStore) Save(snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey), data)
	})
	if err != nil {
		return fmt.Errorf("%w: storing snapshot: %w", utils.ErrDatabase, err)
	}

	s.log.WithField("bytes", len(data)).Debug("Checkpoint written")
	return nil
}

// Load implements the Store interface.
func (s *BadgerStore) Load() (*Snapshot, bool, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading snapshot: %w", utils.ErrDatabase, err)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

// Close implements the Store interface.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

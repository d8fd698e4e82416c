package checkpoint

// Store persists crawl snapshots. Implementations must make Save
// complete-or-fail atomic: a crash mid-save leaves the previous checkpoint
// intact, never a partial one.
type Store interface {
	// Save durably writes snap, replacing any previous checkpoint.
	Save(snap *Snapshot) error

	// Load reads the current checkpoint. found is false (with a nil error)
	// when no checkpoint exists yet, signaling the caller to start fresh.
	Load() (snap *Snapshot, found bool, err error)

	// Close releases resources held by the store.
	Close() error
}

package checkpoint

import (
	"encoding/json"
	"fmt"
	"time"

	"sitegraph/pkg/graph"
	"sitegraph/pkg/utils"
)

// SchemaVersion identifies the snapshot layout. Load rejects snapshots
// written with any other version rather than guessing at field meanings.
const SchemaVersion = 1

// Node is one graph node in a snapshot. Meta is nil for nodes that exist
// only as edge endpoints (discovered but never processed).
type Node struct {
	URL  string          `json:"url"`
	Meta *graph.PageMeta `json:"meta,omitempty"`
}

// Snapshot is the full crawl state serialized as one unit: the graph as an
// explicit node list + edge list, the visited set, the frontier in queue
// order, and the queued-membership set. Saving anything less than the whole
// struct would be a correctness violation on resume.
type Snapshot struct {
	Version  int          `json:"version"`
	RunID    string       `json:"run_id"`
	SavedAt  time.Time    `json:"saved_at"`
	SeedURL  string       `json:"seed_url"`
	Domain   string       `json:"domain"`
	Nodes    []Node       `json:"nodes"`
	Edges    []graph.Edge `json:"edges"`
	Visited  []string     `json:"visited"`
	Frontier []string     `json:"frontier"`
	Queued   []string     `json:"queued"`
}

// Validate checks the snapshot's internal consistency. A snapshot that
// fails these checks was either corrupted on disk or written by a buggy
// producer; loading it would poison the resumed crawl.
func (s *Snapshot) Validate() error {
	if s.Version != SchemaVersion {
		return fmt.Errorf("unsupported snapshot version %d (want %d): %w", s.Version, SchemaVersion, utils.ErrSnapshotInvalid)
	}

	frontier := make(map[string]struct{}, len(s.Frontier))
	for _, u := range s.Frontier {
		if _, dup := frontier[u]; dup {
			return fmt.Errorf("frontier contains %q twice: %w", u, utils.ErrSnapshotInvalid)
		}
		frontier[u] = struct{}{}
	}

	queued := make(map[string]struct{}, len(s.Queued))
	for _, u := range s.Queued {
		if _, dup := queued[u]; dup {
			return fmt.Errorf("queued set contains %q twice: %w", u, utils.ErrSnapshotInvalid)
		}
		queued[u] = struct{}{}
	}
	if len(queued) != len(frontier) {
		return fmt.Errorf("queued set size %d does not match frontier size %d: %w", len(queued), len(frontier), utils.ErrSnapshotInvalid)
	}
	for u := range queued {
		if _, ok := frontier[u]; !ok {
			return fmt.Errorf("queued set contains %q which is not in the frontier: %w", u, utils.ErrSnapshotInvalid)
		}
	}

	for _, u := range s.Visited {
		if _, ok := frontier[u]; ok {
			return fmt.Errorf("%q is both visited and queued: %w", u, utils.ErrSnapshotInvalid)
		}
	}
	return nil
}

// decodeSnapshot unmarshals and validates raw snapshot bytes.
func decodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding checkpoint (%v): %w", err, utils.ErrSnapshotInvalid)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

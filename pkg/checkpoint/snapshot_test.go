package checkpoint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegraph/pkg/graph"
	"sitegraph/pkg/utils"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Version: SchemaVersion,
		RunID:   "2f1a4c6e-0000-0000-0000-000000000001",
		SavedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		SeedURL: "https://targetdomain.com/",
		Domain:  "targetdomain.com",
		Nodes: []Node{
			{URL: "https://targetdomain.com/", Meta: &graph.PageMeta{Title: "Home", WordCount: 120, PubDate: "Unknown"}},
			{URL: "https://targetdomain.com/a", Meta: &graph.PageMeta{Title: "A", WordCount: 40, PubDate: "2021-05"}},
			{URL: "https://targetdomain.com/b"}, // edge endpoint, never processed
		},
		Edges: []graph.Edge{
			{Source: "https://targetdomain.com/", Target: "https://targetdomain.com/a"},
			{Source: "https://targetdomain.com/", Target: "https://targetdomain.com/b"},
		},
		Visited:  []string{"https://targetdomain.com/", "https://targetdomain.com/a"},
		Frontier: []string{"https://targetdomain.com/b"},
		Queued:   []string{"https://targetdomain.com/b"},
	}
}

func TestSnapshotValidate_OK(t *testing.T) {
	require.NoError(t, testSnapshot().Validate())
}

func TestSnapshotValidate_Inconsistent(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{
			name:   "UnsupportedVersion",
			mutate: func(s *Snapshot) { s.Version = SchemaVersion + 1 },
		},
		{
			name:   "DuplicateFrontierEntry",
			mutate: func(s *Snapshot) { s.Frontier = append(s.Frontier, s.Frontier[0]) },
		},
		{
			name:   "DuplicateQueuedEntry",
			mutate: func(s *Snapshot) { s.Queued = append(s.Queued, s.Queued[0]) },
		},
		{
			name:   "QueuedMissingFrontierEntry",
			mutate: func(s *Snapshot) { s.Queued = nil },
		},
		{
			name: "QueuedEntryNotInFrontier",
			mutate: func(s *Snapshot) {
				s.Frontier = append(s.Frontier, "https://targetdomain.com/c")
				s.Queued = append(s.Queued, "https://targetdomain.com/zzz")
			},
		},
		{
			name: "VisitedAndQueuedOverlap",
			mutate: func(s *Snapshot) {
				s.Frontier = append(s.Frontier, s.Visited[0])
				s.Queued = append(s.Queued, s.Visited[0])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := testSnapshot()
			tt.mutate(snap)
			err := snap.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, utils.ErrSnapshotInvalid)
		})
	}
}

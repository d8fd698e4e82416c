package crawl

import (
	"sort"
	"time"

	"sitegraph/pkg/checkpoint"
	"sitegraph/pkg/graph"
)

// State is the complete mutable state of one crawl: the link graph, the
// set of processed URLs and the frontier of discovered URLs waiting to be
// processed. All URLs are canonical; membership tests across the three
// structures use string equality on the canonical form.
//
// Not safe for concurrent use: the crawl driver owns it on a single thread.
type State struct {
	graph    *graph.Graph
	visited  map[string]struct{}
	frontier *Frontier
}

// NewState creates a fresh crawl state with the canonical seed URL queued.
func NewState(seedURL string) *State {
	s := &State{
		graph:    graph.New(),
		visited:  make(map[string]struct{}),
		frontier: NewFrontier(),
	}
	s.frontier.Push(seedURL)
	return s
}

// Restore rebuilds crawl state from a snapshot that has passed Validate.
func Restore(snap *checkpoint.Snapshot) *State {
	s := &State{
		graph:    graph.New(),
		visited:  make(map[string]struct{}, len(snap.Visited)),
		frontier: NewFrontier(),
	}
	for _, n := range snap.Nodes {
		s.graph.AddNode(n.URL)
		if n.Meta != nil {
			s.graph.SetMeta(n.URL, *n.Meta)
		}
	}
	for _, e := range snap.Edges {
		s.graph.AddEdge(e.Source, e.Target)
	}
	for _, u := range snap.Visited {
		s.visited[u] = struct{}{}
	}
	for _, u := range snap.Frontier {
		s.frontier.Push(u)
	}
	return s
}

// Dequeue removes and returns the next URL to process. ok is false when
// the frontier is empty.
func (s *State) Dequeue() (string, bool) {
	return s.frontier.Pop()
}

// Requeue puts a dequeued URL back at the tail of the frontier, used when
// processing was cut short before the page could be recorded.
func (s *State) Requeue(url string) {
	s.frontier.Push(url)
}

// IsVisited reports whether url has already been processed.
func (s *State) IsVisited(url string) bool {
	_, ok := s.visited[url]
	return ok
}

// RecordPage marks url as processed and ensures a graph node exists for
// it. meta is nil for pages that failed to fetch: the node is recorded
// without attributes.
func (s *State) RecordPage(url string, meta *graph.PageMeta) {
	s.visited[url] = struct{}{}
	s.graph.AddNode(url)
	if meta != nil {
		s.graph.SetMeta(url, *meta)
	}
}

// AddLink records the directed edge src→dst and queues dst unless it was
// already processed or is already queued. Reports whether dst was queued.
func (s *State) AddLink(src, dst string) bool {
	s.graph.AddEdge(src, dst)
	if s.IsVisited(dst) {
		return false
	}
	return s.frontier.Push(dst)
}

// VisitedCount returns the number of processed URLs.
func (s *State) VisitedCount() int { return len(s.visited) }

// FrontierLen returns the number of queued URLs.
func (s *State) FrontierLen() int { return s.frontier.Len() }

// Graph exposes the link graph for export.
func (s *State) Graph() *graph.Graph { return s.graph }

// Snapshot captures the current state in the serializable checkpoint
// schema. The visited set is sorted so snapshots of identical states are
// byte-identical.
func (s *State) Snapshot(runID, seedURL, domain string) *checkpoint.Snapshot {
	nodes := make([]checkpoint.Node, 0, s.graph.NodeCount())
	for _, u := range s.graph.Nodes() {
		n := checkpoint.Node{URL: u}
		if meta, ok := s.graph.Meta(u); ok {
			m := meta
			n.Meta = &m
		}
		nodes = append(nodes, n)
	}

	visited := make([]string, 0, len(s.visited))
	for u := range s.visited {
		visited = append(visited, u)
	}
	sort.Strings(visited)

	frontier := s.frontier.Items()
	queued := make([]string, len(frontier))
	copy(queued, frontier)

	return &checkpoint.Snapshot{
		Version:  checkpoint.SchemaVersion,
		RunID:    runID,
		SavedAt:  time.Now().UTC(),
		SeedURL:  seedURL,
		Domain:   domain,
		Nodes:    nodes,
		Edges:    s.graph.Edges(),
		Visited:  visited,
		Frontier: frontier,
		Queued:   queued,
	}
}

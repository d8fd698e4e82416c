package graph

// PageMeta holds the attributes recorded for a processed page. A page that
// failed to fetch is recorded with the zero value (see the crawl driver).
type PageMeta struct {
	Title     string `json:"title"`
	WordCount int    `json:"word_count"`
	PubDate   string `json:"pub_date"`
}

// Edge is a directed link between two canonical URLs.
type Edge struct {
	Source string `json:"src"`
	Target string `json:"dst"`
}

// Graph is a directed link graph keyed by canonical URL. Nodes exist either
// because a page was processed (SetMeta) or because an edge referenced them
// (AddEdge creates missing endpoints). Node and edge iteration follow
// insertion order, which keeps checkpoints and exports deterministic.
//
// Not safe for concurrent use: all mutation happens on the single-threaded
// crawl driver.
type Graph struct {
	order   []string
	nodeSet map[string]struct{}
	meta    map[string]PageMeta // only URLs whose page was processed
	edges   []Edge
	edgeSet map[Edge]struct{}
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodeSet: make(map[string]struct{}),
		meta:    make(map[string]PageMeta),
		edgeSet: make(map[Edge]struct{}),
	}
}

// AddNode ensures a node exists for url. Adding an existing node is a no-op.
func (g *Graph) AddNode(url string) {
	if _, ok := g.nodeSet[url]; ok {
		return
	}
	g.nodeSet[url] = struct{}{}
	g.order = append(g.order, url)
}

// SetMeta ensures a node exists for url and sets (or overwrites) its
// attributes.
func (g *Graph) SetMeta(url string, meta PageMeta) {
	g.AddNode(url)
	g.meta[url] = meta
}

// Meta returns the recorded attributes for url. ok is false when the node
// does not exist or exists only as an edge endpoint without attributes.
func (g *Graph) Meta(url string) (PageMeta, bool) {
	m, ok := g.meta[url]
	return m, ok
}

// HasNode reports whether url is present in the graph.
func (g *Graph) HasNode(url string) bool {
	_, ok := g.nodeSet[url]
	return ok
}

// AddEdge adds the directed edge source→target, creating either endpoint if
// missing. Re-adding an existing edge is a no-op (no multi-edges).
func (g *Graph) AddEdge(source, target string) {
	g.AddNode(source)
	g.AddNode(target)
	e := Edge{Source: source, Target: target}
	if _, ok := g.edgeSet[e]; ok {
		return
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
}

// HasEdge reports whether the directed edge source→target exists.
func (g *Graph) HasEdge(source, target string) bool {
	_, ok := g.edgeSet[Edge{Source: source, Target: target}]
	return ok
}

// NodeCount returns the number of nodes, including attribute-less edge
// endpoints.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of distinct directed edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// MetaCount returns the number of nodes with recorded attributes.
func (g *Graph) MetaCount() int { return len(g.meta) }

// Nodes returns all node URLs in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Edges returns all directed edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

package graph

import (
	"reflect"
	"testing"
)

func TestAddNode_Idempotent(t *testing.T) {
	g := New()
	g.AddNode("https://example.com/a")
	g.AddNode("https://example.com/a")

	if got := g.NodeCount(); got != 1 {
		t.Errorf("NodeCount() = %d, want 1", got)
	}
	if !g.HasNode("https://example.com/a") {
		t.Error("HasNode() = false, want true")
	}
}

func TestAddEdge_Idempotent(t *testing.T) {
	g := New()
	g.AddEdge("https://example.com/a", "https://example.com/b")
	g.AddEdge("https://example.com/a", "https://example.com/b")

	if got := g.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount() = %d, want 1", got)
	}
	if !g.HasEdge("https://example.com/a", "https://example.com/b") {
		t.Error("HasEdge(a, b) = false, want true")
	}
	if g.HasEdge("https://example.com/b", "https://example.com/a") {
		t.Error("HasEdge(b, a) = true, want false (edges are directed)")
	}
}

func TestAddEdge_CreatesMissingEndpoints(t *testing.T) {
	g := New()
	g.AddEdge("https://example.com/a", "https://example.com/b")

	if got := g.NodeCount(); got != 2 {
		t.Errorf("NodeCount() = %d, want 2", got)
	}
	if _, ok := g.Meta("https://example.com/b"); ok {
		t.Error("Meta() on an edge-only endpoint reported attributes, want none")
	}
}

func TestSetMeta_Overwrites(t *testing.T) {
	g := New()
	url := "https://example.com/post"

	g.SetMeta(url, PageMeta{Title: "No Title", WordCount: 0, PubDate: "Unknown"})
	g.SetMeta(url, PageMeta{Title: "A Post", WordCount: 42, PubDate: "2021-05"})

	m, ok := g.Meta(url)
	if !ok {
		t.Fatal("Meta() ok = false, want true")
	}
	want := PageMeta{Title: "A Post", WordCount: 42, PubDate: "2021-05"}
	if m != want {
		t.Errorf("Meta() = %+v, want %+v", m, want)
	}
	if got := g.NodeCount(); got != 1 {
		t.Errorf("NodeCount() = %d, want 1", got)
	}
	if got := g.MetaCount(); got != 1 {
		t.Errorf("MetaCount() = %d, want 1", got)
	}
}

func TestNodes_InsertionOrder(t *testing.T) {
	g := New()
	g.SetMeta("https://example.com/", PageMeta{Title: "Home"})
	g.AddEdge("https://example.com/", "https://example.com/a")
	g.AddEdge("https://example.com/", "https://example.com/b")
	g.AddEdge("https://example.com/a", "https://example.com/b") // no new nodes

	want := []string{"https://example.com/", "https://example.com/a", "https://example.com/b"}
	if got := g.Nodes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
}

func TestEdges_InsertionOrder(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("b", "c")
	g.AddEdge("a", "b") // duplicate, ignored

	want := []Edge{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "c"},
		{Source: "b", Target: "c"},
	}
	if got := g.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestNodes_ReturnsCopy(t *testing.T) {
	g := New()
	g.AddNode("a")
	nodes := g.Nodes()
	nodes[0] = "mutated"

	if got := g.Nodes()[0]; got != "a" {
		t.Errorf("internal node order mutated through returned slice: got %q", got)
	}
}

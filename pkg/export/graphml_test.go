package export

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegraph/pkg/graph"
)

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func sampleGraph() *graph.Graph {
	g := graph.New()
	g.AddNode("https://example.com/")
	g.SetMeta("https://example.com/", graph.PageMeta{
		Title:     "Q&A <Intro>",
		WordCount: 42,
		PubDate:   "2021-05",
	})
	g.AddNode("https://example.com/dead")
	g.AddEdge("https://example.com/", "https://example.com/dead")
	return g
}

func TestEncodeGraphML_Structure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeGraphML(sampleGraph(), &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, xml.Header), "document must start with the XML declaration")
	assert.Contains(t, out, `xmlns="http://graphml.graphdrawing.org/xmlns"`)
	assert.Contains(t, out, "Q&amp;A &lt;Intro&gt;", "attribute values must be XML-escaped")

	var doc graphmlDoc
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Keys, 3)
	assert.Equal(t, keyDecl{ID: "d0", For: "node", AttrName: "title", AttrType: "string"}, doc.Keys[0])
	assert.Equal(t, keyDecl{ID: "d1", For: "node", AttrName: "word_count", AttrType: "long"}, doc.Keys[1])
	assert.Equal(t, keyDecl{ID: "d2", For: "node", AttrName: "pub_date", AttrType: "string"}, doc.Keys[2])

	assert.Equal(t, "directed", doc.Graph.EdgeDefault)

	require.Len(t, doc.Graph.Nodes, 2)
	home := doc.Graph.Nodes[0]
	assert.Equal(t, "https://example.com/", home.ID)
	require.Len(t, home.Data, 3)
	assert.Equal(t, dataElem{Key: "d0", Value: "Q&A <Intro>"}, home.Data[0])
	assert.Equal(t, dataElem{Key: "d1", Value: "42"}, home.Data[1])
	assert.Equal(t, dataElem{Key: "d2", Value: "2021-05"}, home.Data[2])

	dead := doc.Graph.Nodes[1]
	assert.Equal(t, "https://example.com/dead", dead.ID)
	assert.Empty(t, dead.Data, "unfetched pages carry no attributes")

	require.Len(t, doc.Graph.Edges, 1)
	assert.Equal(t, edgeElem{
		Source: "https://example.com/",
		Target: "https://example.com/dead",
	}, doc.Graph.Edges[0])
}

func TestEncodeGraphML_EmptyPubDate(t *testing.T) {
	g := graph.New()
	g.AddNode("https://example.com/p")
	g.SetMeta("https://example.com/p", graph.PageMeta{Title: "P", WordCount: 1, PubDate: ""})

	var buf bytes.Buffer
	require.NoError(t, EncodeGraphML(g, &buf))

	var doc graphmlDoc
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Graph.Nodes, 1)
	require.Len(t, doc.Graph.Nodes[0].Data, 3)
	assert.Equal(t, "", doc.Graph.Nodes[0].Data[2].Value, "an empty pub_date is exported verbatim")
}

func TestWriteGraphML_CreatesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "site.graphml")

	require.NoError(t, WriteGraphML(sampleGraph(), path, testLog()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc graphmlDoc
	require.NoError(t, xml.Unmarshal(data, &doc))
	assert.Len(t, doc.Graph.Nodes, 2)

	// A second export replaces the first rather than appending.
	small := graph.New()
	small.AddNode("https://example.com/only")
	require.NoError(t, WriteGraphML(small, path, testLog()))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	doc = graphmlDoc{}
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.Graph.Nodes, 1)
	assert.Equal(t, "https://example.com/only", doc.Graph.Nodes[0].ID)
	assert.Empty(t, doc.Graph.Edges)
}

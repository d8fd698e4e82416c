// Package export serializes a crawled link graph to GraphML so the result
// can be opened in Gephi, yEd, or loaded into graph toolkits.
package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"sitegraph/pkg/graph"
	"sitegraph/pkg/utils"
)

// Attribute key IDs. Fixed IDs keep exports diffable across runs.
const (
	keyTitle     = "d0"
	keyWordCount = "d1"
	keyPubDate   = "d2"

	graphmlNS = "http://graphml.graphdrawing.org/xmlns"
)

type dataElem struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type nodeElem struct {
	ID   string     `xml:"id,attr"`
	Data []dataElem `xml:"data,omitempty"`
}

type edgeElem struct {
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
}

type keyDecl struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphElem struct {
	EdgeDefault string     `xml:"edgedefault,attr"`
	Nodes       []nodeElem `xml:"node"`
	Edges       []edgeElem `xml:"edge"`
}

type graphmlDoc struct {
	XMLName xml.Name  `xml:"graphml"`
	XMLNS   string    `xml:"xmlns,attr"`
	Keys    []keyDecl `xml:"key"`
	Graph   graphElem `xml:"graph"`
}

// WriteGraphML writes g to path as a GraphML document, replacing any
// previous export. Parent directories are created as needed.
func WriteGraphML(g *graph.Graph, path string, log *logrus.Entry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating export directory %q: %w", utils.ErrFilesystem, dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating export file %q: %w", utils.ErrFilesystem, path, err)
	}
	if err := EncodeGraphML(g, f); err != nil {
		f.Close()
		return fmt.Errorf("encoding GraphML for %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing export file %q: %w", utils.ErrFilesystem, path, err)
	}

	log.WithFields(logrus.Fields{
		"path":  path,
		"nodes": g.NodeCount(),
		"edges": g.EdgeCount(),
	}).Info("Graph exported")
	return nil
}

// EncodeGraphML writes g to w as GraphML. Nodes appear in insertion order;
// pages that were never fetched successfully carry no data elements.
func EncodeGraphML(g *graph.Graph, w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(buildDocument(g)); err != nil {
		return fmt.Errorf("encoding GraphML: %w", err)
	}

	// Encode leaves the document without a trailing newline.
	_, err := io.WriteString(w, "\n")
	return err
}

func buildDocument(g *graph.Graph) *graphmlDoc {
	doc := &graphmlDoc{
		XMLNS: graphmlNS,
		Keys: []keyDecl{
			{ID: keyTitle, For: "node", AttrName: "title", AttrType: "string"},
			{ID: keyWordCount, For: "node", AttrName: "word_count", AttrType: "long"},
			{ID: keyPubDate, For: "node", AttrName: "pub_date", AttrType: "string"},
		},
		Graph: graphElem{EdgeDefault: "directed"},
	}

	for _, url := range g.Nodes() {
		n := nodeElem{ID: url}
		if meta, ok := g.Meta(url); ok {
			n.Data = []dataElem{
				{Key: keyTitle, Value: meta.Title},
				{Key: keyWordCount, Value: strconv.Itoa(meta.WordCount)},
				{Key: keyPubDate, Value: meta.PubDate},
			}
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, n)
	}
	for _, e := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, edgeElem{Source: e.Source, Target: e.Target})
	}
	return doc
}

package fetch

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sitegraph/pkg/graph"
)

// Fallback values for pages that carry no usable signal.
const (
	defaultTitle   = "No Title"
	unknownPubDate = "Unknown"
)

// extractLinks collects raw href attribute values in document order,
// dropping duplicates. Values are returned unresolved; resolution and
// admission against the page URL happen in the caller.
func extractLinks(doc *goquery.Document) []string {
	var links []string
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})
	return links
}

// extractMeta pulls the title, word count and publication date from a
// parsed page. Mutates the document (script/style removal), so it must
// run after link extraction.
func extractMeta(doc *goquery.Document, pageURL string) graph.PageMeta {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = defaultTitle
	}

	return graph.PageMeta{
		Title:     title,
		WordCount: countWords(doc),
		PubDate:   extractPubDate(doc, pageURL),
	}
}

// countWords counts whitespace-separated tokens of the page's visible
// text. Script and style contents are not visible text.
func countWords(doc *goquery.Document) int {
	doc.Find("script, style").Remove()
	return len(strings.Fields(doc.Text()))
}

// extractPubDate looks for an article:published_time meta tag first and
// falls back to scanning the URL for a year/month segment pair. Returns
// unknownPubDate when neither yields a date.
func extractPubDate(doc *goquery.Document, pageURL string) string {
	if meta := doc.Find(`meta[property="article:published_time"]`).First(); meta.Length() > 0 {
		if content, ok := meta.Attr("content"); ok {
			return content
		}
		return unknownPubDate
	}

	// A /2021/05/ style pair anywhere in the URL. The last pair wins and
	// both segments keep their original text, zero padding included.
	pubDate := unknownPubDate
	parts := strings.Split(pageURL, "/")
	for i := 0; i+1 < len(parts); i++ {
		if isYearSegment(parts[i]) && isMonthSegment(parts[i+1]) {
			pubDate = parts[i] + "-" + parts[i+1]
		}
	}
	return pubDate
}

// isYearSegment reports whether s is exactly four digits.
func isYearSegment(s string) bool {
	return len(s) == 4 && isDigits(s)
}

// isMonthSegment reports whether s is one or two digits valued 1 through 12.
func isMonthSegment(s string) bool {
	if len(s) > 2 || !isDigits(s) {
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 12
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

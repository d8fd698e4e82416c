package crawl

import (
	"net/url"
	"sort"
	"strings"
)

// EndpointCount is one first-path-segment bucket of the frontier.
type EndpointCount struct {
	Endpoint string
	Count    int
}

// FrontierSummary describes what the queue is made of: the most common
// first path segments and a few sample URLs in queue order.
type FrontierSummary struct {
	Total     int
	Endpoints []EndpointCount
	Samples   []string
}

// Summarize inspects the frontier without disturbing it. Endpoints are
// ordered by descending count, ties broken by name; at most topN buckets
// and sampleN samples are returned.
func (s *State) Summarize(topN, sampleN int) FrontierSummary {
	items := s.frontier.Items()

	counts := make(map[string]int)
	for _, u := range items {
		counts[firstPathSegment(u)]++
	}
	endpoints := make([]EndpointCount, 0, len(counts))
	for ep, n := range counts {
		endpoints = append(endpoints, EndpointCount{Endpoint: ep, Count: n})
	}
	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].Count != endpoints[j].Count {
			return endpoints[i].Count > endpoints[j].Count
		}
		return endpoints[i].Endpoint < endpoints[j].Endpoint
	})
	if len(endpoints) > topN {
		endpoints = endpoints[:topN]
	}

	samples := items
	if len(samples) > sampleN {
		samples = samples[:sampleN]
	}

	return FrontierSummary{
		Total:     len(items),
		Endpoints: endpoints,
		Samples:   samples,
	}
}

// firstPathSegment returns the leading path segment of a URL, "" for the
// root and for URLs that fail to parse.
func firstPathSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	return parts[0]
}

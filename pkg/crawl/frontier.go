package crawl

// Frontier is the FIFO queue of discovered-but-unprocessed canonical URLs,
// paired with a membership set so duplicate checks are O(1). The membership
// set always equals the exact set of queued elements; Push refuses
// duplicates to keep it that way.
//
// Not safe for concurrent use: the crawl driver owns it on a single thread.
type Frontier struct {
	items  []string
	queued map[string]struct{}
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{queued: make(map[string]struct{})}
}

// Push appends url to the tail unless it is already queued.
// Reports whether the url was added.
func (f *Frontier) Push(url string) bool {
	if _, ok := f.queued[url]; ok {
		return false
	}
	f.queued[url] = struct{}{}
	f.items = append(f.items, url)
	return true
}

// Pop removes and returns the head of the queue and drops it from the
// membership set. ok is false when the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	if len(f.items) == 0 {
		return "", false
	}
	url := f.items[0]
	f.items[0] = "" // release the head for GC
	f.items = f.items[1:]
	delete(f.queued, url)
	return url, true
}

// Contains reports whether url is currently queued.
func (f *Frontier) Contains(url string) bool {
	_, ok := f.queued[url]
	return ok
}

// Len returns the number of queued URLs.
func (f *Frontier) Len() int { return len(f.items) }

// Items returns the queued URLs in FIFO order.
func (f *Frontier) Items() []string {
	out := make([]string, len(f.items))
	copy(out, f.items)
	return out
}

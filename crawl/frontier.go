package crawl

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/fwojciec/prodfind"
)

// Compile-time interface verification.
var _ prodfind.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory crawl queue ordered by depth. Every URL ever
// pushed stays in an exact seen-set, so a URL is queued at most once.
// Links of equal depth are popped in push order.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	queue *linkHeap
	seq   uint64
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	h := &linkHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  make(map[string]struct{}),
		queue: h,
	}
}

// Push adds a link to the frontier.
// Returns false if the URL has already been seen.
// URL fragments are stripped before deduplication.
func (f *Frontier) Push(link prodfind.CrawlLink) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	link.URL = stripFragment(link.URL)
	if _, ok := f.seen[link.URL]; ok {
		return false
	}
	f.seen[link.URL] = struct{}{}

	heap.Push(f.queue, queuedLink{link: link, seq: f.seq})
	f.seq++
	return true
}

// Pop returns the shallowest queued link.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (prodfind.CrawlLink, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return prodfind.CrawlLink{}, false
	}
	q, _ := heap.Pop(f.queue).(queuedLink)
	return q.link, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been processed or queued.
// URL fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.seen[stripFragment(rawURL)]
	return ok
}

func stripFragment(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		return rawURL[:idx]
	}
	return rawURL
}

type queuedLink struct {
	link prodfind.CrawlLink
	seq  uint64
}

// linkHeap implements heap.Interface as a min-heap on (depth, push order).
type linkHeap []queuedLink

func (h linkHeap) Len() int { return len(h) }

func (h linkHeap) Less(i, j int) bool {
	if h[i].link.Depth != h[j].link.Depth {
		return h[i].link.Depth < h[j].link.Depth
	}
	return h[i].seq < h[j].seq
}

func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	q, _ := x.(queuedLink)
	*h = append(*h, q)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

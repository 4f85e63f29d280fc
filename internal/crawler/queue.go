package crawler

// Entry is a page awaiting expansion
type Entry struct {
	URL   string
	Name  string
	Depth int
}

// Frontier implements the BFS queue with URL deduplication.
// Each URL is accepted at most once per crawl.
type Frontier struct {
	items   []Entry
	visited map[string]bool
}

// NewFrontier creates an empty frontier
func NewFrontier() *Frontier {
	return &Frontier{
		items:   make([]Entry, 0),
		visited: make(map[string]bool),
	}
}

// Push marks the entry's URL visited and enqueues it.
// Returns true if added, false if the URL was already visited.
func (f *Frontier) Push(entry Entry) bool {
	if f.visited[entry.URL] {
		return false
	}

	f.visited[entry.URL] = true
	f.items = append(f.items, entry)
	return true
}

// Pop removes and returns the oldest entry.
// Returns (empty, false) when the frontier is empty.
func (f *Frontier) Pop() (Entry, bool) {
	if len(f.items) == 0 {
		return Entry{}, false
	}

	entry := f.items[0]
	f.items[0] = Entry{}
	f.items = f.items[1:]
	return entry, true
}

// Visited reports whether url was ever pushed
func (f *Frontier) Visited(url string) bool {
	return f.visited[url]
}

// IsEmpty returns true if no entries await expansion
func (f *Frontier) IsEmpty() bool {
	return len(f.items) == 0
}

// Size returns the number of entries awaiting expansion
func (f *Frontier) Size() int {
	return len(f.items)
}

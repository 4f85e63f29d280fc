package crawler

// budget enforces the crawl-wide and per-page caps on new vertices
type budget struct {
	total   int
	perPage int // 0 means unlimited

	found int // new vertices found during the whole crawl
	local int // new vertices found while expanding the current page
}

func newBudget(total, perPage int) *budget {
	return &budget{
		total:   total,
		perPage: perPage,
	}
}

// startPage resets the per-page counter before a page is expanded
func (b *budget) startPage() {
	b.local = 0
}

// canAdd checks whether another vertex may still be discovered from the current page.
// Does NOT modify state - use add() to register the vertex.
func (b *budget) canAdd() bool {
	if b.exhausted() {
		return false
	}
	return b.perPage == 0 || b.local < b.perPage
}

// add registers a newly discovered vertex
func (b *budget) add() {
	b.found++
	b.local++
}

// exhausted reports whether the crawl-wide budget is spent
func (b *budget) exhausted() bool {
	return b.found >= b.total
}

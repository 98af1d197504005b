package repositories

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 50
)

// Page is a zero-indexed offset window: rows From..From+Limit-1.
type Page struct {
	From  int
	Limit int
}

// NewPage turns 1-based page/limit query values into a window. Out of range
// values fall back to page 1 and defaultLimit.
func NewPage(page, limit, defaultLimit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageLimit {
		limit = defaultLimit
	}
	return Page{From: (page - 1) * limit, Limit: limit}
}

// Window applies p to a slice that is already sorted.
func Window[T any](items []T, p Page) []T {
	if p.From >= len(items) {
		return []T{}
	}
	end := p.From + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.From:end]
}

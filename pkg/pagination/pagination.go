// Package pagination slices ordered lists into pages and picks the window of
// page numbers shown as navigation links.
package pagination

// DefaultWindow is the number of page links rendered around the current page.
const DefaultWindow = 5

// PageCount returns ceil(n/size). It is 0 for an empty collection.
func PageCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Items returns the 1-based page of items. Pages past the end, and page
// numbers below 1, yield an empty slice. The page is capped at its own
// length, so appending to it never writes into the next page.
func Items[T any](items []T, size, page int) []T {
	if size <= 0 || page < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := min(start+size, len(items))
	return items[start:end:end]
}

// Links returns the inclusive range of page numbers to render as links.
//
// With at most window pages every page is shown. Otherwise the range starts
// at page 1 while current is within the first window/2 pages, is centered on
// current while current <= total-window/2, and is pinned to the last window
// pages after that. An empty collection yields (1, 0).
func Links(total, current, window int) (first, last int) {
	if window <= 0 {
		window = DefaultWindow
	}
	half := window / 2

	switch {
	case total <= window:
		return 1, total
	case current <= half:
		return 1, window
	case current <= total-half:
		return current - half, current + half
	default:
		return total - window + 1, total
	}
}

// Page is one page of an ordered collection plus the data views need to
// render navigation.
type Page[T any] struct {
	Items      []T
	Current    int
	TotalPages int
	TotalItems int
	LinkFirst  int
	LinkLast   int
}

// New builds the page for current. current is assumed validated.
func New[T any](items []T, size, current, window int) Page[T] {
	total := PageCount(len(items), size)
	first, last := Links(total, current, window)
	return Page[T]{
		Items:      Items(items, size, current),
		Current:    current,
		TotalPages: total,
		TotalItems: len(items),
		LinkFirst:  first,
		LinkLast:   last,
	}
}

// Numbers lists the page numbers between LinkFirst and LinkLast.
func (p Page[T]) Numbers() []int {
	if p.LinkLast < p.LinkFirst {
		return nil
	}
	out := make([]int, 0, p.LinkLast-p.LinkFirst+1)
	for n := p.LinkFirst; n <= p.LinkLast; n++ {
		out = append(out, n)
	}
	return out
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Current > 1 }

// HasNext reports whether a next page exists.
func (p Page[T]) HasNext() bool { return p.Current < p.TotalPages }

// Prev returns the previous page number.
func (p Page[T]) Prev() int { return p.Current - 1 }

// Next returns the next page number.
func (p Page[T]) Next() int { return p.Current + 1 }

package model

import "fmt"

// Default paging parameters for list endpoints.
const (
	DefaultFrom = 0
	DefaultSize = 10
)

// Page is a zero-based page of fixed size.
type Page struct {
	Number int
	Size   int
}

// NewPage converts a (from, size) pair into a page. The page number is
// from/size, so from is rounded down to a multiple of size.
func NewPage(from, size int) (Page, error) {
	if from < 0 {
		return Page{}, fmt.Errorf("from must not be negative, got %d", from)
	}
	if size <= 0 {
		return Page{}, fmt.Errorf("size must be positive, got %d", size)
	}
	return Page{Number: from / size, Size: size}, nil
}

// Offset returns the index of the first row on the page.
func (p Page) Offset() int {
	return p.Number * p.Size
}

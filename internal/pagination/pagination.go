// Package pagination orders section documents by date, splits them into
// fixed-size pages and groups archive pages by year and month.
package pagination

import (
	"sort"
	"strconv"

	"git.home.luguber.info/inful/blogbuilder/internal/docmodel"
)

// Mode selects how a section is split into pages.
type Mode int

const (
	// Paged splits documents into pages of a fixed size.
	Paged Mode = iota
	// Single keeps every document on one page.
	Single
)

// SortByDate orders docs newest first by their sort key. Documents with
// equal keys keep their input order.
func SortByDate(docs []*docmodel.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].SortKey() > docs[j].SortKey()
	})
}

// Pages is a paginated view over an ordered slice.
type Pages[T any] struct {
	items []T
	size  int
	mode  Mode
}

// Paginate splits items into pages of pageSize. A pageSize below 1 is
// treated as 1.
func Paginate[T any](items []T, pageSize int, mode Mode) Pages[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	return Pages[T]{items: items, size: pageSize, mode: mode}
}

// Count is the number of pages; zero items yield zero pages.
func (p Pages[T]) Count() int {
	if len(p.items) == 0 {
		return 0
	}
	if p.mode == Single {
		return 1
	}
	return (len(p.items) + p.size - 1) / p.size
}

// Page returns the items on 1-indexed page n, or nil when n is out of range.
func (p Pages[T]) Page(n int) []T {
	if n < 1 || n > p.Count() {
		return nil
	}
	if p.mode == Single {
		return p.items
	}
	start := (n - 1) * p.size
	end := start + p.size
	if end > len(p.items) {
		end = len(p.items)
	}
	return p.items[start:end]
}

// Total is the number of items across all pages.
func (p Pages[T]) Total() int { return len(p.items) }

// FileName is the output file for page n of a section: name.html for the
// first page, name-N.html after that.
func FileName(name string, n int) string {
	if n <= 1 {
		return name + ".html"
	}
	return name + "-" + strconv.Itoa(n) + ".html"
}

// Link is one entry of a pagination bar.
type Link struct {
	Number int
	Href   string
	Active bool
}

// Links builds the bar for page current of a section with count pages.
func Links(name string, count, current int) []Link {
	links := make([]Link, 0, count)
	for n := 1; n <= count; n++ {
		links = append(links, Link{Number: n, Href: FileName(name, n), Active: n == current})
	}
	return links
}

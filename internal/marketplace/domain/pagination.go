package domain

import (
	"regexp"
	"strings"
)

const (
	DefaultPage = 1
	DefaultTake = 20
	MaxTake     = 100
	// MaxPage keeps (Page-1)*Take far from int64 overflow.
	MaxPage = 1 << 20
)

// PageRequest is the shared list input.
type PageRequest struct {
	Page    int64
	Take    int64
	Keyword string
}

// Normalize fills defaults and clamps page and take.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Take < 1 {
		p.Take = DefaultTake
	}
	if p.Take > MaxTake {
		p.Take = MaxTake
	}
	p.Keyword = strings.TrimSpace(p.Keyword)
	return p
}

// Skip is the number of rows before the page.
func (p PageRequest) Skip() int64 {
	p = p.Normalize()
	return (p.Page - 1) * p.Take
}

// Page is the shared list output.
type Page[T any] struct {
	List       []T
	TotalCount int64
	TotalPages int64
}

// NewPage wraps a list with its totals.
func NewPage[T any](list []T, totalCount int64, req PageRequest) Page[T] {
	req = req.Normalize()
	if list == nil {
		list = []T{}
	}
	return Page[T]{
		List:       list,
		TotalCount: totalCount,
		TotalPages: TotalPages(totalCount, req.Take),
	}
}

// TotalPages is ceil(total/take).
func TotalPages(total, take int64) int64 {
	if take <= 0 || total <= 0 {
		return 0
	}
	return (total + take - 1) / take
}

// KeywordPattern turns space-separated terms into an alternation regex.
// Terms are quoted so user input is never interpreted as a pattern.
func KeywordPattern(keyword string) string {
	terms := strings.Fields(keyword)
	for i, t := range terms {
		terms[i] = regexp.QuoteMeta(t)
	}
	return strings.Join(terms, "|")
}

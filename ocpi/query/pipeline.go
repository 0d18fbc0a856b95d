package query

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"evocpi/entity"
	"evocpi/ocpi"
)

const loopbackBase = "http://127.0.0.1"

// Predicate selects records by the free-text match term
type Predicate[T entity.Record] func(record T, term string) bool

// Endpoint locates the listing for continuation links
type Endpoint struct {
	BaseUrl string
	Path    string
}

func (e Endpoint) url(values string) string {
	base := strings.TrimRight(e.BaseUrl, "/")
	if base == "" {
		base = loopbackBase
	}
	path := e.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s%s?%s", base, path, values)
}

// Page is one window of a listing together with counters computed from the
// same snapshot
type Page[T entity.Record] struct {
	Items    []T
	Total    int
	Filtered int
	Limit    *int
	Next     string
}

// Run applies match, date window, creation order and offset/limit to a
// registry snapshot
func Run[T entity.Record](all []T, match Predicate[T], filter Filter, endpoint Endpoint) Page[T] {
	selected := make([]T, 0, len(all))
	for _, record := range all {
		if filter.Match != "" && match != nil && !match(record, filter.Match) {
			continue
		}
		if !filter.InWindow(record.Updated()) {
			continue
		}
		selected = append(selected, record)
	}
	slices.SortStableFunc(selected, func(a, b T) int {
		return a.Created().Compare(b.Created())
	})

	page := Page[T]{
		Total:    len(all),
		Filtered: len(selected),
		Limit:    filter.Limit,
	}

	start := min(filter.Offset, len(selected))
	end := len(selected)
	if filter.Limit != nil {
		// compared as remaining counts so huge limits cannot overflow
		if *filter.Limit < end-start {
			end = start + *filter.Limit
		}
		if filter.Offset < len(selected) && *filter.Limit < len(selected)-filter.Offset {
			next := filter.Offset + *filter.Limit
			page.Next = fmt.Sprintf("<%s>; rel=\"next\"", endpoint.url(filter.Values(next).Encode()))
		}
	}
	page.Items = selected[start:end]
	return page
}

// Headers renders the counters and the continuation link
func (p Page[T]) Headers() http.Header {
	header := http.Header{}
	header.Set(ocpi.HeaderTotalCount, strconv.Itoa(p.Total))
	header.Set(ocpi.HeaderFilteredCount, strconv.Itoa(p.Filtered))
	if p.Limit != nil {
		header.Set(ocpi.HeaderLimit, strconv.Itoa(*p.Limit))
	}
	if p.Next != "" {
		header.Set(ocpi.HeaderLink, p.Next)
	}
	return header
}

// Response wraps the page into a success envelope
func (p Page[T]) Response() *ocpi.Response {
	return ocpi.Success(p.Items).WithHeaders(p.Headers())
}

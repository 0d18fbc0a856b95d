package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	paramDateFrom = "date_from"
	paramDateTo   = "date_to"
	paramOffset   = "offset"
	paramLimit    = "limit"
	paramMatch    = "match"
)

// Filter is the pagination window of one listing request. A nil Limit
// returns every matching record.
type Filter struct {
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  *int
	Match  string
}

// ParseFilter reads the listing parameters; values that do not parse are
// treated as absent
func ParseFilter(values url.Values) Filter {
	f := Filter{
		From:  parseTime(values.Get(paramDateFrom)),
		To:    parseTime(values.Get(paramDateTo)),
		Match: strings.TrimSpace(values.Get(paramMatch)),
	}
	if offset, err := strconv.Atoi(values.Get(paramOffset)); err == nil && offset > 0 {
		f.Offset = offset
	}
	if limit, err := strconv.Atoi(values.Get(paramLimit)); err == nil && limit > 0 {
		f.Limit = &limit
	}
	return f
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// InWindow keeps a timestamp iff From < t <= To
func (f Filter) InWindow(t time.Time) bool {
	if f.From != nil && !t.After(*f.From) {
		return false
	}
	if f.To != nil && t.After(*f.To) {
		return false
	}
	return true
}

// Values encodes the filter for a continuation link starting at offset
func (f Filter) Values(offset int) url.Values {
	values := url.Values{}
	if f.From != nil {
		values.Set(paramDateFrom, f.From.UTC().Format(time.RFC3339Nano))
	}
	if f.To != nil {
		values.Set(paramDateTo, f.To.UTC().Format(time.RFC3339Nano))
	}
	if f.Match != "" {
		values.Set(paramMatch, f.Match)
	}
	values.Set(paramOffset, strconv.Itoa(offset))
	if f.Limit != nil {
		values.Set(paramLimit, strconv.Itoa(*f.Limit))
	}
	return values
}

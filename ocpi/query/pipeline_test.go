package query

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"testing"
	"time"

	"evocpi/entity"
	"evocpi/ocpi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func locations(n int) []*entity.Location {
	result := make([]*entity.Location, 0, n)
	for i := 0; i < n; i++ {
		result = append(result, &entity.Location{
			Id:          fmt.Sprintf("LOC%03d", i),
			Name:        fmt.Sprintf("Station %d", i),
			City:        "Madrid",
			Publish:     true,
			CreatedAt:   t0.Add(time.Duration(i) * time.Minute),
			LastUpdated: t0.Add(time.Duration(i) * time.Minute),
		})
	}
	return result
}

func ids(items []*entity.Location) []string {
	result := make([]string, 0, len(items))
	for _, l := range items {
		result = append(result, l.Id)
	}
	return result
}

func intPtr(i int) *int {
	return &i
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func match(l *entity.Location, term string) bool {
	return l.Matches(term)
}

var endpoint = Endpoint{BaseUrl: "https://cpo.example.com", Path: "/ocpi/cpo/2.2/locations"}

func TestRun_LastPageWithoutLink(t *testing.T) {
	all := locations(150)
	page := Run(all, match, Filter{Offset: 100, Limit: intPtr(50)}, endpoint)

	require.Len(t, page.Items, 50)
	assert.Equal(t, "LOC100", page.Items[0].Id)
	assert.Equal(t, "LOC149", page.Items[49].Id)
	assert.Equal(t, 150, page.Total)
	assert.Equal(t, 150, page.Filtered)
	assert.Empty(t, page.Next)

	headers := page.Headers()
	assert.Equal(t, "150", headers.Get(ocpi.HeaderTotalCount))
	assert.Equal(t, "150", headers.Get(ocpi.HeaderFilteredCount))
	assert.Equal(t, "50", headers.Get(ocpi.HeaderLimit))
	assert.Empty(t, headers.Get(ocpi.HeaderLink))
}

func TestRun_OrdersByCreation(t *testing.T) {
	all := locations(5)
	shuffled := []*entity.Location{all[3], all[0], all[4], all[1], all[2]}

	page := Run(shuffled, match, Filter{}, endpoint)

	assert.Equal(t, []string{"LOC000", "LOC001", "LOC002", "LOC003", "LOC004"}, ids(page.Items))
}

func TestRun_StableForEqualCreation(t *testing.T) {
	all := locations(3)
	for _, l := range all {
		l.CreatedAt = t0
	}
	page := Run([]*entity.Location{all[2], all[0], all[1]}, match, Filter{}, endpoint)

	assert.Equal(t, []string{"LOC002", "LOC000", "LOC001"}, ids(page.Items))
}

func TestRun_FilteredCountIgnoresWindow(t *testing.T) {
	all := locations(40)
	filter := Filter{
		From:  timePtr(t0.Add(9 * time.Minute)),
		To:    timePtr(t0.Add(29 * time.Minute)),
		Match: "station",
	}
	// records 10..29 pass the date window
	for _, offset := range []int{0, 5, 19, 20, 100} {
		for _, limit := range []*int{nil, intPtr(1), intPtr(7), intPtr(50)} {
			f := filter
			f.Offset = offset
			f.Limit = limit
			page := Run(all, match, f, endpoint)
			assert.Equal(t, 20, page.Filtered, "offset %d", offset)
			assert.Equal(t, 40, page.Total)
		}
	}
}

func TestRun_WindowBounds(t *testing.T) {
	all := locations(3)
	filter := Filter{
		From: timePtr(all[0].LastUpdated),
		To:   timePtr(all[2].LastUpdated),
	}
	page := Run(all, match, filter, endpoint)

	assert.Equal(t, []string{"LOC001", "LOC002"}, ids(page.Items))
}

func TestRun_Match(t *testing.T) {
	all := locations(12)
	page := Run(all, match, Filter{Match: "STATION 1"}, endpoint)

	// Station 1, 10, 11
	assert.Equal(t, []string{"LOC001", "LOC010", "LOC011"}, ids(page.Items))
	assert.Equal(t, 3, page.Filtered)
	assert.Equal(t, 12, page.Total)
}

func TestRun_ContinuationLink(t *testing.T) {
	all := locations(150)
	page := Run(all, match, Filter{Offset: 20, Limit: intPtr(50), Match: "station"}, endpoint)

	require.Len(t, page.Items, 50)
	require.NotEmpty(t, page.Next)
	assert.True(t, strings.HasSuffix(page.Next, `>; rel="next"`))

	raw := strings.TrimSuffix(strings.TrimPrefix(page.Next, "<"), `>; rel="next"`)
	link, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "cpo.example.com", link.Host)
	assert.Equal(t, "/ocpi/cpo/2.2/locations", link.Path)
	assert.Equal(t, "70", link.Query().Get("offset"))
	assert.Equal(t, "50", link.Query().Get("limit"))
	assert.Equal(t, "station", link.Query().Get("match"))
}

func TestRun_LinkOnlyWhenMoreRecords(t *testing.T) {
	all := locations(10)
	cases := []struct {
		offset, limit int
		link          bool
	}{
		{0, 5, true},
		{5, 5, false},
		{4, 5, true},
		{0, 10, false},
		{0, 20, false},
		{12, 5, false},
	}
	for _, c := range cases {
		page := Run(all, match, Filter{Offset: c.offset, Limit: intPtr(c.limit)}, endpoint)
		assert.Equal(t, c.link, page.Next != "", "offset %d limit %d", c.offset, c.limit)
	}
}

func TestRun_HugeLimit(t *testing.T) {
	all := locations(5)
	for _, offset := range []int{0, 1, 4, 5, math.MaxInt} {
		var page Page[*entity.Location]
		require.NotPanics(t, func() {
			page = Run(all, match, Filter{Offset: offset, Limit: intPtr(math.MaxInt)}, endpoint)
		}, "offset %d", offset)
		assert.Len(t, page.Items, max(0, 5-min(offset, 5)), "offset %d", offset)
		assert.Empty(t, page.Next, "offset %d", offset)
		assert.Equal(t, 5, page.Filtered)
	}
}

func TestRun_LinkKeepsSubSecondWindow(t *testing.T) {
	all := append(locations(6), &entity.Location{
		Id:          "EARLY",
		CreatedAt:   t0.Add(time.Hour),
		LastUpdated: t0.Add(30*time.Second + 200*time.Millisecond),
	})
	// EARLY falls inside the same second as the window start but before it
	from := t0.Add(30*time.Second + 500*time.Millisecond)
	first := Run(all, match, Filter{From: &from, Limit: intPtr(1)}, endpoint)
	require.NotEmpty(t, first.Next)
	assert.Equal(t, 5, first.Filtered)

	raw := strings.TrimSuffix(strings.TrimPrefix(first.Next, "<"), `>; rel="next"`)
	link, err := url.Parse(raw)
	require.NoError(t, err)
	next := ParseFilter(link.Query())
	require.NotNil(t, next.From)
	assert.True(t, next.From.Equal(from))

	second := Run(all, match, next, endpoint)
	assert.Equal(t, first.Filtered, second.Filtered)
	assert.Equal(t, []string{"LOC002"}, ids(second.Items))
}

func TestRun_NoLimitNoLink(t *testing.T) {
	page := Run(locations(10), match, Filter{Offset: 3}, endpoint)

	assert.Len(t, page.Items, 7)
	assert.Empty(t, page.Next)
	assert.Empty(t, page.Headers().Get(ocpi.HeaderLimit))
}

func TestRun_OffsetBeyondEnd(t *testing.T) {
	page := Run(locations(3), match, Filter{Offset: 10, Limit: intPtr(2)}, endpoint)

	assert.Empty(t, page.Items)
	assert.Equal(t, 3, page.Filtered)
}

func TestEndpoint_LoopbackFallback(t *testing.T) {
	e := Endpoint{Path: "tariffs"}
	assert.Equal(t, "http://127.0.0.1/tariffs?offset=1", e.url("offset=1"))
}

func TestPage_Response(t *testing.T) {
	page := Run(locations(4), match, Filter{Limit: intPtr(2)}, endpoint)
	resp := page.Response()

	assert.Equal(t, ocpi.StatusSuccess, resp.StatusCode)
	assert.Equal(t, 200, resp.TransportStatus)
	assert.Len(t, resp.Data, 2)
	assert.NotEmpty(t, resp.Headers.Get(ocpi.HeaderLink))
}

package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const epochDate = "1970-01-01"

// ParseTimestamp parses an RFC 3339 timestamp as reported by the GitHub API.
// The boolean is false when the value is empty or unparseable.
func ParseTimestamp(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// FormatTimestamp renders t the way timestamps appear in the document,
// second precision UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// dayOf extracts the UTC calendar date from a discovery timestamp. Values
// that do not parse fall back to their leading date portion when one is
// present, else to the epoch date, so aggregation never fails on bad input.
func dayOf(value string) string {
	if t, ok := ParseTimestamp(value); ok {
		return t.Format("2006-01-02")
	}
	if len(strings.TrimSpace(value)) >= len(epochDate) {
		return strings.TrimSpace(value)[:len(epochDate)]
	}
	return epochDate
}

// sortKey orders features by parsed discovery time then issue number.
// Unparseable timestamps sort as epoch zero.
func sortKey(f Feature) (time.Time, int) {
	t, ok := ParseTimestamp(f.DateDiscovered)
	if !ok {
		t = time.Unix(0, 0).UTC()
	}
	return t, f.IssueNumber
}

// Build assembles a validated dashboard document from classified features.
// Features are sorted ascending by (discovery time, issue number), bucketed
// into a per-day time series with a running cumulative count, and broken down
// by category sorted by descending count then name. A count mismatch between
// the summary, the time series and the breakdown is an internal error.
func Build(features []Feature, now time.Time) (*Document, error) {
	sorted := make([]Feature, len(features))
	copy(sorted, features)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, ni := sortKey(sorted[i])
		tj, nj := sortKey(sorted[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return ni < nj
	})

	total := len(sorted)

	countsByDate := make(map[string]int)
	for _, f := range sorted {
		countsByDate[dayOf(f.DateDiscovered)]++
	}
	days := make([]string, 0, len(countsByDate))
	for day := range countsByDate {
		days = append(days, day)
	}
	sort.Strings(days)

	rows := make([]TimeSeriesRow, 0, len(days))
	cumulative := 0
	for _, day := range days {
		cumulative += countsByDate[day]
		rows = append(rows, TimeSeriesRow{
			Date:       day,
			Count:      countsByDate[day],
			Cumulative: cumulative,
		})
	}

	countsByArea := make(map[string]int)
	for _, f := range sorted {
		countsByArea[f.ProductArea]++
	}
	areas := make([]NamedCount, 0, len(countsByArea))
	for name, count := range countsByArea {
		areas = append(areas, NamedCount{Name: name, Count: count})
	}
	sort.Slice(areas, func(i, j int) bool {
		if areas[i].Count != areas[j].Count {
			return areas[i].Count > areas[j].Count
		}
		return areas[i].Name < areas[j].Name
	})

	doc := &Document{
		GeneratedAt: FormatTimestamp(now),
		Summary:     Summary{TotalFeatures: total},
		TimeSeries:  TimeSeries{Rows: rows, Total: total},
		SourceBreakdown: SourceBreakdown{
			Sources: []NamedCount{{Name: "issue", Count: total}},
		},
		ProductAreaBreakdown: ProductAreaBreakdown{ProductAreas: areas},
		Features:             sorted,
		ContentChecks:        []any{},
		Gaps:                 []any{},
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// validate checks that the feature count is consistent across the summary,
// the time series and the product area breakdown.
func (d *Document) validate() error {
	n := len(d.Features)
	if d.Summary.TotalFeatures != n {
		return fmt.Errorf("dashboard validation failed: summary.total_features %d != %d features",
			d.Summary.TotalFeatures, n)
	}
	if d.TimeSeries.Total != n {
		return fmt.Errorf("dashboard validation failed: time_series.total %d != %d features",
			d.TimeSeries.Total, n)
	}
	areaSum := 0
	for _, a := range d.ProductAreaBreakdown.ProductAreas {
		areaSum += a.Count
	}
	if areaSum != n {
		return fmt.Errorf("dashboard validation failed: product area counts sum to %d, want %d",
			areaSum, n)
	}
	return nil
}

// Package dashboard defines the dashboard document produced by the
// generators: the per-issue Feature record, the aggregate Document shape
// consumed by the static front end, the keyword classifier and the
// deterministic aggregation that assembles a validated document.
package dashboard

import "fmt"

// Feature is one classified issue record. It is constructed once per issue
// per run and only lives until the output document has been written.
type Feature struct {
	IssueNumber    int    `json:"-"`
	ID             string `json:"id"`
	Title          string `json:"title"`
	State          string `json:"state,omitempty"`
	SourceType     string `json:"source_type"`
	ProductArea    string `json:"product_area"`
	SourceURL      string `json:"source_url"`
	DateDiscovered string `json:"date_discovered"`
}

// FeatureID returns the stable dashboard identifier for an issue number.
func FeatureID(number int) string {
	return fmt.Sprintf("microsoft_learn_issue_%d", number)
}

// Summary holds the document-level totals.
type Summary struct {
	TotalFeatures int `json:"total_features"`
}

// TimeSeriesRow is one calendar-day bucket with a running cumulative count.
type TimeSeriesRow struct {
	Date       string `json:"date"`
	Count      int    `json:"count"`
	Cumulative int    `json:"cumulative"`
}

// TimeSeries is the date-ordered discovery histogram.
type TimeSeries struct {
	Rows  []TimeSeriesRow `json:"time_series"`
	Total int             `json:"total"`
}

// NamedCount is a (name, count) row used by the breakdown sections.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SourceBreakdown groups features by source type.
type SourceBreakdown struct {
	Sources []NamedCount `json:"sources"`
}

// ProductAreaBreakdown groups features by category label.
type ProductAreaBreakdown struct {
	ProductAreas []NamedCount `json:"product_areas"`
}

// Document is the dashboard JSON artifact rendered by the static front end.
// ContentChecks and Gaps are reserved for future sections and always emitted
// as empty arrays.
type Document struct {
	GeneratedAt          string               `json:"generated_at"`
	Summary              Summary              `json:"summary"`
	TimeSeries           TimeSeries           `json:"time_series"`
	SourceBreakdown      SourceBreakdown      `json:"source_breakdown"`
	ProductAreaBreakdown ProductAreaBreakdown `json:"product_area_breakdown"`
	Features             []Feature            `json:"features"`
	ContentChecks        []any                `json:"content_checks"`
	Gaps                 []any                `json:"gaps"`
}

// Package timeline holds the ephemeral read models produced by the
// aggregation endpoints: the merged health timeline, the dashboard summary
// and the vitals statistics. Nothing in this package is persisted.
package timeline

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/healthmate-pk/healthmate-api/internal/domain/report"
	"github.com/healthmate-pk/healthmate-api/internal/domain/vitals"
)

// Kind discriminates the two record streams merged into the timeline.
type Kind string

const (
	KindReport Kind = "report"
	KindVitals Kind = "vitals"
)

// RecordFilter is the requested slice of the timeline: reports only,
// vitals only, or both merged.
type RecordFilter string

const (
	FilterReports RecordFilter = "reports"
	FilterVitals  RecordFilter = "vitals"
	FilterAll     RecordFilter = "all"
)

// Normalize maps an absent filter to "all" and rejects unknown values.
func (f RecordFilter) Normalize() (RecordFilter, bool) {
	switch f {
	case "", FilterAll:
		return FilterAll, true
	case FilterReports, FilterVitals:
		return f, true
	}
	return "", false
}

type ReportData struct {
	FileName    string            `json:"fileName"`
	FileURL     string            `json:"fileUrl"`
	ReportType  report.Type       `json:"reportType"`
	FileSize    int64             `json:"fileSize"`
	MimeType    string            `json:"mimeType"`
	IsProcessed bool              `json:"isProcessed"`
	AIInsight   *report.AIInsight `json:"aiInsight"`
}

type VitalsData struct {
	BloodPressure *vitals.BloodPressure `json:"bloodPressure"`
	BloodSugar    *vitals.BloodSugar    `json:"bloodSugar"`
	Weight        *vitals.Weight        `json:"weight"`
	Notes         string                `json:"notes,omitempty"`
}

// Item is one entry of the merged timeline: a tagged union over a report
// or a vitals measurement. Exactly one of Report/Vitals is non-nil,
// matching Kind.
type Item struct {
	ID       uuid.UUID `json:"id"`
	Kind     Kind      `json:"type"`
	Date     time.Time `json:"date"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`

	Report *ReportData `json:"-"`
	Vitals *VitalsData `json:"-"`
}

// Data returns the kind-specific payload for serialization.
func (i *Item) Data() any {
	if i.Kind == KindReport {
		return i.Report
	}
	return i.Vitals
}

// MarshalJSON flattens the union into the wire shape
// {id, type, date, title, subtitle, data}.
func (i Item) MarshalJSON() ([]byte, error) {
	type alias Item
	return json.Marshal(struct {
		alias
		Data any `json:"data"`
	}{alias(i), i.Data()})
}

func NewReportItem(r *report.Report) Item {
	return Item{
		ID:       r.ID,
		Kind:     KindReport,
		Date:     r.UploadDate,
		Title:    r.FileName,
		Subtitle: ReportSubtitle(r.Type),
		Report: &ReportData{
			FileName:    r.FileName,
			FileURL:     r.StorageURL,
			ReportType:  r.Type,
			FileSize:    r.FileSize,
			MimeType:    r.MimeType,
			IsProcessed: r.IsProcessed,
			AIInsight:   r.AIInsight,
		},
	}
}

func NewVitalsItem(e *vitals.Entry) Item {
	return Item{
		ID:       e.ID,
		Kind:     KindVitals,
		Date:     e.MeasurementDate,
		Title:    "Health Vitals",
		Subtitle: VitalsSubtitle(e),
		Vitals: &VitalsData{
			BloodPressure: e.BloodPressure,
			BloodSugar:    e.BloodSugar,
			Weight:        e.Weight,
			Notes:         e.Notes,
		},
	}
}

// ReportSubtitle renders a report type as a display label,
// e.g. "x-ray" -> "X-RAY Report".
func ReportSubtitle(t report.Type) string {
	return strings.ToUpper(strings.ReplaceAll(string(t), "-", " ")) + " Report"
}

// VitalsSubtitle summarizes whichever measurements an entry carries,
// e.g. "BP: 120/80 | Sugar: 95 mg/dL | Weight: 70 kg". Entries with no
// measurements render as "Health measurements".
func VitalsSubtitle(e *vitals.Entry) string {
	var parts []string

	if e.HasBloodPressure() {
		parts = append(parts, fmt.Sprintf("BP: %d/%d", e.BloodPressure.Systolic, e.BloodPressure.Diastolic))
	}

	if e.HasBloodSugar() {
		unit := e.BloodSugar.Unit
		if unit == "" {
			unit = "mg/dL"
		}
		parts = append(parts, fmt.Sprintf("Sugar: %s %s", formatValue(e.BloodSugar.Value), unit))
	}

	if e.HasWeight() {
		unit := e.Weight.Unit
		if unit == "" {
			unit = "kg"
		}
		parts = append(parts, fmt.Sprintf("Weight: %s %s", formatValue(e.Weight.Value), unit))
	}

	if len(parts) == 0 {
		return "Health measurements"
	}
	return strings.Join(parts, " | ")
}

// formatValue renders a measurement without a trailing ".0" for whole
// numbers (70 -> "70", 70.5 -> "70.5").
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SortDescending orders items most-recent-first by display date. The sort
// is stable: when two items share a date, their relative input order is
// kept, so repeated identical queries return identical sequences.
func SortDescending(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
}

// Page slices the merged sequence for combined pagination. skip beyond the
// end yields an empty page.
func Page(items []Item, skip, limit int) []Item {
	if skip >= len(items) {
		return []Item{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

// Pagination is the metadata block returned with every timeline page.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewPagination computes the metadata from the truncation basis: total is
// whichever count the page was cut from, returned is the page length.
func NewPagination(page, limit, returned int, total int64) Pagination {
	skip := (page - 1) * limit
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNext:     int64(skip+returned) < total,
		HasPrev:     page > 1,
	}
}

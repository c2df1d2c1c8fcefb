package timeline

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmate-pk/healthmate-api/internal/domain/report"
	"github.com/healthmate-pk/healthmate-api/internal/domain/vitals"
)

func TestRecordFilterNormalize(t *testing.T) {
	tests := []struct {
		in    RecordFilter
		want  RecordFilter
		valid bool
	}{
		{"", FilterAll, true},
		{FilterAll, FilterAll, true},
		{FilterReports, FilterReports, true},
		{FilterVitals, FilterVitals, true},
		{"report", "", false},
		{"everything", "", false},
	}

	for _, tt := range tests {
		got, ok := tt.in.Normalize()
		assert.Equal(t, tt.valid, ok, "filter %q", tt.in)
		assert.Equal(t, tt.want, got, "filter %q", tt.in)
	}
}

func TestReportSubtitle(t *testing.T) {
	assert.Equal(t, "X RAY Report", ReportSubtitle(report.TypeXRay))
	assert.Equal(t, "BLOOD TEST Report", ReportSubtitle(report.TypeBloodTest))
	assert.Equal(t, "MRI Report", ReportSubtitle(report.TypeMRI))
}

func TestVitalsSubtitle(t *testing.T) {
	t.Run("all measurements", func(t *testing.T) {
		e := &vitals.Entry{
			BloodPressure: &vitals.BloodPressure{Systolic: 120, Diastolic: 80},
			BloodSugar:    &vitals.BloodSugar{Value: 95, Unit: "mg/dL"},
			Weight:        &vitals.Weight{Value: 70, Unit: "kg"},
		}
		assert.Equal(t, "BP: 120/80 | Sugar: 95 mg/dL | Weight: 70 kg", VitalsSubtitle(e))
	})

	t.Run("weight only", func(t *testing.T) {
		e := &vitals.Entry{Weight: &vitals.Weight{Value: 70}}
		assert.Equal(t, "Weight: 70 kg", VitalsSubtitle(e))
	})

	t.Run("fractional values keep precision", func(t *testing.T) {
		e := &vitals.Entry{Weight: &vitals.Weight{Value: 70.5, Unit: "kg"}}
		assert.Equal(t, "Weight: 70.5 kg", VitalsSubtitle(e))
	})

	t.Run("missing units use defaults", func(t *testing.T) {
		e := &vitals.Entry{BloodSugar: &vitals.BloodSugar{Value: 5.6}}
		assert.Equal(t, "Sugar: 5.6 mg/dL", VitalsSubtitle(e))
	})

	t.Run("partial blood pressure is skipped", func(t *testing.T) {
		e := &vitals.Entry{BloodPressure: &vitals.BloodPressure{Systolic: 120}}
		assert.Equal(t, "Health measurements", VitalsSubtitle(e))
	})

	t.Run("no measurements", func(t *testing.T) {
		assert.Equal(t, "Health measurements", VitalsSubtitle(&vitals.Entry{}))
	})
}

func TestSortDescending(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
	}

	items := []Item{
		{ID: uuid.New(), Kind: KindVitals, Date: day(1)},
		{ID: uuid.New(), Kind: KindReport, Date: day(5)},
		{ID: uuid.New(), Kind: KindVitals, Date: day(3)},
	}

	SortDescending(items)

	require.Len(t, items, 3)
	assert.Equal(t, day(5), items[0].Date)
	assert.Equal(t, day(3), items[1].Date)
	assert.Equal(t, day(1), items[2].Date)
}

func TestSortDescendingStableOnTies(t *testing.T) {
	date := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := uuid.New()
	second := uuid.New()

	items := []Item{
		{ID: first, Kind: KindReport, Date: date},
		{ID: second, Kind: KindVitals, Date: date},
	}

	SortDescending(items)

	assert.Equal(t, first, items[0].ID)
	assert.Equal(t, second, items[1].ID)
}

func TestPage(t *testing.T) {
	items := make([]Item, 12)
	for i := range items {
		items[i].Date = time.Date(2026, 1, 12-i, 0, 0, 0, 0, time.UTC)
	}

	t.Run("middle page", func(t *testing.T) {
		page := Page(items, 5, 5)
		require.Len(t, page, 5)
		assert.Equal(t, items[5], page[0])
	})

	t.Run("last partial page", func(t *testing.T) {
		page := Page(items, 10, 5)
		assert.Len(t, page, 2)
	})

	t.Run("skip beyond end", func(t *testing.T) {
		page := Page(items, 20, 5)
		assert.Empty(t, page)
	})
}

func TestNewPagination(t *testing.T) {
	t.Run("middle page has both directions", func(t *testing.T) {
		p := NewPagination(2, 5, 5, 12)
		assert.Equal(t, 2, p.CurrentPage)
		assert.Equal(t, 3, p.TotalPages)
		assert.Equal(t, int64(12), p.TotalItems)
		assert.True(t, p.HasNext)
		assert.True(t, p.HasPrev)
	})

	t.Run("last page", func(t *testing.T) {
		p := NewPagination(3, 5, 2, 12)
		assert.False(t, p.HasNext)
		assert.True(t, p.HasPrev)
	})

	t.Run("first page", func(t *testing.T) {
		p := NewPagination(1, 5, 5, 12)
		assert.True(t, p.HasNext)
		assert.False(t, p.HasPrev)
	})

	t.Run("single page", func(t *testing.T) {
		p := NewPagination(1, 20, 3, 3)
		assert.Equal(t, 1, p.TotalPages)
		assert.False(t, p.HasNext)
		assert.False(t, p.HasPrev)
	})
}

func TestItemMarshalJSON(t *testing.T) {
	e := &vitals.Entry{
		ID:              uuid.New(),
		Weight:          &vitals.Weight{Value: 70, Unit: "kg"},
		MeasurementDate: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(NewVitalsItem(e))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "vitals", decoded["type"])
	assert.Equal(t, "Health Vitals", decoded["title"])
	assert.Equal(t, "Weight: 70 kg", decoded["subtitle"])

	data, ok := decoded["data"].(map[string]any)
	require.True(t, ok)
	weight, ok := data["weight"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 70.0, weight["value"])
}

func TestLastActivity(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("both present picks newer", func(t *testing.T) {
		assert.Equal(t, &newer, LastActivity(&older, &newer))
		assert.Equal(t, &newer, LastActivity(&newer, &older))
	})

	t.Run("one side only", func(t *testing.T) {
		assert.Equal(t, &older, LastActivity(&older, nil))
		assert.Equal(t, &older, LastActivity(nil, &older))
	})

	t.Run("both nil", func(t *testing.T) {
		assert.Nil(t, LastActivity(nil, nil))
	})
}

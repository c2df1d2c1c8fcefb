package timeline

import (
	"time"

	"github.com/healthmate-pk/healthmate-api/internal/domain/vitals"
)

// VitalsStats is the per-category latest/average/trend summary over a
// trailing window.
type VitalsStats struct {
	TotalEntries  int                `json:"totalEntries"`
	BloodPressure BloodPressureStats `json:"bloodPressure"`
	BloodSugar    BloodSugarStats    `json:"bloodSugar"`
	Weight        WeightStats        `json:"weight"`
}

type BloodPressureAverage struct {
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
}

type BloodPressurePoint struct {
	Date      time.Time `json:"date"`
	Systolic  int       `json:"systolic"`
	Diastolic int       `json:"diastolic"`
}

type BloodPressureStats struct {
	Latest  *vitals.BloodPressure `json:"latest"`
	Average *BloodPressureAverage `json:"average"`
	Trends  []BloodPressurePoint  `json:"trends"`
}

type BloodSugarPoint struct {
	Date  time.Time               `json:"date"`
	Value float64                 `json:"value"`
	Type  vitals.SugarMeasurement `json:"type"`
}

type BloodSugarStats struct {
	Latest  *vitals.BloodSugar `json:"latest"`
	Average *float64           `json:"average"`
	Trends  []BloodSugarPoint  `json:"trends"`
}

type WeightPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

type WeightStats struct {
	Latest  *vitals.Weight `json:"latest"`
	Average *float64       `json:"average"`
	Trends  []WeightPoint  `json:"trends"`
}

// ComputeStats derives the statistics from entries sorted ascending by
// measurement date. Each category considers only entries carrying that
// category's values; "latest" is the last matching entry, "average" the
// mean over matches, "trends" the full matching series in input order.
// Categories with no matches keep nil latest/average and empty trends.
func ComputeStats(entries []*vitals.Entry) *VitalsStats {
	stats := &VitalsStats{
		TotalEntries: len(entries),
		BloodPressure: BloodPressureStats{Trends: []BloodPressurePoint{}},
		BloodSugar:    BloodSugarStats{Trends: []BloodSugarPoint{}},
		Weight:        WeightStats{Trends: []WeightPoint{}},
	}

	var sumSys, sumDia float64
	var sumSugar, sumWeight float64

	for _, e := range entries {
		if e.HasBloodPressure() {
			stats.BloodPressure.Latest = e.BloodPressure
			stats.BloodPressure.Trends = append(stats.BloodPressure.Trends, BloodPressurePoint{
				Date:      e.MeasurementDate,
				Systolic:  e.BloodPressure.Systolic,
				Diastolic: e.BloodPressure.Diastolic,
			})
			sumSys += float64(e.BloodPressure.Systolic)
			sumDia += float64(e.BloodPressure.Diastolic)
		}

		if e.HasBloodSugar() {
			stats.BloodSugar.Latest = e.BloodSugar
			stats.BloodSugar.Trends = append(stats.BloodSugar.Trends, BloodSugarPoint{
				Date:  e.MeasurementDate,
				Value: e.BloodSugar.Value,
				Type:  e.BloodSugar.Type,
			})
			sumSugar += e.BloodSugar.Value
		}

		if e.HasWeight() {
			stats.Weight.Latest = e.Weight
			stats.Weight.Trends = append(stats.Weight.Trends, WeightPoint{
				Date:  e.MeasurementDate,
				Value: e.Weight.Value,
			})
			sumWeight += e.Weight.Value
		}
	}

	if n := len(stats.BloodPressure.Trends); n > 0 {
		stats.BloodPressure.Average = &BloodPressureAverage{
			Systolic:  sumSys / float64(n),
			Diastolic: sumDia / float64(n),
		}
	}
	if n := len(stats.BloodSugar.Trends); n > 0 {
		avg := sumSugar / float64(n)
		stats.BloodSugar.Average = &avg
	}
	if n := len(stats.Weight.Trends); n > 0 {
		avg := sumWeight / float64(n)
		stats.Weight.Average = &avg
	}

	return stats
}

package timeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/healthmate-pk/healthmate-api/internal/domain/report"
	"github.com/healthmate-pk/healthmate-api/internal/domain/vitals"
)

// Dashboard is the rolling-window health summary for one owner.
type Dashboard struct {
	Summary       Summary           `json:"summary"`
	RecentReports []ReportSummary   `json:"recentReports"`
	RecentVitals  []VitalsSummary   `json:"recentVitals"`
	ReportsByType []report.TypeCount `json:"reportsByType"`
	LatestVitals  *LatestVitals     `json:"latestVitals"`
}

type Summary struct {
	TotalReports       int64      `json:"totalReports"`
	TotalVitals        int64      `json:"totalVitals"`
	TotalFamilyMembers int64      `json:"totalFamilyMembers"`
	RecentReportsCount int        `json:"recentReportsCount"`
	RecentVitalsCount  int        `json:"recentVitalsCount"`
	AbnormalCount      int        `json:"abnormalValuesCount"`
	LastActivity       *time.Time `json:"lastActivity"`
	Period             string     `json:"period"`
}

type ReportSummary struct {
	ID                uuid.UUID   `json:"id"`
	FileName          string      `json:"fileName"`
	ReportType        report.Type `json:"reportType"`
	UploadDate        time.Time   `json:"uploadDate"`
	IsProcessed       bool        `json:"isProcessed"`
	HasAbnormalValues bool        `json:"hasAbnormalValues"`
}

type VitalsSummary struct {
	ID              uuid.UUID             `json:"id"`
	MeasurementDate time.Time             `json:"measurementDate"`
	BloodPressure   *vitals.BloodPressure `json:"bloodPressure"`
	BloodSugar      *vitals.BloodSugar    `json:"bloodSugar"`
	Weight          *vitals.Weight        `json:"weight"`
}

// LatestVitals is the most recent measurement snapshot, taken regardless
// of the dashboard window.
type LatestVitals struct {
	BloodPressure   *vitals.BloodPressure `json:"bloodPressure"`
	BloodSugar      *vitals.BloodSugar    `json:"bloodSugar"`
	Weight          *vitals.Weight        `json:"weight"`
	MeasurementDate time.Time             `json:"measurementDate"`
}

func SummarizeReport(r *report.Report) ReportSummary {
	return ReportSummary{
		ID:                r.ID,
		FileName:          r.FileName,
		ReportType:        r.Type,
		UploadDate:        r.UploadDate,
		IsProcessed:       r.IsProcessed,
		HasAbnormalValues: r.HasAbnormalValues(),
	}
}

func SummarizeVitals(e *vitals.Entry) VitalsSummary {
	return VitalsSummary{
		ID:              e.ID,
		MeasurementDate: e.MeasurementDate,
		BloodPressure:   e.BloodPressure,
		BloodSugar:      e.BloodSugar,
		Weight:          e.Weight,
	}
}

// LastActivity picks the most recent of the two stream dates. Either side
// may be nil; both nil yields nil.
func LastActivity(lastReport, lastVitals *time.Time) *time.Time {
	switch {
	case lastReport != nil && lastVitals != nil:
		if lastReport.After(*lastVitals) {
			return lastReport
		}
		return lastVitals
	case lastReport != nil:
		return lastReport
	case lastVitals != nil:
		return lastVitals
	}
	return nil
}

package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/healthmate-pk/healthmate-api/internal/domain"
)

type Type string

const (
	TypeBloodTest  Type = "blood-test"
	TypeUrineTest  Type = "urine-test"
	TypeXRay       Type = "x-ray"
	TypeCTScan     Type = "ct-scan"
	TypeMRI        Type = "mri"
	TypeECG        Type = "ecg"
	TypeUltrasound Type = "ultrasound"
	TypeOther      Type = "other"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeBloodTest, TypeUrineTest, TypeXRay, TypeCTScan, TypeMRI, TypeECG, TypeUltrasound, TypeOther:
		return true
	}
	return false
}

// Report is an uploaded medical report file. The binary lives in object
// storage; this record holds its metadata plus the optional AI insight
// attached after analysis.
type Report struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	UserID         uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index:idx_reports_user_uploaded,priority:1" json:"-"`
	FamilyMemberID *uuid.UUID       `gorm:"column:family_member_id;type:uuid;index" json:"familyMemberId,omitempty"`
	BelongsTo      domain.BelongsTo `gorm:"column:belongs_to;type:varchar(10);not null;default:'user'" json:"belongsTo"`

	FileName   string `gorm:"column:file_name;type:varchar(255);not null" json:"fileName"`
	StorageURL string `gorm:"column:storage_url;type:text;not null" json:"fileUrl"`
	StorageKey string `gorm:"column:storage_key;type:varchar(500);not null" json:"-"`
	Type       Type   `gorm:"column:report_type;type:varchar(20);not null;index" json:"reportType"`
	FileSize   int64  `gorm:"column:file_size;not null" json:"fileSize"`
	MimeType   string `gorm:"column:mime_type;type:varchar(100);not null" json:"mimeType"`

	UploadDate  time.Time `gorm:"column:upload_date;not null;index:idx_reports_user_uploaded,priority:2,sort:desc" json:"uploadDate"`
	IsProcessed bool      `gorm:"column:is_processed;default:false" json:"isProcessed"`

	AIInsightID *uuid.UUID `gorm:"column:ai_insight_id;type:uuid" json:"-"`
	AIInsight   *AIInsight `gorm:"foreignKey:AIInsightID" json:"aiInsight,omitempty"`

	// Resolved at read time for list responses; not a stored column.
	FamilyMemberName         string `gorm:"-" json:"familyMemberName,omitempty"`
	FamilyMemberRelationship string `gorm:"-" json:"familyMemberRelationship,omitempty"`
}

func (Report) TableName() string {
	return "health.reports"
}

func (r *Report) HasAbnormalValues() bool {
	return r.AIInsight != nil && len(r.AIInsight.AbnormalValues) > 0
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type AbnormalValue struct {
	Parameter   string   `json:"parameter"`
	Value       string   `json:"value"`
	NormalRange string   `json:"normalRange"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

type DoctorQuestion struct {
	Question string   `json:"question"`
	Priority Priority `json:"priority"`
}

type FoodToAvoid struct {
	Food   string `json:"food"`
	Reason string `json:"reason"`
}

type FoodToInclude struct {
	Food    string `json:"food"`
	Benefit string `json:"benefit"`
}

type FoodRecommendations struct {
	Avoid   []FoodToAvoid   `json:"avoid"`
	Include []FoodToInclude `json:"include"`
}

// AIInsight is the generated summary of one report. Exactly one per
// processed report; replaced wholesale when analysis is retried.
type AIInsight struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`

	ReportID       uuid.UUID        `gorm:"column:report_id;type:uuid;not null;index" json:"-"`
	UserID         uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index" json:"-"`
	FamilyMemberID *uuid.UUID       `gorm:"column:family_member_id;type:uuid" json:"-"`
	BelongsTo      domain.BelongsTo `gorm:"column:belongs_to;type:varchar(10);not null;default:'user'" json:"-"`

	SummaryEnglish   string `gorm:"column:summary_english;type:varchar(2000);not null" json:"summaryEnglish"`
	SummaryRomanUrdu string `gorm:"column:summary_roman_urdu;type:varchar(2000);not null" json:"summaryRomanUrdu"`

	AbnormalValues      []AbnormalValue     `gorm:"column:abnormal_values;serializer:json" json:"abnormalValues"`
	DoctorQuestions     []DoctorQuestion    `gorm:"column:doctor_questions;serializer:json" json:"doctorQuestions"`
	FoodRecommendations FoodRecommendations `gorm:"column:food_recommendations;serializer:json" json:"foodRecommendations"`

	Disclaimer string `gorm:"column:disclaimer;type:text;not null" json:"disclaimer"`

	ProcessingDate time.Time `gorm:"column:processing_date;not null" json:"processingDate"`
	Model          string    `gorm:"column:model;type:varchar(50)" json:"model,omitempty"`
	Confidence     float64   `gorm:"column:confidence" json:"confidence,omitempty"`
}

func (AIInsight) TableName() string {
	return "health.ai_insights"
}

// RangeQuery selects reports for one owner with optional date and family
// member bounds, sorted by upload date. Skip/Limit of zero mean "from the
// start" and "no limit".
type RangeQuery struct {
	UserID         uuid.UUID
	FamilyMemberID *uuid.UUID
	From           *time.Time
	To             *time.Time
	Ascending      bool
	Skip           int
	Limit          int
	WithInsight    bool
}

type ListReportsQuery struct {
	UserID         uuid.UUID
	FamilyMemberID *uuid.UUID
	Type           *Type
	Page           int
	PageSize       int
}

type PagedReports struct {
	Reports    []*Report
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}

// TypeCount is one bucket of the reports-by-type aggregation.
type TypeCount struct {
	Type  Type  `json:"type"`
	Count int64 `json:"count"`
}

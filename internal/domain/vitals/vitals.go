package vitals

import (
	"time"

	"github.com/google/uuid"

	"github.com/healthmate-pk/healthmate-api/internal/domain"
)

type SugarMeasurement string

const (
	SugarFasting  SugarMeasurement = "fasting"
	SugarPostMeal SugarMeasurement = "post-meal"
	SugarRandom   SugarMeasurement = "random"
	SugarHbA1c    SugarMeasurement = "hba1c"
)

func (m SugarMeasurement) IsValid() bool {
	switch m {
	case SugarFasting, SugarPostMeal, SugarRandom, SugarHbA1c:
		return true
	}
	return false
}

type BloodPressure struct {
	Systolic  int    `json:"systolic"`
	Diastolic int    `json:"diastolic"`
	Unit      string `json:"unit"`
}

type BloodSugar struct {
	Value float64          `json:"value"`
	Unit  string           `json:"unit"`
	Type  SugarMeasurement `json:"type"`
}

type Weight struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Entry is a single vitals measurement. Each sub-record is optional; an
// entry may carry any combination of blood pressure, blood sugar and weight.
type Entry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	UserID         uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index:idx_vitals_user_measured,priority:1" json:"-"`
	FamilyMemberID *uuid.UUID       `gorm:"column:family_member_id;type:uuid;index" json:"familyMemberId,omitempty"`
	BelongsTo      domain.BelongsTo `gorm:"column:belongs_to;type:varchar(10);not null;default:'user'" json:"belongsTo"`

	BloodPressure *BloodPressure `gorm:"column:blood_pressure;serializer:json" json:"bloodPressure,omitempty"`
	BloodSugar    *BloodSugar    `gorm:"column:blood_sugar;serializer:json" json:"bloodSugar,omitempty"`
	Weight        *Weight        `gorm:"column:weight;serializer:json" json:"weight,omitempty"`

	Notes string `gorm:"column:notes;type:varchar(1000)" json:"notes,omitempty"`

	MeasurementDate time.Time `gorm:"column:measurement_date;not null;index:idx_vitals_user_measured,priority:2,sort:desc" json:"measurementDate"`

	// Resolved at read time for list responses; not a stored column.
	FamilyMemberName         string `gorm:"-" json:"familyMemberName,omitempty"`
	FamilyMemberRelationship string `gorm:"-" json:"familyMemberRelationship,omitempty"`
}

func (Entry) TableName() string {
	return "health.vitals"
}

// HasBloodPressure reports whether both pressure values are recorded.
// A partial reading (only systolic or only diastolic) does not count.
func (e *Entry) HasBloodPressure() bool {
	return e.BloodPressure != nil && e.BloodPressure.Systolic != 0 && e.BloodPressure.Diastolic != 0
}

func (e *Entry) HasBloodSugar() bool {
	return e.BloodSugar != nil && e.BloodSugar.Value != 0
}

func (e *Entry) HasWeight() bool {
	return e.Weight != nil && e.Weight.Value != 0
}

type CreateEntryCommand struct {
	UserID          uuid.UUID
	FamilyMemberID  *uuid.UUID
	BloodPressure   *BloodPressure
	BloodSugar      *BloodSugar
	Weight          *Weight
	Notes           string
	MeasurementDate time.Time
}

type UpdateEntryCommand struct {
	BloodPressure   *BloodPressure
	BloodSugar      *BloodSugar
	Weight          *Weight
	Notes           *string
	MeasurementDate *time.Time
}

// RangeQuery selects entries for one owner with optional date and family
// member bounds. Skip/Limit of zero mean "from the start" and "no limit".
type RangeQuery struct {
	UserID         uuid.UUID
	FamilyMemberID *uuid.UUID
	From           *time.Time
	To             *time.Time
	Ascending      bool
	Skip           int
	Limit          int
}

type ListEntriesQuery struct {
	UserID         uuid.UUID
	FamilyMemberID *uuid.UUID
	From           *time.Time
	To             *time.Time
	Page           int
	PageSize       int
}

type PagedEntries struct {
	Entries    []*Entry
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}

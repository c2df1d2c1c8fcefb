package family

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

type Relationship string

const (
	RelationshipSelf        Relationship = "self"
	RelationshipSpouse      Relationship = "spouse"
	RelationshipChild       Relationship = "child"
	RelationshipParent      Relationship = "parent"
	RelationshipSibling     Relationship = "sibling"
	RelationshipGrandparent Relationship = "grandparent"
	RelationshipGrandchild  Relationship = "grandchild"
	RelationshipUncle       Relationship = "uncle"
	RelationshipAunt        Relationship = "aunt"
	RelationshipCousin      Relationship = "cousin"
	RelationshipNephew      Relationship = "nephew"
	RelationshipNiece       Relationship = "niece"
	RelationshipOther       Relationship = "other"
)

func (r Relationship) IsValid() bool {
	switch r {
	case RelationshipSelf, RelationshipSpouse, RelationshipChild, RelationshipParent,
		RelationshipSibling, RelationshipGrandparent, RelationshipGrandchild,
		RelationshipUncle, RelationshipAunt, RelationshipCousin,
		RelationshipNephew, RelationshipNiece, RelationshipOther:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type BloodGroup string

const (
	BloodGroupAPos    BloodGroup = "A+"
	BloodGroupANeg    BloodGroup = "A-"
	BloodGroupBPos    BloodGroup = "B+"
	BloodGroupBNeg    BloodGroup = "B-"
	BloodGroupABPos   BloodGroup = "AB+"
	BloodGroupABNeg   BloodGroup = "AB-"
	BloodGroupOPos    BloodGroup = "O+"
	BloodGroupONeg    BloodGroup = "O-"
	BloodGroupUnknown BloodGroup = "unknown"
)

func (b BloodGroup) IsValid() bool {
	switch b {
	case BloodGroupAPos, BloodGroupANeg, BloodGroupBPos, BloodGroupBNeg,
		BloodGroupABPos, BloodGroupABNeg, BloodGroupOPos, BloodGroupONeg,
		BloodGroupUnknown:
		return true
	}
	return false
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// ValidPhone reports whether the value is 10 to 15 digits with an
// optional leading plus.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

type AllergySeverity string

const (
	AllergyMild     AllergySeverity = "mild"
	AllergyModerate AllergySeverity = "moderate"
	AllergySevere   AllergySeverity = "severe"
)

type Allergy struct {
	Allergen string          `json:"allergen"`
	Severity AllergySeverity `json:"severity"`
	Notes    string          `json:"notes,omitempty"`
}

type ConditionStatus string

const (
	ConditionActive   ConditionStatus = "active"
	ConditionInactive ConditionStatus = "inactive"
	ConditionResolved ConditionStatus = "resolved"
)

type MedicalCondition struct {
	Condition     string          `json:"condition"`
	DiagnosedDate *time.Time      `json:"diagnosedDate,omitempty"`
	Status        ConditionStatus `json:"status"`
	Notes         string          `json:"notes,omitempty"`
}

type Medication struct {
	Name         string     `json:"name"`
	Dosage       string     `json:"dosage,omitempty"`
	Frequency    string     `json:"frequency,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	PrescribedBy string     `json:"prescribedBy,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// IsActive reports whether the medication is current: no end date, or an
// end date still in the future.
func (m Medication) IsActive(now time.Time) bool {
	return m.EndDate == nil || m.EndDate.After(now)
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
}

// Member is a family member profile managed by one user. Deleting a member
// only flips IsActive; their health records stay queryable.
type Member struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	ManagedBy uuid.UUID `gorm:"column:managed_by;type:uuid;not null;index:idx_family_managed_active,priority:1" json:"-"`

	Name         string       `gorm:"column:name;type:varchar(50);not null" json:"name"`
	Relationship Relationship `gorm:"column:relationship;type:varchar(20);not null;index" json:"relationship"`
	DateOfBirth  time.Time    `gorm:"column:date_of_birth;not null" json:"dateOfBirth"`
	Gender       Gender       `gorm:"column:gender;type:varchar(10);not null" json:"gender"`

	Phone string `gorm:"column:phone;type:varchar(20)" json:"phone,omitempty"`
	Email string `gorm:"column:email;type:varchar(255)" json:"email,omitempty"`

	BloodGroup        BloodGroup         `gorm:"column:blood_group;type:varchar(10);default:'unknown'" json:"bloodGroup"`
	Allergies         []Allergy          `gorm:"column:allergies;serializer:json" json:"allergies"`
	MedicalConditions []MedicalCondition `gorm:"column:medical_conditions;serializer:json" json:"medicalConditions"`
	Medications       []Medication       `gorm:"column:medications;serializer:json" json:"medications"`

	EmergencyContact *EmergencyContact `gorm:"column:emergency_contact;serializer:json" json:"emergencyContact,omitempty"`

	IsActive bool   `gorm:"column:is_active;default:true;index:idx_family_managed_active,priority:2" json:"isActive"`
	Notes    string `gorm:"column:notes;type:varchar(1000)" json:"notes,omitempty"`
}

func (Member) TableName() string {
	return "health.family_members"
}

// Age is derived from the date of birth at read time, never stored.
func (m *Member) Age() int {
	now := time.Now()
	years := now.Year() - m.DateOfBirth.Year()
	if now.Month() < m.DateOfBirth.Month() ||
		(now.Month() == m.DateOfBirth.Month() && now.Day() < m.DateOfBirth.Day()) {
		years--
	}
	return years
}

func (m *Member) ActiveConditions() []MedicalCondition {
	var active []MedicalCondition
	for _, c := range m.MedicalConditions {
		if c.Status == ConditionActive {
			active = append(active, c)
		}
	}
	return active
}

func (m *Member) ActiveMedications(now time.Time) []Medication {
	var active []Medication
	for _, med := range m.Medications {
		if med.IsActive(now) {
			active = append(active, med)
		}
	}
	return active
}

type CreateMemberCommand struct {
	ManagedBy         uuid.UUID
	Name              string
	Relationship      Relationship
	DateOfBirth       time.Time
	Gender            Gender
	Phone             string
	Email             string
	BloodGroup        BloodGroup
	Allergies         []Allergy
	MedicalConditions []MedicalCondition
	Medications       []Medication
	EmergencyContact  *EmergencyContact
	Notes             string
}

type UpdateMemberCommand struct {
	Name              *string
	Relationship      *Relationship
	DateOfBirth       *time.Time
	Gender            *Gender
	Phone             *string
	Email             *string
	BloodGroup        *BloodGroup
	Allergies         *[]Allergy
	MedicalConditions *[]MedicalCondition
	Medications       *[]Medication
	EmergencyContact  *EmergencyContact
	Notes             *string
}

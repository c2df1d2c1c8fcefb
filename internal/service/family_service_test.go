package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/healthmate-pk/healthmate-api/internal/domain/family"
	"github.com/healthmate-pk/healthmate-api/internal/domain/report"
	"github.com/healthmate-pk/healthmate-api/internal/domain/vitals"
)

func newFamilyService(members *mockFamilyRepo, reports *mockReportRepo, entries *mockVitalsRepo) *FamilyService {
	return NewFamilyService(members, reports, entries, &mockUserRepo{}, zap.NewNop())
}

func TestCreateFamilyMember(t *testing.T) {
	userID := uuid.New()

	var created *family.Member
	members := &mockFamilyRepo{
		CreateFn: func(_ context.Context, m *family.Member) error {
			m.ID = uuid.New()
			created = m
			return nil
		},
	}

	svc := newFamilyService(members, &mockReportRepo{}, &mockVitalsRepo{})

	member, err := svc.Create(context.Background(), &family.CreateMemberCommand{
		ManagedBy:    userID,
		Name:         " Bilal ",
		Relationship: family.RelationshipChild,
		DateOfBirth:  time.Date(2018, 6, 15, 0, 0, 0, 0, time.UTC),
		Gender:       family.GenderMale,
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "Bilal", member.Name)
	assert.Equal(t, family.BloodGroupUnknown, member.BloodGroup, "missing blood group defaults to unknown")
	assert.True(t, member.IsActive)
}

func TestCreateFamilyMemberValidation(t *testing.T) {
	svc := newFamilyService(&mockFamilyRepo{}, &mockReportRepo{}, &mockVitalsRepo{})

	_, err := svc.Create(context.Background(), &family.CreateMemberCommand{
		ManagedBy:    uuid.New(),
		Name:         "",
		Relationship: "roommate",
		DateOfBirth:  time.Now().AddDate(1, 0, 0),
		Gender:       "unspecified",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
}

func TestCreateFamilyMemberPhoneFormat(t *testing.T) {
	svc := newFamilyService(&mockFamilyRepo{}, &mockReportRepo{}, &mockVitalsRepo{})

	base := func() *family.CreateMemberCommand {
		return &family.CreateMemberCommand{
			ManagedBy:    uuid.New(),
			Name:         "Bilal",
			Relationship: family.RelationshipChild,
			DateOfBirth:  time.Date(2018, 6, 15, 0, 0, 0, 0, time.UTC),
			Gender:       family.GenderMale,
		}
	}

	t.Run("garbage phone is rejected", func(t *testing.T) {
		cmd := base()
		cmd.Phone = "not-a-phone-number!!"
		_, err := svc.Create(context.Background(), cmd)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 1)
	})

	t.Run("too short", func(t *testing.T) {
		cmd := base()
		cmd.Phone = "12345"
		_, err := svc.Create(context.Background(), cmd)
		assert.Error(t, err)
	})

	t.Run("international format accepted", func(t *testing.T) {
		cmd := base()
		cmd.Phone = "+923001234567"
		_, err := svc.Create(context.Background(), cmd)
		assert.NoError(t, err)
	})
}

func TestOverviewCountsOwnerAsMember(t *testing.T) {
	userID := uuid.New()
	child := &family.Member{
		ID:           uuid.New(),
		ManagedBy:    userID,
		Name:         "Bilal",
		Relationship: family.RelationshipChild,
		DateOfBirth:  time.Date(2018, 6, 15, 0, 0, 0, 0, time.UTC),
		IsActive:     true,
	}
	parent := &family.Member{
		ID:           uuid.New(),
		ManagedBy:    userID,
		Name:         "Abdul",
		Relationship: family.RelationshipParent,
		DateOfBirth:  time.Date(1955, 1, 2, 0, 0, 0, 0, time.UTC),
		IsActive:     true,
		MedicalConditions: []family.MedicalCondition{
			{Condition: "Type 2 Diabetes", Status: family.ConditionActive},
			{Condition: "Pneumonia", Status: family.ConditionResolved},
		},
		Medications: []family.Medication{
			{Name: "Metformin"},
		},
	}

	lastReport := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	members := &mockFamilyRepo{
		ListActiveFn: func(_ context.Context, _ uuid.UUID) ([]*family.Member, error) {
			return []*family.Member{child, parent}, nil
		},
	}
	reports := &mockReportRepo{
		CountFn: func(_ context.Context, q *report.RangeQuery) (int64, error) {
			require.NotNil(t, q.FamilyMemberID)
			if *q.FamilyMemberID == parent.ID {
				return 4, nil
			}
			return 1, nil
		},
		LatestUploadDateFn: func(_ context.Context, _ uuid.UUID, memberID *uuid.UUID) (*time.Time, error) {
			if memberID != nil && *memberID == parent.ID {
				return &lastReport, nil
			}
			return nil, nil
		},
	}
	entries := &mockVitalsRepo{
		CountFn: func(_ context.Context, q *vitals.RangeQuery) (int64, error) {
			require.NotNil(t, q.FamilyMemberID)
			return 2, nil
		},
	}

	svc := newFamilyService(members, reports, entries)

	overview, err := svc.Overview(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 3, overview.TotalMembers, "account owner counts as a member")
	require.Len(t, overview.Members, 2)

	assert.Equal(t, "Bilal", overview.Members[0].Name)
	assert.Equal(t, int64(1), overview.Members[0].ReportsCount)
	assert.Nil(t, overview.Members[0].LastReportDate)

	assert.Equal(t, "Abdul", overview.Members[1].Name)
	assert.Equal(t, int64(4), overview.Members[1].ReportsCount)
	assert.Equal(t, int64(2), overview.Members[1].VitalsCount)
	assert.Equal(t, &lastReport, overview.Members[1].LastReportDate)
	assert.Equal(t, 1, overview.Members[1].ActiveConditions)
	assert.Equal(t, 1, overview.Members[1].ActiveMedications)
}

func TestGetHealthSummary(t *testing.T) {
	userID := uuid.New()
	memberID := uuid.New()

	ended := time.Now().AddDate(0, -1, 0)
	member := &family.Member{
		ID:           memberID,
		ManagedBy:    userID,
		Name:         "Abdul",
		Relationship: family.RelationshipParent,
		DateOfBirth:  time.Date(1955, 1, 2, 0, 0, 0, 0, time.UTC),
		BloodGroup:   family.BloodGroupOPos,
		IsActive:     true,
		Allergies:    []family.Allergy{{Allergen: "Penicillin", Severity: family.AllergySevere}},
		MedicalConditions: []family.MedicalCondition{
			{Condition: "Type 2 Diabetes", Status: family.ConditionActive},
		},
		Medications: []family.Medication{
			{Name: "Metformin"},
			{Name: "Amoxicillin", EndDate: &ended},
		},
	}

	uploadDate := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	measuredAt := time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC)

	members := &mockFamilyRepo{
		GetActiveByIDFn: func(_ context.Context, id, managedBy uuid.UUID) (*family.Member, error) {
			assert.Equal(t, memberID, id)
			assert.Equal(t, userID, managedBy)
			return member, nil
		},
	}
	reports := &mockReportRepo{
		FindRangeFn: func(_ context.Context, q *report.RangeQuery) ([]*report.Report, error) {
			assert.Equal(t, 5, q.Limit)
			require.NotNil(t, q.FamilyMemberID)
			return []*report.Report{
				{ID: uuid.New(), FileName: "hba1c.pdf", Type: report.TypeBloodTest, UploadDate: uploadDate},
			}, nil
		},
	}
	entries := &mockVitalsRepo{
		FindRangeFn: func(_ context.Context, q *vitals.RangeQuery) ([]*vitals.Entry, error) {
			assert.Equal(t, 5, q.Limit)
			return []*vitals.Entry{
				{ID: uuid.New(), BloodSugar: &vitals.BloodSugar{Value: 110, Type: vitals.SugarFasting}, MeasurementDate: measuredAt},
			}, nil
		},
	}

	svc := newFamilyService(members, reports, entries)

	summary, err := svc.GetHealthSummary(context.Background(), memberID, userID)
	require.NoError(t, err)

	assert.Equal(t, "Abdul", summary.Member.Name)
	assert.Equal(t, family.BloodGroupOPos, summary.Member.BloodGroup)

	assert.Len(t, summary.MedicalInfo.Allergies, 1)
	assert.Len(t, summary.MedicalInfo.ActiveConditions, 1)
	require.Len(t, summary.MedicalInfo.ActiveMedications, 1, "ended medications are excluded")
	assert.Equal(t, "Metformin", summary.MedicalInfo.ActiveMedications[0].Name)

	assert.Equal(t, 1, summary.RecentActivity.ReportsCount)
	assert.Equal(t, &uploadDate, summary.RecentActivity.LastReportDate)
	assert.Equal(t, &measuredAt, summary.RecentActivity.LastVitalsDate)

	require.Len(t, summary.RecentReports, 1)
	require.Len(t, summary.RecentVitals, 1)
}

func TestUpdateFamilyMemberRejectsBadFields(t *testing.T) {
	svc := newFamilyService(&mockFamilyRepo{}, &mockReportRepo{}, &mockVitalsRepo{})

	bad := family.Relationship("roommate")
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), &family.UpdateMemberCommand{
		Relationship: &bad,
	})
	assert.ErrorIs(t, err, family.ErrInvalidRelationship)

	badPhone := "not-a-phone-number!!"
	_, err = svc.Update(context.Background(), uuid.New(), uuid.New(), &family.UpdateMemberCommand{
		Phone: &badPhone,
	})
	assert.ErrorIs(t, err, family.ErrInvalidPhone)

	badEmail := "not an email"
	_, err = svc.Update(context.Background(), uuid.New(), uuid.New(), &family.UpdateMemberCommand{
		Email: &badEmail,
	})
	assert.ErrorIs(t, err, family.ErrInvalidEmail)
}

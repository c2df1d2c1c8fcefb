package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/healthmate-pk/healthmate-api/internal/domain/family"
	"github.com/healthmate-pk/healthmate-api/internal/domain/report"
	"github.com/healthmate-pk/healthmate-api/internal/domain/timeline"
	"github.com/healthmate-pk/healthmate-api/internal/domain/vitals"
)

const recentRecordsLimit = 5

type FamilyService struct {
	familyRepo family.Repository
	reportRepo report.Repository
	vitalsRepo vitals.Repository
	userRepo   UserRepository
	log        *zap.Logger
}

func NewFamilyService(
	familyRepo family.Repository,
	reportRepo report.Repository,
	vitalsRepo vitals.Repository,
	userRepo UserRepository,
	log *zap.Logger,
) *FamilyService {
	return &FamilyService{
		familyRepo: familyRepo,
		reportRepo: reportRepo,
		vitalsRepo: vitalsRepo,
		userRepo:   userRepo,
		log:        log,
	}
}

func (s *FamilyService) Create(ctx context.Context, cmd *family.CreateMemberCommand) (*family.Member, error) {
	if err := validateMember(cmd); err != nil {
		return nil, err
	}

	member := &family.Member{
		ManagedBy:         cmd.ManagedBy,
		Name:              strings.TrimSpace(cmd.Name),
		Relationship:      cmd.Relationship,
		DateOfBirth:       cmd.DateOfBirth,
		Gender:            cmd.Gender,
		Phone:             cmd.Phone,
		Email:             cmd.Email,
		BloodGroup:        cmd.BloodGroup,
		Allergies:         cmd.Allergies,
		MedicalConditions: cmd.MedicalConditions,
		Medications:       cmd.Medications,
		EmergencyContact:  cmd.EmergencyContact,
		IsActive:          true,
		Notes:             cmd.Notes,
	}
	if member.BloodGroup == "" {
		member.BloodGroup = family.BloodGroupUnknown
	}

	if err := s.familyRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.log.Info("family member added",
		zap.String("user_id", cmd.ManagedBy.String()),
		zap.String("member_id", member.ID.String()),
	)
	return member, nil
}

func (s *FamilyService) Get(ctx context.Context, id, userID uuid.UUID) (*family.Member, error) {
	return s.familyRepo.GetActiveByID(ctx, id, userID)
}

func (s *FamilyService) Update(ctx context.Context, id, userID uuid.UUID, cmd *family.UpdateMemberCommand) (*family.Member, error) {
	if cmd.Relationship != nil && !cmd.Relationship.IsValid() {
		return nil, family.ErrInvalidRelationship
	}
	if cmd.Gender != nil && !cmd.Gender.IsValid() {
		return nil, family.ErrInvalidGender
	}
	if cmd.BloodGroup != nil && !cmd.BloodGroup.IsValid() {
		return nil, family.ErrInvalidBloodGroup
	}
	if cmd.Phone != nil && *cmd.Phone != "" && !family.ValidPhone(*cmd.Phone) {
		return nil, family.ErrInvalidPhone
	}
	if cmd.Email != nil && *cmd.Email != "" {
		if _, err := mail.ParseAddress(*cmd.Email); err != nil {
			return nil, family.ErrInvalidEmail
		}
	}
	return s.familyRepo.Update(ctx, id, userID, cmd)
}

// Delete soft-deletes the member; their health records stay queryable.
func (s *FamilyService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.familyRepo.SoftDelete(ctx, id, userID)
}

func (s *FamilyService) List(ctx context.Context, userID uuid.UUID) ([]*family.Member, error) {
	return s.familyRepo.ListActive(ctx, userID)
}

// MemberOverview is one row of the family overview: a member profile plus
// their record counts and activity dates.
type MemberOverview struct {
	ID                uuid.UUID           `json:"id"`
	Name              string              `json:"name"`
	Relationship      family.Relationship `json:"relationship"`
	Age               int                 `json:"age"`
	BloodGroup        family.BloodGroup   `json:"bloodGroup"`
	ReportsCount      int64               `json:"reportsCount"`
	VitalsCount       int64               `json:"vitalsCount"`
	LastReportDate    *time.Time          `json:"lastReportDate"`
	LastVitalsDate    *time.Time          `json:"lastVitalsDate"`
	ActiveConditions  int                 `json:"activeConditions"`
	ActiveMedications int                 `json:"activeMedications"`
}

type FamilyOverview struct {
	Members      []MemberOverview `json:"familyOverview"`
	TotalMembers int              `json:"totalMembers"`
}

// Overview lists each active member with their record counts, fanned out
// concurrently per member.
func (s *FamilyService) Overview(ctx context.Context, userID uuid.UUID) (*FamilyOverview, error) {
	members, err := s.familyRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rows := make([]MemberOverview, len(members))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range members {
		g.Go(func() error {
			memberID := m.ID
			scope := &report.RangeQuery{UserID: userID, FamilyMemberID: &memberID}
			vitalsScope := &vitals.RangeQuery{UserID: userID, FamilyMemberID: &memberID}

			reportsCount, err := s.reportRepo.Count(gctx, scope)
			if err != nil {
				return err
			}
			vitalsCount, err := s.vitalsRepo.Count(gctx, vitalsScope)
			if err != nil {
				return err
			}
			lastReport, err := s.reportRepo.LatestUploadDate(gctx, userID, &memberID)
			if err != nil {
				return err
			}
			lastVitals, err := s.vitalsRepo.LatestDate(gctx, userID, &memberID)
			if err != nil {
				return err
			}

			rows[i] = MemberOverview{
				ID:                m.ID,
				Name:              m.Name,
				Relationship:      m.Relationship,
				Age:               m.Age(),
				BloodGroup:        m.BloodGroup,
				ReportsCount:      reportsCount,
				VitalsCount:       vitalsCount,
				LastReportDate:    lastReport,
				LastVitalsDate:    lastVitals,
				ActiveConditions:  len(m.ActiveConditions()),
				ActiveMedications: len(m.ActiveMedications(now)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &FamilyOverview{
		Members: rows,
		// The account owner counts as a member of their own family.
		TotalMembers: len(members) + 1,
	}, nil
}

// HealthSummary is the per-member medical snapshot: profile, medical info
// and recent activity.
type HealthSummary struct {
	Member struct {
		ID           uuid.UUID           `json:"id"`
		Name         string              `json:"name"`
		Relationship family.Relationship `json:"relationship"`
		Age          int                 `json:"age"`
		BloodGroup   family.BloodGroup   `json:"bloodGroup"`
	} `json:"familyMember"`
	MedicalInfo struct {
		Allergies         []family.Allergy          `json:"allergies"`
		ActiveConditions  []family.MedicalCondition `json:"activeConditions"`
		ActiveMedications []family.Medication       `json:"activeMedications"`
	} `json:"medicalInfo"`
	RecentActivity struct {
		ReportsCount   int        `json:"reportsCount"`
		VitalsCount    int        `json:"vitalsCount"`
		LastReportDate *time.Time `json:"lastReportDate"`
		LastVitalsDate *time.Time `json:"lastVitalsDate"`
	} `json:"recentActivity"`
	RecentReports []timeline.ReportSummary `json:"recentReports"`
	RecentVitals  []timeline.VitalsSummary `json:"recentVitals"`
}

func (s *FamilyService) GetHealthSummary(ctx context.Context, id, userID uuid.UUID) (*HealthSummary, error) {
	member, err := s.familyRepo.GetActiveByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	memberID := member.ID
	reports, err := s.reportRepo.FindRange(ctx, &report.RangeQuery{
		UserID:         userID,
		FamilyMemberID: &memberID,
		Limit:          recentRecordsLimit,
		WithInsight:    true,
	})
	if err != nil {
		return nil, err
	}

	entries, err := s.vitalsRepo.FindRange(ctx, &vitals.RangeQuery{
		UserID:         userID,
		FamilyMemberID: &memberID,
		Limit:          recentRecordsLimit,
	})
	if err != nil {
		return nil, err
	}

	summary := &HealthSummary{}
	summary.Member.ID = member.ID
	summary.Member.Name = member.Name
	summary.Member.Relationship = member.Relationship
	summary.Member.Age = member.Age()
	summary.Member.BloodGroup = member.BloodGroup

	now := time.Now()
	summary.MedicalInfo.Allergies = member.Allergies
	summary.MedicalInfo.ActiveConditions = member.ActiveConditions()
	summary.MedicalInfo.ActiveMedications = member.ActiveMedications(now)

	summary.RecentActivity.ReportsCount = len(reports)
	summary.RecentActivity.VitalsCount = len(entries)
	if len(reports) > 0 {
		summary.RecentActivity.LastReportDate = &reports[0].UploadDate
	}
	if len(entries) > 0 {
		summary.RecentActivity.LastVitalsDate = &entries[0].MeasurementDate
	}

	summary.RecentReports = make([]timeline.ReportSummary, 0, len(reports))
	for _, r := range reports {
		summary.RecentReports = append(summary.RecentReports, timeline.SummarizeReport(r))
	}
	summary.RecentVitals = make([]timeline.VitalsSummary, 0, len(entries))
	for _, e := range entries {
		summary.RecentVitals = append(summary.RecentVitals, timeline.SummarizeVitals(e))
	}

	return summary, nil
}

func validateMember(cmd *family.CreateMemberCommand) error {
	var fields []string
	if strings.TrimSpace(cmd.Name) == "" {
		fields = append(fields, "name is required")
	}
	if !cmd.Relationship.IsValid() {
		fields = append(fields, "relationship must be a known value")
	}
	if cmd.DateOfBirth.IsZero() || cmd.DateOfBirth.After(time.Now()) {
		fields = append(fields, "date of birth must be in the past")
	}
	if !cmd.Gender.IsValid() {
		fields = append(fields, "gender must be a known value")
	}
	if cmd.BloodGroup != "" && !cmd.BloodGroup.IsValid() {
		fields = append(fields, "blood group must be a known value")
	}
	if cmd.Phone != "" && !family.ValidPhone(cmd.Phone) {
		fields = append(fields, "phone must be 10 to 15 digits with an optional leading +")
	}
	if cmd.Email != "" {
		if _, err := mail.ParseAddress(cmd.Email); err != nil {
			fields = append(fields, "email must be a valid address")
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

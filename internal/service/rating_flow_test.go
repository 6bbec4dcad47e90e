package service

import (
	"context"
	"testing"

	"farmfit/internal/database"
	"farmfit/internal/models"
	"farmfit/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ratingFlowFixture wires real repositories and services over an in-memory
// sqlite database for end-to-end flow tests.
type ratingFlowFixture struct {
	db         *gorm.DB
	ratings    *RatingService
	moderation *ModerationService
	subjects   *SubjectService

	userA uint
	userB uint
	admin uint
}

func newRatingFlowFixture(t *testing.T) *ratingFlowFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	reportRepo := repository.NewReportRepository(db)

	isAdmin := func(ctx context.Context, userID uint) (bool, error) {
		user, err := userRepo.GetByID(ctx, userID)
		if err != nil {
			return false, err
		}
		return user.IsAdmin, nil
	}

	ctx := context.Background()
	userA := &models.User{Username: "owner_a", Email: "a@example.com", Password: "x"}
	userB := &models.User{Username: "owner_b", Email: "b@example.com", Password: "x"}
	adminUser := &models.User{Username: "moderator", Email: "admin@example.com", Password: "x", IsAdmin: true}
	require.NoError(t, userRepo.Create(ctx, userA))
	require.NoError(t, userRepo.Create(ctx, userB))
	require.NoError(t, userRepo.Create(ctx, adminUser))

	return &ratingFlowFixture{
		db:         db,
		ratings:    NewRatingService(ratingRepo, subjectRepo, isAdmin),
		moderation: NewModerationService(reportRepo, ratingRepo, isAdmin),
		subjects:   NewSubjectService(subjectRepo, isAdmin),
		userA:      userA.ID,
		userB:      userB.ID,
		admin:      adminUser.ID,
	}
}

func (f *ratingFlowFixture) approvedPractitioner(t *testing.T) uint {
	t.Helper()
	ctx := context.Background()

	practitioner, err := f.subjects.SubmitPractitioner(ctx, f.userA, SubmitPractitionerInput{
		FullName:  "Dr. Mira Voss",
		Specialty: "small animals",
	})
	require.NoError(t, err)
	require.NoError(t, f.subjects.SetStatus(ctx, f.admin, models.SubjectTypePractitioner, practitioner.ID, models.SubjectStatusApproved))
	return practitioner.ID
}

func TestRatingFlowEndToEnd(t *testing.T) {
	f := newRatingFlowFixture(t)
	ctx := context.Background()
	practitionerID := f.approvedPractitioner(t)

	// User A rates the practitioner.
	rating, err := f.ratings.Submit(ctx, f.userA, SubmitRatingInput{
		SubjectType: models.SubjectTypePractitioner,
		SubjectID:   practitionerID,
		Overall:     4,
		Content:     "Thorough and patient with my cat.",
		Dimensions:  map[string]int{"communication_skills": 5},
	})
	require.NoError(t, err)
	require.NotZero(t, rating.ID)
	require.NotNil(t, rating.Subject)
	assert.Equal(t, "Dr. Mira Voss", rating.Subject.Name)

	summary, err := f.ratings.GetSummary(ctx, models.SubjectTypePractitioner, practitionerID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 4.0, summary.Average)
	assert.Equal(t, 5.0, summary.DimensionAverages["communication_skills"])

	// User B finds the rating helpful.
	action, err := f.ratings.Vote(ctx, f.userB, rating.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.VoteActionCreated, action)

	voted, err := f.ratings.Get(ctx, rating.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.HelpfulCount)

	// User B reports the rating as spam and the admin takes action.
	report, err := f.moderation.Report(ctx, f.userB, rating.ID, models.ReportReasonSpam, "looks like an ad")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, report.Status)

	reviewed, err := f.moderation.Review(ctx, f.admin, report.ID, models.ReportStatusActionTaken, "agreed")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusActionTaken, reviewed.Status)

	flagged, err := f.ratings.Get(ctx, rating.ID)
	require.NoError(t, err)
	assert.True(t, flagged.IsFlagged)
	assert.Equal(t, string(models.ReportReasonSpam), flagged.FlagReason)
}

func TestRatingFlowDuplicateSubmission(t *testing.T) {
	f := newRatingFlowFixture(t)
	ctx := context.Background()
	practitionerID := f.approvedPractitioner(t)

	input := SubmitRatingInput{
		SubjectType: models.SubjectTypePractitioner,
		SubjectID:   practitionerID,
		Overall:     4,
	}
	_, err := f.ratings.Submit(ctx, f.userA, input)
	require.NoError(t, err)

	_, err = f.ratings.Submit(ctx, f.userA, input)
	assertAppErrorCode(t, err, "CONFLICT")

	// A second user rating the same subject is fine.
	_, err = f.ratings.Submit(ctx, f.userB, input)
	require.NoError(t, err)
}

func TestRatingFlowResubmitAfterDelete(t *testing.T) {
	f := newRatingFlowFixture(t)
	ctx := context.Background()
	practitionerID := f.approvedPractitioner(t)

	input := SubmitRatingInput{
		SubjectType: models.SubjectTypePractitioner,
		SubjectID:   practitionerID,
		Overall:     3,
	}
	first, err := f.ratings.Submit(ctx, f.userA, input)
	require.NoError(t, err)
	require.NoError(t, f.ratings.Delete(ctx, f.userA, first.ID))

	// The soft-deleted row must not block a fresh rating.
	second, err := f.ratings.Submit(ctx, f.userA, input)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRatingFlowVoteStateMachine(t *testing.T) {
	f := newRatingFlowFixture(t)
	ctx := context.Background()
	practitionerID := f.approvedPractitioner(t)

	rating, err := f.ratings.Submit(ctx, f.userA, SubmitRatingInput{
		SubjectType: models.SubjectTypePractitioner,
		SubjectID:   practitionerID,
		Overall:     5,
	})
	require.NoError(t, err)

	counts := func() (int, int) {
		current, err := f.ratings.Get(ctx, rating.ID)
		require.NoError(t, err)
		return current.HelpfulCount, current.NotHelpfulCount
	}

	action, err := f.ratings.Vote(ctx, f.userB, rating.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.VoteActionCreated, action)
	helpful, notHelpful := counts()
	assert.Equal(t, 1, helpful)
	assert.Equal(t, 0, notHelpful)

	// Opposite side flips the vote in place.
	action, err = f.ratings.Vote(ctx, f.userB, rating.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.VoteActionUpdated, action)
	helpful, notHelpful = counts()
	assert.Equal(t, 0, helpful)
	assert.Equal(t, 1, notHelpful)

	// Same side again toggles the vote off.
	action, err = f.ratings.Vote(ctx, f.userB, rating.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.VoteActionRemoved, action)
	helpful, notHelpful = counts()
	assert.Equal(t, 0, helpful)
	assert.Equal(t, 0, notHelpful)
}

func TestRatingFlowEditCapEnforced(t *testing.T) {
	f := newRatingFlowFixture(t)
	ctx := context.Background()
	practitionerID := f.approvedPractitioner(t)

	rating, err := f.ratings.Submit(ctx, f.userA, SubmitRatingInput{
		SubjectType: models.SubjectTypePractitioner,
		SubjectID:   practitionerID,
		Overall:     3,
	})
	require.NoError(t, err)

	for i := 0; i < models.MaxRatingEdits; i++ {
		overall := 4
		_, err := f.ratings.Update(ctx, f.userA, rating.ID, UpdateRatingInput{Overall: &overall})
		require.NoError(t, err)
	}

	overall := 5
	_, err = f.ratings.Update(ctx, f.userA, rating.ID, UpdateRatingInput{Overall: &overall})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestRatingFlowDuplicateReport(t *testing.T) {
	f := newRatingFlowFixture(t)
	ctx := context.Background()
	practitionerID := f.approvedPractitioner(t)

	rating, err := f.ratings.Submit(ctx, f.userA, SubmitRatingInput{
		SubjectType: models.SubjectTypePractitioner,
		SubjectID:   practitionerID,
		Overall:     1,
	})
	require.NoError(t, err)

	_, err = f.moderation.Report(ctx, f.userB, rating.ID, models.ReportReasonOffensive, "")
	require.NoError(t, err)

	_, err = f.moderation.Report(ctx, f.userB, rating.ID, models.ReportReasonSpam, "")
	assertAppErrorCode(t, err, "CONFLICT")
}

package service

import (
	"context"
	"testing"

	"farmfit/internal/models"
)

type reportRepoStub struct {
	createFn       func(context.Context, *models.RatingReport) error
	getByIDFn      func(context.Context, uint) (*models.RatingReport, error)
	listByStatusFn func(context.Context, string, int, int) ([]models.RatingReport, error)
	listByRatingFn func(context.Context, uint) ([]models.RatingReport, error)
	reviewFn       func(context.Context, uint, uint, string, string) error
}

func (s *reportRepoStub) Create(ctx context.Context, report *models.RatingReport) error {
	return s.createFn(ctx, report)
}
func (s *reportRepoStub) GetByID(ctx context.Context, id uint) (*models.RatingReport, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reportRepoStub) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.RatingReport, error) {
	return s.listByStatusFn(ctx, status, limit, offset)
}
func (s *reportRepoStub) ListByRating(ctx context.Context, ratingID uint) ([]models.RatingReport, error) {
	return s.listByRatingFn(ctx, ratingID)
}
func (s *reportRepoStub) Review(ctx context.Context, reportID, adminID uint, status, notes string) error {
	return s.reviewFn(ctx, reportID, adminID, status, notes)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		createFn: func(context.Context, *models.RatingReport) error { return nil },
		getByIDFn: func(context.Context, uint) (*models.RatingReport, error) {
			return &models.RatingReport{ID: 1, RatingID: 5, Status: models.ReportStatusPending}, nil
		},
		listByStatusFn: func(context.Context, string, int, int) ([]models.RatingReport, error) {
			return nil, nil
		},
		listByRatingFn: func(context.Context, uint) ([]models.RatingReport, error) { return nil, nil },
		reviewFn:       func(context.Context, uint, uint, string, string) error { return nil },
	}
}

func TestModerationServiceReportInvalidReason(t *testing.T) {
	svc := NewModerationService(noopReportRepo(), noopRatingRepo(), neverAdmin)
	_, err := svc.Report(context.Background(), 3, 5, "bogus", "")
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestModerationServiceReportOwnRating(t *testing.T) {
	ratings := noopRatingRepo()
	ratings.getByIDFn = func(context.Context, uint) (*models.Rating, error) {
		return &models.Rating{ID: 5, UserID: 3}, nil
	}
	svc := NewModerationService(noopReportRepo(), ratings, neverAdmin)
	_, err := svc.Report(context.Background(), 3, 5, models.ReportReasonSpam, "")
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestModerationServiceReportDuplicate(t *testing.T) {
	ratings := noopRatingRepo()
	ratings.getByIDFn = func(context.Context, uint) (*models.Rating, error) {
		return &models.Rating{ID: 5, UserID: 10}, nil
	}
	reports := noopReportRepo()
	reports.createFn = func(context.Context, *models.RatingReport) error {
		return models.NewConflictError("you have already reported this rating")
	}
	svc := NewModerationService(reports, ratings, neverAdmin)
	_, err := svc.Report(context.Background(), 3, 5, models.ReportReasonSpam, "seen this ad twice")
	assertAppErrorCode(t, err, "CONFLICT")
}

func TestModerationServiceReviewRequiresAdmin(t *testing.T) {
	svc := NewModerationService(noopReportRepo(), noopRatingRepo(), neverAdmin)
	_, err := svc.Review(context.Background(), 3, 1, models.ReportStatusDismissed, "")
	assertAppErrorCode(t, err, "UNAUTHORIZED")
}

func TestModerationServiceReviewInvalidStatus(t *testing.T) {
	svc := NewModerationService(noopReportRepo(), noopRatingRepo(), alwaysAdmin)
	_, err := svc.Review(context.Background(), 1, 1, models.ReportStatusPending, "")
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestModerationServiceReviewActionTakenFlagsRating(t *testing.T) {
	var flaggedRating uint
	var flagReason string
	ratings := noopRatingRepo()
	ratings.flagFn = func(_ context.Context, ratingID, _ uint, reason string) error {
		flaggedRating = ratingID
		flagReason = reason
		return nil
	}

	reports := noopReportRepo()
	reports.getByIDFn = func(context.Context, uint) (*models.RatingReport, error) {
		return &models.RatingReport{
			ID:       1,
			RatingID: 5,
			Reason:   models.ReportReasonSpam,
			Status:   models.ReportStatusPending,
		}, nil
	}

	svc := NewModerationService(reports, ratings, alwaysAdmin)
	_, err := svc.Review(context.Background(), 1, 1, models.ReportStatusActionTaken, "clear spam")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flaggedRating != 5 || flagReason != string(models.ReportReasonSpam) {
		t.Fatalf("expected rating 5 flagged for spam, got rating=%d reason=%q", flaggedRating, flagReason)
	}
}

func TestModerationServiceReviewDismissedDoesNotFlag(t *testing.T) {
	flagged := false
	ratings := noopRatingRepo()
	ratings.flagFn = func(context.Context, uint, uint, string) error {
		flagged = true
		return nil
	}

	svc := NewModerationService(noopReportRepo(), ratings, alwaysAdmin)
	_, err := svc.Review(context.Background(), 1, 1, models.ReportStatusDismissed, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flagged {
		t.Fatal("dismissed review must not flag the rating")
	}
}

func TestModerationServiceDeleteFlaggedRejectsUnflagged(t *testing.T) {
	ratings := noopRatingRepo()
	ratings.getByIDFn = func(context.Context, uint) (*models.Rating, error) {
		return &models.Rating{ID: 5, IsFlagged: false}, nil
	}
	svc := NewModerationService(noopReportRepo(), ratings, alwaysAdmin)
	err := svc.DeleteFlagged(context.Background(), 1, 5)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestModerationServiceDeleteFlagged(t *testing.T) {
	deleted := false
	ratings := noopRatingRepo()
	ratings.getByIDFn = func(context.Context, uint) (*models.Rating, error) {
		return &models.Rating{ID: 5, IsFlagged: true, SubjectType: models.SubjectTypeClinic}, nil
	}
	ratings.deleteFn = func(context.Context, uint) error {
		deleted = true
		return nil
	}
	svc := NewModerationService(noopReportRepo(), ratings, alwaysAdmin)
	if err := svc.DeleteFlagged(context.Background(), 1, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Fatal("expected flagged rating to be soft-deleted")
	}
}

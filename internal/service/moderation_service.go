package service

import (
	"context"

	"farmfit/internal/cache"
	"farmfit/internal/models"
	"farmfit/internal/repository"
)

// ModerationService provides rating report submission and admin review logic.
type ModerationService struct {
	reportRepo repository.ReportRepository
	ratingRepo repository.RatingRepository
	isAdmin    func(ctx context.Context, userID uint) (bool, error)
}

// NewModerationService returns a new ModerationService.
func NewModerationService(
	reportRepo repository.ReportRepository,
	ratingRepo repository.RatingRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ModerationService {
	return &ModerationService{
		reportRepo: reportRepo,
		ratingRepo: ratingRepo,
		isAdmin:    isAdmin,
	}
}

// Report files a moderation report against a rating. Each user may report a
// given rating once; the duplicate surfaces as a conflict error from the data
// layer's unique index.
func (s *ModerationService) Report(ctx context.Context, reporterID, ratingID uint, reason models.ReportReason, details string) (*models.RatingReport, error) {
	if !reason.Valid() {
		return nil, models.NewValidationError("invalid report reason")
	}
	if len(details) > 2000 {
		return nil, models.NewValidationError("details must not exceed 2000 characters")
	}

	rating, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	if rating.UserID == reporterID {
		return nil, models.NewValidationError("You cannot report your own rating")
	}

	report := &models.RatingReport{
		RatingID:   ratingID,
		ReporterID: reporterID,
		Reason:     reason,
		Details:    details,
		Status:     models.ReportStatusPending,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return s.reportRepo.GetByID(ctx, report.ID)
}

// ListReports returns reports for admin review, optionally filtered by status.
func (s *ModerationService) ListReports(ctx context.Context, adminID uint, status string, limit, offset int) ([]models.RatingReport, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if status != "" {
		switch status {
		case models.ReportStatusPending, models.ReportStatusReviewed,
			models.ReportStatusDismissed, models.ReportStatusActionTaken:
		default:
			return nil, models.NewValidationError("invalid report status")
		}
	}
	return s.reportRepo.ListByStatus(ctx, status, limit, offset)
}

// Review resolves a pending report. Only "action_taken" touches the
// underlying rating, flagging it with the report's reason.
func (s *ModerationService) Review(ctx context.Context, adminID, reportID uint, status, notes string) (*models.RatingReport, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	switch status {
	case models.ReportStatusReviewed, models.ReportStatusDismissed, models.ReportStatusActionTaken:
	default:
		return nil, models.NewValidationError("status must be reviewed, dismissed, or action_taken")
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if err := s.reportRepo.Review(ctx, reportID, adminID, status, notes); err != nil {
		return nil, err
	}

	if status == models.ReportStatusActionTaken {
		if err := s.ratingRepo.Flag(ctx, report.RatingID, adminID, string(report.Reason)); err != nil {
			return nil, err
		}
	}

	return s.reportRepo.GetByID(ctx, reportID)
}

// DeleteFlagged soft-deletes a rating that has already been flagged. Unflagged
// ratings must go through the report review path first.
func (s *ModerationService) DeleteFlagged(ctx context.Context, adminID, ratingID uint) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}

	rating, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		return err
	}
	if !rating.IsFlagged {
		return models.NewValidationError("rating is not flagged")
	}

	if err := s.ratingRepo.Delete(ctx, ratingID); err != nil {
		return err
	}
	cache.InvalidateRatingSummary(ctx, string(rating.SubjectType), rating.SubjectID)
	return nil
}

func (s *ModerationService) requireAdmin(ctx context.Context, userID uint) error {
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewUnauthorizedError("Admin access required")
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"farmfit/internal/models"

	"gorm.io/gorm"
)

// ReportRepository defines the interface for rating report data operations.
type ReportRepository interface {
	Create(ctx context.Context, report *models.RatingReport) error
	GetByID(ctx context.Context, id uint) (*models.RatingReport, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.RatingReport, error)
	ListByRating(ctx context.Context, ratingID uint) ([]models.RatingReport, error)
	Review(ctx context.Context, reportID, adminID uint, status, notes string) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.RatingReport) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("you have already reported this rating")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.RatingReport, error) {
	var report models.RatingReport
	if err := r.db.WithContext(ctx).
		Preload("Rating").
		Preload("Reporter").
		First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &report, nil
}

func (r *reportRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.RatingReport, error) {
	var reports []models.RatingReport
	q := r.db.WithContext(ctx).
		Preload("Rating").
		Preload("Rating.User").
		Preload("Reporter").
		Order("created_at ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}

func (r *reportRepository) ListByRating(ctx context.Context, ratingID uint) ([]models.RatingReport, error) {
	var reports []models.RatingReport
	if err := r.db.WithContext(ctx).
		Where("rating_id = ?", ratingID).
		Preload("Reporter").
		Order("created_at ASC").
		Find(&reports).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}

// Review transitions a pending report to a terminal status. Reports that have
// already been acted on are not re-reviewable.
func (r *reportRepository) Review(ctx context.Context, reportID, adminID uint, status, notes string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.RatingReport{}).
		Where("id = ? AND status = ?", reportID, models.ReportStatusPending).
		Updates(map[string]interface{}{
			"status":              status,
			"reviewed_by_user_id": adminID,
			"reviewed_at":         now,
			"admin_notes":         notes,
		})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		// Either missing or already reviewed; disambiguate for the caller.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.RatingReport{}).Where("id = ?", reportID).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewNotFoundError("Report", reportID)
		}
		return models.NewConflictError("report has already been reviewed")
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"farmfit/internal/models"

	"gorm.io/gorm"
)

// RatingRepository defines the interface for rating data operations.
type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	GetByID(ctx context.Context, id uint) (*models.Rating, error)
	ListBySubject(ctx context.Context, subjectType models.SubjectType, subjectID uint, limit, offset int) ([]models.Rating, error)
	ListAllBySubject(ctx context.Context, subjectType models.SubjectType, subjectID uint) ([]models.Rating, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Rating, error)
	Update(ctx context.Context, rating *models.Rating, dimensions []models.RatingDimension) error
	Delete(ctx context.Context, id uint) error
	Vote(ctx context.Context, ratingID, userID uint, isHelpful bool) (models.VoteAction, error)
	Flag(ctx context.Context, ratingID, adminID uint, reason string) error
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Create(rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("you have already rated this subject")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *ratingRepository) GetByID(ctx context.Context, id uint) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Dimensions").
		First(&rating, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Rating", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &rating, nil
}

func (r *ratingRepository) ListBySubject(ctx context.Context, subjectType models.SubjectType, subjectID uint, limit, offset int) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.WithContext(ctx).
		Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Preload("User").
		Preload("Dimensions").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ratings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ratings, nil
}

// ListAllBySubject returns every non-deleted rating for a subject, dimensions
// included, for aggregate computation.
func (r *ratingRepository) ListAllBySubject(ctx context.Context, subjectType models.SubjectType, subjectID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.WithContext(ctx).
		Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Preload("Dimensions").
		Find(&ratings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ratings, nil
}

func (r *ratingRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Dimensions").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ratings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ratings, nil
}

// Update saves the rating row and replaces its dimension set in one
// transaction so a failed dimension write cannot leave a half-edited rating.
func (r *ratingRepository) Update(ctx context.Context, rating *models.Rating, dimensions []models.RatingDimension) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(rating).Error; err != nil {
			return err
		}
		if err := tx.Where("rating_id = ?", rating.ID).Delete(&models.RatingDimension{}).Error; err != nil {
			return err
		}
		for i := range dimensions {
			dimensions[i].ID = 0
			dimensions[i].RatingID = rating.ID
		}
		if len(dimensions) > 0 {
			if err := tx.Create(&dimensions).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	rating.Dimensions = dimensions
	return nil
}

func (r *ratingRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Rating{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Rating", id)
	}
	return nil
}

// Vote records a helpfulness vote. A first vote inserts a row, a repeat vote
// on the other side flips it, and a same-side repeat removes it. The vote row
// and the denormalized counters on the rating move in one transaction.
func (r *ratingRepository) Vote(ctx context.Context, ratingID, userID uint, isHelpful bool) (models.VoteAction, error) {
	var action models.VoteAction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rating models.Rating
		if err := tx.Select("id").First(&rating, ratingID).Error; err != nil {
			return err
		}

		var vote models.RatingVote
		err := tx.Where("rating_id = ? AND user_id = ?", ratingID, userID).First(&vote).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote = models.RatingVote{RatingID: ratingID, UserID: userID, IsHelpful: isHelpful}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			action = models.VoteActionCreated
			return tx.Model(&models.Rating{}).Where("id = ?", ratingID).
				Update(counterColumn(isHelpful), gorm.Expr(counterColumn(isHelpful)+" + 1")).Error

		case err != nil:
			return err

		case vote.IsHelpful == isHelpful:
			// Same side again: toggle off.
			if err := tx.Delete(&vote).Error; err != nil {
				return err
			}
			action = models.VoteActionRemoved
			return tx.Model(&models.Rating{}).Where("id = ?", ratingID).
				Update(counterColumn(isHelpful), gorm.Expr(counterColumn(isHelpful)+" - 1")).Error

		default:
			// Flip sides.
			if err := tx.Model(&vote).Update("is_helpful", isHelpful).Error; err != nil {
				return err
			}
			action = models.VoteActionUpdated
			return tx.Model(&models.Rating{}).Where("id = ?", ratingID).
				Updates(map[string]interface{}{
					counterColumn(isHelpful):  gorm.Expr(counterColumn(isHelpful) + " + 1"),
					counterColumn(!isHelpful): gorm.Expr(counterColumn(!isHelpful) + " - 1"),
				}).Error
		}
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.NewNotFoundError("Rating", ratingID)
		}
		return "", models.NewInternalError(err)
	}
	return action, nil
}

func counterColumn(isHelpful bool) string {
	if isHelpful {
		return "helpful_count"
	}
	return "not_helpful_count"
}

// Flag marks a rating as moderated. Flagged ratings stay readable but are
// labeled in feed responses.
func (r *ratingRepository) Flag(ctx context.Context, ratingID, adminID uint, reason string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("id = ?", ratingID).
		Updates(map[string]interface{}{
			"is_flagged":         true,
			"flag_reason":        reason,
			"flagged_by_user_id": adminID,
			"flagged_at":         now,
		})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Rating", ratingID)
	}
	return nil
}

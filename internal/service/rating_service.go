// Package service contains the application's business logic.
package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"farmfit/internal/cache"
	"farmfit/internal/models"
	"farmfit/internal/repository"
	"farmfit/internal/validation"
)

// SubmitRatingInput carries the fields for a new rating.
type SubmitRatingInput struct {
	SubjectType models.SubjectType `json:"subject_type"`
	SubjectID   uint               `json:"subject_id"`
	Overall     int                `json:"overall"`
	Title       string             `json:"title"`
	Content     string             `json:"content"`
	VisitedAt   *time.Time         `json:"visited_at"`
	Dimensions  map[string]int     `json:"dimensions"`
}

// UpdateRatingInput carries the editable fields of an existing rating.
// Nil pointers mean "leave unchanged".
type UpdateRatingInput struct {
	Overall    *int           `json:"overall"`
	Title      *string        `json:"title"`
	Content    *string        `json:"content"`
	VisitedAt  *time.Time     `json:"visited_at"`
	Dimensions map[string]int `json:"dimensions"`
	EditReason string         `json:"edit_reason"`
}

// RatingService provides rating submission, editing, voting, and aggregation logic.
type RatingService struct {
	ratingRepo  repository.RatingRepository
	subjectRepo repository.SubjectRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

// NewRatingService returns a new RatingService.
func NewRatingService(
	ratingRepo repository.RatingRepository,
	subjectRepo repository.SubjectRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *RatingService {
	return &RatingService{
		ratingRepo:  ratingRepo,
		subjectRepo: subjectRepo,
		isAdmin:     isAdmin,
	}
}

// Submit creates a new rating for an approved, active subject. A user may hold
// at most one live rating per subject; duplicates surface as a conflict error
// from the data layer's unique index rather than a read-then-write check.
func (s *RatingService) Submit(ctx context.Context, userID uint, input SubmitRatingInput) (*models.Rating, error) {
	if !input.SubjectType.Valid() {
		return nil, models.NewValidationError("subject_type must be clinic or practitioner")
	}
	if err := validation.ValidateRatingScore(input.Overall); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateReviewContent(input.Title, input.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	dimensions, err := buildDimensions(input.SubjectType, input.Dimensions)
	if err != nil {
		return nil, err
	}

	subject, err := s.subjectRepo.ResolveSubject(ctx, input.SubjectType, input.SubjectID)
	if err != nil {
		return nil, err
	}

	rating := &models.Rating{
		SubjectType: input.SubjectType,
		SubjectID:   input.SubjectID,
		UserID:      userID,
		Overall:     input.Overall,
		Title:       input.Title,
		Content:     input.Content,
		VisitedAt:   input.VisitedAt,
		Dimensions:  dimensions,
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}

	rating.Subject = subject
	cache.InvalidateRatingSummary(ctx, string(input.SubjectType), input.SubjectID)
	return s.attachSubject(ctx, rating), nil
}

// Get returns a rating by id with its subject reference attached.
func (s *RatingService) Get(ctx context.Context, ratingID uint) (*models.Rating, error) {
	rating, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	return s.attachSubject(ctx, rating), nil
}

// ListBySubject returns a page of ratings for a subject, newest first.
func (s *RatingService) ListBySubject(ctx context.Context, subjectType models.SubjectType, subjectID uint, limit, offset int) ([]models.Rating, error) {
	if !subjectType.Valid() {
		return nil, models.NewValidationError("subject_type must be clinic or practitioner")
	}
	return s.ratingRepo.ListBySubject(ctx, subjectType, subjectID, limit, offset)
}

// ListByUser returns a page of the user's own ratings, newest first.
func (s *RatingService) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Rating, error) {
	ratings, err := s.ratingRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range ratings {
		s.attachSubject(ctx, &ratings[i])
	}
	return ratings, nil
}

// Update edits a rating owned by the acting user. Ownership failures are
// reported as an explicit unauthorized error, and the edit counter is capped
// server-side rather than trusting clients to stop.
func (s *RatingService) Update(ctx context.Context, userID, ratingID uint, input UpdateRatingInput) (*models.Rating, error) {
	rating, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	if rating.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only edit your own ratings")
	}
	if rating.EditCount >= models.MaxRatingEdits {
		return nil, models.NewValidationError("rating has reached its edit limit")
	}

	if input.Overall != nil {
		if err := validation.ValidateRatingScore(*input.Overall); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		rating.Overall = *input.Overall
	}
	if input.Title != nil {
		rating.Title = *input.Title
	}
	if input.Content != nil {
		rating.Content = *input.Content
	}
	if input.VisitedAt != nil {
		rating.VisitedAt = input.VisitedAt
	}
	if err := validation.ValidateReviewContent(rating.Title, rating.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	dimensions := rating.Dimensions
	if input.Dimensions != nil {
		dimensions, err = buildDimensions(rating.SubjectType, input.Dimensions)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	rating.EditCount++
	rating.IsEdited = true
	rating.LastEditedAt = &now
	rating.EditReason = input.EditReason

	if err := s.ratingRepo.Update(ctx, rating, dimensions); err != nil {
		return nil, err
	}

	cache.InvalidateRatingSummary(ctx, string(rating.SubjectType), rating.SubjectID)
	return s.attachSubject(ctx, rating), nil
}

// Delete soft-deletes a rating. Owners may delete their own; admins may
// delete any.
func (s *RatingService) Delete(ctx context.Context, userID, ratingID uint) error {
	rating, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		return err
	}
	if rating.UserID != userID {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own ratings")
		}
	}

	if err := s.ratingRepo.Delete(ctx, ratingID); err != nil {
		return err
	}
	cache.InvalidateRatingSummary(ctx, string(rating.SubjectType), rating.SubjectID)
	return nil
}

// Vote records a helpfulness vote and reports what the vote did so clients can
// adjust locally cached counts without a refetch.
func (s *RatingService) Vote(ctx context.Context, userID, ratingID uint, isHelpful bool) (models.VoteAction, error) {
	return s.ratingRepo.Vote(ctx, ratingID, userID, isHelpful)
}

// GetSummary computes the aggregate rating summary for a subject. The result
// is cached briefly; a failed fetch degrades to a zeroed summary rather than
// an error so listing screens stay renderable. When detailed is false the
// histogram and per-dimension averages are omitted, which is what discovery
// lists want — total and average only.
func (s *RatingService) GetSummary(ctx context.Context, subjectType models.SubjectType, subjectID uint, detailed bool) (*models.RatingSummary, error) {
	if !subjectType.Valid() {
		return nil, models.NewValidationError("subject_type must be clinic or practitioner")
	}

	var summary models.RatingSummary
	key := cache.RatingSummaryKey(string(subjectType), subjectID)
	err := cache.Aside(ctx, key, &summary, cache.RatingSummaryTTL, func() error {
		ratings, err := s.ratingRepo.ListAllBySubject(ctx, subjectType, subjectID)
		if err != nil {
			slog.Warn("rating summary fetch failed, returning zeroed summary",
				"subject_type", subjectType, "subject_id", subjectID, "error", err)
			summary = zeroSummary(subjectType, subjectID)
			return nil
		}
		summary = computeSummary(subjectType, subjectID, ratings)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !detailed {
		summary.Distribution = nil
		summary.DimensionAverages = nil
	}
	return &summary, nil
}

func (s *RatingService) attachSubject(ctx context.Context, rating *models.Rating) *models.Rating {
	if rating.Subject != nil {
		return rating
	}
	subject, err := s.subjectRepo.ResolveSubject(ctx, rating.SubjectType, rating.SubjectID)
	if err == nil {
		rating.Subject = subject
	}
	return rating
}

// buildDimensions validates dimensional sub-ratings against the subject
// type's allowed label set and returns them in stable label order.
func buildDimensions(subjectType models.SubjectType, scores map[string]int) ([]models.RatingDimension, error) {
	if len(scores) == 0 {
		return nil, nil
	}

	allowed := models.DimensionsFor(subjectType)
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = struct{}{}
	}

	dimensions := make([]models.RatingDimension, 0, len(scores))
	for _, name := range allowed {
		score, ok := scores[name]
		if !ok {
			continue
		}
		if err := validation.ValidateRatingScore(score); err != nil {
			return nil, models.NewValidationError(name + ": " + err.Error())
		}
		dimensions = append(dimensions, models.RatingDimension{Name: name, Score: score})
	}

	for name := range scores {
		if _, ok := allowedSet[name]; !ok {
			return nil, models.NewValidationError("unknown dimension label: " + name)
		}
	}
	return dimensions, nil
}

func zeroSummary(subjectType models.SubjectType, subjectID uint) models.RatingSummary {
	return models.RatingSummary{
		SubjectType:  subjectType,
		SubjectID:    subjectID,
		Distribution: map[int]int{},
	}
}

// computeSummary derives count, mean (rounded to one decimal), per-star
// histogram, and per-dimension means from a subject's live ratings.
func computeSummary(subjectType models.SubjectType, subjectID uint, ratings []models.Rating) models.RatingSummary {
	summary := zeroSummary(subjectType, subjectID)
	if len(ratings) == 0 {
		return summary
	}

	var overallSum int
	dimSums := map[string]int{}
	dimCounts := map[string]int{}
	for _, rating := range ratings {
		overallSum += rating.Overall
		summary.Distribution[rating.Overall]++
		for _, d := range rating.Dimensions {
			dimSums[d.Name] += d.Score
			dimCounts[d.Name]++
		}
	}

	summary.Total = len(ratings)
	summary.Average = math.Round(float64(overallSum)/float64(len(ratings))*10) / 10

	if len(dimSums) > 0 {
		summary.DimensionAverages = make(map[string]float64, len(dimSums))
		for name, sum := range dimSums {
			summary.DimensionAverages[name] = math.Round(float64(sum)/float64(dimCounts[name])*10) / 10
		}
	}
	return summary
}

package service

import (
	"context"
	"errors"
	"testing"

	"farmfit/internal/models"

	"gorm.io/gorm"
)

type ratingRepoStub struct {
	createFn           func(context.Context, *models.Rating) error
	getByIDFn          func(context.Context, uint) (*models.Rating, error)
	listBySubjectFn    func(context.Context, models.SubjectType, uint, int, int) ([]models.Rating, error)
	listAllBySubjectFn func(context.Context, models.SubjectType, uint) ([]models.Rating, error)
	listByUserFn       func(context.Context, uint, int, int) ([]models.Rating, error)
	updateFn           func(context.Context, *models.Rating, []models.RatingDimension) error
	deleteFn           func(context.Context, uint) error
	voteFn             func(context.Context, uint, uint, bool) (models.VoteAction, error)
	flagFn             func(context.Context, uint, uint, string) error
}

func (s *ratingRepoStub) Create(ctx context.Context, rating *models.Rating) error {
	return s.createFn(ctx, rating)
}
func (s *ratingRepoStub) GetByID(ctx context.Context, id uint) (*models.Rating, error) {
	return s.getByIDFn(ctx, id)
}
func (s *ratingRepoStub) ListBySubject(ctx context.Context, st models.SubjectType, id uint, limit, offset int) ([]models.Rating, error) {
	return s.listBySubjectFn(ctx, st, id, limit, offset)
}
func (s *ratingRepoStub) ListAllBySubject(ctx context.Context, st models.SubjectType, id uint) ([]models.Rating, error) {
	return s.listAllBySubjectFn(ctx, st, id)
}
func (s *ratingRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Rating, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *ratingRepoStub) Update(ctx context.Context, rating *models.Rating, dims []models.RatingDimension) error {
	return s.updateFn(ctx, rating, dims)
}
func (s *ratingRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *ratingRepoStub) Vote(ctx context.Context, ratingID, userID uint, isHelpful bool) (models.VoteAction, error) {
	return s.voteFn(ctx, ratingID, userID, isHelpful)
}
func (s *ratingRepoStub) Flag(ctx context.Context, ratingID, adminID uint, reason string) error {
	return s.flagFn(ctx, ratingID, adminID, reason)
}

type subjectRepoStub struct {
	resolveSubjectFn func(context.Context, models.SubjectType, uint) (*models.SubjectRef, error)
}

func (s *subjectRepoStub) CreateClinic(context.Context, *models.Clinic) error { return nil }
func (s *subjectRepoStub) GetClinic(context.Context, uint) (*models.Clinic, error) {
	return &models.Clinic{}, nil
}
func (s *subjectRepoStub) ListClinics(context.Context, string, int, int) ([]models.Clinic, error) {
	return nil, nil
}
func (s *subjectRepoStub) UpdateClinic(context.Context, *models.Clinic) error { return nil }
func (s *subjectRepoStub) CreatePractitioner(context.Context, *models.Practitioner) error {
	return nil
}
func (s *subjectRepoStub) GetPractitioner(context.Context, uint) (*models.Practitioner, error) {
	return &models.Practitioner{}, nil
}
func (s *subjectRepoStub) ListPractitioners(context.Context, string, *uint, int, int) ([]models.Practitioner, error) {
	return nil, nil
}
func (s *subjectRepoStub) UpdatePractitioner(context.Context, *models.Practitioner) error { return nil }
func (s *subjectRepoStub) ListPendingClinics(context.Context) ([]models.Clinic, error) {
	return nil, nil
}
func (s *subjectRepoStub) ListPendingPractitioners(context.Context) ([]models.Practitioner, error) {
	return nil, nil
}
func (s *subjectRepoStub) SetClinicStatus(context.Context, uint, models.SubjectStatus) error {
	return nil
}
func (s *subjectRepoStub) SetPractitionerStatus(context.Context, uint, models.SubjectStatus) error {
	return nil
}
func (s *subjectRepoStub) ResolveSubject(ctx context.Context, st models.SubjectType, id uint) (*models.SubjectRef, error) {
	if s.resolveSubjectFn != nil {
		return s.resolveSubjectFn(ctx, st, id)
	}
	return &models.SubjectRef{Type: st, ID: id, Name: "Happy Paws"}, nil
}

func noopRatingRepo() *ratingRepoStub {
	return &ratingRepoStub{
		createFn:  func(context.Context, *models.Rating) error { return nil },
		getByIDFn: func(context.Context, uint) (*models.Rating, error) { return &models.Rating{}, nil },
		listBySubjectFn: func(context.Context, models.SubjectType, uint, int, int) ([]models.Rating, error) {
			return nil, nil
		},
		listAllBySubjectFn: func(context.Context, models.SubjectType, uint) ([]models.Rating, error) {
			return nil, nil
		},
		listByUserFn: func(context.Context, uint, int, int) ([]models.Rating, error) { return nil, nil },
		updateFn:     func(context.Context, *models.Rating, []models.RatingDimension) error { return nil },
		deleteFn:     func(context.Context, uint) error { return nil },
		voteFn: func(context.Context, uint, uint, bool) (models.VoteAction, error) {
			return models.VoteActionCreated, nil
		},
		flagFn: func(context.Context, uint, uint, string) error { return nil },
	}
}

func alwaysAdmin(context.Context, uint) (bool, error) { return true, nil }
func neverAdmin(context.Context, uint) (bool, error)  { return false, nil }

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != code {
		t.Fatalf("expected %s app error, got %#v", code, err)
	}
}

func TestRatingServiceSubmitInvalidScore(t *testing.T) {
	svc := NewRatingService(noopRatingRepo(), &subjectRepoStub{}, neverAdmin)
	_, err := svc.Submit(context.Background(), 1, SubmitRatingInput{
		SubjectType: models.SubjectTypeClinic,
		SubjectID:   7,
		Overall:     6,
	})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestRatingServiceSubmitUnknownDimension(t *testing.T) {
	svc := NewRatingService(noopRatingRepo(), &subjectRepoStub{}, neverAdmin)
	_, err := svc.Submit(context.Background(), 1, SubmitRatingInput{
		SubjectType: models.SubjectTypePractitioner,
		SubjectID:   7,
		Overall:     4,
		Dimensions:  map[string]int{"cleanliness": 5}, // clinic label on a practitioner
	})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestRatingServiceSubmitDuplicate(t *testing.T) {
	repo := noopRatingRepo()
	repo.createFn = func(context.Context, *models.Rating) error {
		return models.NewConflictError("you have already rated this subject")
	}
	svc := NewRatingService(repo, &subjectRepoStub{}, neverAdmin)
	_, err := svc.Submit(context.Background(), 1, SubmitRatingInput{
		SubjectType: models.SubjectTypeClinic,
		SubjectID:   7,
		Overall:     4,
	})
	assertAppErrorCode(t, err, "CONFLICT")
}

func TestRatingServiceSubmitUnapprovedSubject(t *testing.T) {
	subjects := &subjectRepoStub{
		resolveSubjectFn: func(context.Context, models.SubjectType, uint) (*models.SubjectRef, error) {
			return nil, models.NewNotFoundError("Clinic", 7)
		},
	}
	svc := NewRatingService(noopRatingRepo(), subjects, neverAdmin)
	_, err := svc.Submit(context.Background(), 1, SubmitRatingInput{
		SubjectType: models.SubjectTypeClinic,
		SubjectID:   7,
		Overall:     4,
	})
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestRatingServiceUpdateNonOwner(t *testing.T) {
	repo := noopRatingRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Rating, error) {
		return &models.Rating{ID: 5, UserID: 10, SubjectType: models.SubjectTypeClinic, Overall: 4}, nil
	}
	svc := NewRatingService(repo, &subjectRepoStub{}, neverAdmin)
	_, err := svc.Update(context.Background(), 11, 5, UpdateRatingInput{})
	assertAppErrorCode(t, err, "UNAUTHORIZED")
}

func TestRatingServiceUpdateEditLimit(t *testing.T) {
	repo := noopRatingRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Rating, error) {
		return &models.Rating{
			ID:          5,
			UserID:      10,
			SubjectType: models.SubjectTypeClinic,
			Overall:     4,
			EditCount:   models.MaxRatingEdits,
		}, nil
	}
	svc := NewRatingService(repo, &subjectRepoStub{}, neverAdmin)
	_, err := svc.Update(context.Background(), 10, 5, UpdateRatingInput{})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestRatingServiceUpdateIncrementsEditCount(t *testing.T) {
	var saved *models.Rating
	repo := noopRatingRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Rating, error) {
		return &models.Rating{ID: 5, UserID: 10, SubjectType: models.SubjectTypeClinic, Overall: 4}, nil
	}
	repo.updateFn = func(_ context.Context, rating *models.Rating, _ []models.RatingDimension) error {
		saved = rating
		return nil
	}

	svc := NewRatingService(repo, &subjectRepoStub{}, neverAdmin)
	overall := 5
	updated, err := svc.Update(context.Background(), 10, 5, UpdateRatingInput{
		Overall:    &overall,
		EditReason: "corrected star count",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil || saved.EditCount != 1 || !saved.IsEdited || saved.LastEditedAt == nil {
		t.Fatalf("expected edit provenance on saved rating, got %#v", saved)
	}
	if updated.Overall != 5 || updated.EditReason != "corrected star count" {
		t.Fatalf("unexpected updated rating: %#v", updated)
	}
}

func TestRatingServiceDeleteNonOwnerNonAdmin(t *testing.T) {
	repo := noopRatingRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Rating, error) {
		return &models.Rating{ID: 5, UserID: 10, SubjectType: models.SubjectTypeClinic}, nil
	}
	svc := NewRatingService(repo, &subjectRepoStub{}, neverAdmin)
	err := svc.Delete(context.Background(), 11, 5)
	assertAppErrorCode(t, err, "UNAUTHORIZED")
}

func TestRatingServiceDeleteAsAdmin(t *testing.T) {
	deleted := false
	repo := noopRatingRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Rating, error) {
		return &models.Rating{ID: 5, UserID: 10, SubjectType: models.SubjectTypeClinic}, nil
	}
	repo.deleteFn = func(context.Context, uint) error {
		deleted = true
		return nil
	}
	svc := NewRatingService(repo, &subjectRepoStub{}, alwaysAdmin)
	if err := svc.Delete(context.Background(), 99, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to reach the repository")
	}
}

func TestComputeSummaryEmpty(t *testing.T) {
	summary := computeSummary(models.SubjectTypeClinic, 7, nil)
	if summary.Total != 0 || summary.Average != 0.0 || len(summary.Distribution) != 0 {
		t.Fatalf("expected zeroed summary, got %#v", summary)
	}
}

func TestComputeSummaryMeanAndHistogram(t *testing.T) {
	ratings := []models.Rating{
		{Overall: 5, Dimensions: []models.RatingDimension{{Name: "cleanliness", Score: 5}}},
		{Overall: 4, Dimensions: []models.RatingDimension{{Name: "cleanliness", Score: 4}}},
		{Overall: 4},
		{Overall: 2},
	}
	summary := computeSummary(models.SubjectTypeClinic, 7, ratings)

	if summary.Total != 4 {
		t.Fatalf("expected total 4, got %d", summary.Total)
	}
	// (5+4+4+2)/4 = 3.75, rounded to one decimal
	if summary.Average != 3.8 {
		t.Fatalf("expected average 3.8, got %v", summary.Average)
	}

	histogramTotal := 0
	for _, n := range summary.Distribution {
		histogramTotal += n
	}
	if histogramTotal != summary.Total {
		t.Fatalf("distribution sums to %d, want %d", histogramTotal, summary.Total)
	}
	if summary.Distribution[4] != 2 || summary.Distribution[5] != 1 || summary.Distribution[2] != 1 {
		t.Fatalf("unexpected distribution: %#v", summary.Distribution)
	}
	if summary.DimensionAverages["cleanliness"] != 4.5 {
		t.Fatalf("expected cleanliness average 4.5, got %v", summary.DimensionAverages["cleanliness"])
	}
}

func TestRatingServiceGetSummarySwallowsFetchFailure(t *testing.T) {
	repo := noopRatingRepo()
	repo.listAllBySubjectFn = func(context.Context, models.SubjectType, uint) ([]models.Rating, error) {
		return nil, models.NewInternalError(gorm.ErrInvalidDB)
	}
	svc := NewRatingService(repo, &subjectRepoStub{}, neverAdmin)

	summary, err := svc.GetSummary(context.Background(), models.SubjectTypeClinic, 7, true)
	if err != nil {
		t.Fatalf("expected degraded summary, got error: %v", err)
	}
	if summary.Total != 0 || summary.Average != 0.0 {
		t.Fatalf("expected zeroed summary, got %#v", summary)
	}
}

func TestRatingServiceVotePassesActingUser(t *testing.T) {
	var gotRating, gotUser uint
	repo := noopRatingRepo()
	repo.voteFn = func(_ context.Context, ratingID, userID uint, _ bool) (models.VoteAction, error) {
		gotRating, gotUser = ratingID, userID
		return models.VoteActionCreated, nil
	}
	svc := NewRatingService(repo, &subjectRepoStub{}, neverAdmin)

	action, err := svc.Vote(context.Background(), 3, 42, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action != models.VoteActionCreated || gotRating != 42 || gotUser != 3 {
		t.Fatalf("vote routed wrong: action=%s rating=%d user=%d", action, gotRating, gotUser)
	}
}

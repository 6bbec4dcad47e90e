package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"farmfit/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRatingRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRatingRepository(db)
	ctx := context.Background()

	rating := &models.Rating{
		SubjectType: models.SubjectTypeClinic,
		SubjectID:   7,
		UserID:      3,
		Overall:     4,
		Content:     "Short wait, friendly staff.",
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "ratings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, rating)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepository_Create_Duplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRatingRepository(db)
	ctx := context.Background()

	rating := &models.Rating{
		SubjectType: models.SubjectTypeClinic,
		SubjectID:   7,
		UserID:      3,
		Overall:     4,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "ratings"`)).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.Create(ctx, rating)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepository_ListAllBySubject(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRatingRepository(db)
	ctx := context.Background()

	ratingRows := sqlmock.NewRows([]string{"id", "subject_type", "subject_id", "user_id", "overall"}).
		AddRow(1, "clinic", 7, 3, 5).
		AddRow(2, "clinic", 7, 4, 3)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ratings" WHERE (subject_type = $1 AND subject_id = $2) AND "ratings"."deleted_at" IS NULL`)).
		WithArgs("clinic", 7).
		WillReturnRows(ratingRows)

	dimensionRows := sqlmock.NewRows([]string{"id", "rating_id", "name", "score"}).
		AddRow(10, 1, "cleanliness", 5).
		AddRow(11, 2, "cleanliness", 3)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "rating_dimensions" WHERE "rating_dimensions"."rating_id" IN ($1,$2)`)).
		WithArgs(1, 2).
		WillReturnRows(dimensionRows)

	ratings, err := repo.ListAllBySubject(ctx, models.SubjectTypeClinic, 7)
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, 5, ratings[0].Overall)
	require.Len(t, ratings[0].Dimensions, 1)
	assert.Equal(t, "cleanliness", ratings[0].Dimensions[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepository_Vote_RatingMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRatingRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "ratings" WHERE "ratings"."id" = $1 AND "ratings"."deleted_at" IS NULL ORDER BY "ratings"."id" LIMIT $2`)).
		WithArgs(42, 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	_, err := repo.Vote(ctx, 42, 3, true)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

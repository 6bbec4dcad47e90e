package seed

import (
	"testing"

	"farmfit/internal/database"
	"farmfit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeedSubjects(t *testing.T) {
	db := newSeedDB(t)

	admin, err := ensureAdmin(db)
	require.NoError(t, err)

	clinics, practitioners, err := SeedSubjects(db, admin.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, clinics)
	assert.NotEmpty(t, practitioners)

	for _, c := range clinics {
		assert.Equal(t, models.SubjectStatusApproved, c.Status)
		assert.True(t, c.IsActive)
	}

	// every practitioner fixture names an existing clinic
	for _, p := range practitioners {
		require.NotNil(t, p.ClinicID, "practitioner %s has no clinic", p.FullName)
	}

	// idempotent: rerun must not duplicate
	again, _, err := SeedSubjects(db, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, len(clinics), len(again))

	var total int64
	require.NoError(t, db.Model(&models.Clinic{}).Count(&total).Error)
	assert.Equal(t, int64(len(clinics)), total)
}

func TestSeedSmallDataset(t *testing.T) {
	db := newSeedDB(t)

	err := Seed(db, Options{NumUsers: 5, NumPosts: 10, NumRatings: 20})
	require.NoError(t, err)

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	// seeded users plus the admin
	assert.Equal(t, int64(6), userCount)

	var ratingCount int64
	require.NoError(t, db.Model(&models.Rating{}).Count(&ratingCount).Error)
	assert.Equal(t, int64(20), ratingCount)

	// each rating carries its full dimension set
	var dims []models.RatingDimension
	require.NoError(t, db.Find(&dims).Error)
	for _, d := range dims {
		assert.GreaterOrEqual(t, d.Score, 1)
		assert.LessOrEqual(t, d.Score, 5)
	}

	var postCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Equal(t, int64(10), postCount)
}

func TestSeedRatingsRespectUniquePairs(t *testing.T) {
	db := newSeedDB(t)

	// ask for far more ratings than (subject, user) pairs exist
	err := Seed(db, Options{NumUsers: 2, NumPosts: 0, NumRatings: 10000})
	require.NoError(t, err)

	type pair struct {
		SubjectType string
		SubjectID   uint
		UserID      uint
	}
	var pairs []pair
	require.NoError(t, db.Model(&models.Rating{}).
		Select("subject_type, subject_id, user_id").Scan(&pairs).Error)

	seen := make(map[pair]bool, len(pairs))
	for _, p := range pairs {
		assert.False(t, seen[p], "duplicate rating for %+v", p)
		seen[p] = true
	}
}

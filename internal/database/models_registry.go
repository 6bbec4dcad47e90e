package database

import "farmfit/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Clinic{},
		&models.Practitioner{},
		&models.Rating{},
		&models.RatingDimension{},
		&models.RatingVote{},
		&models.RatingReport{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Connection{},
	}
}

package repository

import (
	"context"
	"errors"

	"farmfit/internal/models"

	"gorm.io/gorm"
)

// ConnectionRepository defines the interface for connection data operations
type ConnectionRepository interface {
	Create(ctx context.Context, connection *models.Connection) error
	GetByID(ctx context.Context, id uint) (*models.Connection, error)
	GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Connection, error)
	GetConnections(ctx context.Context, userID uint) ([]models.User, error)
	GetPendingRequests(ctx context.Context, userID uint) ([]models.Connection, error)
	GetSentRequests(ctx context.Context, userID uint) ([]models.Connection, error)
	UpdateStatus(ctx context.Context, connectionID uint, status models.ConnectionStatus) error
	Delete(ctx context.Context, connectionID uint) error
	Replace(ctx context.Context, oldID uint, connection *models.Connection) error
}

// connectionRepository implements ConnectionRepository
type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Create(ctx context.Context, connection *models.Connection) error {
	if err := r.db.WithContext(ctx).Create(connection).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("connection already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id uint) (*models.Connection, error) {
	var connection models.Connection
	if err := r.db.WithContext(ctx).Preload("Requester").Preload("Addressee").First(&connection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Connection", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &connection, nil
}

func (r *connectionRepository) GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Connection, error) {
	low, high := userID1, userID2
	if low > high {
		low, high = high, low
	}

	var connection models.Connection
	if err := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Preload("Requester").
		Preload("Addressee").
		First(&connection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No connection exists
		}
		return nil, models.NewInternalError(err)
	}
	return &connection, nil
}

func (r *connectionRepository) GetConnections(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User

	// Find all accepted connections for the user and get the other user in each
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN connections c ON (users.id = c.requester_id OR users.id = c.addressee_id)").
		Where("c.status = ? AND (c.requester_id = ? OR c.addressee_id = ?) AND users.id != ?",
			models.ConnectionStatusAccepted, userID, userID, userID).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return users, nil
}

func (r *connectionRepository) GetPendingRequests(ctx context.Context, userID uint) ([]models.Connection, error) {
	var connections []models.Connection

	// Pending requests where user is the addressee
	if err := r.db.WithContext(ctx).
		Where("addressee_id = ? AND status = ?", userID, models.ConnectionStatusPending).
		Preload("Requester").
		Preload("Addressee").
		Find(&connections).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return connections, nil
}

func (r *connectionRepository) GetSentRequests(ctx context.Context, userID uint) ([]models.Connection, error) {
	var connections []models.Connection

	// Pending requests where user is the requester
	if err := r.db.WithContext(ctx).
		Where("requester_id = ? AND status = ?", userID, models.ConnectionStatusPending).
		Preload("Requester").
		Preload("Addressee").
		Find(&connections).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return connections, nil
}

func (r *connectionRepository) UpdateStatus(ctx context.Context, connectionID uint, status models.ConnectionStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("id = ?", connectionID).
		Update("status", status)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Connection", connectionID)
	}
	return nil
}

// Replace atomically swaps an old connection row for a new one so a failure
// between the delete and the create cannot drop the relationship.
func (r *connectionRepository) Replace(ctx context.Context, oldID uint, connection *models.Connection) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if oldID != 0 {
			if err := tx.Delete(&models.Connection{}, oldID).Error; err != nil {
				return err
			}
		}
		return tx.Create(connection).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("connection already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRepository) Delete(ctx context.Context, connectionID uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Connection{}, connectionID)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Connection", connectionID)
	}
	return nil
}

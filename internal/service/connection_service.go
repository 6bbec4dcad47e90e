package service

import (
	"context"

	"farmfit/internal/models"
	"farmfit/internal/repository"
)

// ConnectionService provides connection-request and connection business logic.
type ConnectionService struct {
	connectionRepo repository.ConnectionRepository
	userRepo       repository.UserRepository
}

// NewConnectionService returns a new ConnectionService.
func NewConnectionService(connectionRepo repository.ConnectionRepository, userRepo repository.UserRepository) *ConnectionService {
	return &ConnectionService{
		connectionRepo: connectionRepo,
		userRepo:       userRepo,
	}
}

// SendRequest sends a connection request to the target user.
func (s *ConnectionService) SendRequest(ctx context.Context, userID, targetUserID uint) (*models.Connection, error) {
	if userID == targetUserID {
		return nil, models.NewValidationError("Cannot send a connection request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	existing, err := s.connectionRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	replaceID := uint(0)
	if existing != nil {
		switch existing.Status {
		case models.ConnectionStatusAccepted:
			return nil, models.NewValidationError("You are already connected")
		case models.ConnectionStatusBlocked:
			return nil, models.NewValidationError("Connection is not available")
		case models.ConnectionStatusPending:
			if existing.RequesterID == userID {
				return nil, models.NewValidationError("Connection request already sent")
			}
			return nil, models.NewValidationError("You already have a pending request from this user")
		case models.ConnectionStatusDeclined:
			// A declined request may be retried from either side; the old row
			// is swapped out so direction and timestamps reflect the retry.
			replaceID = existing.ID
		}
	}

	connection := &models.Connection{
		RequesterID: userID,
		AddresseeID: targetUserID,
		Status:      models.ConnectionStatusPending,
	}
	if err := s.connectionRepo.Replace(ctx, replaceID, connection); err != nil {
		return nil, err
	}

	return s.connectionRepo.GetByID(ctx, connection.ID)
}

// GetPendingRequests returns connection requests awaiting the user's response.
func (s *ConnectionService) GetPendingRequests(ctx context.Context, userID uint) ([]models.Connection, error) {
	return s.connectionRepo.GetPendingRequests(ctx, userID)
}

// GetSentRequests returns pending requests the user has sent.
func (s *ConnectionService) GetSentRequests(ctx context.Context, userID uint) ([]models.Connection, error) {
	return s.connectionRepo.GetSentRequests(ctx, userID)
}

// AcceptRequest accepts a pending connection request.
func (s *ConnectionService) AcceptRequest(ctx context.Context, userID, requestID uint) (*models.Connection, error) {
	connection, err := s.connectionRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if connection.AddresseeID != userID {
		return nil, models.NewUnauthorizedError("You can only accept requests sent to you")
	}
	if connection.Status != models.ConnectionStatusPending {
		return nil, models.NewValidationError("Connection request is not pending")
	}

	if err := s.connectionRepo.UpdateStatus(ctx, requestID, models.ConnectionStatusAccepted); err != nil {
		return nil, err
	}

	return s.connectionRepo.GetByID(ctx, requestID)
}

// DeclineRequest declines or cancels a pending connection request.
func (s *ConnectionService) DeclineRequest(ctx context.Context, userID, requestID uint) (*models.Connection, error) {
	connection, err := s.connectionRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if connection.AddresseeID != userID && connection.RequesterID != userID {
		return nil, models.NewUnauthorizedError("You can only decline or cancel your own pending requests")
	}
	if connection.Status != models.ConnectionStatusPending {
		return nil, models.NewValidationError("Connection request is not pending")
	}

	if err := s.connectionRepo.Delete(ctx, requestID); err != nil {
		return nil, err
	}

	return connection, nil
}

// Block blocks another user, replacing any existing connection record.
func (s *ConnectionService) Block(ctx context.Context, userID, targetUserID uint) (*models.Connection, error) {
	if userID == targetUserID {
		return nil, models.NewValidationError("Cannot block yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	existing, err := s.connectionRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	replaceID := uint(0)
	if existing != nil {
		if existing.Status == models.ConnectionStatusBlocked && existing.RequesterID != userID {
			return nil, models.NewValidationError("Connection is not available")
		}
		replaceID = existing.ID
	}

	connection := &models.Connection{
		RequesterID: userID,
		AddresseeID: targetUserID,
		Status:      models.ConnectionStatusBlocked,
	}
	if err := s.connectionRepo.Replace(ctx, replaceID, connection); err != nil {
		return nil, err
	}
	return connection, nil
}

// Remove deletes an accepted connection between the user and another user.
func (s *ConnectionService) Remove(ctx context.Context, userID, otherUserID uint) error {
	connection, err := s.connectionRepo.GetBetweenUsers(ctx, userID, otherUserID)
	if err != nil {
		return err
	}
	if connection == nil || connection.Status != models.ConnectionStatusAccepted {
		return models.NewNotFoundError("Connection", otherUserID)
	}
	return s.connectionRepo.Delete(ctx, connection.ID)
}

// GetConnections returns the user's accepted connections.
func (s *ConnectionService) GetConnections(ctx context.Context, userID uint) ([]models.User, error) {
	return s.connectionRepo.GetConnections(ctx, userID)
}

// GetStatus reports the connection state between two users: "none",
// "connected", "blocked", "request_sent", or "request_received".
func (s *ConnectionService) GetStatus(ctx context.Context, userID, targetUserID uint) (string, *models.Connection, error) {
	connection, err := s.connectionRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return "", nil, err
	}
	if connection == nil {
		return "none", nil, nil
	}
	switch connection.Status {
	case models.ConnectionStatusAccepted:
		return "connected", connection, nil
	case models.ConnectionStatusBlocked:
		return "blocked", connection, nil
	case models.ConnectionStatusPending:
		if connection.RequesterID == userID {
			return "request_sent", connection, nil
		}
		return "request_received", connection, nil
	}
	return "none", connection, nil
}

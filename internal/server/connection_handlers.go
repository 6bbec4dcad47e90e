package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetConnections handles GET /api/connections
// @Summary List accepted connections
// @Tags connections
// @Produce json
// @Success 200 {array} models.User
// @Security BearerAuth
// @Router /connections [get]
func (s *Server) GetConnections(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	users, err := s.connectionService.GetConnections(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// SendConnectionRequest handles POST /api/connections/requests/:userId
// @Summary Send a connection request
// @Tags connections
// @Produce json
// @Param userId path int true "Target user ID"
// @Success 201 {object} models.Connection
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /connections/requests/{userId} [post]
func (s *Server) SendConnectionRequest(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	connection, err := s.connectionService.SendRequest(ctx, userID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(targetID, EventConnectionRequestRecv, map[string]interface{}{
		"request_id": connection.ID,
		"from":       userSummary(connection.Requester),
	})

	return c.Status(fiber.StatusCreated).JSON(connection)
}

// GetPendingConnectionRequests handles GET /api/connections/requests
// @Summary List incoming connection requests
// @Tags connections
// @Produce json
// @Success 200 {array} models.Connection
// @Security BearerAuth
// @Router /connections/requests [get]
func (s *Server) GetPendingConnectionRequests(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	requests, err := s.connectionService.GetPendingRequests(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// GetSentConnectionRequests handles GET /api/connections/requests/sent
// @Summary List outgoing connection requests
// @Tags connections
// @Produce json
// @Success 200 {array} models.Connection
// @Security BearerAuth
// @Router /connections/requests/sent [get]
func (s *Server) GetSentConnectionRequests(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	requests, err := s.connectionService.GetSentRequests(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// AcceptConnectionRequest handles POST /api/connections/requests/:requestId/accept
// @Summary Accept a connection request
// @Tags connections
// @Produce json
// @Param requestId path int true "Request ID"
// @Success 200 {object} models.Connection
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /connections/requests/{requestId}/accept [post]
func (s *Server) AcceptConnectionRequest(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	connection, err := s.connectionService.AcceptRequest(ctx, userID, requestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(connection.RequesterID, EventConnectionAccepted, map[string]interface{}{
		"request_id": connection.ID,
		"by":         userSummary(connection.Addressee),
	})

	return c.JSON(connection)
}

// DeclineConnectionRequest handles POST /api/connections/requests/:requestId/decline
// @Summary Decline a connection request
// @Tags connections
// @Produce json
// @Param requestId path int true "Request ID"
// @Success 200 {object} object{message=string}
// @Security BearerAuth
// @Router /connections/requests/{requestId}/decline [post]
func (s *Server) DeclineConnectionRequest(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	connection, err := s.connectionService.DeclineRequest(ctx, userID, requestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(connection.RequesterID, EventConnectionDeclined, map[string]interface{}{
		"request_id": connection.ID,
	})

	return c.JSON(fiber.Map{"message": "Request declined"})
}

// BlockUser handles POST /api/connections/block/:userId
// @Summary Block a user
// @Tags connections
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} models.Connection
// @Security BearerAuth
// @Router /connections/block/{userId} [post]
func (s *Server) BlockUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	connection, err := s.connectionService.Block(ctx, userID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(connection)
}

// GetConnectionStatus handles GET /api/connections/status/:userId
// @Summary Get connection status with another user
// @Tags connections
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} object{status=string}
// @Security BearerAuth
// @Router /connections/status/{userId} [get]
func (s *Server) GetConnectionStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	status, connection, err := s.connectionService.GetStatus(ctx, userID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	resp := fiber.Map{"status": status}
	if connection != nil {
		resp["connection"] = connection
	}
	return c.JSON(resp)
}

// RemoveConnection handles DELETE /api/connections/:userId
// @Summary Remove an accepted connection
// @Tags connections
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} object{message=string}
// @Security BearerAuth
// @Router /connections/{userId} [delete]
func (s *Server) RemoveConnection(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.connectionService.Remove(ctx, userID, otherID); err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(otherID, EventConnectionRemoved, map[string]interface{}{
		"user_id": userID,
	})

	return c.JSON(fiber.Map{"message": "Connection removed"})
}

package server

import (
	"farmfit/internal/models"
	"farmfit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitRating handles POST /api/ratings
// @Summary Submit a rating
// @Description Create a rating for an approved clinic or practitioner. One live rating per user per subject.
// @Tags ratings
// @Accept json
// @Produce json
// @Param request body service.SubmitRatingInput true "Rating"
// @Success 201 {object} models.Rating
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ratings [post]
func (s *Server) SubmitRating(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req service.SubmitRatingInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	rating, err := s.ratingService.Submit(ctx, userID, req)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishBroadcastEvent(EventRatingCreated, map[string]interface{}{
		"rating":       rating,
		"subject_type": rating.SubjectType,
		"subject_id":   rating.SubjectID,
	})

	return c.Status(fiber.StatusCreated).JSON(rating)
}

// GetRating handles GET /api/ratings/:id (public)
// @Summary Get a rating
// @Tags ratings
// @Produce json
// @Param id path int true "Rating ID"
// @Success 200 {object} models.Rating
// @Failure 404 {object} models.ErrorResponse
// @Router /ratings/{id} [get]
func (s *Server) GetRating(c *fiber.Ctx) error {
	ctx := c.UserContext()

	ratingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	rating, err := s.ratingService.Get(ctx, ratingID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rating)
}

// GetMyRatings handles GET /api/ratings/me
// @Summary List my ratings
// @Tags ratings
// @Produce json
// @Success 200 {array} models.Rating
// @Security BearerAuth
// @Router /ratings/me [get]
func (s *Server) GetMyRatings(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 20)

	ratings, err := s.ratingService.ListByUser(ctx, userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(ratings)
}

// UpdateRating handles PUT /api/ratings/:id
// @Summary Edit a rating
// @Description Edit your own rating. Edits are capped per rating.
// @Tags ratings
// @Accept json
// @Produce json
// @Param id path int true "Rating ID"
// @Param request body service.UpdateRatingInput true "Changes"
// @Success 200 {object} models.Rating
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ratings/{id} [put]
func (s *Server) UpdateRating(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	ratingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdateRatingInput
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	rating, err := s.ratingService.Update(ctx, userID, ratingID, req)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishBroadcastEvent(EventRatingUpdated, map[string]interface{}{
		"rating":       rating,
		"subject_type": rating.SubjectType,
		"subject_id":   rating.SubjectID,
	})

	return c.JSON(rating)
}

// DeleteRating handles DELETE /api/ratings/:id
// @Summary Delete a rating
// @Description Soft-delete your own rating (admins may delete any).
// @Tags ratings
// @Produce json
// @Param id path int true "Rating ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ratings/{id} [delete]
func (s *Server) DeleteRating(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	ratingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.ratingService.Delete(ctx, userID, ratingID); err != nil {
		return respondServiceError(c, err)
	}

	s.publishBroadcastEvent(EventRatingDeleted, map[string]interface{}{
		"rating_id": ratingID,
	})

	return c.JSON(fiber.Map{"message": "Rating deleted"})
}

// VoteRating handles POST /api/ratings/:id/vote
// @Summary Vote on a rating's helpfulness
// @Description First vote inserts, opposite vote flips, same-side repeat removes.
// @Tags ratings
// @Accept json
// @Produce json
// @Param id path int true "Rating ID"
// @Param request body object{is_helpful=bool} true "Vote"
// @Success 200 {object} object{action=string}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ratings/{id}/vote [post]
func (s *Server) VoteRating(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	ratingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		IsHelpful *bool `json:"is_helpful"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil || req.IsHelpful == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("is_helpful is required"))
	}

	action, err := s.ratingService.Vote(ctx, userID, ratingID, *req.IsHelpful)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishBroadcastEvent(EventRatingVoteUpdated, map[string]interface{}{
		"rating_id": ratingID,
		"action":    action,
	})

	return c.JSON(fiber.Map{"action": action})
}

// ReportRating handles POST /api/ratings/:id/report
// @Summary Report a rating
// @Description File a moderation report. One report per user per rating.
// @Tags moderation
// @Accept json
// @Produce json
// @Param id path int true "Rating ID"
// @Param request body object{reason=string,details=string} true "Report"
// @Success 201 {object} models.RatingReport
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ratings/{id}/report [post]
func (s *Server) ReportRating(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	ratingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason  models.ReportReason `json:"reason"`
		Details string              `json:"details"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.moderationService.Report(ctx, userID, ratingID, req.Reason, req.Details)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

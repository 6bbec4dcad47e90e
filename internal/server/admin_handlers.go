package server

import (
	"farmfit/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetReports handles GET /api/admin/reports
// @Summary List moderation reports
// @Description List rating reports, optionally filtered by status.
// @Tags admin
// @Produce json
// @Param status query string false "pending|reviewed|dismissed|action_taken"
// @Success 200 {array} models.RatingReport
// @Security BearerAuth
// @Router /admin/reports [get]
func (s *Server) GetReports(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 50)

	reports, err := s.moderationService.ListReports(ctx, userID, c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reports)
}

// ReviewReport handles POST /api/admin/reports/:id/review
// @Summary Review a report
// @Description Resolve a pending report. "action_taken" additionally flags the reported rating.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Report ID"
// @Param request body object{status=string,notes=string} true "Review"
// @Success 200 {object} models.RatingReport
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/reports/{id}/review [post]
func (s *Server) ReviewReport(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	reportID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.moderationService.Review(ctx, userID, reportID, req.Status, req.Notes)
	if err != nil {
		return respondServiceError(c, err)
	}

	if req.Status == models.ReportStatusActionTaken {
		s.publishBroadcastEvent(EventRatingFlagged, map[string]interface{}{
			"rating_id": report.RatingID,
		})
	}

	return c.JSON(report)
}

// DeleteFlaggedRating handles DELETE /api/admin/ratings/:id
// @Summary Delete a flagged rating
// @Description Soft-delete a rating that has already been flagged via report review.
// @Tags admin
// @Produce json
// @Param id path int true "Rating ID"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/ratings/{id} [delete]
func (s *Server) DeleteFlaggedRating(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	ratingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moderationService.DeleteFlagged(ctx, userID, ratingID); err != nil {
		return respondServiceError(c, err)
	}

	s.publishBroadcastEvent(EventRatingDeleted, map[string]interface{}{
		"rating_id": ratingID,
	})

	return c.JSON(fiber.Map{"message": "Rating deleted"})
}

// GetPendingSubjects handles GET /api/admin/subjects/pending
// @Summary List pending subject profiles
// @Tags admin
// @Produce json
// @Success 200 {object} object{clinics=[]models.Clinic,practitioners=[]models.Practitioner}
// @Security BearerAuth
// @Router /admin/subjects/pending [get]
func (s *Server) GetPendingSubjects(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	clinics, err := s.subjectService.ListPendingClinics(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	practitioners, err := s.subjectService.ListPendingPractitioners(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"clinics":       clinics,
		"practitioners": practitioners,
	})
}

// ApproveSubject handles POST /api/admin/subjects/:type/:id/approve
// @Summary Approve a subject profile
// @Tags admin
// @Produce json
// @Param type path string true "clinic|practitioner"
// @Param id path int true "Subject ID"
// @Success 200 {object} object{message=string}
// @Security BearerAuth
// @Router /admin/subjects/{type}/{id}/approve [post]
func (s *Server) ApproveSubject(c *fiber.Ctx) error {
	return s.setSubjectStatus(c, models.SubjectStatusApproved)
}

// RejectSubject handles POST /api/admin/subjects/:type/:id/reject
// @Summary Reject a subject profile
// @Tags admin
// @Produce json
// @Param type path string true "clinic|practitioner"
// @Param id path int true "Subject ID"
// @Success 200 {object} object{message=string}
// @Security BearerAuth
// @Router /admin/subjects/{type}/{id}/reject [post]
func (s *Server) RejectSubject(c *fiber.Ctx) error {
	return s.setSubjectStatus(c, models.SubjectStatusRejected)
}

// ActivateSubject handles POST /api/admin/subjects/:type/:id/activate
// @Summary Reactivate a subject profile
// @Tags admin
// @Security BearerAuth
// @Router /admin/subjects/{type}/{id}/activate [post]
func (s *Server) ActivateSubject(c *fiber.Ctx) error {
	return s.setSubjectActive(c, true)
}

// DeactivateSubject handles POST /api/admin/subjects/:type/:id/deactivate
// @Summary Deactivate a subject profile
// @Tags admin
// @Security BearerAuth
// @Router /admin/subjects/{type}/{id}/deactivate [post]
func (s *Server) DeactivateSubject(c *fiber.Ctx) error {
	return s.setSubjectActive(c, false)
}

func (s *Server) setSubjectStatus(c *fiber.Ctx, status models.SubjectStatus) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	subjectType, err := s.parseSubjectType(c, "type")
	if err != nil {
		return nil
	}
	subjectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.subjectService.SetStatus(ctx, userID, subjectType, subjectID, status); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subject " + string(status)})
}

func (s *Server) setSubjectActive(c *fiber.Ctx, active bool) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	subjectType, err := s.parseSubjectType(c, "type")
	if err != nil {
		return nil
	}
	subjectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.subjectService.SetActive(ctx, userID, subjectType, subjectID, active); err != nil {
		return respondServiceError(c, err)
	}

	message := "Subject deactivated"
	if active {
		message = "Subject activated"
	}
	return c.JSON(fiber.Map{"message": message})
}

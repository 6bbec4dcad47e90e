package server

import (
	"context"

	"farmfit/internal/models"
	"farmfit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// summaryFor fetches the rating summary for one subject; a degraded summary
// never fails the surrounding request.
func (s *Server) summaryFor(ctx context.Context, subjectType models.SubjectType, subjectID uint, detailed bool) *models.RatingSummary {
	summary, err := s.ratingService.GetSummary(ctx, subjectType, subjectID, detailed)
	if err != nil {
		return nil
	}
	return summary
}

// GetClinics handles GET /api/clinics (public discovery)
// @Summary Discover clinics
// @Description List approved, active clinics. Supports q (name/address search), limit, offset.
// @Tags subjects
// @Produce json
// @Param q query string false "Search query"
// @Success 200 {array} models.Clinic
// @Router /clinics [get]
func (s *Server) GetClinics(c *fiber.Ctx) error {
	ctx := c.UserContext()
	p := parsePagination(c, 20)

	clinics, err := s.subjectService.DiscoverClinics(ctx, c.Query("q"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	for i := range clinics {
		clinics[i].Summary = s.summaryFor(ctx, models.SubjectTypeClinic, clinics[i].ID, false)
	}
	return c.JSON(clinics)
}

// GetClinic handles GET /api/clinics/:id (public)
// @Summary Get a clinic
// @Tags subjects
// @Produce json
// @Param id path int true "Clinic ID"
// @Success 200 {object} models.Clinic
// @Failure 404 {object} models.ErrorResponse
// @Router /clinics/{id} [get]
func (s *Server) GetClinic(c *fiber.Ctx) error {
	ctx := c.UserContext()

	clinicID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, _ := s.optionalUserID(c)
	clinic, err := s.subjectService.GetClinic(ctx, viewerID, clinicID)
	if err != nil {
		return respondServiceError(c, err)
	}
	clinic.Summary = s.summaryFor(ctx, models.SubjectTypeClinic, clinic.ID, true)
	return c.JSON(clinic)
}

// GetClinicRatings handles GET /api/clinics/:id/ratings (public)
// @Summary List a clinic's ratings
// @Tags ratings
// @Produce json
// @Param id path int true "Clinic ID"
// @Success 200 {array} models.Rating
// @Router /clinics/{id}/ratings [get]
func (s *Server) GetClinicRatings(c *fiber.Ctx) error {
	return s.subjectRatings(c, models.SubjectTypeClinic)
}

// GetClinicSummary handles GET /api/clinics/:id/summary (public)
// @Summary Get a clinic's rating summary
// @Description Count, mean rating, star histogram, and per-dimension means.
// @Tags ratings
// @Produce json
// @Param id path int true "Clinic ID"
// @Success 200 {object} models.RatingSummary
// @Router /clinics/{id}/summary [get]
func (s *Server) GetClinicSummary(c *fiber.Ctx) error {
	return s.subjectSummary(c, models.SubjectTypeClinic)
}

// GetPractitioners handles GET /api/practitioners (public discovery)
// @Summary Discover practitioners
// @Description List approved, active practitioners. Supports q, clinic_id, limit, offset.
// @Tags subjects
// @Produce json
// @Param q query string false "Search query"
// @Param clinic_id query int false "Filter by clinic"
// @Success 200 {array} models.Practitioner
// @Router /practitioners [get]
func (s *Server) GetPractitioners(c *fiber.Ctx) error {
	ctx := c.UserContext()
	p := parsePagination(c, 20)

	var clinicID *uint
	if id := c.QueryInt("clinic_id", 0); id > 0 {
		v := uint(id)
		clinicID = &v
	}

	practitioners, err := s.subjectService.DiscoverPractitioners(ctx, c.Query("q"), clinicID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	for i := range practitioners {
		practitioners[i].Summary = s.summaryFor(ctx, models.SubjectTypePractitioner, practitioners[i].ID, false)
	}
	return c.JSON(practitioners)
}

// GetPractitioner handles GET /api/practitioners/:id (public)
// @Summary Get a practitioner
// @Tags subjects
// @Produce json
// @Param id path int true "Practitioner ID"
// @Success 200 {object} models.Practitioner
// @Failure 404 {object} models.ErrorResponse
// @Router /practitioners/{id} [get]
func (s *Server) GetPractitioner(c *fiber.Ctx) error {
	ctx := c.UserContext()

	practitionerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, _ := s.optionalUserID(c)
	practitioner, err := s.subjectService.GetPractitioner(ctx, viewerID, practitionerID)
	if err != nil {
		return respondServiceError(c, err)
	}
	practitioner.Summary = s.summaryFor(ctx, models.SubjectTypePractitioner, practitioner.ID, true)
	return c.JSON(practitioner)
}

// GetPractitionerRatings handles GET /api/practitioners/:id/ratings (public)
// @Summary List a practitioner's ratings
// @Tags ratings
// @Produce json
// @Param id path int true "Practitioner ID"
// @Success 200 {array} models.Rating
// @Router /practitioners/{id}/ratings [get]
func (s *Server) GetPractitionerRatings(c *fiber.Ctx) error {
	return s.subjectRatings(c, models.SubjectTypePractitioner)
}

// GetPractitionerSummary handles GET /api/practitioners/:id/summary (public)
// @Summary Get a practitioner's rating summary
// @Tags ratings
// @Produce json
// @Param id path int true "Practitioner ID"
// @Success 200 {object} models.RatingSummary
// @Router /practitioners/{id}/summary [get]
func (s *Server) GetPractitionerSummary(c *fiber.Ctx) error {
	return s.subjectSummary(c, models.SubjectTypePractitioner)
}

// SubmitClinic handles POST /api/clinics
// @Summary Submit a clinic profile
// @Description File a clinic profile for admin approval.
// @Tags subjects
// @Accept json
// @Produce json
// @Param request body service.SubmitClinicInput true "Clinic"
// @Success 201 {object} models.Clinic
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /clinics [post]
func (s *Server) SubmitClinic(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req service.SubmitClinicInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	clinic, err := s.subjectService.SubmitClinic(ctx, userID, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(clinic)
}

// SubmitPractitioner handles POST /api/practitioners
// @Summary Submit a practitioner profile
// @Tags subjects
// @Accept json
// @Produce json
// @Param request body service.SubmitPractitionerInput true "Practitioner"
// @Success 201 {object} models.Practitioner
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /practitioners [post]
func (s *Server) SubmitPractitioner(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req service.SubmitPractitionerInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	practitioner, err := s.subjectService.SubmitPractitioner(ctx, userID, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(practitioner)
}

func (s *Server) subjectRatings(c *fiber.Ctx, subjectType models.SubjectType) error {
	ctx := c.UserContext()

	subjectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	ratings, err := s.ratingService.ListBySubject(ctx, subjectType, subjectID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(ratings)
}

func (s *Server) subjectSummary(c *fiber.Ctx, subjectType models.SubjectType) error {
	ctx := c.UserContext()

	subjectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	summary, err := s.ratingService.GetSummary(ctx, subjectType, subjectID, c.QueryBool("detailed", true))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summary)
}

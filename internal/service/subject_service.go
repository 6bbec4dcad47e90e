package service

import (
	"context"

	"farmfit/internal/models"
	"farmfit/internal/repository"
)

// SubmitClinicInput carries the fields for a new clinic profile submission.
type SubmitClinicInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	PhotoURL    string `json:"photo_url"`
}

// SubmitPractitionerInput carries the fields for a new practitioner profile submission.
type SubmitPractitionerInput struct {
	FullName        string `json:"full_name"`
	Specialty       string `json:"specialty"`
	Bio             string `json:"bio"`
	YearsExperience int    `json:"years_experience"`
	PhotoURL        string `json:"photo_url"`
	ClinicID        *uint  `json:"clinic_id"`
}

// SubjectService provides clinic and practitioner profile lifecycle logic:
// user submission, admin approval, and discovery of approved profiles.
type SubjectService struct {
	subjectRepo repository.SubjectRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

// NewSubjectService returns a new SubjectService.
func NewSubjectService(
	subjectRepo repository.SubjectRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *SubjectService {
	return &SubjectService{subjectRepo: subjectRepo, isAdmin: isAdmin}
}

// SubmitClinic files a new clinic profile, pending admin approval.
func (s *SubjectService) SubmitClinic(ctx context.Context, userID uint, input SubmitClinicInput) (*models.Clinic, error) {
	if input.Name == "" {
		return nil, models.NewValidationError("name is required")
	}
	if len(input.Name) > 160 {
		return nil, models.NewValidationError("name must not exceed 160 characters")
	}

	clinic := &models.Clinic{
		Name:              input.Name,
		Description:       input.Description,
		Address:           input.Address,
		Phone:             input.Phone,
		Website:           input.Website,
		PhotoURL:          input.PhotoURL,
		Status:            models.SubjectStatusPending,
		IsActive:          true,
		SubmittedByUserID: userID,
	}
	if err := s.subjectRepo.CreateClinic(ctx, clinic); err != nil {
		return nil, err
	}
	return clinic, nil
}

// SubmitPractitioner files a new practitioner profile, pending admin approval.
// When a clinic is referenced it must already be approved.
func (s *SubjectService) SubmitPractitioner(ctx context.Context, userID uint, input SubmitPractitionerInput) (*models.Practitioner, error) {
	if input.FullName == "" {
		return nil, models.NewValidationError("full_name is required")
	}
	if len(input.FullName) > 160 {
		return nil, models.NewValidationError("full_name must not exceed 160 characters")
	}
	if input.YearsExperience < 0 || input.YearsExperience > 80 {
		return nil, models.NewValidationError("years_experience out of range")
	}
	if input.ClinicID != nil {
		if _, err := s.subjectRepo.ResolveSubject(ctx, models.SubjectTypeClinic, *input.ClinicID); err != nil {
			return nil, err
		}
	}

	practitioner := &models.Practitioner{
		FullName:          input.FullName,
		Specialty:         input.Specialty,
		Bio:               input.Bio,
		YearsExperience:   input.YearsExperience,
		PhotoURL:          input.PhotoURL,
		ClinicID:          input.ClinicID,
		Status:            models.SubjectStatusPending,
		IsActive:          true,
		SubmittedByUserID: userID,
	}
	if err := s.subjectRepo.CreatePractitioner(ctx, practitioner); err != nil {
		return nil, err
	}
	return practitioner, nil
}

// GetClinic returns a clinic profile. Unapproved or inactive clinics are only
// visible to their submitter and admins.
func (s *SubjectService) GetClinic(ctx context.Context, userID, clinicID uint) (*models.Clinic, error) {
	clinic, err := s.subjectRepo.GetClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if clinic.Status == models.SubjectStatusApproved && clinic.IsActive {
		return clinic, nil
	}
	if err := s.requireSubmitterOrAdmin(ctx, userID, clinic.SubmittedByUserID); err != nil {
		return nil, models.NewNotFoundError("Clinic", clinicID)
	}
	return clinic, nil
}

// GetPractitioner returns a practitioner profile under the same visibility
// rules as GetClinic.
func (s *SubjectService) GetPractitioner(ctx context.Context, userID, practitionerID uint) (*models.Practitioner, error) {
	practitioner, err := s.subjectRepo.GetPractitioner(ctx, practitionerID)
	if err != nil {
		return nil, err
	}
	if practitioner.Status == models.SubjectStatusApproved && practitioner.IsActive {
		return practitioner, nil
	}
	if err := s.requireSubmitterOrAdmin(ctx, userID, practitioner.SubmittedByUserID); err != nil {
		return nil, models.NewNotFoundError("Practitioner", practitionerID)
	}
	return practitioner, nil
}

// DiscoverClinics lists approved, active clinics matching an optional search query.
func (s *SubjectService) DiscoverClinics(ctx context.Context, query string, limit, offset int) ([]models.Clinic, error) {
	return s.subjectRepo.ListClinics(ctx, query, limit, offset)
}

// DiscoverPractitioners lists approved, active practitioners, optionally
// filtered by search query and clinic.
func (s *SubjectService) DiscoverPractitioners(ctx context.Context, query string, clinicID *uint, limit, offset int) ([]models.Practitioner, error) {
	return s.subjectRepo.ListPractitioners(ctx, query, clinicID, limit, offset)
}

// ListPendingClinics returns clinics awaiting approval, oldest first.
func (s *SubjectService) ListPendingClinics(ctx context.Context, adminID uint) ([]models.Clinic, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.subjectRepo.ListPendingClinics(ctx)
}

// ListPendingPractitioners returns practitioners awaiting approval, oldest first.
func (s *SubjectService) ListPendingPractitioners(ctx context.Context, adminID uint) ([]models.Practitioner, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.subjectRepo.ListPendingPractitioners(ctx)
}

// SetStatus approves or rejects a pending subject profile.
func (s *SubjectService) SetStatus(ctx context.Context, adminID uint, subjectType models.SubjectType, subjectID uint, status models.SubjectStatus) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if status != models.SubjectStatusApproved && status != models.SubjectStatusRejected {
		return models.NewValidationError("status must be approved or rejected")
	}

	switch subjectType {
	case models.SubjectTypeClinic:
		return s.subjectRepo.SetClinicStatus(ctx, subjectID, status)
	case models.SubjectTypePractitioner:
		return s.subjectRepo.SetPractitionerStatus(ctx, subjectID, status)
	}
	return models.NewValidationError("subject_type must be clinic or practitioner")
}

// SetActive toggles the soft visibility switch on an approved subject.
func (s *SubjectService) SetActive(ctx context.Context, adminID uint, subjectType models.SubjectType, subjectID uint, active bool) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}

	switch subjectType {
	case models.SubjectTypeClinic:
		clinic, err := s.subjectRepo.GetClinic(ctx, subjectID)
		if err != nil {
			return err
		}
		clinic.IsActive = active
		return s.subjectRepo.UpdateClinic(ctx, clinic)
	case models.SubjectTypePractitioner:
		practitioner, err := s.subjectRepo.GetPractitioner(ctx, subjectID)
		if err != nil {
			return err
		}
		practitioner.IsActive = active
		return s.subjectRepo.UpdatePractitioner(ctx, practitioner)
	}
	return models.NewValidationError("subject_type must be clinic or practitioner")
}

func (s *SubjectService) requireAdmin(ctx context.Context, userID uint) error {
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewUnauthorizedError("Admin access required")
	}
	return nil
}

func (s *SubjectService) requireSubmitterOrAdmin(ctx context.Context, userID, submitterID uint) error {
	if userID != 0 && userID == submitterID {
		return nil
	}
	if userID != 0 {
		admin, err := s.isAdmin(ctx, userID)
		if err == nil && admin {
			return nil
		}
	}
	return models.NewUnauthorizedError("not visible")
}

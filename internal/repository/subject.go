package repository

import (
	"context"
	"errors"

	"farmfit/internal/models"

	"gorm.io/gorm"
)

// SubjectRepository defines the interface for clinic and practitioner data
// operations. Both subject kinds share a lifecycle (submit, approve or reject,
// deactivate) so they live behind one repository.
type SubjectRepository interface {
	CreateClinic(ctx context.Context, clinic *models.Clinic) error
	GetClinic(ctx context.Context, id uint) (*models.Clinic, error)
	ListClinics(ctx context.Context, query string, limit, offset int) ([]models.Clinic, error)
	UpdateClinic(ctx context.Context, clinic *models.Clinic) error

	CreatePractitioner(ctx context.Context, p *models.Practitioner) error
	GetPractitioner(ctx context.Context, id uint) (*models.Practitioner, error)
	ListPractitioners(ctx context.Context, query string, clinicID *uint, limit, offset int) ([]models.Practitioner, error)
	UpdatePractitioner(ctx context.Context, p *models.Practitioner) error

	ListPendingClinics(ctx context.Context) ([]models.Clinic, error)
	ListPendingPractitioners(ctx context.Context) ([]models.Practitioner, error)
	SetClinicStatus(ctx context.Context, id uint, status models.SubjectStatus) error
	SetPractitionerStatus(ctx context.Context, id uint, status models.SubjectStatus) error

	// ResolveSubject returns a display reference for an approved, active
	// subject, or a not-found error when no such subject is rateable.
	ResolveSubject(ctx context.Context, subjectType models.SubjectType, id uint) (*models.SubjectRef, error)
}

type subjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) CreateClinic(ctx context.Context, clinic *models.Clinic) error {
	if err := r.db.WithContext(ctx).Create(clinic).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subjectRepository) GetClinic(ctx context.Context, id uint) (*models.Clinic, error) {
	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Clinic", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &clinic, nil
}

func (r *subjectRepository) ListClinics(ctx context.Context, query string, limit, offset int) ([]models.Clinic, error) {
	var clinics []models.Clinic
	q := r.db.WithContext(ctx).
		Where("status = ? AND is_active = ?", models.SubjectStatusApproved, true)
	if query != "" {
		q = q.Where("name LIKE ? OR address LIKE ?", "%"+query+"%", "%"+query+"%")
	}
	if err := q.Order("name ASC").Limit(limit).Offset(offset).Find(&clinics).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return clinics, nil
}

func (r *subjectRepository) UpdateClinic(ctx context.Context, clinic *models.Clinic) error {
	if err := r.db.WithContext(ctx).Save(clinic).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subjectRepository) CreatePractitioner(ctx context.Context, p *models.Practitioner) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subjectRepository) GetPractitioner(ctx context.Context, id uint) (*models.Practitioner, error) {
	var p models.Practitioner
	if err := r.db.WithContext(ctx).Preload("Clinic").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Practitioner", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &p, nil
}

func (r *subjectRepository) ListPractitioners(ctx context.Context, query string, clinicID *uint, limit, offset int) ([]models.Practitioner, error) {
	var practitioners []models.Practitioner
	q := r.db.WithContext(ctx).
		Where("status = ? AND is_active = ?", models.SubjectStatusApproved, true)
	if query != "" {
		q = q.Where("full_name LIKE ? OR specialty LIKE ?", "%"+query+"%", "%"+query+"%")
	}
	if clinicID != nil {
		q = q.Where("clinic_id = ?", *clinicID)
	}
	if err := q.Order("full_name ASC").Limit(limit).Offset(offset).Find(&practitioners).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return practitioners, nil
}

func (r *subjectRepository) UpdatePractitioner(ctx context.Context, p *models.Practitioner) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subjectRepository) ListPendingClinics(ctx context.Context) ([]models.Clinic, error) {
	var clinics []models.Clinic
	if err := r.db.WithContext(ctx).
		Where("status = ?", models.SubjectStatusPending).
		Preload("SubmittedBy").
		Order("created_at ASC").
		Find(&clinics).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return clinics, nil
}

func (r *subjectRepository) ListPendingPractitioners(ctx context.Context) ([]models.Practitioner, error) {
	var practitioners []models.Practitioner
	if err := r.db.WithContext(ctx).
		Where("status = ?", models.SubjectStatusPending).
		Preload("SubmittedBy").
		Order("created_at ASC").
		Find(&practitioners).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return practitioners, nil
}

func (r *subjectRepository) SetClinicStatus(ctx context.Context, id uint, status models.SubjectStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Clinic{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Clinic", id)
	}
	return nil
}

func (r *subjectRepository) SetPractitionerStatus(ctx context.Context, id uint, status models.SubjectStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Practitioner{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Practitioner", id)
	}
	return nil
}

func (r *subjectRepository) ResolveSubject(ctx context.Context, subjectType models.SubjectType, id uint) (*models.SubjectRef, error) {
	switch subjectType {
	case models.SubjectTypeClinic:
		var clinic models.Clinic
		err := r.db.WithContext(ctx).
			Where("id = ? AND status = ? AND is_active = ?", id, models.SubjectStatusApproved, true).
			First(&clinic).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Clinic", id)
			}
			return nil, models.NewInternalError(err)
		}
		return &models.SubjectRef{Type: models.SubjectTypeClinic, ID: clinic.ID, Name: clinic.Name}, nil
	case models.SubjectTypePractitioner:
		var p models.Practitioner
		err := r.db.WithContext(ctx).
			Where("id = ? AND status = ? AND is_active = ?", id, models.SubjectStatusApproved, true).
			First(&p).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Practitioner", id)
			}
			return nil, models.NewInternalError(err)
		}
		return &models.SubjectRef{Type: models.SubjectTypePractitioner, ID: p.ID, Name: p.FullName}, nil
	}
	return nil, models.NewValidationError("unknown subject type")
}

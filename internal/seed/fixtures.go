package seed

import (
	_ "embed"
	"fmt"

	"farmfit/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type clinicFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Address     string `yaml:"address"`
	Phone       string `yaml:"phone"`
	Website     string `yaml:"website"`
}

type practitionerFixture struct {
	FullName        string `yaml:"full_name"`
	Specialty       string `yaml:"specialty"`
	Bio             string `yaml:"bio"`
	YearsExperience int    `yaml:"years_experience"`
	Clinic          string `yaml:"clinic"`
}

type fixtures struct {
	Clinics       []clinicFixture       `yaml:"clinics"`
	Practitioners []practitionerFixture `yaml:"practitioners"`
}

func loadFixtures() (*fixtures, error) {
	var f fixtures
	if err := yaml.Unmarshal(fixturesYAML, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// SeedSubjects creates the built-in clinic and practitioner profiles from the
// bundled fixtures, pre-approved and attributed to the given admin user.
// Profiles that already exist by name are left untouched.
func SeedSubjects(db *gorm.DB, adminID uint) ([]models.Clinic, []models.Practitioner, error) {
	f, err := loadFixtures()
	if err != nil {
		return nil, nil, err
	}

	clinicsByName := make(map[string]*models.Clinic, len(f.Clinics))
	clinics := make([]models.Clinic, 0, len(f.Clinics))
	for _, cf := range f.Clinics {
		clinic := models.Clinic{
			Name:              cf.Name,
			Description:       cf.Description,
			Address:           cf.Address,
			Phone:             cf.Phone,
			Website:           cf.Website,
			Status:            models.SubjectStatusApproved,
			IsActive:          true,
			SubmittedByUserID: adminID,
		}
		if err := db.Where(models.Clinic{Name: cf.Name}).FirstOrCreate(&clinic).Error; err != nil {
			return nil, nil, fmt.Errorf("seed clinic %q: %w", cf.Name, err)
		}
		clinics = append(clinics, clinic)
		clinicsByName[clinic.Name] = &clinics[len(clinics)-1]
	}

	practitioners := make([]models.Practitioner, 0, len(f.Practitioners))
	for _, pf := range f.Practitioners {
		practitioner := models.Practitioner{
			FullName:          pf.FullName,
			Specialty:         pf.Specialty,
			Bio:               pf.Bio,
			YearsExperience:   pf.YearsExperience,
			Status:            models.SubjectStatusApproved,
			IsActive:          true,
			SubmittedByUserID: adminID,
		}
		if clinic, ok := clinicsByName[pf.Clinic]; ok {
			practitioner.ClinicID = &clinic.ID
		}
		if err := db.Where(models.Practitioner{FullName: pf.FullName}).FirstOrCreate(&practitioner).Error; err != nil {
			return nil, nil, fmt.Errorf("seed practitioner %q: %w", pf.FullName, err)
		}
		practitioners = append(practitioners, practitioner)
	}

	return clinics, practitioners, nil
}

package postgres

import (
	"gorm.io/gorm"

	"drtc/licensing/internal/models"
)

type companyStore struct {
	db *gorm.DB
}

func (s *companyStore) Create(company *models.Company) error {
	return translate(s.db.Create(company).Error)
}

func (s *companyStore) GetByID(id uint) (*models.Company, error) {
	var company models.Company
	if err := s.db.First(&company, id).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

func (s *companyStore) GetByTaxID(taxID string) (*models.Company, error) {
	var company models.Company
	if err := s.db.Where("tax_id = ?", taxID).First(&company).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

func (s *companyStore) List() ([]models.Company, error) {
	var companies []models.Company
	if err := s.db.Order("id").Find(&companies).Error; err != nil {
		return nil, translate(err)
	}
	return companies, nil
}

func (s *companyStore) Update(company *models.Company) error {
	return translate(s.db.Omit("Drivers").Save(company).Error)
}

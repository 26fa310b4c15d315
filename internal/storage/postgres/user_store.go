package postgres

import (
	"gorm.io/gorm"

	"drtc/licensing/internal/models"
)

type userStore struct {
	db *gorm.DB
}

func (s *userStore) Create(user *models.User) error {
	return translate(s.db.Create(user).Error)
}

func (s *userStore) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Company").First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *userStore) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Company").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *userStore) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (s *userStore) Update(user *models.User) error {
	return translate(s.db.Omit("Company").Save(user).Error)
}

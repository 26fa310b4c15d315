package postgres

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"drtc/licensing/internal/models"
)

type paymentStore struct {
	db *gorm.DB
}

func (s *paymentStore) Create(payment *models.Payment) error {
	return translate(s.db.Create(payment).Error)
}

func (s *paymentStore) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Preload("FeeEntry").First(&payment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (s *paymentStore) GetByIDForUpdate(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (s *paymentStore) GetByRequestID(requestID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Preload("FeeEntry").Where("request_id = ?", requestID).First(&payment).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (s *paymentStore) ReceiptExists(receiptNumber string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Payment{}).Where("receipt_number = ?", receiptNumber).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (s *paymentStore) ListByPeriod(from, to time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Where("paid_on BETWEEN ? AND ?", from, to).Order("paid_on").Find(&payments).Error; err != nil {
		return nil, translate(err)
	}
	return payments, nil
}

func (s *paymentStore) Update(payment *models.Payment) error {
	return translate(s.db.Omit("FeeEntry", "Request").Save(payment).Error)
}

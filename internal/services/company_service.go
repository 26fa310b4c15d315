package services

import (
	"errors"

	"github.com/sirupsen/logrus"

	"drtc/licensing/internal/access"
	"drtc/licensing/internal/apperrors"
	"drtc/licensing/internal/models"
	"drtc/licensing/internal/storage"
)

// CompanyService maintains the transport-company registry.
type CompanyService struct {
	stg storage.IStorage
	acl *access.Evaluator
	log *logrus.Logger
}

func NewCompanyService(stg storage.IStorage, acl *access.Evaluator, log *logrus.Logger) *CompanyService {
	return &CompanyService{stg: stg, acl: acl, log: log}
}

// Create registers a company. Company administration is regulator-side
// user management territory.
func (s *CompanyService) Create(actor access.Actor, company *models.Company) (*models.Company, error) {
	if err := s.acl.Require(actor, access.ActionManageUsers, 0); err != nil {
		return nil, err
	}
	if company.Name == "" {
		return nil, apperrors.Validation("name", "must not be empty")
	}
	if len(company.TaxID) != 11 {
		return nil, apperrors.Validation("tax_id", "must be exactly 11 digits")
	}
	company.Active = true
	err := s.stg.WithinTx(func(tx storage.IStorage) error {
		if err := tx.Company().Create(company); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return apperrors.Conflict("a company with this tax id already exists")
			}
			return err
		}
		return recordAudit(tx, actor.UserID, "company.create", "company", company.ID, company.Name)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"company_id": company.ID, "name": company.Name}).Info("company registered")
	return company, nil
}

// Get returns a company by id.
func (s *CompanyService) Get(companyID uint) (*models.Company, error) {
	company, err := s.stg.Company().GetByID(companyID)
	if err != nil {
		return nil, notFoundOr(err, "company", companyID)
	}
	return company, nil
}

// List returns all registered companies.
func (s *CompanyService) List() ([]models.Company, error) {
	return s.stg.Company().List()
}

// Deactivate blocks a company from registering new drivers. Existing
// authorizations are untouched; suspending them is a workflow decision.
func (s *CompanyService) Deactivate(actor access.Actor, companyID uint) (*models.Company, error) {
	if err := s.acl.Require(actor, access.ActionManageUsers, 0); err != nil {
		return nil, err
	}
	var company *models.Company
	err := s.stg.WithinTx(func(tx storage.IStorage) error {
		var err error
		company, err = tx.Company().GetByID(companyID)
		if err != nil {
			return notFoundOr(err, "company", companyID)
		}
		if !company.Active {
			return apperrors.Validation("company_id", "company is already inactive")
		}
		company.Active = false
		if err := tx.Company().Update(company); err != nil {
			return err
		}
		return recordAudit(tx, actor.UserID, "company.deactivate", "company", company.ID, company.Name)
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

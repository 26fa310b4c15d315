package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"drtc/licensing/internal/access"
	"drtc/licensing/internal/apperrors"
	"drtc/licensing/internal/models"
	"drtc/licensing/internal/storage"
)

// DefaultFeeCode is the procedure code for a driver authorization.
const DefaultFeeCode = "DRIVER-AUTH"

type FeeService struct {
	stg storage.IStorage
	acl *access.Evaluator
	log *logrus.Logger
}

func NewFeeService(stg storage.IStorage, acl *access.Evaluator, log *logrus.Logger) *FeeService {
	return &FeeService{stg: stg, acl: acl, log: log}
}

// Resolve returns the fee entry in force for a procedure code on the given
// date. When several windows contain the date the most recently started one
// wins; keeping windows non-overlapping is the schedule loader's job.
func (s *FeeService) Resolve(code string, asOf time.Time) (*models.FeeScheduleEntry, error) {
	entries, err := s.stg.Fee().ListByCode(code)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].InForceOn(asOf) {
			return &entries[i], nil
		}
	}
	return nil, apperrors.NotFound("fee schedule entry", fmt.Sprintf("%s as of %s", code, asOf.Format("2006-01-02")))
}

// CreateEntry adds a fee schedule entry. Schedule maintenance is part of
// payment administration.
func (s *FeeService) CreateEntry(actor access.Actor, entry *models.FeeScheduleEntry) (*models.FeeScheduleEntry, error) {
	if err := s.acl.Require(actor, access.ActionManagePayment, 0); err != nil {
		return nil, err
	}
	if entry.Code == "" {
		return nil, apperrors.Validation("code", "must not be empty")
	}
	if entry.Amount <= 0 {
		return nil, apperrors.Validation("amount", "must be positive")
	}
	if entry.ValidUntil != nil && entry.ValidUntil.Before(entry.ValidFrom) {
		return nil, apperrors.Validation("valid_until", "must not precede valid_from")
	}
	entry.Active = true
	if err := s.stg.Fee().Create(entry); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"code": entry.Code, "amount": entry.Amount}).Info("fee schedule entry created")
	return entry, nil
}

// ListActive returns the currently loaded active schedule.
func (s *FeeService) ListActive() ([]models.FeeScheduleEntry, error) {
	return s.stg.Fee().ListActive()
}

// Quote resolves the amount due for a code today, for building a payment
// order at the counter.
func (s *FeeService) Quote(code string) (*models.FeeScheduleEntry, error) {
	if code == "" {
		code = DefaultFeeCode
	}
	entry, err := s.Resolve(code, time.Now())
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Package postgres implements the storage interfaces over gorm.
package postgres

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"drtc/licensing/internal/storage"
)

type Storage struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) User() storage.IUserStorage       { return &userStore{db: s.db} }
func (s *Storage) Company() storage.ICompanyStorage { return &companyStore{db: s.db} }
func (s *Storage) Driver() storage.IDriverStorage   { return &driverStore{db: s.db} }
func (s *Storage) Request() storage.IRequestStorage { return &requestStore{db: s.db} }
func (s *Storage) Fee() storage.IFeeStorage         { return &feeStore{db: s.db} }
func (s *Storage) Payment() storage.IPaymentStorage { return &paymentStore{db: s.db} }
func (s *Storage) Audit() storage.IAuditStorage     { return &auditStore{db: s.db} }

// WithinTx wraps fn in a database transaction. Row locks taken via
// GetByIDForUpdate hold until commit or rollback.
func (s *Storage) WithinTx(fn func(storage.IStorage) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// translate maps driver-level errors onto the storage sentinels so the
// service layer never sees gorm or pq types.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return storage.ErrDuplicate
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return storage.ErrDuplicate
	}
	return err
}

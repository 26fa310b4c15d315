// Package storage defines the persistence boundary of the licensing
// engine. Services only see these interfaces; the postgres implementation
// backs the server and the memory implementation backs tests.
package storage

import (
	"errors"
	"time"

	"drtc/licensing/internal/models"
)

// ErrNotFound is returned by every Get* when no row matches. Both
// implementations use it so services never import driver errors.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint would be violated.
var ErrDuplicate = errors.New("duplicate record")

type IStorage interface {
	User() IUserStorage
	Company() ICompanyStorage
	Driver() IDriverStorage
	Request() IRequestStorage
	Fee() IFeeStorage
	Payment() IPaymentStorage
	Audit() IAuditStorage

	// WithinTx runs fn as a single atomic unit. All reads and writes made
	// through the IStorage passed to fn commit together or not at all.
	// Request rows fetched with GetByIDForUpdate inside fn are locked
	// until the unit ends, serializing concurrent transitions on the same
	// request.
	WithinTx(fn func(IStorage) error) error
}

type IUserStorage interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	List() ([]models.User, error)
	Update(user *models.User) error
}

type ICompanyStorage interface {
	Create(company *models.Company) error
	GetByID(id uint) (*models.Company, error)
	GetByTaxID(taxID string) (*models.Company, error)
	List() ([]models.Company, error)
	Update(company *models.Company) error
}

type IDriverStorage interface {
	Create(driver *models.Driver) error
	GetByID(id uint) (*models.Driver, error)
	GetByNationalID(nationalID string) (*models.Driver, error)
	List() ([]models.Driver, error)
	ListByCompany(companyID uint) ([]models.Driver, error)
	// ListExpiring returns drivers whose license or medical certificate
	// expires on or before the given day.
	ListExpiring(by time.Time) ([]models.Driver, error)
	Update(driver *models.Driver) error
	AppendLog(entry *models.DriverLogEntry) error
	ListLog(driverID uint) ([]models.DriverLogEntry, error)
}

type IRequestStorage interface {
	Create(request *models.AuthorizationRequest) error
	GetByID(id uint) (*models.AuthorizationRequest, error)
	// GetByIDForUpdate is GetByID plus an exclusive row lock when called
	// inside WithinTx.
	GetByIDForUpdate(id uint) (*models.AuthorizationRequest, error)
	// GetActiveByDriver returns the driver's non-terminal request, or
	// ErrNotFound when every request reached a terminal state.
	GetActiveByDriver(driverID uint) (*models.AuthorizationRequest, error)
	CodeExists(code string) (bool, error)
	List() ([]models.AuthorizationRequest, error)
	ListByState(state models.RequestState) ([]models.AuthorizationRequest, error)
	Update(request *models.AuthorizationRequest) error
	AppendLog(entry *models.RequestLogEntry) error
	ListLog(requestID uint) ([]models.RequestLogEntry, error)
}

type IFeeStorage interface {
	Create(entry *models.FeeScheduleEntry) error
	GetByID(id uint) (*models.FeeScheduleEntry, error)
	// ListByCode returns entries for a code ordered by ValidFrom
	// descending.
	ListByCode(code string) ([]models.FeeScheduleEntry, error)
	ListActive() ([]models.FeeScheduleEntry, error)
}

type IPaymentStorage interface {
	Create(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByIDForUpdate(id uint) (*models.Payment, error)
	GetByRequestID(requestID uint) (*models.Payment, error)
	ReceiptExists(receiptNumber string) (bool, error)
	// ListByPeriod returns payments whose PaidOn falls inside [from, to],
	// bounds inclusive.
	ListByPeriod(from, to time.Time) ([]models.Payment, error)
	Update(payment *models.Payment) error
}

type IAuditStorage interface {
	Append(entry *models.AuditEntry) error
	List(limit, offset int) ([]models.AuditEntry, error)
}

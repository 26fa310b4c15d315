package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"drtc/licensing/internal/access"
	"drtc/licensing/internal/apperrors"
	"drtc/licensing/internal/models"
	"drtc/licensing/internal/storage"
)

// PaymentService is the ledger gate: one payment per authorization request,
// confirmed or rejected exactly once.
type PaymentService struct {
	stg storage.IStorage
	acl *access.Evaluator
	log *logrus.Logger
}

func NewPaymentService(stg storage.IStorage, acl *access.Evaluator, log *logrus.Logger) *PaymentService {
	return &PaymentService{stg: stg, acl: acl, log: log}
}

// RegisterInput carries the receipt details handed in at the counter.
type RegisterInput struct {
	RequestID     uint
	FeeEntryID    uint
	Amount        float64
	PaidOn        time.Time
	ReceiptNumber string
	BankEntity    string
	Note          string
}

// Register records a payment against a request. The amount must match the
// fee entry within models.AmountEpsilon, the request must not already have
// a payment, and the receipt number must be unused.
func (s *PaymentService) Register(actor access.Actor, input RegisterInput) (*models.Payment, error) {
	var payment *models.Payment
	err := s.stg.WithinTx(func(tx storage.IStorage) error {
		request, err := tx.Request().GetByID(input.RequestID)
		if err != nil {
			return notFoundOr(err, "authorization request", input.RequestID)
		}
		if err := s.acl.Require(actor, access.ActionManagePayment, request.Driver.CompanyID); err != nil {
			return err
		}
		if _, err := tx.Payment().GetByRequestID(request.ID); err == nil {
			return apperrors.Conflict(fmt.Sprintf("request %s already has a payment", request.Code))
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		exists, err := tx.Payment().ReceiptExists(input.ReceiptNumber)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Conflict(fmt.Sprintf("receipt %s is already registered", input.ReceiptNumber))
		}
		entry, err := tx.Fee().GetByID(input.FeeEntryID)
		if err != nil {
			return notFoundOr(err, "fee schedule entry", input.FeeEntryID)
		}
		if !models.AmountMatches(input.Amount, entry.Amount) {
			return apperrors.Validation("amount",
				fmt.Sprintf("paid %.2f does not match scheduled fee %.2f", input.Amount, entry.Amount))
		}
		if input.ReceiptNumber == "" {
			return apperrors.Validation("receipt_number", "must not be empty")
		}

		payment = &models.Payment{
			RequestID:      request.ID,
			FeeEntryID:     entry.ID,
			ReceiptNumber:  input.ReceiptNumber,
			Amount:         input.Amount,
			PaidOn:         input.PaidOn,
			BankEntity:     input.BankEntity,
			State:          models.PaymentPending,
			Note:           input.Note,
			RegisteredByID: &actor.UserID,
		}
		if err := tx.Payment().Create(payment); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return apperrors.Conflict("payment already registered for this request or receipt")
			}
			return err
		}
		return recordAudit(tx, actor.UserID, "payment.register", "payment", payment.ID,
			fmt.Sprintf("receipt %s for request %s", payment.ReceiptNumber, request.Code))
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"payment_id": payment.ID, "receipt": payment.ReceiptNumber}).Info("payment registered")
	return payment, nil
}

// Confirm moves a pending payment to confirmed. Confirming twice fails: the
// second call is a validation error, never a silent no-op.
func (s *PaymentService) Confirm(actor access.Actor, paymentID uint) (*models.Payment, error) {
	var payment *models.Payment
	err := s.stg.WithinTx(func(tx storage.IStorage) error {
		var err error
		payment, err = tx.Payment().GetByIDForUpdate(paymentID)
		if err != nil {
			return notFoundOr(err, "payment", paymentID)
		}
		request, err := tx.Request().GetByID(payment.RequestID)
		if err != nil {
			return notFoundOr(err, "authorization request", payment.RequestID)
		}
		if err := s.acl.Require(actor, access.ActionManagePayment, request.Driver.CompanyID); err != nil {
			return err
		}
		if payment.State != models.PaymentPending {
			return apperrors.Validation("state",
				fmt.Sprintf("payment cannot be confirmed from state %s", payment.State))
		}
		now := time.Now()
		payment.State = models.PaymentConfirmed
		payment.ConfirmedByID = &actor.UserID
		payment.ConfirmedAt = &now
		if err := tx.Payment().Update(payment); err != nil {
			return err
		}
		return recordAudit(tx, actor.UserID, "payment.confirm", "payment", payment.ID,
			fmt.Sprintf("receipt %s confirmed", payment.ReceiptNumber))
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("payment_id", payment.ID).Info("payment confirmed")
	return payment, nil
}

// Reject moves a pending payment to rejected and appends the reason to its
// note.
func (s *PaymentService) Reject(actor access.Actor, paymentID uint, reason string) (*models.Payment, error) {
	var payment *models.Payment
	err := s.stg.WithinTx(func(tx storage.IStorage) error {
		var err error
		payment, err = tx.Payment().GetByIDForUpdate(paymentID)
		if err != nil {
			return notFoundOr(err, "payment", paymentID)
		}
		request, err := tx.Request().GetByID(payment.RequestID)
		if err != nil {
			return notFoundOr(err, "authorization request", payment.RequestID)
		}
		if err := s.acl.Require(actor, access.ActionManagePayment, request.Driver.CompanyID); err != nil {
			return err
		}
		if payment.State != models.PaymentPending {
			return apperrors.Validation("state",
				fmt.Sprintf("payment cannot be rejected from state %s", payment.State))
		}
		if reason == "" {
			return apperrors.Validation("reason", "must not be empty")
		}
		payment.State = models.PaymentRejected
		payment.RejectedByID = &actor.UserID
		if payment.Note != "" {
			payment.Note += "\n"
		}
		payment.Note += "rejected: " + reason
		if err := tx.Payment().Update(payment); err != nil {
			return err
		}
		return recordAudit(tx, actor.UserID, "payment.reject", "payment", payment.ID, reason)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("payment_id", payment.ID).Info("payment rejected")
	return payment, nil
}

// IsConfirmed reports whether the request's payment exists and is
// confirmed. Read-only; this is the gate Enable consults.
func (s *PaymentService) IsConfirmed(requestID uint) (bool, error) {
	payment, err := s.stg.Payment().GetByRequestID(requestID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return payment.State == models.PaymentConfirmed, nil
}

// IncomeReport aggregates the payments registered in a period. Only
// confirmed amounts count as income; pending ones are carried separately
// so the desk can chase them.
type IncomeReport struct {
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	TotalCount      int       `json:"total_count"`
	ConfirmedCount  int       `json:"confirmed_count"`
	PendingCount    int       `json:"pending_count"`
	RejectedCount   int       `json:"rejected_count"`
	ConfirmedAmount float64   `json:"confirmed_amount"`
	PendingAmount   float64   `json:"pending_amount"`
}

// Report summarizes payments whose PaidOn falls inside [from, to], bounds
// inclusive.
func (s *PaymentService) Report(actor access.Actor, from, to time.Time) (*IncomeReport, error) {
	if err := s.acl.Require(actor, access.ActionManagePayment, 0); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, apperrors.Validation("to", "must not be before from")
	}
	payments, err := s.stg.Payment().ListByPeriod(from, to)
	if err != nil {
		return nil, err
	}
	report := &IncomeReport{From: from, To: to, TotalCount: len(payments)}
	for _, payment := range payments {
		switch payment.State {
		case models.PaymentConfirmed:
			report.ConfirmedCount++
			report.ConfirmedAmount += payment.Amount
		case models.PaymentRejected:
			report.RejectedCount++
		default:
			report.PendingCount++
			report.PendingAmount += payment.Amount
		}
	}
	return report, nil
}

// GetByRequest returns the payment tied to a request.
func (s *PaymentService) GetByRequest(requestID uint) (*models.Payment, error) {
	payment, err := s.stg.Payment().GetByRequestID(requestID)
	if err != nil {
		return nil, notFoundOr(err, "payment for request", requestID)
	}
	return payment, nil
}

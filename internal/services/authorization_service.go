package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"drtc/licensing/internal/access"
	"drtc/licensing/internal/apperrors"
	"drtc/licensing/internal/models"
	"drtc/licensing/internal/storage"
)

const (
	observeJustificationMin = 10
	suspendJustificationMin = 20
	revokeJustificationMin  = 20

	codeAttempts = 5
)

// ReinstatePolicy names what Suspended -> Enabled re-checks. The prior
// approval and confirmed payment always stand; the policy decides whether
// the license must still be unexpired at reinstatement time.
type ReinstatePolicy int

const (
	// ReinstateKeepsPriorApproval reinstates on the strength of the
	// original enablement alone.
	ReinstateKeepsPriorApproval ReinstatePolicy = iota
	// ReinstateRequiresValidLicense additionally requires an unexpired
	// license when reinstating.
	ReinstateRequiresValidLicense
)

// AuthorizationService runs the licensing workflow. Every transition
// executes the same ordered steps: access check, transition-table check,
// transition-specific preconditions, then one atomic mutation that updates
// the request, mirrors the driver and appends to both logs.
type AuthorizationService struct {
	stg       storage.IStorage
	acl       *access.Evaluator
	payments  *PaymentService
	log       *logrus.Logger
	reinstate ReinstatePolicy
}

func NewAuthorizationService(stg storage.IStorage, acl *access.Evaluator, payments *PaymentService, log *logrus.Logger) *AuthorizationService {
	return &AuthorizationService{stg: stg, acl: acl, payments: payments, log: log}
}

// SetReinstatePolicy overrides the default ReinstateKeepsPriorApproval.
func (s *AuthorizationService) SetReinstatePolicy(p ReinstatePolicy) {
	s.reinstate = p
}

// newRequestCode generates a unique human-readable request code, retrying
// a bounded number of times on collision.
func newRequestCode(tx storage.IStorage) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		code := fmt.Sprintf("AUT-%s-%s", time.Now().Format("20060102150405"), suffix)
		exists, err := tx.Request().CodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", apperrors.Conflict("could not generate a unique request code")
}

// precondition runs with the locked request inside the transaction, after
// the access and legality checks and before any mutation.
type precondition func(tx storage.IStorage, request *models.AuthorizationRequest, now time.Time) error

// requireJustification enforces a minimum trimmed length. Called from
// preconditions so callers without permission get PermissionDenied before
// any detail about the payload.
func requireJustification(field, text string, min int) error {
	if len(strings.TrimSpace(text)) < min {
		return apperrors.Validation(field,
			fmt.Sprintf("must be at least %d characters", min))
	}
	return nil
}

func (s *AuthorizationService) transition(
	actor access.Actor,
	requestID uint,
	action access.Action,
	to models.RequestState,
	note string,
	pre precondition,
) (*models.AuthorizationRequest, error) {
	var snapshot *models.AuthorizationRequest
	err := s.stg.WithinTx(func(tx storage.IStorage) error {
		request, err := tx.Request().GetByIDForUpdate(requestID)
		if err != nil {
			return notFoundOr(err, "authorization request", requestID)
		}
		if err := s.acl.Require(actor, action, request.Driver.CompanyID); err != nil {
			return err
		}
		if !models.CanRequestTransition(request.State, to) {
			return apperrors.InvalidTransition("authorization request", string(request.State), string(to))
		}
		from := request.State
		fromDriver := request.Driver.State
		toDriver := models.ProjectDriverState(to)
		if fromDriver != toDriver && !models.CanDriverTransition(fromDriver, toDriver) {
			return apperrors.InvalidTransition("driver", string(fromDriver), string(toDriver))
		}
		now := time.Now()
		if pre != nil {
			if err := pre(tx, request, now); err != nil {
				return err
			}
		}

		request.State = to
		if err := tx.Request().Update(request); err != nil {
			return err
		}
		if err := tx.Request().AppendLog(&models.RequestLogEntry{
			RequestID: request.ID,
			ActorID:   actor.UserID,
			FromState: from,
			ToState:   to,
			Note:      note,
		}); err != nil {
			return err
		}

		driver := request.Driver
		if toDriver != fromDriver {
			driver.State = toDriver
			if err := tx.Driver().Update(&driver); err != nil {
				return err
			}
			if err := tx.Driver().AppendLog(&models.DriverLogEntry{
				DriverID:  driver.ID,
				ActorID:   actor.UserID,
				FromState: fromDriver,
				ToState:   toDriver,
				Note:      note,
			}); err != nil {
				return err
			}
		}
		if err := recordAudit(tx, actor.UserID, "request."+string(action), "authorization_request", request.ID,
			fmt.Sprintf("%s: %s -> %s", request.Code, from, to)); err != nil {
			return err
		}

		request.Driver = driver
		snapshot = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"request": snapshot.Code,
		"state":   snapshot.State,
		"actor":   actor.UserID,
	}).Info("authorization request transitioned")
	return snapshot, nil
}

// Review takes a requested authorization into review.
func (s *AuthorizationService) Review(actor access.Actor, requestID uint, note string) (*models.AuthorizationRequest, error) {
	return s.transition(actor, requestID, access.ActionReview, models.RequestInReview, note,
		func(_ storage.IStorage, request *models.AuthorizationRequest, now time.Time) error {
			request.ReviewedByID = &actor.UserID
			request.ReviewedAt = &now
			return nil
		})
}

// Approve approves a request under review. The driver's license must be
// unexpired as of now.
func (s *AuthorizationService) Approve(actor access.Actor, requestID uint, note string) (*models.AuthorizationRequest, error) {
	return s.transition(actor, requestID, access.ActionApprove, models.RequestApproved, note,
		func(_ storage.IStorage, request *models.AuthorizationRequest, now time.Time) error {
			if !request.Driver.LicenseValidOn(now) {
				return apperrors.DocumentValidation(
					fmt.Sprintf("driver license expired on %s", request.Driver.LicenseExpiry.Format("2006-01-02")))
			}
			request.ApprovedByID = &actor.UserID
			request.ApprovedAt = &now
			return nil
		})
}

// Observe sends a request under review back with observations. The reason
// is part of the domain contract, not just the transport schema.
func (s *AuthorizationService) Observe(actor access.Actor, requestID uint, reason string) (*models.AuthorizationRequest, error) {
	return s.transition(actor, requestID, access.ActionObserve, models.RequestObserved, reason,
		func(_ storage.IStorage, _ *models.AuthorizationRequest, _ time.Time) error {
			return requireJustification("reason", reason, observeJustificationMin)
		})
}

// Resubmit returns an observed request to the queue.
func (s *AuthorizationService) Resubmit(actor access.Actor, requestID uint, note string) (*models.AuthorizationRequest, error) {
	return s.transition(actor, requestID, access.ActionChangeDriverState, models.RequestRequested, note, nil)
}

// Enable grants the authorization. Requires a confirmed payment and a
// strictly future validity end date.
func (s *AuthorizationService) Enable(actor access.Actor, requestID uint, validUntil time.Time, note string) (*models.AuthorizationRequest, error) {
	return s.transition(actor, requestID, access.ActionEnable, models.RequestEnabled, note,
		func(tx storage.IStorage, request *models.AuthorizationRequest, now time.Time) error {
			// Enabling a suspended request is a reinstatement and
			// keeps the original enablement stamps.
			if request.State == models.RequestSuspended {
				return s.checkReinstate(request, now)
			}
			confirmed, err := paymentConfirmed(tx, request.ID)
			if err != nil {
				return err
			}
			if !confirmed {
				return apperrors.PaymentNotConfirmed(request.Code)
			}
			if !validUntil.After(now) {
				return apperrors.Validation("valid_until", "must be a future date")
			}
			request.EnabledByID = &actor.UserID
			request.EnabledAt = &now
			request.ValidUntil = &validUntil
			return nil
		})
}

// Suspend takes an enabled authorization out of force, reversibly.
func (s *AuthorizationService) Suspend(actor access.Actor, requestID uint, justification string) (*models.AuthorizationRequest, error) {
	return s.transition(actor, requestID, access.ActionSuspend, models.RequestSuspended, justification,
		func(_ storage.IStorage, _ *models.AuthorizationRequest, _ time.Time) error {
			return requireJustification("justification", justification, suspendJustificationMin)
		})
}

// Reinstate lifts a suspension. Payment is never re-checked: the 1:1
// ledger record stays confirmed. License expiry is re-checked only under
// ReinstateRequiresValidLicense.
func (s *AuthorizationService) Reinstate(actor access.Actor, requestID uint, note string) (*models.AuthorizationRequest, error) {
	return s.transition(actor, requestID, access.ActionEnable, models.RequestEnabled, note,
		func(_ storage.IStorage, request *models.AuthorizationRequest, now time.Time) error {
			return s.checkReinstate(request, now)
		})
}

func (s *AuthorizationService) checkReinstate(request *models.AuthorizationRequest, now time.Time) error {
	if s.reinstate == ReinstateRequiresValidLicense && !request.Driver.LicenseValidOn(now) {
		return apperrors.DocumentValidation(
			fmt.Sprintf("driver license expired on %s", request.Driver.LicenseExpiry.Format("2006-01-02")))
	}
	return nil
}

// Revoke terminates an enabled or approved authorization. Irreversible.
func (s *AuthorizationService) Revoke(actor access.Actor, requestID uint, justification string) (*models.AuthorizationRequest, error) {
	return s.transition(actor, requestID, access.ActionRevoke, models.RequestRejected, justification,
		func(_ storage.IStorage, _ *models.AuthorizationRequest, _ time.Time) error {
			return requireJustification("justification", justification, revokeJustificationMin)
		})
}

// Get returns a request with its driver.
func (s *AuthorizationService) Get(requestID uint) (*models.AuthorizationRequest, error) {
	request, err := s.stg.Request().GetByID(requestID)
	if err != nil {
		return nil, notFoundOr(err, "authorization request", requestID)
	}
	return request, nil
}

// List returns requests, optionally filtered by state.
func (s *AuthorizationService) List(state models.RequestState) ([]models.AuthorizationRequest, error) {
	if state == "" {
		return s.stg.Request().List()
	}
	return s.stg.Request().ListByState(state)
}

// Log returns the request's append-only narrative log in order.
func (s *AuthorizationService) Log(requestID uint) ([]models.RequestLogEntry, error) {
	if _, err := s.stg.Request().GetByID(requestID); err != nil {
		return nil, notFoundOr(err, "authorization request", requestID)
	}
	return s.stg.Request().ListLog(requestID)
}

// paymentConfirmed is the in-transaction variant of
// PaymentService.IsConfirmed so Enable reads through the same atomic unit
// it mutates in.
func paymentConfirmed(tx storage.IStorage, requestID uint) (bool, error) {
	payment, err := tx.Payment().GetByRequestID(requestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return payment.State == models.PaymentConfirmed, nil
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drtc/licensing/internal/apperrors"
	"drtc/licensing/internal/models"
)

func TestRegisterPayment(t *testing.T) {
	e := newEnv(t)
	_, request := e.registerDriver(t)

	payment, err := e.payments.Register(e.operator, RegisterInput{
		RequestID:     request.ID,
		FeeEntryID:    e.feeEntry.ID,
		Amount:        30.50,
		PaidOn:        time.Now(),
		ReceiptNumber: "BN-000123",
		BankEntity:    "Banco de la Nación",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.State)
	assert.Equal(t, e.operator.UserID, *payment.RegisteredByID)

	got, err := e.payments.GetByRequest(request.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, got.ID)
}

func TestRegisterPaymentAmountEpsilon(t *testing.T) {
	e := newEnv(t)
	_, request := e.registerDriver(t)

	// One cent over is rejected
	_, err := e.payments.Register(e.operator, RegisterInput{
		RequestID:     request.ID,
		FeeEntryID:    e.feeEntry.ID,
		Amount:        30.51,
		PaidOn:        time.Now(),
		ReceiptNumber: "BN-000124",
	})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	// Sub-cent noise is accepted
	_, err = e.payments.Register(e.operator, RegisterInput{
		RequestID:     request.ID,
		FeeEntryID:    e.feeEntry.ID,
		Amount:        30.505,
		PaidOn:        time.Now(),
		ReceiptNumber: "BN-000124",
	})
	require.NoError(t, err)
}

func TestOnePaymentPerRequest(t *testing.T) {
	e := newEnv(t)
	_, request := e.registerDriver(t)

	input := RegisterInput{
		RequestID:     request.ID,
		FeeEntryID:    e.feeEntry.ID,
		Amount:        30.50,
		PaidOn:        time.Now(),
		ReceiptNumber: "BN-000125",
	}
	_, err := e.payments.Register(e.operator, input)
	require.NoError(t, err)

	input.ReceiptNumber = "BN-000126"
	_, err = e.payments.Register(e.operator, input)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestReceiptNumberUnique(t *testing.T) {
	e := newEnv(t)
	_, first := e.registerDriver(t)
	_, second := e.registerDriver(t)

	_, err := e.payments.Register(e.operator, RegisterInput{
		RequestID:     first.ID,
		FeeEntryID:    e.feeEntry.ID,
		Amount:        30.50,
		PaidOn:        time.Now(),
		ReceiptNumber: "BN-000127",
	})
	require.NoError(t, err)

	_, err = e.payments.Register(e.operator, RegisterInput{
		RequestID:     second.ID,
		FeeEntryID:    e.feeEntry.ID,
		Amount:        30.50,
		PaidOn:        time.Now(),
		ReceiptNumber: "BN-000127",
	})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestConfirmPaymentOnce(t *testing.T) {
	e := newEnv(t)
	_, request := e.registerDriver(t)
	payment, err := e.payments.Register(e.operator, RegisterInput{
		RequestID:     request.ID,
		FeeEntryID:    e.feeEntry.ID,
		Amount:        30.50,
		PaidOn:        time.Now(),
		ReceiptNumber: "BN-000128",
	})
	require.NoError(t, err)

	confirmed, err := e.payments.Confirm(e.operator, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentConfirmed, confirmed.State)
	assert.Equal(t, e.operator.UserID, *confirmed.ConfirmedByID)
	assert.NotNil(t, confirmed.ConfirmedAt)

	// Confirming twice is an error, not a no-op
	_, err = e.payments.Confirm(e.operator, payment.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	ok, err := e.payments.IsConfirmed(request.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRejectPayment(t *testing.T) {
	e := newEnv(t)
	_, request := e.registerDriver(t)
	payment, err := e.payments.Register(e.operator, RegisterInput{
		RequestID:     request.ID,
		FeeEntryID:    e.feeEntry.ID,
		Amount:        30.50,
		PaidOn:        time.Now(),
		ReceiptNumber: "BN-000129",
	})
	require.NoError(t, err)

	_, err = e.payments.Reject(e.operator, payment.ID, "")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	rejected, err := e.payments.Reject(e.operator, payment.ID, "receipt belongs to another procedure")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRejected, rejected.State)
	assert.Contains(t, rejected.Note, "rejected: receipt belongs to another procedure")

	// A rejected payment never satisfies the enable gate
	ok, err := e.payments.IsConfirmed(request.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// And cannot be confirmed afterwards
	_, err = e.payments.Confirm(e.operator, payment.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestPaymentPermissions(t *testing.T) {
	e := newEnv(t)
	_, request := e.registerDriver(t)

	_, err := e.payments.Register(e.manager, RegisterInput{
		RequestID:     request.ID,
		FeeEntryID:    e.feeEntry.ID,
		Amount:        30.50,
		PaidOn:        time.Now(),
		ReceiptNumber: "BN-000130",
	})
	assert.True(t, apperrors.Is(err, apperrors.KindPermissionDenied))
}

func TestIncomeReport(t *testing.T) {
	e := newEnv(t)
	_, first := e.registerDriver(t)
	_, second := e.registerDriver(t)
	_, third := e.registerDriver(t)

	paidOn := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	register := func(requestID uint, receipt string) *models.Payment {
		payment, err := e.payments.Register(e.operator, RegisterInput{
			RequestID:     requestID,
			FeeEntryID:    e.feeEntry.ID,
			Amount:        30.50,
			PaidOn:        paidOn,
			ReceiptNumber: receipt,
		})
		require.NoError(t, err)
		return payment
	}
	confirmed := register(first.ID, "BN-000131")
	_, err := e.payments.Confirm(e.operator, confirmed.ID)
	require.NoError(t, err)
	rejected := register(second.ID, "BN-000132")
	_, err = e.payments.Reject(e.operator, rejected.ID, "wrong procedure")
	require.NoError(t, err)
	register(third.ID, "BN-000133")

	report, err := e.payments.Report(e.operator,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalCount)
	assert.Equal(t, 1, report.ConfirmedCount)
	assert.Equal(t, 1, report.PendingCount)
	assert.Equal(t, 1, report.RejectedCount)
	assert.InDelta(t, 30.50, report.ConfirmedAmount, 0.001)
	assert.InDelta(t, 30.50, report.PendingAmount, 0.001)

	// A period that misses every payment yields an empty report
	empty, err := e.payments.Report(e.operator,
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalCount)
}

func TestIncomeReportInvalidPeriod(t *testing.T) {
	e := newEnv(t)
	_, err := e.payments.Report(e.operator,
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestIncomeReportPermissions(t *testing.T) {
	e := newEnv(t)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	_, err := e.payments.Report(e.manager, from, to)
	assert.True(t, apperrors.Is(err, apperrors.KindPermissionDenied))
}

func TestIsConfirmedWithoutPayment(t *testing.T) {
	e := newEnv(t)
	_, request := e.registerDriver(t)
	ok, err := e.payments.IsConfirmed(request.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

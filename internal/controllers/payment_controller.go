package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/middleware"
	"drtc/licensing/internal/services"
)

type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

// RegisterPayment records a receipt against an authorization request.
func (ctl *PaymentController) RegisterPayment(c *gin.Context) {
	var body struct {
		RequestID     uint      `json:"request_id" binding:"required"`
		FeeEntryID    uint      `json:"fee_entry_id" binding:"required"`
		Amount        float64   `json:"amount" binding:"required"`
		PaidOn        time.Time `json:"paid_on" binding:"required"`
		ReceiptNumber string    `json:"receipt_number" binding:"required"`
		BankEntity    string    `json:"bank_entity"`
		Note          string    `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := ctl.payments.Register(middleware.MustActor(c), services.RegisterInput{
		RequestID:     body.RequestID,
		FeeEntryID:    body.FeeEntryID,
		Amount:        body.Amount,
		PaidOn:        body.PaidOn,
		ReceiptNumber: body.ReceiptNumber,
		BankEntity:    body.BankEntity,
		Note:          body.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// ConfirmPayment confirms a pending payment.
func (ctl *PaymentController) ConfirmPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payment, err := ctl.payments.Confirm(middleware.MustActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// RejectPayment rejects a pending payment with a reason.
func (ctl *PaymentController) RejectPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payment, err := ctl.payments.Reject(middleware.MustActor(c), id, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// IncomeReport summarizes payments registered between the from and to
// query dates (YYYY-MM-DD, both inclusive).
func (ctl *PaymentController) IncomeReport(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a YYYY-MM-DD date"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be a YYYY-MM-DD date"})
		return
	}
	// Make the end bound cover the whole day.
	to = to.Add(24*time.Hour - time.Nanosecond)

	report, err := ctl.payments.Report(middleware.MustActor(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetRequestPayment returns the payment tied to a request.
func (ctl *PaymentController) GetRequestPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payment, err := ctl.payments.GetByRequest(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

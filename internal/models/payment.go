package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// AmountEpsilon is the tolerance when comparing a paid amount against the
// fee schedule. Amounts are stored as numeric(10,2), so anything below one
// cent is rounding noise.
const AmountEpsilon = 0.01

// Payment is the single payment record tied to an authorization request.
type Payment struct {
	gorm.Model
	RequestID uint                 `json:"request_id" gorm:"uniqueIndex;not null"`
	Request   AuthorizationRequest `json:"-" gorm:"foreignKey:RequestID"`

	FeeEntryID uint             `json:"fee_entry_id" gorm:"index"`
	FeeEntry   FeeScheduleEntry `json:"fee_entry,omitempty" gorm:"foreignKey:FeeEntryID"`

	ReceiptNumber string    `json:"receipt_number" gorm:"unique;not null"`
	Amount        float64   `json:"amount" gorm:"type:numeric(10,2)"`
	PaidOn        time.Time `json:"paid_on"`
	BankEntity    string    `json:"bank_entity"`

	State PaymentState `json:"state" gorm:"index;default:pending"`
	Note  string       `json:"note"`

	RegisteredByID *uint      `json:"registered_by_id,omitempty"`
	ConfirmedByID  *uint      `json:"confirmed_by_id,omitempty"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	RejectedByID   *uint      `json:"rejected_by_id,omitempty"`
}

// AmountMatches reports whether paid is within AmountEpsilon of expected.
func AmountMatches(paid, expected float64) bool {
	return math.Abs(paid-expected) < AmountEpsilon
}

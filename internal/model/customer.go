package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is one party on the seller's ledger.
//
// Balance is signed: positive means the customer owes the seller.
// Balance, TotalTransactions and LastTransactionDate are only ever
// written by the ledger posting unit; every other code path treats
// them as read-only.
type Customer struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone   string `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone" validate:"required"`
	Email   string `gorm:"type:varchar(255)" json:"email"`
	Address string `json:"address"`
	GSTIN   string `gorm:"type:varchar(20)" json:"gstin"`

	Balance             decimal.Decimal `gorm:"type:numeric;default:0" json:"balance"`
	TotalTransactions   int             `gorm:"default:0" json:"total_transactions"`
	LastTransactionDate *time.Time      `json:"last_transaction_date,omitempty"`

	Notes string `json:"notes"`
}

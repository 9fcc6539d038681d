package model

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxSale       TransactionType = "sale"
	TxPurchase   TransactionType = "purchase"
	TxPaymentIn  TransactionType = "payment_in"
	TxPaymentOut TransactionType = "payment_out"
)

type PaymentMode string

const (
	PayCash         PaymentMode = "cash"
	PayUPI          PaymentMode = "upi"
	PayCard         PaymentMode = "card"
	PayBankTransfer PaymentMode = "bank_transfer"
	PayCredit       PaymentMode = "credit"
)

type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "paid"
	StatusUnpaid  PaymentStatus = "unpaid"
	StatusPartial PaymentStatus = "partial"
)

const DocumentTypeGSTInvoice = "GST Invoice"

// TransactionItem is a historical snapshot of one line. Product price
// changes after posting must never alter it, hence the copied name,
// rate and tax rate.
type TransactionItem struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	TransactionID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	ProductName   string    `gorm:"type:varchar(255);not null" json:"product_name"`

	Quantity decimal.Decimal `gorm:"type:numeric;not null" json:"quantity"`
	Unit     string          `gorm:"type:varchar(20);default:'pc'" json:"unit"`
	Rate     decimal.Decimal `gorm:"type:numeric;not null" json:"rate"`
	GSTRate  decimal.Decimal `gorm:"type:numeric;default:18" json:"gst_rate"`
	HSNCode  string          `gorm:"type:varchar(20)" json:"hsn_code"`
	Amount   decimal.Decimal `gorm:"type:numeric;not null" json:"amount"` // quantity * rate
}

// Transaction is created once, atomically, with totals fully computed.
// Items and totals are immutable after creation; corrections happen via
// a new compensating transaction.
type Transaction struct {
	BaseModel
	CustomerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id" validate:"uuid_required"`
	Customer     *Customer `json:"customer,omitempty" validate:"-"`
	CustomerName string    `gorm:"type:varchar(255)" json:"customer_name"`

	Type         TransactionType `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=sale purchase payment_in payment_out"`
	DocumentType string          `gorm:"type:varchar(50);default:'GST Invoice'" json:"document_type"`

	// Assigned only for sale-type transactions, unique per year.
	InvoiceNumber string `gorm:"type:varchar(30);index:idx_tx_invoice_number,unique,where:invoice_number <> ''" json:"invoice_number,omitempty"`

	Items []TransactionItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	Subtotal    decimal.Decimal `gorm:"type:numeric;default:0" json:"subtotal"`
	GSTAmount   decimal.Decimal `gorm:"type:numeric;default:0" json:"gst_amount"`
	TotalAmount decimal.Decimal `gorm:"type:numeric;not null" json:"total_amount"` // subtotal + gst

	PaymentMode   PaymentMode     `gorm:"type:varchar(20);default:'cash'" json:"payment_mode"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);default:'paid'" json:"payment_status"`
	PaidAmount    decimal.Decimal `gorm:"type:numeric;default:0" json:"paid_amount"`

	Notes     string     `json:"notes"`
	MessageID *uuid.UUID `gorm:"type:uuid" json:"message_id,omitempty"`

	AgentGenerated bool `gorm:"default:false" json:"agent_generated"`
	// Raw interpreter output, kept for audit/debug. Nil on the fallback path.
	SourceDocument json.RawMessage `gorm:"type:jsonb" json:"source_document,omitempty"`
}

// InvoiceCounter backs sale invoice numbering: one row per year,
// bumped with a single atomic upsert so that concurrent postings can
// never observe the same sequence value.
type InvoiceCounter struct {
	Year     int   `gorm:"primaryKey" json:"year"`
	Sequence int64 `gorm:"not null;default:0" json:"sequence"`
}

package repository

import (
	"time"

	"vyapaar-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerStats is the dashboard overview of the running account.
type LedgerStats struct {
	TotalProducts   int64           `json:"total_products"`
	TotalCustomers  int64           `json:"total_customers"`
	LowStockCount   int64           `json:"low_stock_count"`
	TotalReceivable decimal.Decimal `json:"total_receivable"`
	SalesToday      int64           `json:"sales_today"`
}

type TransactionRepository interface {
	// Create inserts the transaction and its embedded items inside tx.
	Create(tx *gorm.DB, trx *model.Transaction) error
	FindAll(customerID *uuid.UUID) ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	// NextInvoiceSequence atomically bumps and returns the per-year
	// invoice counter. Safe under concurrent postings: the upsert is a
	// single statement, so two transactions can never read the same
	// value.
	NextInvoiceSequence(tx *gorm.DB, year int) (int64, error)
	GetLedgerStats() (*LedgerStats, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *gorm.DB, trx *model.Transaction) error {
	return tx.Create(trx).Error
}

func (r *transactionRepo) FindAll(customerID *uuid.UUID) ([]model.Transaction, error) {
	var transactions []model.Transaction
	q := r.db.Preload("Items").Order("created_at DESC")
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	err := q.Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Items").Preload("Customer").First(&transaction, "id = ?", id).Error
	return &transaction, err
}

func (r *transactionRepo) NextInvoiceSequence(tx *gorm.DB, year int) (int64, error) {
	var seq int64
	err := tx.Raw(`
		INSERT INTO invoice_counters (year, sequence) VALUES (?, 1)
		ON CONFLICT (year) DO UPDATE SET sequence = invoice_counters.sequence + 1
		RETURNING sequence
	`, year).Scan(&seq).Error
	return seq, err
}

func (r *transactionRepo) GetLedgerStats() (*LedgerStats, error) {
	var stats LedgerStats

	r.db.Model(&model.Product{}).Count(&stats.TotalProducts)
	r.db.Model(&model.Customer{}).Count(&stats.TotalCustomers)
	r.db.Model(&model.Product{}).Where("stock < ?", 10).Count(&stats.LowStockCount)

	// Receivable = what customers owe (positive balances only)
	r.db.Model(&model.Customer{}).
		Where("balance > 0").
		Select("COALESCE(SUM(balance), 0)").
		Scan(&stats.TotalReceivable)

	today := time.Now().Truncate(24 * time.Hour)
	r.db.Model(&model.Transaction{}).
		Where("type = ? AND created_at >= ?", model.TxSale, today).
		Count(&stats.SalesToday)

	return &stats, nil
}

package repository

import (
	"time"

	"vyapaar-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindAll() ([]model.Customer, error)
	FindByID(id uuid.UUID) (*model.Customer, error)
	FindByPhone(phone string) (*model.Customer, error)
	Update(customer *model.Customer) error
	// LockForUpdate loads the customer row under FOR UPDATE inside tx.
	LockForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Customer, error)
	// ApplyPosting applies the ledger side effects of one posted sale.
	// Must run inside the same tx that created the transaction row.
	ApplyPosting(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal, at time.Time) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) FindAll() ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "id = ?", id).Error
	return &customer, err
}

func (r *customerRepo) FindByPhone(phone string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "phone = ?", phone).Error
	return &customer, err
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}

func (r *customerRepo) LockForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := tx.Set("gorm:query_option", "FOR UPDATE").First(&customer, "id = ?", id).Error
	return &customer, err
}

func (r *customerRepo) ApplyPosting(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal, at time.Time) error {
	return tx.Model(&model.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance":               gorm.Expr("balance + ?", delta),
			"total_transactions":    gorm.Expr("total_transactions + 1"),
			"last_transaction_date": at,
		}).Error
}

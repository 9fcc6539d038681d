package repository

import (
	"vyapaar-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	// FindByNameLike returns the first product whose name contains the
	// given fragment, case-insensitive. Tie-break beyond "first row the
	// database returns" is deliberately unspecified.
	FindByNameLike(name string) (*model.Product, error)
	Update(product *model.Product) error
	// AdjustStock adds delta (negative for a sale) to the product's
	// stock. Runs inside tx so the posting stays all-or-nothing.
	AdjustStock(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindByNameLike(name string) (*model.Product, error) {
	var product model.Product
	err := r.db.Where("name ILIKE ?", "%"+name+"%").First(&product).Error
	return &product, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}

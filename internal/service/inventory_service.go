package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vyapaar-backend/internal/cache"
	"vyapaar-backend/internal/model"
	"vyapaar-backend/internal/repository"
	"vyapaar-backend/internal/ws"
	"vyapaar-backend/pkg/validator"
)

type InventoryService interface {
	CreateProduct(req *model.Product) error
	UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error)
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
	GetAllTransactions(customerID *uuid.UUID) ([]model.Transaction, error)
	GetTransactionByID(id uuid.UUID) (*model.Transaction, error)
}

type inventoryService struct {
	db           *gorm.DB
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	productCache cache.ProductCache
	hub          *ws.Hub
}

func NewInventoryService(
	db *gorm.DB,
	products repository.ProductRepository,
	transactions repository.TransactionRepository,
	productCache cache.ProductCache,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		db:           db,
		products:     products,
		transactions: transactions,
		productCache: productCache,
		hub:          hub,
	}
}

func (s *inventoryService) CreateProduct(req *model.Product) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if req.Unit == "" {
		req.Unit = "pc"
	}

	if err := s.products.Create(req); err != nil {
		return err
	}

	s.hub.BroadcastEvent("stock_update", map[string]interface{}{
		"action":  "product_created",
		"product": req,
	})
	return nil
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	var updated *model.Product

	// Transaction block with pessimistic locking so a concurrent
	// posting cannot interleave with the manual stock edit.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&existing, "id = ?", id).Error; err != nil {
			return errors.New("product not found")
		}

		oldName := existing.Name
		oldStock := existing.Stock

		existing.Name = req.Name
		existing.Description = req.Description
		existing.HSNCode = req.HSNCode
		existing.Unit = req.Unit
		existing.Price = req.Price
		existing.GSTRate = req.GSTRate
		existing.Stock = req.Stock
		existing.Category = req.Category

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updated = &existing

		if oldName != existing.Name {
			s.productCache.Invalidate(tx.Statement.Context, oldName)
		}

		s.hub.BroadcastEvent("stock_update", map[string]interface{}{
			"action":    "product_updated",
			"product":   &existing,
			"old_stock": oldStock,
		})
		return nil
	})

	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *inventoryService) GetAllProducts() ([]model.Product, error) {
	return s.products.FindAll()
}

func (s *inventoryService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	return s.products.FindByID(id)
}

func (s *inventoryService) GetAllTransactions(customerID *uuid.UUID) ([]model.Transaction, error) {
	return s.transactions.FindAll(customerID)
}

func (s *inventoryService) GetTransactionByID(id uuid.UUID) (*model.Transaction, error) {
	return s.transactions.FindByID(id)
}

package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"vyapaar-backend/internal/model"
	"vyapaar-backend/internal/repository"
	"vyapaar-backend/pkg/validator"
)

var ErrPhoneTaken = errors.New("customer with this phone already exists")

type CustomerService interface {
	Create(req *model.Customer) error
	GetAll() ([]model.Customer, error)
	GetByID(id uuid.UUID) (*model.Customer, error)
	GetByPhone(phone string) (*model.Customer, error)
	Update(id uuid.UUID, req *model.Customer) (*model.Customer, error)
	// GetOrCreate lazily provisions a customer record on first contact.
	GetOrCreate(name, phone string) (*model.Customer, error)
}

type customerService struct {
	customers repository.CustomerRepository
}

func NewCustomerService(customers repository.CustomerRepository) CustomerService {
	return &customerService{customers: customers}
}

func (s *customerService) Create(req *model.Customer) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.customers.FindByPhone(req.Phone)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrPhoneTaken
	}

	return s.customers.Create(req)
}

func (s *customerService) GetAll() ([]model.Customer, error) {
	return s.customers.FindAll()
}

func (s *customerService) GetByID(id uuid.UUID) (*model.Customer, error) {
	return s.customers.FindByID(id)
}

func (s *customerService) GetByPhone(phone string) (*model.Customer, error) {
	return s.customers.FindByPhone(phone)
}

func (s *customerService) Update(id uuid.UUID, req *model.Customer) (*model.Customer, error) {
	existing, err := s.customers.FindByID(id)
	if err != nil {
		return nil, errors.New("customer not found")
	}

	// Balance and the transaction counters belong to the ledger poster;
	// this endpoint only touches contact details.
	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.Address = req.Address
	existing.GSTIN = req.GSTIN
	existing.Notes = req.Notes

	if err := s.customers.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *customerService) GetOrCreate(name, phone string) (*model.Customer, error) {
	existing, err := s.customers.FindByPhone(phone)
	if err == nil && existing.ID != uuid.Nil {
		return existing, nil
	}

	customer := &model.Customer{
		Name:  name,
		Phone: phone,
	}
	if err := s.customers.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

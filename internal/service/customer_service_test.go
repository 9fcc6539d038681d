package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vyapaar-backend/internal/model"
)

type fakeCustomerRepo struct {
	customers []*model.Customer
}

func (f *fakeCustomerRepo) Create(customer *model.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	f.customers = append(f.customers, customer)
	return nil
}

func (f *fakeCustomerRepo) FindAll() ([]model.Customer, error) {
	out := make([]model.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCustomerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	for _, c := range f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCustomerRepo) FindByPhone(phone string) (*model.Customer, error) {
	for _, c := range f.customers {
		if c.Phone == phone {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCustomerRepo) Update(customer *model.Customer) error { return nil }

func (f *fakeCustomerRepo) LockForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Customer, error) {
	return f.FindByID(id)
}

func (f *fakeCustomerRepo) ApplyPosting(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal, at time.Time) error {
	c, err := f.FindByID(id)
	if err != nil {
		return err
	}
	c.Balance = c.Balance.Add(delta)
	c.TotalTransactions++
	c.LastTransactionDate = &at
	return nil
}

func TestCustomerCreateRejectsDuplicatePhone(t *testing.T) {
	repo := &fakeCustomerRepo{}
	svc := NewCustomerService(repo)

	first := &model.Customer{Name: "Ramesh Traders", Phone: "9876543210"}
	if err := svc.Create(first); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	dup := &model.Customer{Name: "Someone Else", Phone: "9876543210"}
	if err := svc.Create(dup); !errors.Is(err, ErrPhoneTaken) {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
}

func TestCustomerGetOrCreate(t *testing.T) {
	repo := &fakeCustomerRepo{}
	svc := NewCustomerService(repo)

	first, err := svc.GetOrCreate("Ramesh Traders", "9876543210")
	if err != nil {
		t.Fatalf("get-or-create failed: %v", err)
	}
	second, err := svc.GetOrCreate("Ramesh Traders", "9876543210")
	if err != nil {
		t.Fatalf("second get-or-create failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("same phone resolved to different customers")
	}
	if len(repo.customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(repo.customers))
	}
}

func TestCustomerUpdateNeverTouchesBalance(t *testing.T) {
	repo := &fakeCustomerRepo{}
	svc := NewCustomerService(repo)

	c := &model.Customer{Name: "Ramesh Traders", Phone: "9876543210"}
	if err := svc.Create(c); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	c.Balance = decimal.NewFromInt(500)
	c.TotalTransactions = 3

	req := &model.Customer{Name: "Ramesh & Sons", Phone: "9876543210", GSTIN: "27AAPFU0939F1ZV"}
	req.Balance = decimal.NewFromInt(99999)

	updated, err := svc.Update(c.ID, req)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Ramesh & Sons" || updated.GSTIN != "27AAPFU0939F1ZV" {
		t.Fatalf("contact fields not updated: %+v", updated)
	}
	if !updated.Balance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("balance must only change through postings, got %s", updated.Balance)
	}
	if updated.TotalTransactions != 3 {
		t.Fatalf("transaction counter must only change through postings")
	}
}

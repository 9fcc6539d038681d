package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vyapaar-backend/internal/agent"
	"vyapaar-backend/internal/model"
	"vyapaar-backend/internal/monitoring"
	"vyapaar-backend/internal/repository"
	"vyapaar-backend/internal/ws"
	"vyapaar-backend/pkg/logger"
)

// LedgerService is the only sanctioned mutator of Customer.balance and
// Product.stock. Each posting is one logical unit: transaction row,
// invoice number, balance delta and stock decrements either all become
// visible or none do.
type LedgerService struct {
	db           *gorm.DB
	customers    repository.CustomerRepository
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	locks        *agent.KeyedMutex
	hub          *ws.Hub
	log          zerolog.Logger
}

func NewLedgerService(
	db *gorm.DB,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	transactions repository.TransactionRepository,
	hub *ws.Hub,
) *LedgerService {
	return &LedgerService{
		db:           db,
		customers:    customers,
		products:     products,
		transactions: transactions,
		locks:        agent.NewKeyedMutex(),
		hub:          hub,
		log:          logger.WithComponent("ledger"),
	}
}

// Post implements agent.LedgerPoster.
//
// Serialization has two layers: the in-process per-customer mutex
// stops two goroutines racing the same customer, and inside the DB
// transaction the customer row is locked FOR UPDATE while the invoice
// sequence comes from a single atomic upsert, which holds across
// processes too.
func (s *LedgerService) Post(ctx context.Context, customer *model.Customer, resolution *agent.OrderResolution) (*model.Transaction, error) {
	unlock := s.locks.Lock(customer.ID.String())
	defer unlock()

	lines, totals := agent.PriceItems(resolution.Items)
	now := time.Now()

	trx := &model.Transaction{
		CustomerID:     customer.ID,
		CustomerName:   customer.Name,
		Type:           model.TxSale,
		DocumentType:   resolution.DocumentType,
		Items:          lines,
		Subtotal:       totals.Subtotal,
		GSTAmount:      totals.GSTAmount,
		TotalAmount:    totals.Total,
		PaymentMode:    model.PayCredit,
		PaymentStatus:  model.StatusUnpaid,
		PaidAmount:     decimal.Zero,
		MessageID:      resolution.MessageID,
		AgentGenerated: true,
		SourceDocument: resolution.Source,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.customers.LockForUpdate(tx, customer.ID); err != nil {
			return fmt.Errorf("lock customer: %w", err)
		}

		seq, err := s.transactions.NextInvoiceSequence(tx, now.Year())
		if err != nil {
			return fmt.Errorf("allocate invoice number: %w", err)
		}
		trx.InvoiceNumber = agent.FormatInvoiceNumber(now.Year(), seq)

		if err := s.transactions.Create(tx, trx); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		if err := s.customers.ApplyPosting(tx, customer.ID, totals.Total, now); err != nil {
			return fmt.Errorf("update customer balance: %w", err)
		}

		for _, item := range resolution.Items {
			if err := s.products.AdjustStock(tx, item.Product.ID, item.Quantity.Neg()); err != nil {
				return fmt.Errorf("adjust stock for %s: %w", item.Product.Name, err)
			}
		}

		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("customer", customer.Name).Msg("posting rolled back")
		return nil, fmt.Errorf("%w: %v", agent.ErrPersistence, err)
	}

	s.log.Info().
		Str("invoice_number", trx.InvoiceNumber).
		Str("customer", customer.Name).
		Str("total", agent.FormatAmount(totals.Total)).
		Bool("from_interpreter", resolution.FromInterpreter).
		Msg("transaction posted")

	monitoring.TransactionsPosted.Inc()
	s.hub.BroadcastEvent("transaction_created", trx)

	return trx, nil
}

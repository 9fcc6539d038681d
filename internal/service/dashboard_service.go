package service

import "vyapaar-backend/internal/repository"

type DashboardService interface {
	GetLedgerStats() (*repository.LedgerStats, error)
}

type dashboardService struct {
	transactions repository.TransactionRepository
}

func NewDashboardService(transactions repository.TransactionRepository) DashboardService {
	return &dashboardService{transactions: transactions}
}

func (s *dashboardService) GetLedgerStats() (*repository.LedgerStats, error) {
	return s.transactions.GetLedgerStats()
}

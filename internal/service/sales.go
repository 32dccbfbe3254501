package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
	"github.com/omerkilincoglu/bitirme-backend-proje/internal/repository"
)

// SalesService reports completed sales from either side.
type SalesService interface {
	// Purchases lists what userID bought.
	Purchases(ctx context.Context, userID uuid.UUID) ([]model.SaleView, error)
	// SalesOf lists what userID sold.
	SalesOf(ctx context.Context, userID uuid.UUID) ([]model.SaleView, error)
}

type SalesServiceImpl struct{ sales repository.SaleRepository }

// NewSalesService constructs SalesService.
func NewSalesService(sales repository.SaleRepository) *SalesServiceImpl {
	return &SalesServiceImpl{sales: sales}
}

func (s *SalesServiceImpl) Purchases(ctx context.Context, userID uuid.UUID) ([]model.SaleView, error) {
	return s.sales.ListByBuyer(ctx, userID)
}

func (s *SalesServiceImpl) SalesOf(ctx context.Context, userID uuid.UUID) ([]model.SaleView, error) {
	return s.sales.ListBySeller(ctx, userID)
}

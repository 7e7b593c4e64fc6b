package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/storefront/merchant-admin/internal/domain"
	"github.com/storefront/merchant-admin/internal/endpoint"
)

type DashboardService struct {
	proxy
}

func NewDashboardService(client BackendClient, endpoints EndpointRegistry) *DashboardService {
	return &DashboardService{
		proxy: newProxy(client, endpoints),
	}
}

// Metrics loads products and sold items concurrently and aggregates them.
func (s *DashboardService) Metrics(ctx context.Context, sess domain.Session) (domain.DashboardMetrics, error) {
	productsToken, err := s.authorize(sess, endpoint.ListProducts)
	if err != nil {
		return domain.DashboardMetrics{}, err
	}
	soldToken, err := s.authorize(sess, endpoint.ListSoldItems)
	if err != nil {
		return domain.DashboardMetrics{}, err
	}

	var products []domain.Product
	var sold []domain.SoldItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := s.forward(gctx, productsToken, endpoint.ListProducts, nil)
		if err != nil {
			return fmt.Errorf("s.forward products -> %w", err)
		}
		if err := json.Unmarshal(resp.Body, &products); err != nil {
			return fmt.Errorf("json.Unmarshal products -> %w", err)
		}
		return nil
	})
	g.Go(func() error {
		resp, err := s.forward(gctx, soldToken, endpoint.ListSoldItems, nil)
		if err != nil {
			return fmt.Errorf("s.forward sold -> %w", err)
		}
		if err := json.Unmarshal(resp.Body, &sold); err != nil {
			return fmt.Errorf("json.Unmarshal sold -> %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.DashboardMetrics{}, err
	}

	return aggregate(products, sold), nil
}

func aggregate(products []domain.Product, sold []domain.SoldItem) domain.DashboardMetrics {
	m := domain.DashboardMetrics{
		TotalProducts:      len(products),
		ProductsByCategory: make(map[string]int),
	}
	for _, p := range products {
		m.TotalStockUnits += p.Quantity
		m.ProductsByCategory[p.Category]++
	}

	totals := make(stats.Float64Data, 0, len(sold))
	prices := make(stats.Float64Data, 0, len(sold))
	for _, item := range sold {
		m.TotalUnitsSold += item.Quantity
		totals = append(totals, item.Total())
		prices = append(prices, item.Price)
	}

	if sum, err := totals.Sum(); err == nil {
		m.TotalSalesValue = round2(sum)
	}
	if mean, err := prices.Mean(); err == nil {
		m.AverageSalePrice = round2(mean)
	}

	return m
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

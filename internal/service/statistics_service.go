package service

import (
	"context"
	"fmt"
	"time"

	"diamondtrade/internal/cache"
	"diamondtrade/internal/invoicecalc"
	"diamondtrade/internal/model"
	"diamondtrade/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	dashboardCachePrefix = "dashboard:"
	topClientLimit       = 5
	monthLayout          = "2006-01"
)

type StatisticsService interface {
	GetDashboard(ctx context.Context, start, end time.Time) (model.DashboardStats, error)
	StatsInvalidator
}

type statisticsService struct {
	clientRepo  repository.ClientRepository
	invoiceRepo repository.InvoiceRepository
	diamondRepo repository.DiamondRepository
	statsRepo   repository.StatisticsRepository
	cache       cache.Cache
	ttl         time.Duration
	log         *zap.Logger
}

// NewStatisticsService builds the dashboard service. c may be nil to disable
// caching.
func NewStatisticsService(
	clientRepo repository.ClientRepository,
	invoiceRepo repository.InvoiceRepository,
	diamondRepo repository.DiamondRepository,
	statsRepo repository.StatisticsRepository,
	c cache.Cache,
	ttl time.Duration,
	log *zap.Logger,
) StatisticsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &statisticsService{
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
		diamondRepo: diamondRepo,
		statsRepo:   statsRepo,
		cache:       c,
		ttl:         ttl,
		log:         log,
	}
}

func dashboardKey(start, end time.Time) string {
	return dashboardCachePrefix + start.UTC().Format(time.RFC3339) + ":" + end.UTC().Format(time.RFC3339)
}

// GetDashboard aggregates invoices issued and diamonds entered between start
// and end, both inclusive.
func (s *statisticsService) GetDashboard(ctx context.Context, start, end time.Time) (model.DashboardStats, error) {
	if end.Before(start) {
		return model.DashboardStats{}, invalidf("end_date cannot be before start_date")
	}

	key := dashboardKey(start, end)
	if s.cache != nil && s.ttl > 0 {
		var cached model.DashboardStats
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("Dashboard cache read failed", zap.String("key", key), zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	stats, err := s.compute(ctx, start, end)
	if err != nil {
		return model.DashboardStats{}, err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, stats, s.ttl); err != nil {
			s.log.Warn("Dashboard cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return stats, nil
}

func (s *statisticsService) compute(ctx context.Context, start, end time.Time) (model.DashboardStats, error) {
	stats := model.DashboardStats{
		TotalInvoiced:    decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalOutstanding: decimal.Zero,
		RangeStart:       start,
		RangeEnd:         end,
	}

	clients, err := s.clientRepo.Count(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to count clients: %w", err)
	}
	stats.TotalClients = clients

	invoices, err := s.invoiceRepo.FindByIssueDate(ctx, start, end)
	if err != nil {
		return stats, fmt.Errorf("failed to load invoices: %w", err)
	}

	months := monthBuckets(start, end)
	index := make(map[string]int, len(months))
	for i := range months {
		index[months[i].Month] = i
	}

	for _, inv := range invoices {
		stats.TotalInvoices++
		stats.TotalInvoiced = stats.TotalInvoiced.Add(inv.TotalAmount)

		paid := inv.IsPaid()
		if paid {
			stats.PaidInvoices++
			stats.TotalPaid = stats.TotalPaid.Add(inv.TotalAmount)
		} else {
			stats.PendingInvoices++
			stats.TotalOutstanding = stats.TotalOutstanding.Add(inv.TotalAmount)
		}

		if i, ok := index[inv.IssueDate.In(start.Location()).Format(monthLayout)]; ok {
			months[i].Count++
			months[i].Invoiced = months[i].Invoiced.Add(inv.TotalAmount)
			if paid {
				months[i].Paid = months[i].Paid.Add(inv.TotalAmount)
			}
		}
	}
	stats.Monthly = months

	diamonds, err := s.diamondRepo.FindByEntryDate(ctx, start, end)
	if err != nil {
		return stats, fmt.Errorf("failed to load diamonds: %w", err)
	}
	summary := invoicecalc.Summarize(invoicecalc.Header{}, model.ToEntries(diamonds), nil)
	stats.CategoryBreakdown = model.CategoryBreakdown{
		PlusCount:   summary.PlusCount,
		PlusWeight:  summary.PlusWeight,
		PlusValue:   summary.PlusValue,
		PlusRate:    summary.PlusRate,
		MinusCount:  summary.MinusCount,
		MinusWeight: summary.MinusWeight,
		MinusValue:  summary.MinusValue,
		MinusRate:   summary.MinusRate,
	}

	top, err := s.statsRepo.GetTopClients(ctx, start, end, topClientLimit)
	if err != nil {
		return stats, err
	}
	if top == nil {
		top = []model.ClientRanking{}
	}
	stats.TopClients = top

	return stats, nil
}

// InvalidateStats drops every cached dashboard. Failures are logged only.
func (s *statisticsService) InvalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, dashboardCachePrefix); err != nil {
		s.log.Warn("Dashboard cache invalidation failed", zap.Error(err))
	}
}

// monthBuckets returns one zeroed point per calendar month touched by the
// range, oldest first.
func monthBuckets(start, end time.Time) []model.MonthlyPoint {
	end = end.In(start.Location())
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, start.Location())

	points := []model.MonthlyPoint{}
	for !cursor.After(last) {
		points = append(points, model.MonthlyPoint{
			Month:    cursor.Format(monthLayout),
			Invoiced: decimal.Zero,
			Paid:     decimal.Zero,
		})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return points
}

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"diamondtrade/internal/cache"
	"diamondtrade/internal/repository"
	"diamondtrade/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordedEvent struct {
	name string
	data interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(event string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{name: event, data: data})
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.name)
	}
	return names
}

type testEnv struct {
	db       *gorm.DB
	cache    *cache.MemoryCache
	events   *recordingPublisher
	clients  ClientService
	diamonds DiamondService
	invoices InvoiceService
	company  CompanyService
	stats    StatisticsService
	audit    AuditService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	clientRepo := repository.NewClientRepository(db)
	diamondRepo := repository.NewDiamondRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)
	txManager := repository.NewTransactionManager(db)

	mem := cache.NewMemoryCache()
	events := &recordingPublisher{}
	stats := NewStatisticsService(clientRepo, invoiceRepo, diamondRepo, statsRepo, mem, 5*time.Minute, nil)

	return &testEnv{
		db:       db,
		cache:    mem,
		events:   events,
		clients:  NewClientService(clientRepo, invoiceRepo, auditRepo, txManager, nil),
		diamonds: NewDiamondService(diamondRepo, clientRepo, auditRepo, txManager, stats, events, nil),
		invoices: NewInvoiceService(invoiceRepo, diamondRepo, clientRepo, companyRepo, auditRepo, txManager, stats, events, nil),
		company:  NewCompanyService(companyRepo, auditRepo, txManager, nil),
		stats:    stats,
		audit:    NewAuditService(auditRepo),
	}
}

func (e *testEnv) createClient(t *testing.T, name string) ClientResponse {
	t.Helper()
	c, err := e.clients.CreateClient(context.Background(), CreateClientRequest{
		Name:      name,
		PlusRate:  decPtr("5000"),
		MinusRate: decPtr("150"),
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) createDiamond(t *testing.T, req CreateDiamondRequest) DiamondResponse {
	t.Helper()
	d, err := e.diamonds.CreateDiamond(context.Background(), req)
	require.NoError(t, err)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(n int64) *int64 {
	return &n
}

func strPtr(s string) *string {
	return &s
}

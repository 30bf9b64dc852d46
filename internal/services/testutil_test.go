// internal/services/testutil_test.go
package services

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lamaree/lamaree-backend/internal/config"
	"github.com/lamaree/lamaree-backend/internal/models"
	"github.com/lamaree/lamaree-backend/internal/utils"
)

// newTestDB opens an in-memory database pinned to a single connection,
// so the memory store survives across transactions and concurrent
// callers serialize the way the tests expect.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Supplier{},
		&models.Product{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.SMSLog{},
		&models.AuditLog{},
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		SMS: config.SMSConfig{
			Enabled:        false,
			SenderID:       "LaMaree",
			TimeoutSeconds: 1,
		},
	}
}

type sentSMS struct {
	Phone   string
	Message string
}

// fakeGateway records every send and signals on a channel so tests can
// wait for the fire-and-forget dispatch goroutine.
type fakeGateway struct {
	mu       sync.Mutex
	sent     []sentSMS
	failWith error

	Delivered chan sentSMS
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{Delivered: make(chan sentSMS, 16)}
}

func (g *fakeGateway) Send(ctx context.Context, phone, message string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWith != nil {
		return g.failWith
	}
	msg := sentSMS{Phone: phone, Message: message}
	g.sent = append(g.sent, msg)
	g.Delivered <- msg
	return nil
}

func (g *fakeGateway) Sent() []sentSMS {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]sentSMS, len(g.sent))
	copy(out, g.sent)
	return out
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func testPagination() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func seedCustomer(t *testing.T, db *gorm.DB, name, phone string) *models.Customer {
	t.Helper()
	customer := &models.Customer{Name: name, Phone: phone}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func seedProduct(t *testing.T, db *gorm.DB, name, price, stock, unit string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:  name,
		Price: mustDecimal(t, price),
		Stock: mustDecimal(t, stock),
		Unit:  unit,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// internal/services/order_service_test.go
package services

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/lamaree/lamaree-backend/internal/models"
)

type OrderServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	gateway *fakeGateway
	orders  *OrderService
	catalog *CatalogService
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.gateway = newFakeGateway()
	suite.catalog = NewCatalogService(suite.db)
	notifications := NewNotificationService(suite.db, testConfig(), suite.gateway)
	suite.orders = NewOrderService(suite.db, suite.catalog, notifications)
}

func (suite *OrderServiceTestSuite) productStock(id uuid.UUID) string {
	var product models.Product
	suite.Require().NoError(suite.db.First(&product, "id = ?", id).Error)
	return product.Stock.String()
}

func (suite *OrderServiceTestSuite) TestCreateOrderSnapshotsPricesAndDecrementsStock() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Marie Dupont", "0612345678")
	sole := seedProduct(t, suite.db, "Sole", "32.50", "10", "kg")
	oysters := seedProduct(t, suite.db, "Huitres", "9.90", "50", "douzaine")

	order, err := suite.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: sole.ID, Quantity: mustDecimal(t, "1.5")},
			{ProductID: oysters.ID, Quantity: mustDecimal(t, "2")},
		},
	})
	suite.Require().NoError(err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	// 1.5 * 32.50 + 2 * 9.90 = 68.55
	assert.Equal(t, "68.55", order.Total.String())
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Marie Dupont", order.Customer.Name)

	assert.Equal(t, "8.5", suite.productStock(sole.ID))
	assert.Equal(t, "48", suite.productStock(oysters.ID))

	// Later catalog edits must not alter the order snapshot.
	_, err = suite.catalog.UpdateProduct(sole.ID, &UpdateProductRequest{
		Price: decimalPtr(mustDecimal(t, "99.99")),
	})
	suite.Require().NoError(err)

	reloaded, err := suite.orders.GetOrder(order.ID)
	suite.Require().NoError(err)
	assert.Equal(t, "68.55", reloaded.Total.String())
	for _, item := range reloaded.Items {
		if item.ProductID == sole.ID {
			assert.Equal(t, "32.5", item.Price.String())
		}
	}
}

func (suite *OrderServiceTestSuite) TestCreateOrderRoundsTotalHalfUp() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Paul", "")
	crevettes := seedProduct(t, suite.db, "Crevettes", "10.01", "10", "kg")
	bulots := seedProduct(t, suite.db, "Bulots", "0.335", "10", "kg")

	// 0.125 * 10.01 = 1.25125 -> 1.25
	order, err := suite.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: crevettes.ID, Quantity: mustDecimal(t, "0.125")},
		},
	})
	suite.Require().NoError(err)
	assert.Equal(t, "1.25", order.Total.String())

	// 3 * 0.335 = 1.005: an exact half cent must round up, not to even.
	order, err = suite.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: bulots.ID, Quantity: mustDecimal(t, "3")},
		},
	})
	suite.Require().NoError(err)
	assert.Equal(t, "1.01", order.Total.String())
}

func (suite *OrderServiceTestSuite) TestCreateOrderInsufficientStockIsAtomic() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Jean", "")
	bar := seedProduct(t, suite.db, "Bar", "24.00", "5", "kg")
	lotte := seedProduct(t, suite.db, "Lotte", "38.00", "2", "kg")

	_, err := suite.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []OrderItemRequest{
			{ProductID: bar.ID, Quantity: mustDecimal(t, "3")},
			{ProductID: lotte.ID, Quantity: mustDecimal(t, "4")},
		},
	})
	suite.Require().Error(err)

	var insufficient *InsufficientStockError
	suite.Require().ErrorAs(err, &insufficient)
	assert.Equal(t, lotte.ID, insufficient.ProductID)
	assert.Equal(t, "2", insufficient.Available.String())
	assert.Equal(t, "4", insufficient.Requested.String())

	// Nothing was committed, not even the first item's decrement.
	assert.Equal(t, "5", suite.productStock(bar.ID))
	assert.Equal(t, "2", suite.productStock(lotte.ID))

	var orderCount int64
	suite.db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)
}

func (suite *OrderServiceTestSuite) TestCreateOrderRejectsNonPositiveQuantity() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Jean", "")
	product := seedProduct(t, suite.db, "Bar", "24.00", "5", "kg")

	for _, qty := range []string{"0", "-1"} {
		_, err := suite.orders.CreateOrder(&CreateOrderRequest{
			CustomerID: customer.ID,
			Items: []OrderItemRequest{
				{ProductID: product.ID, Quantity: mustDecimal(t, qty)},
			},
		})
		var validation *ValidationError
		suite.Require().ErrorAs(err, &validation)
	}

	assert.Equal(t, "5", suite.productStock(product.ID))
}

func (suite *OrderServiceTestSuite) TestCreateOrderUnknownCustomerAndProduct() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Jean", "")
	product := seedProduct(t, suite.db, "Bar", "24.00", "5", "kg")

	_, err := suite.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: uuid.New(),
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: mustDecimal(t, "1")}},
	})
	var notFound *NotFoundError
	suite.Require().ErrorAs(err, &notFound)
	assert.Equal(t, "customer", notFound.Resource)

	_, err = suite.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []OrderItemRequest{{ProductID: uuid.New(), Quantity: mustDecimal(t, "1")}},
	})
	suite.Require().ErrorAs(err, &notFound)
	assert.Equal(t, "product", notFound.Resource)
}

func (suite *OrderServiceTestSuite) TestConcurrentOrdersNeverOversell() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Jean", "")
	product := seedProduct(t, suite.db, "Thon", "29.00", "3", "kg")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = suite.orders.CreateOrder(&CreateOrderRequest{
				CustomerID: customer.ID,
				Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: mustDecimal(t, "2")}},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var insufficient *InsufficientStockError
			suite.Require().ErrorAs(err, &insufficient)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, "1", suite.productStock(product.ID))
}

func (suite *OrderServiceTestSuite) TestCancellationRestoresStockOnce() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Jean", "")
	product := seedProduct(t, suite.db, "Bar", "24.00", "5", "kg")

	order, err := suite.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: mustDecimal(t, "2")}},
	})
	suite.Require().NoError(err)
	assert.Equal(t, "3", suite.productStock(product.ID))

	updated, restored, err := suite.orders.TransitionStatus(order.ID, "CANCELLED")
	suite.Require().NoError(err)
	assert.True(t, restored)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
	assert.NotNil(t, updated.StockRestoredAt)
	assert.Equal(t, "5", suite.productStock(product.ID))

	// Cancelling again is a no-op for stock.
	_, restored, err = suite.orders.TransitionStatus(order.ID, "CANCELLED")
	suite.Require().NoError(err)
	assert.False(t, restored)
	assert.Equal(t, "5", suite.productStock(product.ID))
}

func (suite *OrderServiceTestSuite) TestCancelReopenCancelDoesNotRestoreTwice() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Jean", "")
	product := seedProduct(t, suite.db, "Bar", "24.00", "5", "kg")

	order, err := suite.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: mustDecimal(t, "2")}},
	})
	suite.Require().NoError(err)

	_, restored, err := suite.orders.TransitionStatus(order.ID, "CANCELLED")
	suite.Require().NoError(err)
	assert.True(t, restored)

	_, _, err = suite.orders.TransitionStatus(order.ID, "PENDING")
	suite.Require().NoError(err)

	_, restored, err = suite.orders.TransitionStatus(order.ID, "CANCELLED")
	suite.Require().NoError(err)
	assert.False(t, restored)
	assert.Equal(t, "5", suite.productStock(product.ID))
}

func (suite *OrderServiceTestSuite) TestLegacyStatusSpellingsAccepted() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Jean", "")
	product := seedProduct(t, suite.db, "Bar", "24.00", "5", "kg")

	order, err := suite.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: mustDecimal(t, "1")}},
	})
	suite.Require().NoError(err)

	updated, _, err := suite.orders.TransitionStatus(order.ID, "en_cours")
	suite.Require().NoError(err)
	assert.Equal(t, models.OrderStatusPending, updated.Status)

	updated, _, err = suite.orders.TransitionStatus(order.ID, "LIVREE")
	suite.Require().NoError(err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)

	updated, restored, err := suite.orders.TransitionStatus(order.ID, "ANNULEE")
	suite.Require().NoError(err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
	assert.True(t, restored)

	_, _, err = suite.orders.TransitionStatus(order.ID, "EXPEDIEE")
	var validation *ValidationError
	suite.Require().ErrorAs(err, &validation)
}

func (suite *OrderServiceTestSuite) TestReadyTransitionSendsSMSOnce() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Marie Dupont", "0612345678")
	product := seedProduct(t, suite.db, "Sole", "32.50", "10", "kg")

	order, err := suite.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: mustDecimal(t, "1.5")}},
	})
	suite.Require().NoError(err)

	_, _, err = suite.orders.TransitionStatus(order.ID, "READY")
	suite.Require().NoError(err)

	select {
	case msg := <-suite.gateway.Delivered:
		assert.Equal(t, "0612345678", msg.Phone)
		assert.Contains(t, msg.Message, "Marie Dupont")
		assert.Contains(t, msg.Message, "Sole")
		assert.Contains(t, msg.Message, "1.5 kg")
	case <-time.After(2 * time.Second):
		t.Fatal("expected an SMS dispatch")
	}

	// READY -> READY must not notify again.
	_, _, err = suite.orders.TransitionStatus(order.ID, "PRETE")
	suite.Require().NoError(err)

	select {
	case msg := <-suite.gateway.Delivered:
		t.Fatalf("unexpected second SMS: %+v", msg)
	case <-time.After(200 * time.Millisecond):
	}

	var logCount int64
	suite.db.Model(&models.SMSLog{}).Where("order_id = ?", order.ID).Count(&logCount)
	assert.EqualValues(t, 1, logCount)
}

func (suite *OrderServiceTestSuite) TestReadyTransitionSkipsCustomersWithoutPhone() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Jean", "")
	product := seedProduct(t, suite.db, "Bar", "24.00", "5", "kg")

	order, err := suite.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: mustDecimal(t, "1")}},
	})
	suite.Require().NoError(err)

	updated, _, err := suite.orders.TransitionStatus(order.ID, "READY")
	suite.Require().NoError(err)
	assert.Equal(t, models.OrderStatusReady, updated.Status)

	select {
	case msg := <-suite.gateway.Delivered:
		t.Fatalf("unexpected SMS for customer without phone: %+v", msg)
	case <-time.After(200 * time.Millisecond):
	}
}

func (suite *OrderServiceTestSuite) TestDeleteOrderRestoresStockAndCascades() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Jean", "")
	product := seedProduct(t, suite.db, "Bar", "24.00", "5", "kg")

	order, err := suite.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: mustDecimal(t, "2")}},
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.orders.DeleteOrder(order.ID))
	assert.Equal(t, "5", suite.productStock(product.ID))

	var itemCount int64
	suite.db.Unscoped().Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount)
	assert.Zero(t, itemCount)

	_, err = suite.orders.GetOrder(order.ID)
	var notFound *NotFoundError
	suite.Require().ErrorAs(err, &notFound)
}

func (suite *OrderServiceTestSuite) TestDeleteCancelledOrderDoesNotRestoreAgain() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Jean", "")
	product := seedProduct(t, suite.db, "Bar", "24.00", "5", "kg")

	order, err := suite.orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: mustDecimal(t, "2")}},
	})
	suite.Require().NoError(err)

	_, restored, err := suite.orders.TransitionStatus(order.ID, "CANCELLED")
	suite.Require().NoError(err)
	assert.True(t, restored)

	suite.Require().NoError(suite.orders.DeleteOrder(order.ID))
	assert.Equal(t, "5", suite.productStock(product.ID))
}

func (suite *OrderServiceTestSuite) TestSearchOrdersFilters() {
	t := suite.T()
	alice := seedCustomer(t, suite.db, "Alice", "")
	bob := seedCustomer(t, suite.db, "Bob", "")
	product := seedProduct(t, suite.db, "Bar", "24.00", "100", "kg")

	for _, customer := range []*models.Customer{alice, alice, bob} {
		_, err := suite.orders.CreateOrder(&CreateOrderRequest{
			CustomerID: customer.ID,
			Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: mustDecimal(t, "1")}},
		})
		suite.Require().NoError(err)
	}

	status := models.OrderStatusPending
	orders, total, err := suite.orders.SearchOrders(OrderSearchParams{
		PaginationParams: testPagination(),
		Status:           &status,
	})
	suite.Require().NoError(err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, orders, 3)

	_, total, err = suite.orders.SearchOrders(OrderSearchParams{
		PaginationParams: testPagination(),
		CustomerID:       &alice.ID,
	})
	suite.Require().NoError(err)
	assert.EqualValues(t, 2, total)
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

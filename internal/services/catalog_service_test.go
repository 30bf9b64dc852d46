// internal/services/catalog_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	catalog *CatalogService
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.catalog = NewCatalogService(suite.db)
}

func (suite *CatalogServiceTestSuite) TestCreateProduct() {
	t := suite.T()

	product, err := suite.catalog.CreateProduct(&CreateProductRequest{
		Name:              "Saumon entier",
		Price:             mustDecimal(t, "18.90"),
		Stock:             mustDecimal(t, "25.5"),
		Unit:              "kg",
		LowStockThreshold: mustDecimal(t, "5"),
		Tags:              []string{"frais", "poisson"},
	})
	suite.Require().NoError(err)
	// IDs come from the BeforeCreate hook, not a database default.
	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, "Saumon entier", product.Name)
	assert.Equal(t, "25.5", product.Stock.String())

	fetched, err := suite.catalog.GetProduct(product.ID)
	suite.Require().NoError(err)
	assert.Equal(t, "18.9", fetched.Price.String())
}

func (suite *CatalogServiceTestSuite) TestCreateProductRejectsNegativeValues() {
	t := suite.T()

	_, err := suite.catalog.CreateProduct(&CreateProductRequest{
		Name:  "Cabillaud",
		Price: mustDecimal(t, "-1"),
		Unit:  "kg",
	})
	var validation *ValidationError
	suite.Require().ErrorAs(err, &validation)

	_, err = suite.catalog.CreateProduct(&CreateProductRequest{
		Name:  "Cabillaud",
		Price: mustDecimal(t, "12"),
		Stock: mustDecimal(t, "-3"),
		Unit:  "kg",
	})
	suite.Require().ErrorAs(err, &validation)
}

func (suite *CatalogServiceTestSuite) TestUpdateProductCannotSetNegativeStock() {
	t := suite.T()
	product := seedProduct(t, suite.db, "Merlu", "14.00", "8", "kg")

	_, err := suite.catalog.UpdateProduct(product.ID, &UpdateProductRequest{
		Stock: decimalPtr(mustDecimal(t, "-2")),
	})
	var validation *ValidationError
	suite.Require().ErrorAs(err, &validation)

	updated, err := suite.catalog.UpdateProduct(product.ID, &UpdateProductRequest{
		Stock: decimalPtr(mustDecimal(t, "0")),
	})
	suite.Require().NoError(err)
	assert.Equal(t, "0", updated.Stock.String())
}

func (suite *CatalogServiceTestSuite) TestDeleteProductReferencedByOrderIsConflict() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Jean", "")
	product := seedProduct(t, suite.db, "Bar", "24.00", "5", "kg")

	orders := NewOrderService(suite.db, suite.catalog, nil)
	_, err := orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: mustDecimal(t, "1")}},
	})
	suite.Require().NoError(err)

	err = suite.catalog.DeleteProduct(product.ID)
	var conflict *ConflictError
	suite.Require().ErrorAs(err, &conflict)

	// An unreferenced product deletes fine.
	other := seedProduct(t, suite.db, "Dorade", "19.00", "3", "kg")
	suite.Require().NoError(suite.catalog.DeleteProduct(other.ID))
}

func (suite *CatalogServiceTestSuite) TestLowStockQueries() {
	t := suite.T()

	low, err := suite.catalog.CreateProduct(&CreateProductRequest{
		Name:              "Moules",
		Price:             mustDecimal(t, "6.50"),
		Stock:             mustDecimal(t, "2"),
		Unit:              "kg",
		LowStockThreshold: mustDecimal(t, "5"),
	})
	suite.Require().NoError(err)
	_, err = suite.catalog.CreateProduct(&CreateProductRequest{
		Name:              "Bulots",
		Price:             mustDecimal(t, "11.00"),
		Stock:             mustDecimal(t, "40"),
		Unit:              "kg",
		LowStockThreshold: mustDecimal(t, "5"),
	})
	suite.Require().NoError(err)

	products, err := suite.catalog.GetLowStockProducts(10)
	suite.Require().NoError(err)
	suite.Require().Len(products, 1)
	assert.Equal(t, low.ID, products[0].ID)
	assert.True(t, products[0].IsLowStock())

	lowOnly := true
	filtered, total, err := suite.catalog.SearchProducts(ProductSearchParams{
		PaginationParams: testPagination(),
		LowStock:         &lowOnly,
	})
	suite.Require().NoError(err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Moules", filtered[0].Name)
}

func (suite *CatalogServiceTestSuite) TestSearchProductsByName() {
	t := suite.T()
	seedProduct(t, suite.db, "Saumon fume", "32.00", "10", "kg")
	seedProduct(t, suite.db, "Saumon frais", "19.00", "10", "kg")
	seedProduct(t, suite.db, "Cabillaud", "15.00", "10", "kg")

	params := testPagination()
	params.Search = "saumon"
	products, total, err := suite.catalog.SearchProducts(ProductSearchParams{PaginationParams: params})
	suite.Require().NoError(err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, products, 2)
}

func (suite *CatalogServiceTestSuite) TestProductWithUnknownSupplierRejected() {
	t := suite.T()

	missing := uuid.New()
	_, err := suite.catalog.CreateProduct(&CreateProductRequest{
		Name:       "Langoustines",
		Price:      mustDecimal(t, "27.00"),
		Unit:       "kg",
		SupplierID: &missing,
	})
	var notFound *NotFoundError
	suite.Require().ErrorAs(err, &notFound)
	assert.Equal(t, "supplier", notFound.Resource)
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

// internal/services/directory_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/lamaree/lamaree-backend/internal/models"
)

// Customer and supplier directories share the same delete-guard rules,
// tested together here.
type DirectoryTestSuite struct {
	suite.Suite
	db        *gorm.DB
	customers *CustomerService
	suppliers *SupplierService
}

func (suite *DirectoryTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.customers = NewCustomerService(suite.db)
	suite.suppliers = NewSupplierService(suite.db)
}

func (suite *DirectoryTestSuite) TestCreateCustomerValidatesPhone() {
	t := suite.T()

	customer, err := suite.customers.CreateCustomer(&CreateCustomerRequest{
		Name:  "Marie Dupont",
		Phone: "0612345678",
	})
	suite.Require().NoError(err)
	assert.Equal(t, "Marie Dupont", customer.Name)

	_, err = suite.customers.CreateCustomer(&CreateCustomerRequest{
		Name:  "Bad Phone",
		Phone: "12345",
	})
	var validation *ValidationError
	suite.Require().ErrorAs(err, &validation)

	// Phone is optional.
	_, err = suite.customers.CreateCustomer(&CreateCustomerRequest{Name: "Sans Telephone"})
	suite.Require().NoError(err)
}

func (suite *DirectoryTestSuite) TestDeleteCustomerWithOrdersIsConflict() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Jean", "")
	product := seedProduct(t, suite.db, "Bar", "24.00", "5", "kg")

	orders := NewOrderService(suite.db, NewCatalogService(suite.db), nil)
	order, err := orders.CreateOrder(&CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: mustDecimal(t, "1")}},
	})
	suite.Require().NoError(err)

	err = suite.customers.DeleteCustomer(customer.ID)
	var conflict *ConflictError
	suite.Require().ErrorAs(err, &conflict)

	// A cancelled order still blocks deletion; history is history.
	_, _, err = orders.TransitionStatus(order.ID, "CANCELLED")
	suite.Require().NoError(err)
	err = suite.customers.DeleteCustomer(customer.ID)
	suite.Require().ErrorAs(err, &conflict)

	// Once the order is deleted the customer can go.
	suite.Require().NoError(orders.DeleteOrder(order.ID))
	suite.Require().NoError(suite.customers.DeleteCustomer(customer.ID))
}

func (suite *DirectoryTestSuite) TestDeleteSupplierWithProductsIsConflict() {
	t := suite.T()

	supplier, err := suite.suppliers.CreateSupplier(&CreateSupplierRequest{
		Name:  "Criee de Lorient",
		Phone: "0297123456",
	})
	suite.Require().NoError(err)

	catalog := NewCatalogService(suite.db)
	product, err := catalog.CreateProduct(&CreateProductRequest{
		Name:       "Sardines",
		Price:      mustDecimal(t, "4.50"),
		Unit:       "kg",
		SupplierID: &supplier.ID,
	})
	suite.Require().NoError(err)

	err = suite.suppliers.DeleteSupplier(supplier.ID)
	var conflict *ConflictError
	suite.Require().ErrorAs(err, &conflict)

	suite.Require().NoError(catalog.DeleteProduct(product.ID))
	suite.Require().NoError(suite.suppliers.DeleteSupplier(supplier.ID))
}

func (suite *DirectoryTestSuite) TestSearchCustomersByNameAndPhone() {
	t := suite.T()
	seedCustomer(t, suite.db, "Marie Dupont", "0612345678")
	seedCustomer(t, suite.db, "Jean Martin", "0698765432")

	params := testPagination()
	params.Search = "dupont"
	customers, total, err := suite.customers.SearchCustomers(params)
	suite.Require().NoError(err)
	assert.EqualValues(t, 1, total)
	suite.Require().Len(customers, 1)
	assert.Equal(t, "Marie Dupont", customers[0].Name)

	params.Search = "0698"
	_, total, err = suite.customers.SearchCustomers(params)
	suite.Require().NoError(err)
	assert.EqualValues(t, 1, total)
}

func (suite *DirectoryTestSuite) TestUpdateCustomerPartial() {
	t := suite.T()
	customer := seedCustomer(t, suite.db, "Jean", "0612345678")

	updated, err := suite.customers.UpdateCustomer(customer.ID, &UpdateCustomerRequest{
		Address: "12 quai des Chalutiers, Lorient",
	})
	suite.Require().NoError(err)
	assert.Equal(t, "Jean", updated.Name)

	var fresh models.Customer
	suite.Require().NoError(suite.db.First(&fresh, "id = ?", customer.ID).Error)
	assert.Equal(t, "12 quai des Chalutiers, Lorient", fresh.Address)
	assert.Equal(t, "0612345678", fresh.Phone)
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectoryTestSuite))
}

// internal/services/notification_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/lamaree/lamaree-backend/internal/models"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	gateway *fakeGateway
	service *NotificationService
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.gateway = newFakeGateway()
	suite.service = NewNotificationService(suite.db, testConfig(), suite.gateway)
}

func (suite *NotificationServiceTestSuite) TestNotifyLogsSuccess() {
	t := suite.T()

	err := suite.service.Notify("0612345678", "Bonjour", nil)
	suite.Require().NoError(err)

	var log models.SMSLog
	suite.Require().NoError(suite.db.First(&log).Error)
	assert.Equal(t, "0612345678", log.Telephone)
	assert.Equal(t, "Bonjour", log.Message)
	assert.True(t, log.Success)
	assert.Empty(t, log.ErrorMessage)
}

func (suite *NotificationServiceTestSuite) TestNotifyLogsFailure() {
	t := suite.T()
	suite.gateway.failWith = errors.New("carrier unreachable")

	err := suite.service.Notify("0612345678", "Bonjour", nil)
	suite.Require().Error(err)

	var log models.SMSLog
	suite.Require().NoError(suite.db.First(&log).Error)
	assert.False(t, log.Success)
	assert.Contains(t, log.ErrorMessage, "carrier unreachable")
}

func (suite *NotificationServiceTestSuite) TestBuildOrderReadyMessage() {
	t := suite.T()

	order := &models.Order{
		Customer: models.Customer{Name: "Marie Dupont"},
		Items: []models.OrderItem{
			{ProductName: "Sole", Unit: "kg", Quantity: mustDecimal(t, "1.5")},
			{ProductName: "Huitres", Unit: "douzaine", Quantity: mustDecimal(t, "2")},
		},
	}
	order.ID = mustUUID(t, "a3bb189e-8bf9-3888-9912-ace4e6543002")

	msg := BuildOrderReadyMessage(order)
	assert.Contains(t, msg, "Bonjour Marie Dupont")
	assert.Contains(t, msg, "A3BB189E")
	assert.Contains(t, msg, "1.5 kg Sole")
	assert.Contains(t, msg, "2 douzaine Huitres")
}

func (suite *NotificationServiceTestSuite) TestSendOrderReadySkipsEmptyPhone() {
	order := &models.Order{Customer: models.Customer{Name: "Jean", Phone: ""}}

	suite.Require().NoError(suite.service.SendOrderReadyNotification(order))
	assert.Empty(suite.T(), suite.gateway.Sent())

	var logCount int64
	suite.db.Model(&models.SMSLog{}).Count(&logCount)
	assert.Zero(suite.T(), logCount)
}

func (suite *NotificationServiceTestSuite) TestListLogsFilters() {
	t := suite.T()
	suite.Require().NoError(suite.service.Notify("0612345678", "un", nil))
	suite.gateway.failWith = errors.New("boom")
	suite.Require().Error(suite.service.Notify("0687654321", "deux", nil))

	success := true
	logs, total, err := suite.service.ListLogs(ListSMSLogParams{Page: 1, Limit: 20, Success: &success})
	suite.Require().NoError(err)
	assert.EqualValues(t, 1, total)
	suite.Require().Len(logs, 1)
	assert.Equal(t, "0612345678", logs[0].Telephone)
}

func TestNotificationServiceSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}

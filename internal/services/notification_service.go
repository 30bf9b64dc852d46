// internal/services/notification_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lamaree/lamaree-backend/internal/config"
	"github.com/lamaree/lamaree-backend/internal/models"
)

// SMSGateway sends a single text message. Implementations must respect
// the context deadline.
type SMSGateway interface {
	Send(ctx context.Context, phone, message string) error
}

type snsGateway struct {
	client   *sns.SNS
	senderID string
}

// NewSMSGateway builds the configured gateway. Without credentials the
// returned gateway only logs, so development environments behave like
// production minus the carrier.
func NewSMSGateway(cfg config.SMSConfig) (SMSGateway, error) {
	if !cfg.Enabled {
		return &logGateway{}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create SNS session: %w", err)
	}

	return &snsGateway{client: sns.New(sess), senderID: cfg.SenderID}, nil
}

func (g *snsGateway) Send(ctx context.Context, phone, message string) error {
	_, err := g.client.PublishWithContext(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
		MessageAttributes: map[string]*sns.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(g.senderID),
			},
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	})
	return err
}

type logGateway struct{}

func (*logGateway) Send(ctx context.Context, phone, message string) error {
	logrus.WithFields(logrus.Fields{
		"phone":   phone,
		"message": message,
	}).Info("SMS gateway disabled, message not sent")
	return nil
}

// NotificationService dispatches customer SMS and records every attempt
// in the append-only sms_logs table, success or not.
type NotificationService struct {
	db      *gorm.DB
	cfg     *config.Config
	gateway SMSGateway
}

func NewNotificationService(db *gorm.DB, cfg *config.Config, gateway SMSGateway) *NotificationService {
	return &NotificationService{
		db:      db,
		cfg:     cfg,
		gateway: gateway,
	}
}

// Notify sends one message and logs the outcome. The gateway call is
// bounded by the configured timeout so a stalled carrier cannot pin the
// goroutine.
func (s *NotificationService) Notify(phone, message string, orderID *uuid.UUID) error {
	timeout := time.Duration(s.cfg.SMS.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sendErr := s.gateway.Send(ctx, phone, message)

	entry := &models.SMSLog{
		Telephone: phone,
		Message:   message,
		OrderID:   orderID,
		Success:   sendErr == nil,
	}
	if sendErr != nil {
		entry.ErrorMessage = sendErr.Error()
	}

	if err := s.db.Create(entry).Error; err != nil {
		logrus.WithError(err).Error("Failed to record SMS log entry")
	}

	if sendErr != nil {
		return fmt.Errorf("sms dispatch failed: %w", sendErr)
	}
	return nil
}

// SendOrderReadyNotification tells the customer their order can be
// picked up. Customers without a phone number are skipped silently.
func (s *NotificationService) SendOrderReadyNotification(order *models.Order) error {
	phone := order.Customer.Phone
	if phone == "" {
		return nil
	}
	return s.Notify(phone, BuildOrderReadyMessage(order), &order.ID)
}

// BuildOrderReadyMessage composes the pickup SMS: one line per item with
// quantity, unit and product name, plus a short order reference.
// Plain ASCII keeps the message inside the basic GSM alphabet.
func BuildOrderReadyMessage(order *models.Order) string {
	lines := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, fmt.Sprintf("%s %s %s", item.Quantity.String(), item.Unit, item.ProductName))
	}

	return fmt.Sprintf("Bonjour %s, votre commande %s est prete : %s. A bientot chez La Maree !",
		order.Customer.Name, shortOrderRef(order.ID), strings.Join(lines, ", "))
}

func shortOrderRef(id uuid.UUID) string {
	return strings.ToUpper(strings.SplitN(id.String(), "-", 2)[0])
}

func (s *NotificationService) ListLogs(params ListSMSLogParams) ([]models.SMSLog, int64, error) {
	query := s.db.Model(&models.SMSLog{})

	if params.OrderID != nil {
		query = query.Where("order_id = ?", *params.OrderID)
	}
	if params.Success != nil {
		query = query.Where("success = ?", *params.Success)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sms logs: %w", err)
	}

	query = query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit)

	var logs []models.SMSLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch sms logs: %w", err)
	}

	return logs, total, nil
}

type ListSMSLogParams struct {
	Page    int
	Limit   int
	OrderID *uuid.UUID
	Success *bool
}

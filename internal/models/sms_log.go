// internal/models/sms_log.go
package models

import "github.com/google/uuid"

// SMSLog is the append-only trace of every notification attempt,
// successful or not. Rows are never updated or deleted.
type SMSLog struct {
	BaseModel
	Telephone    string     `json:"telephone" gorm:"size:20;not null"`
	Message      string     `json:"message" gorm:"type:text;not null"`
	OrderID      *uuid.UUID `json:"order_id" gorm:"type:uuid;index"`
	Success      bool       `json:"success" gorm:"not null"`
	ErrorMessage string     `json:"error_message,omitempty" gorm:"type:text"`
}

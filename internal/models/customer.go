// internal/models/customer.go
package models

type Customer struct {
	BaseModel
	Name    string `json:"name" gorm:"size:255;not null;index"`
	Phone   string `json:"phone" gorm:"size:20;index"`
	Email   string `json:"email" gorm:"size:255"`
	Address string `json:"address" gorm:"type:text"`
	Notes   string `json:"notes,omitempty" gorm:"type:text"`

	// Relationships
	Orders []Order `json:"orders,omitempty" gorm:"foreignKey:CustomerID"`
}

// internal/models/supplier.go
package models

type Supplier struct {
	BaseModel
	Name        string `json:"name" gorm:"size:255;not null;index"`
	ContactName string `json:"contact_name" gorm:"size:255"`
	Phone       string `json:"phone" gorm:"size:20"`
	Email       string `json:"email" gorm:"size:255"`
	Address     string `json:"address" gorm:"type:text"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:SupplierID"`
}

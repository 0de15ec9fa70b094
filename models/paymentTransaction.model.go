package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentGateway identifies the checkout provider
type PaymentGateway string

const (
	GatewayBkash      PaymentGateway = "BKASH"
	GatewaySSLCommerz PaymentGateway = "SSLCOMMERZ"
)

// PaymentStatus defines the state of a checkout transaction
type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "INITIATED"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// PaymentTransaction tracks a course checkout from initiation to
// verification. The unique TransactionID doubles as the idempotency key:
// a transaction already COMPLETED can never grant a second purchase.
type PaymentTransaction struct {
	gorm.Model
	UserID             uint           `gorm:"index;not null" json:"userId"`
	CourseID           uint           `gorm:"index;not null" json:"courseId"`
	TransactionID      string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"transactionId"`
	Gateway            PaymentGateway `gorm:"type:varchar(20);not null" json:"gateway"`
	Amount             float64        `gorm:"not null" json:"amount"`
	Currency           string         `gorm:"type:varchar(10);default:'BDT'" json:"currency"`
	Status             PaymentStatus  `gorm:"type:varchar(20);default:'INITIATED'" json:"status"`
	PaymentMethod      string         `gorm:"type:varchar(50)" json:"paymentMethod"`
	PaymentResponseRaw string         `gorm:"type:text" json:"-"`
	TransactionDate    time.Time      `gorm:"not null" json:"transactionDate"`
	IsDeleted          bool           `gorm:"default:false" json:"-"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole defines the role of a platform user
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleAdmin   UserRole = "ADMIN"
)

// SubscriptionType defines the subscription tier of a user
type SubscriptionType string

const (
	SubscriptionFree    SubscriptionType = "FREE"
	SubscriptionPremium SubscriptionType = "PREMIUM"
	SubscriptionPro     SubscriptionType = "PRO"
)

type User struct {
	gorm.Model
	FirstName          string           `gorm:"not null" json:"firstName"`
	LastName           string           `gorm:"not null" json:"lastName"`
	Email              string           `gorm:"unique;not null" json:"email"`
	Password           string           `gorm:"not null" json:"-"`
	Role               UserRole         `gorm:"type:varchar(20);default:'STUDENT'" json:"role"`
	Avatar             string           `gorm:"default:''" json:"avatar"`
	Phone              string           `gorm:"default:''" json:"phone"`
	DateOfBirth        *time.Time       `json:"dateOfBirth"`
	TargetCountry      string           `gorm:"type:varchar(50);default:'USA'" json:"targetCountry"` // USA, UK, Canada, Australia, Germany, Other
	SubscriptionType   SubscriptionType `gorm:"type:varchar(20);default:'FREE'" json:"subscriptionType"`
	SubscriptionExpiry *time.Time       `json:"subscriptionExpiry"`
	Language           string           `gorm:"type:varchar(5);default:'en'" json:"language"` // en, bn
	EmailNotifications bool             `gorm:"default:true" json:"emailNotifications"`
	SMSNotifications   bool             `gorm:"default:false" json:"smsNotifications"`
	LastLogin          *time.Time       `json:"lastLogin"`
	IsDeleted          bool             `gorm:"default:false" json:"-"`
}

// HasPremiumAccess reports whether the user's subscription currently
// unlocks premium materials. An expired premium/pro tier counts as free.
func (u *User) HasPremiumAccess() bool {
	if u.SubscriptionType == SubscriptionFree {
		return false
	}
	if u.SubscriptionExpiry != nil && u.SubscriptionExpiry.Before(time.Now()) {
		return false
	}
	return true
}

// TestSummary is a compact per-user record of an evaluated IELTS attempt,
// kept alongside the full TestResult for quick profile views.
type TestSummary struct {
	gorm.Model
	UserID       uint      `gorm:"index;not null" json:"userId"`
	TestResultID uint      `gorm:"index;not null" json:"testResultId"`
	Section      string    `gorm:"type:varchar(20);not null" json:"section"`
	Score        float64   `gorm:"not null" json:"score"`
	MaxScore     float64   `gorm:"default:9" json:"maxScore"`
	TakenAt      time.Time `gorm:"not null" json:"takenAt"`
}

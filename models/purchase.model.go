package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PurchasedCourse links a user to a course they paid for and tracks
// their viewing progress. The composite unique index rejects duplicate
// purchases at the database layer, including concurrent ones.
type PurchasedCourse struct {
	gorm.Model
	UserID          uint           `gorm:"not null;uniqueIndex:idx_user_course" json:"userId"`
	CourseID        uint           `gorm:"not null;uniqueIndex:idx_user_course" json:"courseId"`
	PurchaseDate    time.Time      `gorm:"not null" json:"purchaseDate"`
	Progress        int            `gorm:"default:0" json:"progress"` // 0-100
	CompletedVideos datatypes.JSON `gorm:"type:text" json:"completedVideos"`
	IsDeleted       bool           `gorm:"default:false" json:"-"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (PurchasedCourse) TableName() string {
	return "purchased_courses"
}

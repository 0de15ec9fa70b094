package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// Course represents a purchasable video course
type Course struct {
	gorm.Model
	Title            string  `gorm:"not null" json:"title"`
	Description      string  `gorm:"type:text;not null" json:"description"`
	Thumbnail        string  `gorm:"default:''" json:"thumbnail"`
	Category         string  `gorm:"type:varchar(50);not null;index" json:"category"` // visa-interview, sop-writing, scholarship, ielts-prep, university-application, general
	Level            string  `gorm:"type:varchar(20);default:'beginner'" json:"level"`
	PriceAmount      float64 `gorm:"not null" json:"priceAmount"`
	Currency         string  `gorm:"type:varchar(10);default:'BDT'" json:"currency"`
	DiscountPrice    float64 `gorm:"default:0" json:"discountPrice"`
	TotalDuration    int     `gorm:"default:0" json:"totalDuration"` // seconds, recomputed from videos
	InstructorName   string  `gorm:"default:''" json:"instructorName"`
	InstructorBio    string  `gorm:"type:text" json:"instructorBio"`
	InstructorAvatar string  `gorm:"default:''" json:"instructorAvatar"`
	RatingAverage    float64 `gorm:"default:0" json:"ratingAverage"`
	RatingCount      int     `gorm:"default:0" json:"ratingCount"`
	EnrollmentCount  int     `gorm:"default:0" json:"enrollmentCount"`
	IsActive         bool    `gorm:"default:true" json:"isActive"`
	CreatedBy        uint    `gorm:"not null" json:"createdBy"`
	IsDeleted        bool    `gorm:"default:false" json:"-"`
}

// CourseVideo is a single video entry inside a course
type CourseVideo struct {
	gorm.Model
	CourseID    uint   `gorm:"index;not null" json:"courseId"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	VideoURL    string `gorm:"not null" json:"videoUrl"`
	Duration    int    `gorm:"not null" json:"duration"` // seconds
	OrderIndex  int    `gorm:"not null" json:"orderIndex"`
	IsPreview   bool   `gorm:"default:false" json:"isPreview"`
}

// CourseReview is a purchaser's rating of a course, one per user per course
type CourseReview struct {
	gorm.Model
	CourseID  uint      `gorm:"index;not null" json:"courseId"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Rating    int       `gorm:"not null" json:"rating"` // 1-5
	Comment   string    `gorm:"type:text" json:"comment"`
	Date      time.Time `gorm:"not null" json:"date"`
	IsDeleted bool      `gorm:"default:false" json:"-"`
}

// RecomputeRatings derives the course aggregate rating from its reviews.
// Every review mutation must go through this so the stored average never
// drifts from its inputs.
func RecomputeRatings(course *Course, reviews []CourseReview) {
	course.RatingCount = len(reviews)
	if len(reviews) == 0 {
		course.RatingAverage = 0
		return
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	course.RatingAverage = float64(total) / float64(len(reviews))
}

// RecomputeDuration derives the course total duration from its video list
func RecomputeDuration(course *Course, videos []CourseVideo) {
	total := 0
	for _, v := range videos {
		total += v.Duration
	}
	course.TotalDuration = total
}

// ProgressPercent computes the completion percentage after marking
// completed of total videos done, rounded to the nearest whole percent.
func ProgressPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

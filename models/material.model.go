package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Material is a study resource: a video, a PDF, an article and so on.
// Premium materials expose their file URLs only to premium/pro subscribers.
type Material struct {
	gorm.Model
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Type          string         `gorm:"type:varchar(30);not null;index" json:"type"`     // video, pdf, article, vocabulary, grammar, practice-test, audio
	Category      string         `gorm:"type:varchar(30);not null;index" json:"category"` // listening, reading, writing, speaking, vocabulary, grammar, general
	FileURL       string         `gorm:"default:''" json:"fileUrl,omitempty"`
	DownloadURL   string         `gorm:"default:''" json:"downloadUrl,omitempty"`
	Content       string         `gorm:"type:text" json:"content"` // for articles and text-based materials
	Thumbnail     string         `gorm:"default:''" json:"thumbnail"`
	Difficulty    string         `gorm:"type:varchar(20);default:'beginner'" json:"difficulty"`
	Tags          datatypes.JSON `gorm:"type:text" json:"tags"`
	Duration      int            `gorm:"default:0" json:"duration"`  // minutes, for videos/audio
	WordCount     int            `gorm:"default:0" json:"wordCount"` // for articles
	IsPublic      bool           `gorm:"default:true" json:"isPublic"`
	IsPremium     bool           `gorm:"default:false" json:"isPremium"`
	ViewCount     int            `gorm:"default:0" json:"viewCount"`
	DownloadCount int            `gorm:"default:0" json:"downloadCount"`
	RatingAverage float64        `gorm:"default:0" json:"ratingAverage"`
	RatingCount   int            `gorm:"default:0" json:"ratingCount"`
	UploadedBy    uint           `gorm:"not null" json:"uploadedBy"`
	IsDeleted     bool           `gorm:"default:false" json:"-"`
}

// FoldRating folds one new rating into the running average. Ratings are
// not deduplicated per user; repeat ratings each count.
func FoldRating(m *Material, rating int) {
	total := m.RatingAverage*float64(m.RatingCount) + float64(rating)
	m.RatingCount++
	m.RatingAverage = total / float64(m.RatingCount)
}

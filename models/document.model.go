package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentType defines the kind of application document
type DocumentType string

const (
	DocumentSOP              DocumentType = "sop"
	DocumentLOR              DocumentType = "lor"
	DocumentResume           DocumentType = "resume"
	DocumentCoverLetter      DocumentType = "cover-letter"
	DocumentBankSolvency     DocumentType = "bank-solvency"
	DocumentScholarshipEssay DocumentType = "scholarship-essay"
)

// DocumentStatus defines the lifecycle state of a document
type DocumentStatus string

const (
	DocumentDraft     DocumentStatus = "draft"
	DocumentCompleted DocumentStatus = "completed"
	DocumentReviewed  DocumentStatus = "reviewed"
)

// Document is an application document owned by a user, either AI-generated
// or written by hand. Each update bumps Version and snapshots the prior
// content into DocumentVersion.
type Document struct {
	gorm.Model
	UserID           uint           `gorm:"index;not null" json:"userId"`
	Type             DocumentType   `gorm:"type:varchar(30);not null;index" json:"type"`
	Title            string         `gorm:"not null" json:"title"`
	Content          string         `gorm:"type:text;not null" json:"content"`
	FormData         datatypes.JSON `gorm:"type:text" json:"formData"`
	Template         string         `gorm:"type:varchar(30);default:'template1'" json:"template"`
	IsAiGenerated    bool           `gorm:"default:false" json:"isAiGenerated"`
	AiPrompt         string         `gorm:"type:text" json:"-"`
	TargetUniversity string         `gorm:"default:''" json:"targetUniversity"`
	TargetProgram    string         `gorm:"default:''" json:"targetProgram"`
	TargetCountry    string         `gorm:"default:''" json:"targetCountry"`
	Status           DocumentStatus `gorm:"type:varchar(20);default:'draft'" json:"status"`
	Version          int            `gorm:"default:1" json:"version"`
	DownloadCount    int            `gorm:"default:0" json:"downloadCount"`
	LastDownloaded   *time.Time     `json:"lastDownloaded"`
	IsDeleted        bool           `gorm:"default:false" json:"-"`
}

// DocumentVersion is a content snapshot taken before each update-save
type DocumentVersion struct {
	gorm.Model
	DocumentID uint   `gorm:"index;not null" json:"documentId"`
	Content    string `gorm:"type:text;not null" json:"content"`
	Version    int    `gorm:"not null" json:"version"`
}

// DocumentShare records who a document was shared with. No notification
// is delivered; the entry only grants context to the owner.
type DocumentShare struct {
	gorm.Model
	DocumentID uint      `gorm:"index;not null" json:"documentId"`
	Email      string    `gorm:"not null" json:"email"`
	Role       string    `gorm:"type:varchar(20);default:'reviewer'" json:"role"` // reviewer, collaborator
	SharedAt   time.Time `gorm:"not null" json:"sharedAt"`
}

// DocumentFeedback is a reviewer comment on a shared document
type DocumentFeedback struct {
	gorm.Model
	DocumentID uint   `gorm:"index;not null" json:"documentId"`
	ReviewerID uint   `gorm:"not null" json:"reviewerId"`
	Comment    string `gorm:"type:text" json:"comment"`
	Rating     int    `gorm:"default:0" json:"rating"` // 1-5, optional
}

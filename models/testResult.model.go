package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TestSection defines the IELTS section of an attempt
type TestSection string

const (
	SectionListening TestSection = "listening"
	SectionReading   TestSection = "reading"
	SectionWriting   TestSection = "writing"
	SectionSpeaking  TestSection = "speaking"
)

// TestStatus defines the evaluation state of an attempt
type TestStatus string

const (
	TestPending   TestStatus = "pending"
	TestEvaluated TestStatus = "evaluated"
	TestFailed    TestStatus = "failed"
)

// TestResult is one IELTS practice attempt with its AI evaluation.
// Once evaluated it is immutable history.
type TestResult struct {
	gorm.Model
	UserID   uint        `gorm:"index;not null" json:"userId"`
	Section  TestSection `gorm:"type:varchar(20);not null;index" json:"section"`
	TestType string      `gorm:"type:varchar(20);default:'practice'" json:"testType"` // practice, mock, full-test

	OverallScore float64 `gorm:"default:0" json:"overallScore"` // band scale 0-9
	BandScore    float64 `gorm:"default:0" json:"bandScore"`

	// Rubric dimension scores; writing and speaking use different subsets
	TaskAchievement   float64 `gorm:"default:0" json:"taskAchievement"`
	CoherenceCohesion float64 `gorm:"default:0" json:"coherenceCohesion"`
	LexicalResource   float64 `gorm:"default:0" json:"lexicalResource"`
	GrammaticalRange  float64 `gorm:"default:0" json:"grammaticalRange"`
	Fluency           float64 `gorm:"default:0" json:"fluency"`
	Pronunciation     float64 `gorm:"default:0" json:"pronunciation"`

	TimeSpent   int            `gorm:"default:0" json:"timeSpent"` // seconds
	WritingText string         `gorm:"type:text" json:"writingText,omitempty"`
	AudioURL    string         `gorm:"default:''" json:"audioUrl,omitempty"`
	Questions   datatypes.JSON `gorm:"type:text" json:"questions,omitempty"`

	OverallFeedback string         `gorm:"type:text" json:"overallFeedback"`
	Strengths       datatypes.JSON `gorm:"type:text" json:"strengths"`
	Weaknesses      datatypes.JSON `gorm:"type:text" json:"weaknesses"`
	Recommendations datatypes.JSON `gorm:"type:text" json:"recommendations"`

	Status      TestStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	RetakeCount int        `gorm:"default:0" json:"retakeCount"`
	EvaluatedAt *time.Time `json:"evaluatedAt"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisMode string

const (
	ModeClassification AnalysisMode = "classification"
	ModeJobMatch       AnalysisMode = "job_match"
)

// Analysis is one completed screening pass over an uploaded resume. Pipeline
// runs are synchronous, so rows are written once and never transition through
// queued/processing states.
type Analysis struct {
	ID                uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Mode              AnalysisMode `gorm:"type:text;not null" json:"mode"`
	ResumeDocumentID  uuid.UUID    `gorm:"type:uuid;not null" json:"resume_document_id"`
	PredictedCategory *string      `gorm:"type:text" json:"predicted_category,omitempty"`
	KeywordMatches    *int         `json:"keyword_matches,omitempty"`
	KeywordTotal      *int         `json:"keyword_total,omitempty"`
	Shortlisted       *bool        `json:"shortlisted,omitempty"`
	SimilarityScore   *float64     `gorm:"type:decimal(5,2)" json:"similarity_score,omitempty"`
	TFIDFScore        *float64     `json:"tfidf_score,omitempty"`
	SemanticScore     *float64     `json:"semantic_score,omitempty"`
	MatchedKeywords   *string      `gorm:"type:text" json:"matched_keywords,omitempty"`
	MissingKeywords   *string      `gorm:"type:text" json:"missing_keywords,omitempty"`
	ReportText        *string      `gorm:"type:text" json:"report_text,omitempty"`
	ErrorMessage      *string      `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt         time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	ResumeDocument Document `gorm:"foreignKey:ResumeDocumentID" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}

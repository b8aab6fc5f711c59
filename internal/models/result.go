package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
}

type ClassifyRequest struct {
	ResumeDocumentID string `json:"resume_document_id" validate:"required,uuid"`
	Keywords         string `json:"keywords"`
	Threshold        *int   `json:"threshold,omitempty"`
}

type ClassifyResponse struct {
	ID                   string `json:"id"`
	ExtractedTextPreview string `json:"extracted_text_preview"`
	PredictedCategory    string `json:"predicted_category"`
	KeywordMatches       int    `json:"keyword_matches"`
	KeywordTotal         int    `json:"keyword_total"`
	Threshold            int    `json:"threshold"`
	Shortlisted          bool   `json:"shortlisted"`
	Warning              string `json:"warning,omitempty"`
}

type MatchRequest struct {
	ResumeDocumentID string `json:"resume_document_id" validate:"required,uuid"`
	JobDescription   string `json:"job_description" validate:"required"`
}

type MatchResponse struct {
	ID              string   `json:"id"`
	SimilarityScore float64  `json:"similarity_score"`
	TFIDFScore      float64  `json:"tfidf_score"`
	SemanticScore   float64  `json:"semantic_score"`
	MatchedKeywords []string `json:"matched_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
	ReportText      string   `json:"report_text"`
	Warning         string   `json:"warning,omitempty"`
}

type SimilarResumeResponse struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Preview    string  `json:"preview"`
	Score      float32 `json:"score"`
}

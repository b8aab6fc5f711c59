package services

import "fmt"

// ExtractionError means the uploaded byte stream is not a readable PDF
// (corrupted, truncated or password protected). Callers should degrade to
// empty text instead of failing the whole request.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdf extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("pdf extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ArtifactMissingError means a trained artifact file is absent. Classification
// mode must be disabled with an instruction to run the trainer first.
type ArtifactMissingError struct {
	Path string
	Err  error
}

func (e *ArtifactMissingError) Error() string {
	return fmt.Sprintf("trained artifact not found at %s (run the trainer first)", e.Path)
}

func (e *ArtifactMissingError) Unwrap() error { return e.Err }

// DatasetError means the training dataset is missing or malformed. The trainer
// treats it as fatal and persists nothing.
type DatasetError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DatasetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("training dataset %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("training dataset %s: %s", e.Path, e.Reason)
}

func (e *DatasetError) Unwrap() error { return e.Err }

// VocabularyMismatchError means a vectorizer/classifier pair was trained on
// different vocabularies. Loading such a pair fails fast instead of silently
// producing zero-weighted features.
type VocabularyMismatchError struct {
	VectorizerFingerprint string
	ClassifierFingerprint string
}

func (e *VocabularyMismatchError) Error() string {
	return fmt.Sprintf(
		"vectorizer/classifier vocabulary mismatch: %s vs %s",
		e.VectorizerFingerprint, e.ClassifierFingerprint,
	)
}

package services

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactFormatVersion tags persisted artifacts so a loader never deserializes
// a layout it does not understand.
const ArtifactFormatVersion = 1

type vectorizerArtifact struct {
	Version     int
	Fingerprint string
	Vectorizer  *FittedVectorizer
}

type classifierArtifact struct {
	Version     int
	Fingerprint string
	Classifier  *FittedClassifier
}

// ScreeningModel is the read-only pair of trained artifacts shared by every
// classification request. It is loaded once at startup and never mutated.
type ScreeningModel struct {
	Vectorizer  *FittedVectorizer
	Classifier  *FittedClassifier
	Fingerprint string
}

// SaveArtifacts persists a fitted vectorizer/classifier pair. Both files carry
// the same vocabulary fingerprint so a mismatched pair is detected on load.
// Each artifact is written to a temp file and renamed, so a failed save never
// leaves a partial artifact behind.
func SaveArtifacts(vec *FittedVectorizer, clf *FittedClassifier, vectorizerPath, classifierPath string) error {
	fingerprint := vec.Fingerprint()

	if err := writeArtifact(vectorizerPath, vectorizerArtifact{
		Version:     ArtifactFormatVersion,
		Fingerprint: fingerprint,
		Vectorizer:  vec,
	}); err != nil {
		return fmt.Errorf("failed to save vectorizer artifact: %w", err)
	}

	if err := writeArtifact(classifierPath, classifierArtifact{
		Version:     ArtifactFormatVersion,
		Fingerprint: fingerprint,
		Classifier:  clf,
	}); err != nil {
		return fmt.Errorf("failed to save classifier artifact: %w", err)
	}

	return nil
}

func writeArtifact(path string, artifact any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}

	if err := gob.NewEncoder(tmp).Encode(artifact); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace artifact: %w", err)
	}

	return nil
}

// LoadArtifacts reads a trained pair from disk. Missing files yield
// *ArtifactMissingError; a pair trained on different vocabularies yields
// *VocabularyMismatchError instead of silently degrading predictions.
func LoadArtifacts(vectorizerPath, classifierPath string) (*ScreeningModel, error) {
	var vecArt vectorizerArtifact
	if err := readArtifact(vectorizerPath, &vecArt); err != nil {
		return nil, err
	}

	var clfArt classifierArtifact
	if err := readArtifact(classifierPath, &clfArt); err != nil {
		return nil, err
	}

	if vecArt.Version != ArtifactFormatVersion || clfArt.Version != ArtifactFormatVersion {
		return nil, fmt.Errorf(
			"unsupported artifact format version: vectorizer=%d classifier=%d (want %d)",
			vecArt.Version, clfArt.Version, ArtifactFormatVersion,
		)
	}

	if vecArt.Fingerprint != clfArt.Fingerprint {
		return nil, &VocabularyMismatchError{
			VectorizerFingerprint: vecArt.Fingerprint,
			ClassifierFingerprint: clfArt.Fingerprint,
		}
	}

	return &ScreeningModel{
		Vectorizer:  vecArt.Vectorizer,
		Classifier:  clfArt.Classifier,
		Fingerprint: vecArt.Fingerprint,
	}, nil
}

func readArtifact(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ArtifactMissingError{Path: path, Err: err}
		}
		return fmt.Errorf("failed to open artifact %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(out); err != nil {
		return fmt.Errorf("failed to decode artifact %s: %w", path, err)
	}

	return nil
}

package services

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainTestPair(t *testing.T, corpus []string, labels []string) (*FittedVectorizer, *FittedClassifier) {
	t.Helper()

	fitted := NewVectorizer(0).Fit(corpus)
	features := make([][]float64, len(corpus))
	for i, doc := range corpus {
		features[i] = fitted.Transform(doc)
	}

	clf, err := NewClassifier(200).Fit(features, labels)
	require.NoError(t, err)

	return fitted, clf
}

func TestArtifactsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	vecPath := filepath.Join(dir, "vectorizer.gob")
	clfPath := filepath.Join(dir, "classifier.gob")

	corpus := []string{"golang backend engineer", "graphic designer photoshop"}
	vec, clf := trainTestPair(t, corpus, []string{"engineering", "design"})

	require.NoError(t, SaveArtifacts(vec, clf, vecPath, clfPath))

	model, err := LoadArtifacts(vecPath, clfPath)
	require.NoError(t, err)

	assert.Equal(t, vec.Fingerprint(), model.Fingerprint)
	assert.Equal(t, vec.Vocabulary, model.Vectorizer.Vocabulary)
	assert.Equal(t, clf.Classes, model.Classifier.Classes)

	// The reloaded pair predicts exactly like the in-memory one.
	for _, doc := range corpus {
		features := model.Vectorizer.Transform(doc)
		assert.Equal(t, clf.Predict(features), model.Classifier.Predict(features))
	}
}

func TestLoadArtifactsMissingFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadArtifacts(filepath.Join(dir, "missing_vec.gob"), filepath.Join(dir, "missing_clf.gob"))
	require.Error(t, err)

	var artifactErr *ArtifactMissingError
	assert.True(t, errors.As(err, &artifactErr))
}

func TestLoadArtifactsRejectsMismatchedPair(t *testing.T) {
	dir := t.TempDir()

	vecA, clfA := trainTestPair(t,
		[]string{"golang backend", "graphic design"},
		[]string{"engineering", "design"},
	)
	vecB, clfB := trainTestPair(t,
		[]string{"kafka streams flink", "oil painting watercolor"},
		[]string{"engineering", "design"},
	)

	require.NoError(t, SaveArtifacts(vecA, clfA, filepath.Join(dir, "vec_a.gob"), filepath.Join(dir, "clf_a.gob")))
	require.NoError(t, SaveArtifacts(vecB, clfB, filepath.Join(dir, "vec_b.gob"), filepath.Join(dir, "clf_b.gob")))

	_, err := LoadArtifacts(filepath.Join(dir, "vec_a.gob"), filepath.Join(dir, "clf_b.gob"))
	require.Error(t, err)

	var mismatchErr *VocabularyMismatchError
	require.True(t, errors.As(err, &mismatchErr))
	assert.NotEqual(t, mismatchErr.VectorizerFingerprint, mismatchErr.ClassifierFingerprint)
}

func TestSaveArtifactsCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	vecPath := filepath.Join(dir, "models", "nested", "vectorizer.gob")
	clfPath := filepath.Join(dir, "models", "nested", "classifier.gob")

	vec, clf := trainTestPair(t,
		[]string{"golang backend", "graphic design"},
		[]string{"engineering", "design"},
	)

	require.NoError(t, SaveArtifacts(vec, clf, vecPath, clfPath))

	_, err := LoadArtifacts(vecPath, clfPath)
	assert.NoError(t, err)
}

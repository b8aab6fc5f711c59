package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	engineeringText = "golang engineer building backend microservices with docker kubernetes postgres"
	designText      = "graphic designer creating branding assets with photoshop illustrator typography"
)

func writeTestDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resumes.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func balancedDataset(t *testing.T) string {
	var sb strings.Builder
	sb.WriteString("resume_text,label\n")
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&sb, "%s,engineering\n", engineeringText)
		fmt.Fprintf(&sb, "%s,design\n", designText)
	}
	return writeTestDataset(t, sb.String())
}

func testTrainer(t *testing.T, dir string) TrainerService {
	t.Helper()
	normalizer, err := NewTextNormalizer()
	require.NoError(t, err)

	return NewTrainerService(normalizer, TrainerConfig{
		MaxFeatures:    100,
		MaxIterations:  300,
		TestSplit:      0.2,
		Seed:           42,
		VectorizerPath: filepath.Join(dir, "vectorizer.gob"),
		ClassifierPath: filepath.Join(dir, "classifier.gob"),
	})
}

func TestTrainEndToEnd(t *testing.T) {
	dir := t.TempDir()
	trainer := testTrainer(t, dir)

	report, err := trainer.Train(balancedDataset(t))
	require.NoError(t, err)

	assert.Equal(t, 10, report.Rows)
	assert.Equal(t, 8, report.TrainRows)
	assert.Equal(t, 2, report.TestRows)
	assert.Equal(t, []string{"design", "engineering"}, report.Classes)
	assert.Equal(t, 1.0, report.Accuracy)

	for _, class := range report.Classes {
		metrics, ok := report.PerClass[class]
		require.True(t, ok)
		assert.GreaterOrEqual(t, metrics.F1, 0.0)
		assert.LessOrEqual(t, metrics.F1, 1.0)
	}
}

func TestTrainArtifactsPredictTrainingLabels(t *testing.T) {
	dir := t.TempDir()
	trainer := testTrainer(t, dir)

	_, err := trainer.Train(balancedDataset(t))
	require.NoError(t, err)

	model, err := LoadArtifacts(
		filepath.Join(dir, "vectorizer.gob"),
		filepath.Join(dir, "classifier.gob"),
	)
	require.NoError(t, err)

	normalizer, err := NewTextNormalizer()
	require.NoError(t, err)

	engFeatures := model.Vectorizer.Transform(normalizer.Normalize(engineeringText))
	assert.Equal(t, "engineering", model.Classifier.Predict(engFeatures))

	designFeatures := model.Vectorizer.Transform(normalizer.Normalize(designText))
	assert.Equal(t, "design", model.Classifier.Predict(designFeatures))
}

func TestTrainIsReproducible(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	dataset := balancedDataset(t)

	reportA, err := testTrainer(t, dirA).Train(dataset)
	require.NoError(t, err)
	reportB, err := testTrainer(t, dirB).Train(dataset)
	require.NoError(t, err)

	assert.Equal(t, reportA.Accuracy, reportB.Accuracy)
	assert.Equal(t, reportA.PerClass, reportB.PerClass)

	modelA, err := LoadArtifacts(filepath.Join(dirA, "vectorizer.gob"), filepath.Join(dirA, "classifier.gob"))
	require.NoError(t, err)
	modelB, err := LoadArtifacts(filepath.Join(dirB, "vectorizer.gob"), filepath.Join(dirB, "classifier.gob"))
	require.NoError(t, err)

	assert.Equal(t, modelA.Fingerprint, modelB.Fingerprint)
	assert.Equal(t, modelA.Classifier.Weights, modelB.Classifier.Weights)
}

func TestTrainHeaderIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	trainer := testTrainer(t, dir)

	dataset := writeTestDataset(t, "Resume_Text,LABEL\n"+engineeringText+",engineering\n"+designText+",design\n")

	report, err := trainer.Train(dataset)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Rows)
}

func TestTrainMissingDataset(t *testing.T) {
	trainer := testTrainer(t, t.TempDir())

	_, err := trainer.Train(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)

	var datasetErr *DatasetError
	assert.True(t, errors.As(err, &datasetErr))
}

func TestTrainMissingColumns(t *testing.T) {
	dir := t.TempDir()
	trainer := testTrainer(t, dir)

	dataset := writeTestDataset(t, "foo,bar\nx,y\n")

	_, err := trainer.Train(dataset)
	require.Error(t, err)

	var datasetErr *DatasetError
	require.True(t, errors.As(err, &datasetErr))
	assert.Contains(t, datasetErr.Reason, "missing required columns")

	// A failed run writes no artifacts.
	_, statErr := os.Stat(filepath.Join(dir, "vectorizer.gob"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestTrainEmptyDataset(t *testing.T) {
	trainer := testTrainer(t, t.TempDir())

	_, err := trainer.Train(writeTestDataset(t, "resume_text,label\n"))
	require.Error(t, err)

	var datasetErr *DatasetError
	require.True(t, errors.As(err, &datasetErr))
	assert.Contains(t, datasetErr.Reason, "no rows")
}

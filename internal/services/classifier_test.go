package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifierFitsSeparableData(t *testing.T) {
	features := [][]float64{
		{1, 0}, {0.9, 0.1}, {0.8, 0},
		{0, 1}, {0.1, 0.9}, {0, 0.8},
	}
	labels := []string{"backend", "backend", "backend", "design", "design", "design"}

	fitted, err := NewClassifier(500).Fit(features, labels)
	require.NoError(t, err)

	assert.Equal(t, []string{"backend", "design"}, fitted.Classes)
	assert.Equal(t, "backend", fitted.Predict([]float64{1, 0}))
	assert.Equal(t, "design", fitted.Predict([]float64{0, 1}))
}

func TestClassifierAlwaysReturnsALabel(t *testing.T) {
	features := [][]float64{{1, 0}, {1, 0}, {1, 0}, {0, 1}}
	labels := []string{"majority", "majority", "majority", "minority"}

	fitted, err := NewClassifier(1000).Fit(features, labels)
	require.NoError(t, err)

	// The zero vector resolves through the bias row toward the majority class.
	assert.Equal(t, "majority", fitted.Predict([]float64{0, 0}))
}

func TestClassifierRejectsEmptyTrainingSet(t *testing.T) {
	_, err := NewClassifier(10).Fit(nil, nil)
	assert.Error(t, err)
}

func TestClassifierRejectsLengthMismatch(t *testing.T) {
	_, err := NewClassifier(10).Fit([][]float64{{1}}, []string{"a", "b"})
	assert.Error(t, err)
}

func TestClassifierRejectsRaggedFeatures(t *testing.T) {
	_, err := NewClassifier(10).Fit([][]float64{{1, 2}, {1}}, []string{"a", "b"})
	assert.Error(t, err)
}

func TestClassifierIsDeterministic(t *testing.T) {
	features := [][]float64{{1, 0}, {0, 1}, {0.5, 0.5}}
	labels := []string{"a", "b", "a"}

	first, err := NewClassifier(200).Fit(features, labels)
	require.NoError(t, err)
	second, err := NewClassifier(200).Fit(features, labels)
	require.NoError(t, err)

	assert.Equal(t, first.Weights, second.Weights)
	assert.Equal(t, first.Classes, second.Classes)
}

func TestClassifierDefaultIterations(t *testing.T) {
	c := NewClassifier(0)
	assert.Equal(t, 1000, c.maxIter)
}

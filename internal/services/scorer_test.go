package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns canned vectors keyed by input text.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	vec, ok := s.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no stub vector for %q", text)
	}
	return vec, nil
}

func TestFinalScoreBlend(t *testing.T) {
	assert.Equal(t, 71.0, finalScore(0.8, 0.5))
	assert.Equal(t, 0.0, finalScore(0, 0))
	assert.Equal(t, 100.0, finalScore(1, 1))
}

func TestFinalScoreClamps(t *testing.T) {
	assert.Equal(t, 0.0, finalScore(-1, -1))
	assert.Equal(t, 100.0, finalScore(2, 2))
}

func TestScoreIdenticalDocuments(t *testing.T) {
	text := "python developer with sql experience"
	scorer := NewSimilarityScorer(&stubEmbedder{
		vectors: map[string][]float32{text: {0.5, 0.5, 0.5}},
	})

	result, err := scorer.Score(context.Background(), text, text)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.TFIDFScore, 1e-9)
	assert.InDelta(t, 1.0, result.SemanticScore, 1e-9)
	assert.Equal(t, 100.0, result.Score)
	assert.Empty(t, result.Missing)
	assert.Equal(t, []float32{0.5, 0.5, 0.5}, result.ResumeEmbedding)
}

func TestScoreDisjointDocuments(t *testing.T) {
	resume := "golang kubernetes"
	jd := "photoshop branding"
	scorer := NewSimilarityScorer(&stubEmbedder{
		vectors: map[string][]float32{
			resume: {1, 0},
			jd:     {0.8, 0.6},
		},
	})

	result, err := scorer.Score(context.Background(), resume, jd)
	require.NoError(t, err)

	assert.Zero(t, result.TFIDFScore)
	assert.InDelta(t, 0.8, result.SemanticScore, 1e-9)
	assert.Equal(t, 56.0, result.Score)
	assert.Empty(t, result.Matched)
	assert.NotEmpty(t, result.Missing)
}

func TestScoreEmptyResume(t *testing.T) {
	// The embedder must never be called for a blank side.
	scorer := NewSimilarityScorer(&stubEmbedder{err: fmt.Errorf("must not be called")})

	result, err := scorer.Score(context.Background(), "", "python developer role")
	require.NoError(t, err)

	assert.Zero(t, result.TFIDFScore)
	assert.Zero(t, result.SemanticScore)
	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.Matched)
	assert.Nil(t, result.ResumeEmbedding)
}

func TestScoreMatchedAndMissingAreDisjointAndSorted(t *testing.T) {
	resume := "experienced python developer building data pipelines with sql"
	jd := "python developer with kubernetes and terraform knowledge"
	scorer := NewSimilarityScorer(&stubEmbedder{
		vectors: map[string][]float32{
			resume: {1, 0},
			jd:     {1, 0},
		},
	})

	result, err := scorer.Score(context.Background(), resume, jd)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, kw := range result.Matched {
		seen[kw] = true
	}
	for _, kw := range result.Missing {
		assert.False(t, seen[kw], "keyword %q is both matched and missing", kw)
	}
	assert.IsIncreasing(t, result.Matched)
	assert.IsIncreasing(t, result.Missing)
}

func TestScoreEmbedderFailure(t *testing.T) {
	scorer := NewSimilarityScorer(&stubEmbedder{err: fmt.Errorf("quota exhausted")})

	_, err := scorer.Score(context.Background(), "golang engineer", "golang role")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exhausted")
}

func TestRenderReport(t *testing.T) {
	report := RenderReport(71.0, []string{"python", "sql"}, []string{"docker"})

	assert.Equal(t,
		"ATS Score: 71.00%\n\nMatched Keywords: python, sql\n\nMissing Keywords: docker",
		report,
	)
}

func TestRenderReportEmptySets(t *testing.T) {
	report := RenderReport(0, nil, nil)

	assert.Equal(t,
		"ATS Score: 0.00%\n\nMatched Keywords: \n\nMissing Keywords: ",
		report,
	)
}

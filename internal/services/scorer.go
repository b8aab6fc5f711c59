package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	prose "github.com/jdkato/prose/v2"
)

// Fixed blend weights for the hybrid score. No configuration surface.
const (
	semanticWeight = 0.7
	tfidfWeight    = 0.3
)

// Embedder produces a whole-document embedding vector. Production uses the
// Gemini embedding model; tests substitute a deterministic stub.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// SimilarityScorer computes the hybrid resume / job-description match: a
// TF-IDF cosine fit fresh on the two documents, a semantic embedding cosine,
// and noun-based matched/missing keyword sets.
type SimilarityScorer interface {
	Score(ctx context.Context, resumeText, jobDescription string) (*MatchResult, error)
}

// MatchResult is the structured scoring output handed to the caller.
// Matched and Missing are disjoint by construction and sorted for determinism.
type MatchResult struct {
	Score           float64
	TFIDFScore      float64
	SemanticScore   float64
	Matched         []string
	Missing         []string
	ResumeEmbedding []float32
}

type similarityScorer struct {
	embedder Embedder
}

func NewSimilarityScorer(embedder Embedder) SimilarityScorer {
	return &similarityScorer{embedder: embedder}
}

// Score implements SimilarityScorer. A blank job description is a caller
// precondition; an empty resume degrades both similarities to 0 without error.
func (s *similarityScorer) Score(ctx context.Context, resumeText, jobDescription string) (*MatchResult, error) {
	result := &MatchResult{}

	// TF-IDF similarity over a vectorizer fit on exactly these two documents.
	fitted := NewComparisonVectorizer().Fit([]string{resumeText, jobDescription})
	result.TFIDFScore = CosineSimilarity(
		fitted.Transform(resumeText),
		fitted.Transform(jobDescription),
	)

	semantic, resumeEmbedding, err := s.semanticSimilarity(ctx, resumeText, jobDescription)
	if err != nil {
		return nil, err
	}
	result.SemanticScore = semantic
	result.ResumeEmbedding = resumeEmbedding

	result.Score = finalScore(result.SemanticScore, result.TFIDFScore)

	resumeNouns, err := extractNouns(resumeText)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze resume keywords: %w", err)
	}
	jdNouns, err := extractNouns(jobDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze job description keywords: %w", err)
	}

	for noun := range jdNouns {
		if resumeNouns[noun] {
			result.Matched = append(result.Matched, noun)
		} else {
			result.Missing = append(result.Missing, noun)
		}
	}
	sort.Strings(result.Matched)
	sort.Strings(result.Missing)

	return result, nil
}

func (s *similarityScorer) semanticSimilarity(ctx context.Context, resumeText, jobDescription string) (float64, []float32, error) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return 0, nil, nil
	}

	resumeVec, err := s.embedder.GenerateEmbedding(ctx, resumeText)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to embed resume: %w", err)
	}

	jdVec, err := s.embedder.GenerateEmbedding(ctx, jobDescription)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to embed job description: %w", err)
	}

	return cosineSimilarity32(resumeVec, jdVec), resumeVec, nil
}

// finalScore blends the two similarities onto a 0-100 scale, rounded to two
// decimals and clamped.
func finalScore(semantic, tfidf float64) float64 {
	score := (semanticWeight*semantic + tfidfWeight*tfidf) * 100
	score = math.Round(score*100) / 100

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func cosineSimilarity32(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	af := make([]float64, len(a))
	bf := make([]float64, len(b))
	for i := range a {
		af[i] = float64(a[i])
		bf[i] = float64(b[i])
	}

	return CosineSimilarity(af, bf)
}

// extractNouns collects the nouns and proper nouns of the lowercased text.
// These part-of-speech classes isolate the skill and entity terms a recruiter
// cares about.
func extractNouns(text string) (map[string]bool, error) {
	nouns := make(map[string]bool)

	if strings.TrimSpace(text) == "" {
		return nouns, nil
	}

	doc, err := prose.NewDocument(strings.ToLower(text), prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}

	for _, tok := range doc.Tokens() {
		switch tok.Tag {
		case "NN", "NNS", "NNP", "NNPS":
			word := strings.TrimSpace(tok.Text)
			if word != "" && !isPunctuation(word) {
				nouns[word] = true
			}
		}
	}

	return nouns, nil
}

// RenderReport is the plain-text rendering offered as a download: score line,
// blank line, matched keywords, blank line, missing keywords.
func RenderReport(score float64, matched, missing []string) string {
	return fmt.Sprintf(
		"ATS Score: %.2f%%\n\nMatched Keywords: %s\n\nMissing Keywords: %s",
		score,
		strings.Join(matched, ", "),
		strings.Join(missing, ", "),
	)
}

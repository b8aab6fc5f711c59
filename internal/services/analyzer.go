package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"resumeworks/resume-screener/internal/models"
	"resumeworks/resume-screener/internal/repositories"
)

// AnalyzerService runs the two screening pipelines against an uploaded resume:
// category classification with the trained model, and hybrid matching against
// a pasted job description. Each call is one synchronous pass, no queueing and
// no retries.
type AnalyzerService interface {
	ClassifyResume(ctx context.Context, docID uuid.UUID, keywordList string, threshold *int) (*models.ClassifyResponse, error)
	MatchResume(ctx context.Context, docID uuid.UUID, jobDescription string) (*models.MatchResponse, error)
	SimilarResumes(ctx context.Context, docID uuid.UUID, limit int) ([]models.SimilarResumeResponse, error)
}

type analyzerService struct {
	docRepo       repositories.DocumentRepository
	analysisRepo  repositories.AnalysisRepository
	pdfParser     PDFParserService
	normalizer    TextNormalizer
	scorer        SimilarityScorer
	embedder      Embedder
	qdrantService QdrantService
	model         *ScreeningModel
	previewLength int
}

func NewAnalyzerService(
	docRepo repositories.DocumentRepository,
	analysisRepo repositories.AnalysisRepository,
	pdfParser PDFParserService,
	normalizer TextNormalizer,
	scorer SimilarityScorer,
	embedder Embedder,
	qdrantService QdrantService,
	model *ScreeningModel,
	previewLength int,
) AnalyzerService {
	if previewLength <= 0 {
		previewLength = 1000
	}
	return &analyzerService{
		docRepo:       docRepo,
		analysisRepo:  analysisRepo,
		pdfParser:     pdfParser,
		normalizer:    normalizer,
		scorer:        scorer,
		embedder:      embedder,
		qdrantService: qdrantService,
		model:         model,
		previewLength: previewLength,
	}
}

// extractForPipeline reads the resume text for a document. An unreadable PDF
// degrades to empty text with a user-facing warning; the pipeline continues.
func (a *analyzerService) extractForPipeline(doc *models.Document) (text string, warning string, err error) {
	text, err = a.pdfParser.ExtractTextFromFile(doc.FilePath)
	if err != nil {
		var extractionErr *ExtractionError
		if errors.As(err, &extractionErr) {
			return "", fmt.Sprintf("Failed to read PDF: %v", extractionErr), nil
		}
		return "", "", err
	}
	return text, "", nil
}

func (a *analyzerService) preview(text string) string {
	if len(text) <= a.previewLength {
		return text
	}

	// Back off to a rune boundary so the cut never emits invalid UTF-8.
	cut := a.previewLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

// ClassifyResume implements AnalyzerService.
func (a *analyzerService) ClassifyResume(ctx context.Context, docID uuid.UUID, keywordList string, threshold *int) (*models.ClassifyResponse, error) {
	if a.model == nil {
		return nil, &ArtifactMissingError{Path: "screening model"}
	}

	doc, err := a.docRepo.FindByID(docID)
	if err != nil {
		return nil, fmt.Errorf("resume document not found: %w", err)
	}

	rawText, warning, err := a.extractForPipeline(doc)
	if err != nil {
		return nil, err
	}

	// An empty or unreadable resume still classifies: the zero feature
	// vector resolves through the classifier bias.
	normalized := a.normalizer.Normalize(rawText)
	features := a.model.Vectorizer.Transform(normalized)
	category := a.model.Classifier.Predict(features)

	keywords := ParseKeywords(keywordList)
	matches := CountKeywordMatches(rawText, keywords)

	shortlistThreshold := DefaultShortlistThreshold(len(keywords))
	if threshold != nil {
		shortlistThreshold = *threshold
	}
	shortlisted := matches >= shortlistThreshold

	analysis := &models.Analysis{
		ID:                uuid.New(),
		Mode:              models.ModeClassification,
		ResumeDocumentID:  doc.ID,
		PredictedCategory: &category,
		KeywordMatches:    &matches,
		KeywordTotal:      ptrOf(len(keywords)),
		Shortlisted:       &shortlisted,
	}
	if warning != "" {
		analysis.ErrorMessage = &warning
	}

	if err := a.analysisRepo.Create(analysis); err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}

	return &models.ClassifyResponse{
		ID:                   analysis.ID.String(),
		ExtractedTextPreview: a.preview(rawText),
		PredictedCategory:    category,
		KeywordMatches:       matches,
		KeywordTotal:         len(keywords),
		Threshold:            shortlistThreshold,
		Shortlisted:          shortlisted,
		Warning:              warning,
	}, nil
}

// MatchResume implements AnalyzerService. The caller guarantees a non-blank
// job description.
func (a *analyzerService) MatchResume(ctx context.Context, docID uuid.UUID, jobDescription string) (*models.MatchResponse, error) {
	doc, err := a.docRepo.FindByID(docID)
	if err != nil {
		return nil, fmt.Errorf("resume document not found: %w", err)
	}

	rawText, warning, err := a.extractForPipeline(doc)
	if err != nil {
		return nil, err
	}

	result, err := a.scorer.Score(ctx, rawText, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to score resume: %w", err)
	}

	report := RenderReport(result.Score, result.Matched, result.Missing)

	analysis := &models.Analysis{
		ID:               uuid.New(),
		Mode:             models.ModeJobMatch,
		ResumeDocumentID: doc.ID,
		SimilarityScore:  &result.Score,
		TFIDFScore:       &result.TFIDFScore,
		SemanticScore:    &result.SemanticScore,
		MatchedKeywords:  ptrOf(strings.Join(result.Matched, ", ")),
		MissingKeywords:  ptrOf(strings.Join(result.Missing, ", ")),
		ReportText:       &report,
	}
	if warning != "" {
		analysis.ErrorMessage = &warning
	}

	if err := a.analysisRepo.Create(analysis); err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}

	// Index the resume embedding for similarity lookups. Failure here must
	// not fail the match.
	if a.qdrantService != nil && len(result.ResumeEmbedding) > 0 {
		if err := a.qdrantService.UpsertResume(ctx, doc.ID.String(), doc.OriginalFileName, a.preview(rawText), result.ResumeEmbedding); err != nil {
			log.Printf("⚠️  Warning: failed to index resume embedding: %v\n", err)
		}
	}

	return &models.MatchResponse{
		ID:              analysis.ID.String(),
		SimilarityScore: result.Score,
		TFIDFScore:      result.TFIDFScore,
		SemanticScore:   result.SemanticScore,
		MatchedKeywords: result.Matched,
		MissingKeywords: result.Missing,
		ReportText:      report,
		Warning:         warning,
	}, nil
}

// SimilarResumes implements AnalyzerService: embed the document's text and ask
// the index for its nearest previously analyzed resumes.
func (a *analyzerService) SimilarResumes(ctx context.Context, docID uuid.UUID, limit int) ([]models.SimilarResumeResponse, error) {
	if a.qdrantService == nil {
		return nil, fmt.Errorf("resume index is not configured")
	}

	doc, err := a.docRepo.FindByID(docID)
	if err != nil {
		return nil, fmt.Errorf("resume document not found: %w", err)
	}

	rawText, err := a.pdfParser.ExtractTextFromFile(doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("resume has no extractable text to search with")
	}

	embedding, err := a.embedder.GenerateEmbedding(ctx, rawText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed resume: %w", err)
	}

	// Fetch one extra so dropping the document itself still fills the limit.
	hits, err := a.qdrantService.SearchSimilar(ctx, embedding, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to search similar resumes: %w", err)
	}

	var responses []models.SimilarResumeResponse
	for _, hit := range hits {
		if hit.DocumentID == doc.ID.String() {
			continue
		}
		responses = append(responses, models.SimilarResumeResponse{
			DocumentID: hit.DocumentID,
			Filename:   hit.Filename,
			Preview:    hit.Preview,
			Score:      hit.Score,
		})
		if len(responses) == limit {
			break
		}
	}

	return responses, nil
}

func ptrOf[T any](v T) *T {
	return &v
}

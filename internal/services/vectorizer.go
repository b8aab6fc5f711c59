package services

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Vectorizer fits a bag-of-n-grams TF-IDF model on a corpus. Fitting freezes
// the vocabulary; any text transformed later is mapped onto that exact feature
// space and out-of-vocabulary terms are dropped.
type Vectorizer struct {
	maxFeatures    int
	ngramMin       int
	ngramMax       int
	stripStopwords bool
}

// Terms are word sequences of at least two word characters, the same token
// pattern the training corpus was built with.
var termRegex = regexp.MustCompile(`\b\w\w+\b`)

// NewVectorizer builds the training vectorizer: unigrams + bigrams, vocabulary
// capped at maxFeatures (0 means uncapped).
func NewVectorizer(maxFeatures int) *Vectorizer {
	return &Vectorizer{
		maxFeatures: maxFeatures,
		ngramMin:    1,
		ngramMax:    2,
	}
}

// NewComparisonVectorizer builds the variant used to compare a resume with a
// single job description: unigrams only, english stopwords removed, no cap.
// It is fit fresh on exactly the two documents being compared.
func NewComparisonVectorizer() *Vectorizer {
	return &Vectorizer{
		ngramMin:       1,
		ngramMax:       1,
		stripStopwords: true,
	}
}

func (v *Vectorizer) terms(text string) []string {
	tokens := termRegex.FindAllString(strings.ToLower(text), -1)

	if v.stripStopwords {
		kept := make([]string, 0, len(tokens))
		for _, tok := range tokens {
			if !isStopword(tok) {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	var terms []string
	for n := v.ngramMin; n <= v.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}

	return terms
}

// Fit builds the vocabulary and IDF weights from the corpus. When the
// vocabulary is capped, the most frequent terms across the corpus win, ties
// broken alphabetically.
func (v *Vectorizer) Fit(corpus []string) *FittedVectorizer {
	termFreq := make(map[string]int)
	docFreq := make(map[string]int)

	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, term := range v.terms(doc) {
			termFreq[term]++
			if !seen[term] {
				seen[term] = true
				docFreq[term]++
			}
		}
	}

	vocabTerms := make([]string, 0, len(termFreq))
	for term := range termFreq {
		vocabTerms = append(vocabTerms, term)
	}

	sort.Slice(vocabTerms, func(i, j int) bool {
		if termFreq[vocabTerms[i]] != termFreq[vocabTerms[j]] {
			return termFreq[vocabTerms[i]] > termFreq[vocabTerms[j]]
		}
		return vocabTerms[i] < vocabTerms[j]
	})

	if v.maxFeatures > 0 && len(vocabTerms) > v.maxFeatures {
		vocabTerms = vocabTerms[:v.maxFeatures]
	}

	// Feature order is alphabetical, independent of corpus order.
	sort.Strings(vocabTerms)

	vocabulary := make(map[string]int, len(vocabTerms))
	idf := make([]float64, len(vocabTerms))
	totalDocs := float64(len(corpus))

	for i, term := range vocabTerms {
		vocabulary[term] = i
		idf[i] = math.Log((1+totalDocs)/(1+float64(docFreq[term]))) + 1
	}

	return &FittedVectorizer{
		Vocabulary:     vocabulary,
		IDF:            idf,
		NGramMin:       v.ngramMin,
		NGramMax:       v.ngramMax,
		StripStopwords: v.stripStopwords,
	}
}

// FittedVectorizer is an immutable fitted model. Fields are exported for gob
// serialization only; nothing mutates them after Fit.
type FittedVectorizer struct {
	Vocabulary     map[string]int
	IDF            []float64
	NGramMin       int
	NGramMax       int
	StripStopwords bool
}

// Transform maps text onto the fitted feature space: raw term counts weighted
// by IDF, L2-normalized. Unknown terms are dropped; text with no known terms
// yields the zero vector.
func (f *FittedVectorizer) Transform(text string) []float64 {
	vec := make([]float64, len(f.IDF))

	v := &Vectorizer{
		ngramMin:       f.NGramMin,
		ngramMax:       f.NGramMax,
		stripStopwords: f.StripStopwords,
	}

	for _, term := range v.terms(text) {
		if i, ok := f.Vocabulary[term]; ok {
			vec[i]++
		}
	}

	for i := range vec {
		vec[i] *= f.IDF[i]
	}

	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}

	return vec
}

// Fingerprint is a stable hash of the vocabulary, used to detect a
// vectorizer/classifier pair trained on different feature spaces.
func (f *FittedVectorizer) Fingerprint() string {
	terms := make([]string, 0, len(f.Vocabulary))
	for term := range f.Vocabulary {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	h := sha256.New()
	for _, term := range terms {
		h.Write([]byte(term))
		h.Write([]byte{'\n'})
	}

	return hex.EncodeToString(h.Sum(nil))
}

// CosineSimilarity is the dot product of two vectors over the product of their
// magnitudes. A zero vector on either side yields 0 rather than dividing by zero.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}

	return floats.Dot(a, b) / (normA * normB)
}

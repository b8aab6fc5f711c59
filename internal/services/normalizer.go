package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/bbalet/stopwords"
	prose "github.com/jdkato/prose/v2"
)

// TextNormalizer turns raw extracted text into a space-joined sequence of
// lowercase lemmas. Training and inference must share one instance so both
// sides of the pipeline normalize identically.
type TextNormalizer interface {
	Normalize(text string) string
}

type textNormalizer struct {
	lemmatizer *golem.Lemmatizer
}

var (
	lineBreaksRegex = regexp.MustCompile(`[\r\n]+`)
	noiseRegex      = regexp.MustCompile(`[^A-Za-z0-9\s.,-]`)
)

func NewTextNormalizer() (TextNormalizer, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load english lemma dictionary: %w", err)
	}

	return &textNormalizer{lemmatizer: lemmatizer}, nil
}

// Normalize implements TextNormalizer.
//
// The pipeline is fixed: collapse line breaks, strip noise characters,
// lowercase, tokenize, drop stopword/punctuation/whitespace tokens, lemmatize,
// drop lemmas that are empty, stopwords or single characters, and join the
// survivors with single spaces. It is a pure function of its input.
func (n *textNormalizer) Normalize(text string) string {
	text = lineBreaksRegex.ReplaceAllString(text, " ")
	text = noiseRegex.ReplaceAllString(text, " ")
	text = strings.ToLower(text)

	if strings.TrimSpace(text) == "" {
		return ""
	}

	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
		prose.WithTagging(false),
	)
	if err != nil {
		return ""
	}

	var lemmas []string
	for _, tok := range doc.Tokens() {
		word := strings.TrimSpace(tok.Text)
		if word == "" || isPunctuation(word) || isStopword(word) {
			continue
		}

		// A lemma can itself be an inflected form in the dictionary; chase
		// it to a fixed point so reapplying the pipeline changes nothing.
		lemma := strings.TrimSpace(n.lemmatizer.Lemma(word))
		for i := 0; i < 3; i++ {
			next := strings.TrimSpace(n.lemmatizer.Lemma(lemma))
			if next == lemma {
				break
			}
			lemma = next
		}
		if len(lemma) <= 1 || isStopword(lemma) {
			continue
		}

		lemmas = append(lemmas, lemma)
	}

	return strings.Join(lemmas, " ")
}

// isStopword reports whether a single token is an english stopword.
// CleanString returns an empty string when the input consists of stopwords only.
func isStopword(word string) bool {
	return strings.TrimSpace(stopwords.CleanString(word, "en", false)) == ""
}

func isPunctuation(word string) bool {
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

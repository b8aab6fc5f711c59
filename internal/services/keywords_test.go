package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKeywords(t *testing.T) {
	assert.Equal(t,
		[]string{"python", "machine learning", "sql"},
		ParseKeywords(" Python, Machine Learning ,, SQL "),
	)
	assert.Nil(t, ParseKeywords(""))
	assert.Nil(t, ParseKeywords(" , ,, "))
}

func TestCountKeywordMatches(t *testing.T) {
	keywords := []string{"python", "machine learning", "sql"}

	count := CountKeywordMatches("Senior Python developer with SQL skills", keywords)
	assert.Equal(t, 2, count)

	assert.Equal(t, 0, CountKeywordMatches("", keywords))
	assert.Equal(t, 0, CountKeywordMatches("anything", nil))
}

func TestCountKeywordMatchesPhrases(t *testing.T) {
	count := CountKeywordMatches(
		"Built Machine Learning pipelines in production",
		[]string{"machine learning", "deep learning"},
	)
	assert.Equal(t, 1, count)
}

func TestDefaultShortlistThreshold(t *testing.T) {
	assert.Equal(t, 1, DefaultShortlistThreshold(0))
	assert.Equal(t, 1, DefaultShortlistThreshold(1))
	assert.Equal(t, 1, DefaultShortlistThreshold(3))
	assert.Equal(t, 2, DefaultShortlistThreshold(4))
	assert.Equal(t, 2, DefaultShortlistThreshold(5))
	assert.Equal(t, 5, DefaultShortlistThreshold(10))
}

package services

import "strings"

// ParseKeywords splits a comma-separated shortlisting keyword list: trimmed,
// lowercased, empty entries dropped.
func ParseKeywords(input string) []string {
	var keywords []string
	for _, part := range strings.Split(input, ",") {
		keyword := strings.ToLower(strings.TrimSpace(part))
		if keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}

// CountKeywordMatches counts how many keywords occur in the resume text.
// The match is a plain substring test on the lowercased raw text, so
// multi-word keywords like "machine learning" match as phrases.
func CountKeywordMatches(resumeText string, keywords []string) int {
	lowered := strings.ToLower(resumeText)

	count := 0
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			count++
		}
	}
	return count
}

// DefaultShortlistThreshold is the match count a resume must reach when the
// caller does not supply a threshold: half the keyword list, at least one.
func DefaultShortlistThreshold(keywordCount int) int {
	threshold := keywordCount / 2
	if threshold < 1 {
		threshold = 1
	}
	return threshold
}

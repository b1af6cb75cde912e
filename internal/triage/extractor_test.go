package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	text := "server error again error timeout server error"
	got := ExtractKeywords(text, 3)
	assert.Equal(t, []string{"error", "server", "again"}, got)
}

func TestExtractKeywordsLimits(t *testing.T) {
	text := "alpha beta gamma"
	assert.Len(t, ExtractKeywords(text, 2), 2)
	assert.Len(t, ExtractKeywords(text, 10), 3)
	assert.Nil(t, ExtractKeywords(text, 0))
	assert.Empty(t, ExtractKeywords("", 5))
}

func TestExtractKeywordsDropsStopWordsAndShortTokens(t *testing.T) {
	got := ExtractKeywords("the a I x outage outage", 5)
	assert.Equal(t, []string{"outage"}, got)
}

func TestExtractKeywordsAllPresentInTokenStream(t *testing.T) {
	text := "billing portal down billing portal slow today"
	tokens := strings.Fields(Normalize(text))
	for _, kw := range ExtractKeywords(text, 4) {
		assert.Contains(t, tokens, kw)
	}
}

func TestSummarizeShortInputUnchanged(t *testing.T) {
	assert.Equal(t, "短い文章", Summarize("短い文章", 100))
	assert.Equal(t, "", Summarize("", 50))
}

func TestSummarizeTruncatesLongText(t *testing.T) {
	long := strings.Repeat("あ", 150)
	got := Summarize(long, 100)
	assert.Equal(t, strings.Repeat("あ", 100)+"...", got)
}

func TestSummarizeRuneSafety(t *testing.T) {
	long := strings.Repeat("問", 101)
	got := Summarize(long, 100)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, 103, len([]rune(got)))
}

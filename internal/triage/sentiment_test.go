package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentimentEmptyAndNeutral(t *testing.T) {
	assert.Equal(t, 0.0, Sentiment(""))
	assert.Equal(t, 0.0, Sentiment("会議は明日です"))
}

func TestSentimentRange(t *testing.T) {
	inputs := []string{
		"great good thanks helpful excellent love",
		"bad terrible error issue problem slow",
		"最悪です。エラーばかりで遅い。",
		"ありがとう、とても便利で使いやすい",
		"good bad good bad",
	}
	for _, input := range inputs {
		score := Sentiment(input)
		assert.GreaterOrEqual(t, score, -1.0, "input: %q", input)
		assert.LessOrEqual(t, score, 1.0, "input: %q", input)
	}
}

func TestSentimentPolarity(t *testing.T) {
	assert.Positive(t, Sentiment("ありがとう、とても便利です"))
	assert.Negative(t, Sentiment("最悪です。エラーばかりで遅い。"))
}

func TestSentimentNegativeWeight(t *testing.T) {
	// One positive and one negative hit: (1 - 1.5) / (1.5 * 2) = -1/6.
	// The 1.5 negative weight drags a balanced message below zero.
	score := Sentiment("good bad")
	assert.InDelta(t, -1.0/6.0, score, 1e-9)
}

func TestSentimentComplaintScenario(t *testing.T) {
	// 最悪 + エラー + 遅い are all negative lexicon hits.
	assert.Less(t, Sentiment("最悪です。エラーばかりで遅い。"), -0.3)
}

package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text untouched", "hello world", "hello world"},
		{"mentions removed", "@support hello", "hello"},
		{"hashtags removed", "great app #feedback", "great app"},
		{"urls removed", "see http://example.com/a?b=c now", "see  now"},
		{"punctuation removed", "wow!! really?", "wow really"},
		{"japanese mention and hashtag", "@サポート 製品が動かない #不具合", "製品が動かない"},
		{"mixed", "@user check https://t.co/xyz broken!!", "check  broken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"@a #b http://c.d e!",
		"製品の使い方がわかりません。",
		"   spaced   out   ",
		"no-op text",
	}
	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input: %q", input)
	}
}

func TestNormalizeLeavesNoMarkers(t *testing.T) {
	out := Normalize("@mention #tag http://url.example !?,.")
	assert.NotContains(t, out, "@")
	assert.NotContains(t, out, "#")
	assert.NotContains(t, out, "http")
	assert.NotContains(t, out, "!")
}

package triage

import (
	"regexp"
	"strings"
)

var (
	mentionPattern = regexp.MustCompile(`@[\p{L}\p{N}_]+`)
	hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	urlPattern     = regexp.MustCompile(`http\S+`)
	nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// Normalize strips mention tokens, hashtag tokens, URL-like substrings and
// remaining non-word characters from raw inbound text, in that order, then
// trims surrounding whitespace. It is pure and total; empty input yields
// empty output.
func Normalize(text string) string {
	text = mentionPattern.ReplaceAllString(text, "")
	text = hashtagPattern.ReplaceAllString(text, "")
	text = urlPattern.ReplaceAllString(text, "")
	text = nonWordPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

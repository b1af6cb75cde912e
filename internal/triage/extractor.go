package triage

import (
	"strings"
	"unicode/utf8"
)

// stopWords is a fixed multilingual (Japanese + English) stop-word set for
// keyword ranking.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// English
		"a", "an", "the", "and", "or", "but", "if", "then", "so", "of",
		"to", "in", "on", "at", "for", "with", "by", "from", "about",
		"is", "am", "are", "was", "were", "be", "been", "being",
		"i", "you", "he", "she", "it", "we", "they", "me", "my", "your",
		"this", "that", "these", "those", "there", "here",
		"do", "does", "did", "have", "has", "had", "will", "would",
		"can", "could", "should", "not", "no", "yes", "as", "just",
		// Japanese particles and fillers
		"これ", "それ", "あれ", "この", "その", "あの", "ここ", "そこ",
		"こと", "もの", "ため", "よう", "さん", "です", "ます", "でした",
		"ました", "ください", "して", "いる", "ある", "なる", "する",
		"から", "まで", "など", "また", "でも", "しかし", "ので",
	} {
		stopWords[w] = struct{}{}
	}
}

// ExtractKeywords returns the top maxK tokens of the normalized text by
// descending frequency, ties broken by first occurrence. Stop-words and
// single-rune tokens are dropped.
func ExtractKeywords(text string, maxK int) []string {
	if maxK <= 0 {
		return nil
	}

	tokens := strings.Fields(Normalize(text))

	type entry struct {
		token string
		count int
		first int
	}
	seen := make(map[string]*entry)
	order := make([]*entry, 0, len(tokens))

	for i, token := range tokens {
		if utf8.RuneCountInString(token) <= 1 {
			continue
		}
		if _, stop := stopWords[strings.ToLower(token)]; stop {
			continue
		}
		if e, ok := seen[token]; ok {
			e.count++
			continue
		}
		e := &entry{token: token, count: 1, first: i}
		seen[token] = e
		order = append(order, e)
	}

	// Stable selection: higher count wins, earlier first occurrence breaks
	// ties. The candidate list is small, insertion sort keeps the ordering
	// deterministic.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0; j-- {
			prev, cur := order[j-1], order[j]
			if cur.count > prev.count || (cur.count == prev.count && cur.first < prev.first) {
				order[j-1], order[j] = cur, prev
				continue
			}
			break
		}
	}

	if maxK > len(order) {
		maxK = len(order)
	}
	result := make([]string, 0, maxK)
	for _, e := range order[:maxK] {
		result = append(result, e.token)
	}
	return result
}

// sentence-terminal punctuation recognized by Summarize.
func isSentenceTerminal(r rune) bool {
	switch r {
	case '。', '.', '!', '?', '！', '？':
		return true
	}
	return false
}

// Summarize produces a greedy two-sentence extractive summary of at most
// maxLen runes (plus an ellipsis marker where truncated). Short inputs are
// returned unchanged after normalization. The truncation policy is exact
// and must stay reproducible.
func Summarize(text string, maxLen int) string {
	normalized := Normalize(text)
	if utf8.RuneCountInString(normalized) <= maxLen {
		return normalized
	}

	var sentences []string
	for _, fragment := range strings.FieldsFunc(normalized, isSentenceTerminal) {
		if trimmed := strings.TrimSpace(fragment); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}

	if len(sentences) == 0 {
		return truncateRunes(normalized, maxLen) + "..."
	}
	if len(sentences) == 1 {
		first := sentences[0]
		if utf8.RuneCountInString(first) > maxLen {
			return truncateRunes(first, maxLen) + "..."
		}
		return first
	}

	summary := sentences[0]
	if remaining := maxLen - utf8.RuneCountInString(summary); remaining > 0 {
		second := sentences[1]
		if utf8.RuneCountInString(second) <= remaining {
			summary += "。" + second
		} else {
			summary += "。" + truncateRunes(second, remaining-1) + "..."
		}
	}
	return summary
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

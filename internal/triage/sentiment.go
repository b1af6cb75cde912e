package triage

import "strings"

// Lexicons for the polarity estimate. Language-mixed on purpose: inbound
// messages arrive in Japanese and English.
var positiveWords = []string{
	"ありがとう", "感謝", "素晴らしい", "良い", "好き", "嬉しい", "助かる",
	"便利", "使いやすい", "快適", "期待", "楽しみ", "great", "good", "thanks",
	"helpful", "excellent", "love", "appreciate",
}

var negativeWords = []string{
	"ダメ", "悪い", "問題", "エラー", "不具合", "遅い", "使いにくい", "困る",
	"最悪", "ひどい", "残念", "失望", "不満", "怒り", "待てない", "返金",
	"bad", "terrible", "error", "issue", "problem", "slow", "difficult",
	"disappointed", "frustrating", "useless",
}

// Sentiment estimates text polarity in [-1.0, 1.0]. Lexicon entries are
// counted by substring occurrence in the lower-cased input. Negative hits
// carry a 1.5 weight: missing a complaint costs more than a false alarm,
// so the scorer is deliberately more sensitive to negative signal. The
// multiplier is a policy constant; changing it changes classification.
func Sentiment(text string) float64 {
	lowered := strings.ToLower(text)

	posCount := countLexiconHits(lowered, positiveWords)
	negCount := countLexiconHits(lowered, negativeWords)

	total := posCount + negCount
	if total == 0 {
		return 0.0
	}

	score := (float64(posCount) - float64(negCount)*1.5) / (float64(total) * 1.5)
	return clamp(score, -1.0, 1.0)
}

func countLexiconHits(lowered string, lexicon []string) int {
	count := 0
	for _, word := range lexicon {
		count += strings.Count(lowered, strings.ToLower(word))
	}
	return count
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

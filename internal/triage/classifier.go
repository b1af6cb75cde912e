package triage

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
)

// scoringOrder fixes the category iteration for scoring and tie-breaking.
var scoringOrder = []domain.Category{
	domain.CategoryProduct,
	domain.CategoryTechnical,
	domain.CategoryBilling,
	domain.CategoryComplaint,
	domain.CategoryFeature,
}

// defaultKeywords is the built-in keyword table used when the external
// configuration cannot be read. Classification must never fail, so this
// table is always available.
var defaultKeywords = map[domain.Category][]string{
	domain.CategoryProduct:   {"製品", "商品", "使い方", "機能", "操作", "マニュアル", "説明書"},
	domain.CategoryTechnical: {"エラー", "不具合", "バグ", "動かない", "表示されない", "クラッシュ", "落ちる", "遅い"},
	domain.CategoryBilling:   {"請求", "支払い", "料金", "価格", "返金", "課金", "購入", "注文", "キャンセル"},
	domain.CategoryComplaint: {"クレーム", "不満", "改善", "悪い", "最悪", "ひどい", "残念", "失望"},
	domain.CategoryFeature:   {"要望", "追加", "機能リクエスト", "欲しい", "実装", "希望", "今後"},
}

const (
	complaintSentimentThreshold = -0.3
	complaintScoreBonus         = 2
)

// ClassifierConfig carries the keyword source for the classifier.
type ClassifierConfig struct {
	// KeywordsPath points at a JSON object mapping category name to keyword
	// list. Empty or unreadable paths fall back to the built-in table.
	KeywordsPath string
}

// Classifier assigns one taxonomy label to a message by keyword scoring,
// boosted by sentiment for complaint detection.
type Classifier struct {
	cfg    ClassifierConfig
	logger *zap.Logger

	mu       sync.RWMutex
	keywords map[domain.Category][]string
}

// NewClassifier builds a classifier and performs the initial keyword load.
func NewClassifier(cfg ClassifierConfig, logger *zap.Logger) *Classifier {
	c := &Classifier{cfg: cfg, logger: logger, keywords: defaultKeywords}
	c.Reload()
	return c
}

// Reload re-reads the keyword table from the configured path. On any
// failure the previous table stays in place (the built-in default at
// minimum), so Classify keeps working.
func (c *Classifier) Reload() {
	if c.cfg.KeywordsPath == "" {
		return
	}

	raw, err := os.ReadFile(c.cfg.KeywordsPath)
	if err != nil {
		c.logger.Warn("keyword config unreadable, keeping current table",
			zap.String("path", c.cfg.KeywordsPath), zap.Error(err))
		return
	}

	var parsed map[string][]string
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.logger.Warn("keyword config malformed, keeping current table",
			zap.String("path", c.cfg.KeywordsPath), zap.Error(err))
		return
	}

	loaded := make(map[domain.Category][]string, len(scoringOrder))
	for _, category := range scoringOrder {
		if words, ok := parsed[string(category)]; ok && len(words) > 0 {
			loaded[category] = words
		} else {
			loaded[category] = defaultKeywords[category]
		}
	}

	c.mu.Lock()
	c.keywords = loaded
	c.mu.Unlock()
	c.logger.Info("classifier keywords loaded", zap.String("path", c.cfg.KeywordsPath))
}

// Classify returns the taxonomy label for raw inbound text. It is total:
// every input maps to a taxonomy member, defaulting to general when no
// category scores above zero.
func (c *Classifier) Classify(text string) domain.Category {
	normalized := strings.ToLower(Normalize(text))

	c.mu.RLock()
	keywords := c.keywords
	c.mu.RUnlock()

	scores := make(map[domain.Category]int, len(scoringOrder))
	for _, category := range scoringOrder {
		score := 0
		for _, keyword := range keywords[category] {
			if strings.Contains(normalized, strings.ToLower(keyword)) {
				score++
			}
		}
		scores[category] = score
	}

	// Strongly negative messages are treated as complaints even when the
	// complaint keywords themselves are absent.
	if Sentiment(text) < complaintSentimentThreshold {
		scores[domain.CategoryComplaint] += complaintScoreBonus
	}

	best := domain.CategoryGeneral
	bestScore := 0
	for _, category := range scoringOrder {
		if scores[category] > bestScore {
			best = category
			bestScore = scores[category]
		}
	}
	return best
}

package match

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"recipe-matcher/internal/core/corpus"
	"recipe-matcher/internal/core/label"
	appconfig "recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// LabelMatcher 單一標籤的比對介面
type LabelMatcher interface {
	Match(ctx context.Context, labelKey string) ([]Candidate, error)
}

// SemanticMatcher 語意比對器：對每個食材標籤在整個語料上做相似度排序
type SemanticMatcher struct {
	cfg    appconfig.MatcherConfig
	index  *corpus.Index
	scorer SimilarityScorer
}

// NewSemanticMatcher 創建語意比對器
func NewSemanticMatcher(cfg appconfig.MatcherConfig, index *corpus.Index, scorer SimilarityScorer) *SemanticMatcher {
	return &SemanticMatcher{
		cfg:    cfg,
		index:  index,
		scorer: scorer,
	}
}

// BuildQuery 產生查詢語句，帶入同義詞擴充
func BuildQuery(labelKey string) string {
	syn := strings.Join(Synonyms(labelKey), ", ")
	return fmt.Sprintf("Find recipes about %s. Related terms: %s.", labelKey, syn)
}

// Synonyms 依標籤查同義詞（不分大小寫），沒有就回傳空集
func Synonyms(labelKey string) []string {
	return label.Synonyms[strings.ToLower(labelKey)]
}

// Match 對單一標籤回傳門檻以上的前 N 筆候選。
// 語料為空回傳空結果；分數數量與語料不一致視為此標籤的硬錯誤，
// 由呼叫端記錄並吞掉，不得影響其他標籤。
func (m *SemanticMatcher) Match(ctx context.Context, labelKey string) ([]Candidate, error) {
	records := m.index.Load()
	if len(records) == 0 {
		return nil, nil
	}

	query := BuildQuery(labelKey)
	sentences := make([]string, len(records))
	for i, r := range records {
		sentences[i] = corpus.ToQueryText(r)
	}

	scores, err := m.scorer.Score(ctx, query, sentences)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(records) {
		return nil, common.NewShapeError(fmt.Sprintf(
			"similarity score count %d does not match corpus size %d", len(scores), len(records)))
	}

	// 依相似度由高至低排序語料索引
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	// 甜點類標籤套用較寬鬆的門檻
	minSim := m.cfg.MinSimilarity
	if label.IsDessert(labelKey) {
		minSim = m.cfg.DessertMinSimilarity
	}

	picked := make([]Candidate, 0, m.cfg.TopPerLabel)
	for _, idx := range order {
		if scores[idx] < minSim {
			break
		}
		picked = append(picked, fromRecord(records[idx], labelKey, SourceSemantic))
		if len(picked) == m.cfg.TopPerLabel {
			break
		}
	}

	common.LogDebug("語意比對結果",
		zap.String("標籤", labelKey),
		zap.Float64("門檻", minSim),
		zap.Int("候選數", len(picked)),
	)
	return picked, nil
}

// fromRecord 將語料紀錄映射為候選
func fromRecord(r corpus.Record, matchedLabel, source string) Candidate {
	return Candidate{
		ID:           string(r.ID),
		RecipeName:   r.RecipeName,
		Category:     r.Category,
		TimeDisplay:  r.TimeDisplay,
		Calories:     r.Calories,
		ProteinG:     r.ProteinG,
		CarbsG:       r.CarbsG,
		FatG:         r.FatG,
		ImageURL:     r.ImageRef(),
		MatchedLabel: matchedLabel,
		Source:       source,
	}
}

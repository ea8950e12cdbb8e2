package match

import (
	"context"
	"net/http"
	"sync"

	"recipe-matcher/internal/core/label"
	"recipe-matcher/internal/core/vision"
	appconfig "recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// Pipeline 標籤到食譜的比對管線：
// 偵測 → 正規化 → 白名單過濾 → 逐標籤語意比對 → 合併 → 備援搜尋 → 排序
type Pipeline struct {
	cfg      *appconfig.Config
	detector vision.Detector
	matcher  LabelMatcher
	search   SearchClient
}

// NewPipeline 創建比對管線
func NewPipeline(cfg *appconfig.Config, detector vision.Detector, matcher LabelMatcher, search SearchClient) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		detector: detector,
		matcher:  matcher,
		search:   search,
	}
}

// MatchImage 對一張圖片執行完整管線。
// 單一標籤或單一備援查詢的失敗只記錄不往外拋；
// 白名單過濾後為空回傳 ErrNoIngredients，由處理器轉為 422。
func (p *Pipeline) MatchImage(ctx context.Context, imageBytes []byte) (*Result, error) {
	// 相似度服務密鑰屬於啟動配置，缺少視為伺服器錯誤
	if p.cfg.Matcher.Token == "" {
		return nil, common.NewError(common.ErrCodeInternalError, "similarity token not configured", http.StatusInternalServerError, nil)
	}

	detected, err := p.detector.DetectLabels(ctx, imageBytes)
	if err != nil {
		return nil, err
	}

	normalized := label.Normalize(detected, label.Options{
		MinConfidence:  p.cfg.Normalizer.MinConfidence,
		MaxLabels:      p.cfg.Normalizer.MaxLabels,
		IncludeParents: p.cfg.Normalizer.IncludeParents,
	})
	accepted := label.FilterIngredients(normalized, p.cfg.Filter.KeepTopN)

	common.LogInfo("標籤過濾完成",
		zap.Int("正規化後", len(normalized)),
		zap.Int("食材標籤", len(accepted)),
	)

	if len(accepted) == 0 {
		return nil, common.ErrNoIngredients
	}

	merged, seen := p.matchAll(ctx, accepted)

	// 只在語意比對全空時才啟動備援搜尋
	if len(merged) == 0 {
		merged = p.fallback(ctx, accepted, seen)
	}

	ranked := Rank(merged, p.cfg.Ranker.CalorieTarget, p.cfg.Ranker.ResultSize)
	return &Result{
		Labels:     accepted,
		Candidates: ranked,
	}, nil
}

// matchAll 對每個標籤並行比對，合併時維持標籤順序並依 id 去重（先見先贏）。
// 單一標籤的錯誤在此吞掉，不影響其他標籤。
func (p *Pipeline) matchAll(ctx context.Context, accepted []label.NormalizedLabel) ([]Candidate, map[string]struct{}) {
	perLabel := make([][]Candidate, len(accepted))

	sem := make(chan struct{}, p.cfg.Matcher.Workers)
	var wg sync.WaitGroup
	for i, l := range accepted {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			candidates, err := p.matcher.Match(ctx, key)
			if err != nil {
				common.LogError("語意比對失敗",
					zap.String("標籤", key),
					zap.Bool("形狀錯誤", common.IsShapeError(err)),
					zap.Error(err),
				)
				return
			}
			perLabel[i] = candidates
		}(i, l.Key)
	}
	wg.Wait()

	merged := make([]Candidate, 0)
	seen := make(map[string]struct{})
	for _, candidates := range perLabel {
		for _, c := range candidates {
			if c.ID == "" {
				continue
			}
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			merged = append(merged, c)
		}
	}
	return merged, seen
}

// fallback 以信心度最高的前幾個標籤逐一查詢關鍵字搜尋端點。
// 個別查詢失敗直接略過，結果只會變少不會失敗。
func (p *Pipeline) fallback(ctx context.Context, accepted []label.NormalizedLabel, seen map[string]struct{}) []Candidate {
	top := p.cfg.Fallback.TopLabels
	if top > len(accepted) {
		top = len(accepted)
	}

	merged := make([]Candidate, 0)
	for _, l := range accepted[:top] {
		candidates, err := p.search.Search(ctx, l.Key)
		if err != nil {
			common.LogError("備援搜尋失敗",
				zap.String("詞彙", l.Key),
				zap.Error(err),
			)
			continue
		}
		for _, c := range candidates {
			if c.ID == "" {
				continue
			}
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			merged = append(merged, c)
		}
	}

	common.LogInfo("備援搜尋完成",
		zap.Int("查詢詞數", top),
		zap.Int("候選數", len(merged)),
	)
	return merged
}

package match

import (
	"recipe-matcher/internal/core/label"
)

// 候選來源
const (
	SourceSemantic = "semantic"
	SourceFallback = "fallback"
)

// Candidate 候選食譜：語料紀錄的投影加上產生此比對的食材標籤
type Candidate struct {
	ID           string  `json:"id"`
	RecipeName   string  `json:"recipe_name"`
	Category     string  `json:"category"`
	TimeDisplay  string  `json:"time_display"`
	Calories     float64 `json:"calories"`
	ProteinG     float64 `json:"protein_g"`
	CarbsG       float64 `json:"carbs_g"`
	FatG         float64 `json:"fat_g"`
	ImageURL     string  `json:"image_url"`
	MatchedLabel string  `json:"matched_label"`
	Source       string  `json:"source"`
}

// Result 管線的最終輸出：採用的食材標籤與排序後的候選清單
type Result struct {
	Labels     []label.NormalizedLabel `json:"labels"`
	Candidates []Candidate             `json:"candidates"`
}

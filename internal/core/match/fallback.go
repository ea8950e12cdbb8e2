package match

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"recipe-matcher/internal/core/corpus"
	appconfig "recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// SearchClient 關鍵字搜尋介面：語意比對全空時的備援來源
type SearchClient interface {
	Search(ctx context.Context, term string) ([]Candidate, error)
}

// RecipeSearchClient 食譜關鍵字搜尋客戶端
type RecipeSearchClient struct {
	client *resty.Client
	limit  int
}

// searchResponse 搜尋端點的回應結構
type searchResponse struct {
	Recipes []searchRecipe `json:"recipes"`
}

// searchRecipe 搜尋結果單筆：營養欄位可能缺漏，缺漏時解碼為零值
type searchRecipe struct {
	ID            corpus.FlexID `json:"id"`
	UniqueID      corpus.FlexID `json:"unique_id"`
	RecipeName    string        `json:"recipe_name"`
	Category      string        `json:"category"`
	TimeDisplay   string        `json:"time_display"`
	Calories      float64       `json:"calories"`
	ProteinG      float64       `json:"protein_g"`
	CarbsG        float64       `json:"carbs_g"`
	FatG          float64       `json:"fat_g"`
	ImageURL      string        `json:"image_url"`
	ImageFilename string        `json:"image_filename"`
}

// NewRecipeSearchClient 創建搜尋客戶端
func NewRecipeSearchClient(cfg appconfig.FallbackConfig) *RecipeSearchClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &RecipeSearchClient{
		client: client,
		limit:  cfg.Limit,
	}
}

// Search 以單一詞彙查詢搜尋端點並映射為候選
func (c *RecipeSearchClient) Search(ctx context.Context, term string) ([]Candidate, error) {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("q", term).
		SetQueryParam("limit", strconv.Itoa(c.limit)).
		Get("/api/recipes/search")

	common.LogExternalCall("recipe-search", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to search service: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("search service returned %d", resp.StatusCode())
	}

	var result searchResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	candidates := make([]Candidate, 0, len(result.Recipes))
	for _, r := range result.Recipes {
		id := string(r.ID)
		if id == "" {
			id = string(r.UniqueID)
		}
		if id == "" {
			continue
		}
		imageURL := r.ImageURL
		if imageURL == "" && r.ImageFilename != "" {
			imageURL = "/food_icons/" + r.ImageFilename + ".png"
		}
		candidates = append(candidates, Candidate{
			ID:           id,
			RecipeName:   r.RecipeName,
			Category:     r.Category,
			TimeDisplay:  r.TimeDisplay,
			Calories:     r.Calories,
			ProteinG:     r.ProteinG,
			CarbsG:       r.CarbsG,
			FatG:         r.FatG,
			ImageURL:     imageURL,
			MatchedLabel: term,
			Source:       SourceFallback,
		})
	}
	return candidates, nil
}

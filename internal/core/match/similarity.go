package match

import (
	"context"
	"fmt"
	"net/http"
	"time"

	appconfig "recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// SimilarityScorer 相似度評分介面：回傳的分數數量必須與 sentences 一致
type SimilarityScorer interface {
	Score(ctx context.Context, query string, sentences []string) ([]float64, error)
}

// HFSimilarityClient 句子相似度服務客戶端
type HFSimilarityClient struct {
	client *resty.Client
	url    string
}

// similarityRequest 相似度請求結構
type similarityRequest struct {
	Inputs  similarityInputs  `json:"inputs"`
	Options similarityOptions `json:"options"`
}

type similarityInputs struct {
	SourceSentence string   `json:"source_sentence"`
	Sentences      []string `json:"sentences"`
}

type similarityOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// NewHFSimilarityClient 創建相似度服務客戶端
func NewHFSimilarityClient(cfg appconfig.MatcherConfig) *HFSimilarityClient {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Token)).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("X-Wait-For-Model", "true")

	return &HFSimilarityClient{
		client: client,
		url:    cfg.SimilarityURL,
	}
}

// Score 對一個查詢語句與一組句子評分，回傳與句子同序同量的相似度分數
func (c *HFSimilarityClient) Score(ctx context.Context, query string, sentences []string) ([]float64, error) {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(similarityRequest{
			Inputs:  similarityInputs{SourceSentence: query, Sentences: sentences},
			Options: similarityOptions{WaitForModel: true},
		}).
		Post(c.url)

	common.LogExternalCall("similarity", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to similarity service: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("similarity service returned %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	var scores []float64
	if err := common.ParseJSONBytes(resp.Body(), &scores); err != nil {
		return nil, fmt.Errorf("failed to parse similarity response: %w (response: %s)", err, truncate(resp.String(), 200))
	}

	return scores, nil
}

// truncate 截斷過長的回應內容，避免日誌與錯誤訊息爆量
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

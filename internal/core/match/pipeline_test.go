package match

import (
	"context"
	"errors"
	"sync"
	"testing"

	"recipe-matcher/internal/core/label"
	appconfig "recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDetector 固定輸出的標籤偵測器
type stubDetector struct {
	labels []label.DetectedLabel
	err    error
	calls  int
}

func (d *stubDetector) DetectLabels(ctx context.Context, imageBytes []byte) ([]label.DetectedLabel, error) {
	d.calls++
	return d.labels, d.err
}

// stubMatcher 依標籤查表的比對器
type stubMatcher struct {
	mu      sync.Mutex
	results map[string][]Candidate
	errs    map[string]error
	called  []string
}

func (m *stubMatcher) Match(ctx context.Context, labelKey string) ([]Candidate, error) {
	m.mu.Lock()
	m.called = append(m.called, labelKey)
	m.mu.Unlock()
	if err, ok := m.errs[labelKey]; ok {
		return nil, err
	}
	return m.results[labelKey], nil
}

// stubSearch 依詞彙查表的備援搜尋
type stubSearch struct {
	results map[string][]Candidate
	errs    map[string]error
	called  []string
}

func (s *stubSearch) Search(ctx context.Context, term string) ([]Candidate, error) {
	s.called = append(s.called, term)
	if err, ok := s.errs[term]; ok {
		return nil, err
	}
	return s.results[term], nil
}

func testPipelineConfig() *appconfig.Config {
	return &appconfig.Config{
		Normalizer: appconfig.NormalizerConfig{MinConfidence: 55, MaxLabels: 40},
		Filter:     appconfig.FilterConfig{KeepTopN: 15},
		Matcher: appconfig.MatcherConfig{
			Token:       "test-token",
			TopPerLabel: 3,
			Workers:     2,
		},
		Fallback: appconfig.FallbackConfig{TopLabels: 2},
		Ranker:   appconfig.RankerConfig{CalorieTarget: 500, ResultSize: 3},
	}
}

func foodLabels() []label.DetectedLabel {
	return []label.DetectedLabel{
		{Name: "Chicken", Confidence: 98},
		{Name: "Rice", Confidence: 90},
		{Name: "Plate", Confidence: 99},
	}
}

func TestPipelineSemanticSuccess(t *testing.T) {
	detector := &stubDetector{labels: foodLabels()}
	matcher := &stubMatcher{results: map[string][]Candidate{
		"chicken": {
			{ID: "r1", RecipeName: "Grilled Chicken", Calories: 450, ProteinG: 38, Source: SourceSemantic},
			{ID: "r2", RecipeName: "Chicken Curry", Calories: 520, ProteinG: 30, Source: SourceSemantic},
		},
		"rice": {
			{ID: "r4", RecipeName: "Fried Rice", Calories: 600, ProteinG: 14, Source: SourceSemantic},
		},
	}}
	search := &stubSearch{}

	p := NewPipeline(testPipelineConfig(), detector, matcher, search)
	got, err := p.MatchImage(context.Background(), []byte("img"))
	require.NoError(t, err)

	// 禁用詞被過濾，只留下食材標籤
	require.Len(t, got.Labels, 2)
	assert.Equal(t, "chicken", got.Labels[0].Key)
	assert.Equal(t, "rice", got.Labels[1].Key)

	// 蛋白質密度排序
	require.Len(t, got.Candidates, 3)
	assert.Equal(t, "r1", got.Candidates[0].ID)
	assert.Equal(t, "r2", got.Candidates[1].ID)
	assert.Equal(t, "r4", got.Candidates[2].ID)

	// 語意結果非空時不得呼叫備援搜尋
	assert.Empty(t, search.called)
}

func TestPipelineNoIngredients(t *testing.T) {
	detector := &stubDetector{labels: []label.DetectedLabel{
		{Name: "Plate", Confidence: 99},
		{Name: "Table", Confidence: 95},
	}}
	matcher := &stubMatcher{}
	search := &stubSearch{}

	p := NewPipeline(testPipelineConfig(), detector, matcher, search)
	got, err := p.MatchImage(context.Background(), []byte("img"))
	require.ErrorIs(t, err, common.ErrNoIngredients)
	assert.Nil(t, got)

	// 短路在比對之前
	assert.Empty(t, matcher.called)
	assert.Empty(t, search.called)
}

func TestPipelineFallbackWhenSemanticEmpty(t *testing.T) {
	detector := &stubDetector{labels: foodLabels()}
	matcher := &stubMatcher{}
	search := &stubSearch{results: map[string][]Candidate{
		"chicken": {
			{ID: "f1", RecipeName: "Chicken Rice", Calories: 520, ProteinG: 32, Source: SourceFallback},
		},
		"rice": {
			{ID: "f1", RecipeName: "Chicken Rice", Calories: 520, ProteinG: 32, Source: SourceFallback},
			{ID: "f2", RecipeName: "Congee", Calories: 200, ProteinG: 6, Source: SourceFallback},
		},
	}}

	p := NewPipeline(testPipelineConfig(), detector, matcher, search)
	got, err := p.MatchImage(context.Background(), []byte("img"))
	require.NoError(t, err)

	// 只用信心度最高的前兩個標籤查詢，且依序
	assert.Equal(t, []string{"chicken", "rice"}, search.called)

	// 跨查詢以 id 去重
	require.Len(t, got.Candidates, 2)
	assert.Equal(t, "f1", got.Candidates[0].ID)
	assert.Equal(t, "f2", got.Candidates[1].ID)
}

func TestPipelinePerLabelFailureIsContained(t *testing.T) {
	detector := &stubDetector{labels: foodLabels()}
	matcher := &stubMatcher{
		results: map[string][]Candidate{
			"rice": {{ID: "r4", RecipeName: "Fried Rice", Calories: 600, ProteinG: 14, Source: SourceSemantic}},
		},
		errs: map[string]error{
			"chicken": errors.New("similarity service down"),
		},
	}
	search := &stubSearch{}

	p := NewPipeline(testPipelineConfig(), detector, matcher, search)
	got, err := p.MatchImage(context.Background(), []byte("img"))
	require.NoError(t, err)

	require.Len(t, got.Candidates, 1)
	assert.Equal(t, "r4", got.Candidates[0].ID)
	assert.Empty(t, search.called)
}

func TestPipelineFallbackFailureIsContained(t *testing.T) {
	detector := &stubDetector{labels: foodLabels()}
	matcher := &stubMatcher{}
	search := &stubSearch{
		results: map[string][]Candidate{
			"rice": {{ID: "f2", RecipeName: "Congee", Calories: 200, ProteinG: 6, Source: SourceFallback}},
		},
		errs: map[string]error{
			"chicken": errors.New("search service down"),
		},
	}

	p := NewPipeline(testPipelineConfig(), detector, matcher, search)
	got, err := p.MatchImage(context.Background(), []byte("img"))
	require.NoError(t, err)

	require.Len(t, got.Candidates, 1)
	assert.Equal(t, "f2", got.Candidates[0].ID)
}

func TestPipelineDeduplicatesAcrossLabels(t *testing.T) {
	shared := Candidate{ID: "r1", RecipeName: "Grilled Chicken", Calories: 450, ProteinG: 38, Source: SourceSemantic}
	detector := &stubDetector{labels: foodLabels()}
	matcher := &stubMatcher{results: map[string][]Candidate{
		"chicken": {shared},
		"rice":    {shared},
	}}

	p := NewPipeline(testPipelineConfig(), detector, matcher, &stubSearch{})
	got, err := p.MatchImage(context.Background(), []byte("img"))
	require.NoError(t, err)
	require.Len(t, got.Candidates, 1)
}

func TestPipelineMissingToken(t *testing.T) {
	cfg := testPipelineConfig()
	cfg.Matcher.Token = ""
	detector := &stubDetector{labels: foodLabels()}

	p := NewPipeline(cfg, detector, &stubMatcher{}, &stubSearch{})
	got, err := p.MatchImage(context.Background(), []byte("img"))
	require.Error(t, err)
	assert.Nil(t, got)

	var customErr *common.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, 500, customErr.Status)

	// 配置錯誤在偵測之前就擋下
	assert.Equal(t, 0, detector.calls)
}

func TestPipelineDetectorError(t *testing.T) {
	detector := &stubDetector{err: errors.New("detector unavailable")}

	p := NewPipeline(testPipelineConfig(), detector, &stubMatcher{}, &stubSearch{})
	got, err := p.MatchImage(context.Background(), []byte("img"))
	require.Error(t, err)
	assert.Nil(t, got)
}

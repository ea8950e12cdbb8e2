package match

import (
	"bytes"
	"context"
	"encoding/base64"
	stdimage "image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/core/image"
	"recipe-matcher/internal/core/label"
	corematch "recipe-matcher/internal/core/match"
	appconfig "recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

// stubDetector 固定輸出的標籤偵測器
type stubDetector struct {
	labels []label.DetectedLabel
	calls  int
}

func (d *stubDetector) DetectLabels(ctx context.Context, imageBytes []byte) ([]label.DetectedLabel, error) {
	d.calls++
	return d.labels, nil
}

// stubMatcher 固定輸出的比對器
type stubMatcher struct {
	results map[string][]corematch.Candidate
}

func (m *stubMatcher) Match(ctx context.Context, labelKey string) ([]corematch.Candidate, error) {
	return m.results[labelKey], nil
}

// stubSearch 永遠為空的備援搜尋
type stubSearch struct{}

func (s *stubSearch) Search(ctx context.Context, term string) ([]corematch.Candidate, error) {
	return nil, nil
}

func handlerConfig() *appconfig.Config {
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

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, stdimage.NewRGBA(stdimage.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func newTestRouter(t *testing.T, detector *stubDetector, store cache.Store) *gin.Engine {
	t.Helper()
	matcher := &stubMatcher{results: map[string][]corematch.Candidate{
		"chicken": {
			{ID: "r1", RecipeName: "Grilled Chicken", Calories: 450, ProteinG: 38, MatchedLabel: "chicken", Source: corematch.SourceSemantic},
		},
	}}
	pipeline := corematch.NewPipeline(handlerConfig(), detector, matcher, &stubSearch{})
	handler := NewHandler(pipeline, image.NewService(5<<20), store)

	router := gin.New()
	router.POST("/api/v1/match/image", handler.MatchImage)
	return router
}

func foodDetector() *stubDetector {
	return &stubDetector{labels: []label.DetectedLabel{
		{Name: "Chicken", Confidence: 98},
		{Name: "Plate", Confidence: 99},
	}}
}

func postImage(router *gin.Engine, body []byte, contentType string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match/image", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestMatchImageSuccess(t *testing.T) {
	router := newTestRouter(t, foodDetector(), nil)

	w := postImage(router, encodePNG(t), "image/png", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp corematch.Result
	require.NoError(t, common.ParseJSONBytes(w.Body.Bytes(), &resp))
	require.Len(t, resp.Labels, 1)
	assert.Equal(t, "chicken", resp.Labels[0].Key)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "r1", resp.Candidates[0].ID)
	assert.Equal(t, "semantic", resp.Candidates[0].Source)
}

func TestMatchImageUnsupportedMediaType(t *testing.T) {
	router := newTestRouter(t, foodDetector(), nil)

	w := postImage(router, encodePNG(t), "image/webp", nil)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Contains(t, w.Body.String(), "Only JPG/PNG allowed")
}

func TestMatchImageNoIngredients(t *testing.T) {
	detector := &stubDetector{labels: []label.DetectedLabel{
		{Name: "Plate", Confidence: 99},
		{Name: "Table", Confidence: 95},
	}}
	router := newTestRouter(t, detector, nil)

	w := postImage(router, encodePNG(t), "image/png", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "No recognizable ingredients in image")
}

func TestMatchImageBase64Body(t *testing.T) {
	router := newTestRouter(t, foodDetector(), nil)

	encoded := base64.StdEncoding.EncodeToString(encodePNG(t))
	w := postImage(router, []byte(encoded), "image/png", map[string]string{
		"Content-Transfer-Encoding": "base64",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMatchImageInvalidBase64(t *testing.T) {
	router := newTestRouter(t, foodDetector(), nil)

	w := postImage(router, []byte("not-valid-base64!!!"), "image/png", map[string]string{
		"Content-Transfer-Encoding": "base64",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMatchImageCacheReplay(t *testing.T) {
	store := cache.NewManager(appconfig.CacheConfig{
		Enabled:         true,
		MaxSize:         10,
		TTL:             time.Minute,
		CleanupInterval: time.Minute,
	})
	defer store.Close()

	detector := foodDetector()
	router := newTestRouter(t, detector, store)
	body := encodePNG(t)

	first := postImage(router, body, "image/png", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Cache"))

	second := postImage(router, body, "image/png", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	// 管線只跑了一次
	assert.Equal(t, 1, detector.calls)
}

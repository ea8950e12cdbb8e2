package match

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appconfig "recipe-matcher/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarityScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req struct {
			Inputs struct {
				SourceSentence string   `json:"source_sentence"`
				Sentences      []string `json:"sentences"`
			} `json:"inputs"`
			Options struct {
				WaitForModel bool `json:"wait_for_model"`
			} `json:"options"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "query text", req.Inputs.SourceSentence)
		assert.Equal(t, []string{"a", "b"}, req.Inputs.Sentences)
		assert.True(t, req.Options.WaitForModel)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[0.81, 0.12]`))
	}))
	defer srv.Close()

	client := NewHFSimilarityClient(appconfig.MatcherConfig{
		SimilarityURL: srv.URL,
		Token:         "test-token",
		Timeout:       5 * time.Second,
	})

	scores, err := client.Score(context.Background(), "query text", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.81, 0.12}, scores)
}

func TestSimilarityScoreNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": "model loading"}`))
	}))
	defer srv.Close()

	client := NewHFSimilarityClient(appconfig.MatcherConfig{
		SimilarityURL: srv.URL,
		Token:         "test-token",
		Timeout:       5 * time.Second,
	})

	scores, err := client.Score(context.Background(), "q", []string{"a"})
	require.Error(t, err)
	assert.Nil(t, scores)
	assert.Contains(t, err.Error(), "503")
}

func TestSimilarityScoreMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"unexpected": "shape"}`))
	}))
	defer srv.Close()

	client := NewHFSimilarityClient(appconfig.MatcherConfig{
		SimilarityURL: srv.URL,
		Token:         "test-token",
		Timeout:       5 * time.Second,
	})

	scores, err := client.Score(context.Background(), "q", []string{"a"})
	require.Error(t, err)
	assert.Nil(t, scores)
}

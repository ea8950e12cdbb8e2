package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"recipe-matcher/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func writeCorpusFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestIndexLoadFlexibleShapes(t *testing.T) {
	path := writeCorpusFile(t, `[
		{"id": 1, "recipe_name": "Chicken Rice", "category": "Main", "calories": 520, "protein_g": 32,
		 "ingredients": ["chicken", "rice", {"name": "ginger"}]},
		{"id": "r-2", "recipe_name": "Tomato Soup", "category": "Soup", "calories": 180, "protein_g": 4,
		 "image_filename": "tomato_soup"}
	]`)

	ix := NewIndex(path)
	records := ix.Load()
	require.Len(t, records, 2)
	assert.True(t, ix.IsLoaded())
	assert.Equal(t, 2, ix.Len())

	// 數字與字串 id 統一為字串
	assert.Equal(t, FlexID("1"), records[0].ID)
	assert.Equal(t, FlexID("r-2"), records[1].ID)

	// 字串與物件兩種食材形式
	require.Len(t, records[0].Ingredients, 3)
	assert.Equal(t, "chicken", records[0].Ingredients[0].Name)
	assert.Equal(t, "ginger", records[0].Ingredients[2].Name)
}

func TestIndexLoadMissingFile(t *testing.T) {
	ix := NewIndex(filepath.Join(t.TempDir(), "nope.json"))

	assert.Empty(t, ix.Load())
	assert.False(t, ix.IsLoaded())
	assert.Equal(t, 0, ix.Len())

	// 失敗結果同樣被快取，不會逐請求重試
	assert.Empty(t, ix.Load())
}

func TestIndexLoadMalformedFile(t *testing.T) {
	path := writeCorpusFile(t, `{"not": "an array"`)
	ix := NewIndex(path)

	assert.Empty(t, ix.Load())
	assert.False(t, ix.IsLoaded())
}

func TestImageRef(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/a.png", Record{ImageURL: "https://cdn.example.com/a.png", ImageFilename: "a"}.ImageRef())
	assert.Equal(t, "/food_icons/tomato_soup.png", Record{ImageFilename: "tomato_soup"}.ImageRef())
	assert.Equal(t, "", Record{}.ImageRef())
}

func TestToQueryTextPrefersTextField(t *testing.T) {
	r := Record{RecipeName: "Chicken Rice", Text: "precomputed text"}
	assert.Equal(t, "precomputed text", ToQueryText(r))
}

func TestToQueryTextComposed(t *testing.T) {
	r := Record{
		RecipeName: "Chicken Rice",
		Category:   "Main",
		Ingredients: []Ingredient{
			{Name: "chicken"}, {Name: ""}, {Name: "rice"},
		},
	}
	assert.Equal(t, "Chicken Rice. Category: Main. Ingredients: chicken, rice.", ToQueryText(r))
}

func TestToQueryTextCapsIngredients(t *testing.T) {
	r := Record{RecipeName: "Stew", Category: "Main"}
	for i := 0; i < 15; i++ {
		r.Ingredients = append(r.Ingredients, Ingredient{Name: "x"})
	}

	got := ToQueryText(r)
	// 最多帶 10 項食材
	assert.Contains(t, got, "Ingredients: x, x, x, x, x, x, x, x, x, x.")
}

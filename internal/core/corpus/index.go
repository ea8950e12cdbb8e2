package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// Record 單筆食譜語料，載入後只讀不寫
type Record struct {
	ID            FlexID       `json:"id"`
	RecipeName    string       `json:"recipe_name"`
	Category      string       `json:"category"`
	TimeDisplay   string       `json:"time_display"`
	Calories      float64      `json:"calories"`
	ProteinG      float64      `json:"protein_g"`
	CarbsG        float64      `json:"carbs_g"`
	FatG          float64      `json:"fat_g"`
	ImageURL      string       `json:"image_url"`
	ImageFilename string       `json:"image_filename"`
	Text          string       `json:"text"`
	Ingredients   []Ingredient `json:"ingredients"`
}

// FlexID 容忍數字或字串形式的 id，統一以字串表示
type FlexID string

// UnmarshalJSON 實現彈性解析
func (f *FlexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexID(n.String())
		return nil
	}
	return fmt.Errorf("unsupported id shape: %s", string(data))
}

// Ingredient 容忍 "name" 或 {"name": ...} 兩種形式的食材欄位
type Ingredient struct {
	Name string `json:"name"`
}

// UnmarshalJSON 實現彈性解析
func (ing *Ingredient) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		ing.Name = s
		return nil
	}
	type plain Ingredient
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	ing.Name = p.Name
	return nil
}

// ImageRef 解析圖片引用：優先使用 image_url，否則由 image_filename 組合
func (r Record) ImageRef() string {
	if r.ImageURL != "" {
		return r.ImageURL
	}
	if r.ImageFilename != "" {
		return "/food_icons/" + r.ImageFilename + ".png"
	}
	return ""
}

// Index 食譜語料索引：首次使用時載入一次，之後整個行程生命週期內只讀。
// 載入失敗視為空語料（記錄日誌），不會逐請求重試；更新語料需要重啟。
type Index struct {
	path    string
	once    sync.Once
	records []Record
	loaded  bool
}

// NewIndex 創建語料索引
func NewIndex(path string) *Index {
	return &Index{path: path}
}

// Load 載入語料，冪等；第一次成功讀取後回傳快取結果
func (ix *Index) Load() []Record {
	ix.once.Do(ix.load)
	return ix.records
}

// IsLoaded 是否成功載入非空語料
func (ix *Index) IsLoaded() bool {
	ix.once.Do(ix.load)
	return ix.loaded
}

// Len 語料筆數
func (ix *Index) Len() int {
	return len(ix.Load())
}

func (ix *Index) load() {
	raw, err := os.ReadFile(ix.path)
	if err != nil {
		common.LogError("語料索引讀取失敗",
			zap.String("path", ix.path),
			zap.Error(err),
		)
		return
	}

	var records []Record
	if err := common.ParseJSONBytes(raw, &records); err != nil {
		common.LogError("語料索引解析失敗",
			zap.String("path", ix.path),
			zap.Error(err),
		)
		return
	}

	ix.records = records
	ix.loaded = len(records) > 0
	common.LogInfo("語料索引已載入",
		zap.String("path", ix.path),
		zap.Int("筆數", len(records)),
	)
}

// ToQueryText 產生比對用文字：已有 text 欄位直接使用，
// 否則由名稱、分類與最多 10 項食材組合而成
func ToQueryText(r Record) string {
	if r.Text != "" {
		return r.Text
	}

	var b strings.Builder
	b.WriteString(r.RecipeName)
	b.WriteString(". Category: ")
	b.WriteString(r.Category)
	b.WriteString(".")

	names := make([]string, 0, 10)
	for _, ing := range r.Ingredients {
		if ing.Name == "" {
			continue
		}
		names = append(names, ing.Name)
		if len(names) == 10 {
			break
		}
	}
	if len(names) > 0 {
		b.WriteString(" Ingredients: ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString(".")
	}
	return b.String()
}

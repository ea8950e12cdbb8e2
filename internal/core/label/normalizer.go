package label

import (
	"math"
	"sort"
	"strings"
)

// Options 正規化選項
type Options struct {
	MinConfidence  float64
	MaxLabels      int
	IncludeParents bool
	Ban            map[string]struct{}
}

// NormKey 將標籤轉為小寫、底線換空白、去除前後空白，並解析別名與簡單複數
func NormKey(s string) string {
	k := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(s), "_", " "))
	if target, ok := Aliases[k]; ok {
		return target
	}
	// 簡單的去複數：去掉結尾 s 後若在白名單內則採用
	if strings.HasSuffix(k, "s") {
		singular := k[:len(k)-1]
		if _, ok := IngredientWhitelist[singular]; ok {
			return singular
		}
	}
	return k
}

// Normalize 正規化偵測器輸出：過濾低信心度、丟棄禁用詞與過短的詞，
// 依 key 去重（保留最高信心度），依信心度排序後截斷。
// 任何輸入都不會導致錯誤，空輸入回傳空結果。
func Normalize(raw []DetectedLabel, opts Options) []NormalizedLabel {
	ban := opts.Ban
	if ban == nil {
		ban = GenericLabels
	}

	type picked struct {
		name string
		conf float64
	}
	candidates := make([]picked, 0, len(raw))
	for _, l := range raw {
		if l.Confidence < opts.MinConfidence {
			continue
		}
		if l.Name == "" {
			continue
		}
		candidates = append(candidates, picked{name: l.Name, conf: l.Confidence})

		// 父層級標籤以信心度減一併入，套用相同的過濾規則
		if opts.IncludeParents {
			for _, p := range l.Parents {
				if p != "" {
					candidates = append(candidates, picked{name: p, conf: l.Confidence - 1})
				}
			}
		}
	}

	seen := make(map[string]float64)
	for _, c := range candidates {
		key := NormKey(c.name)
		if key == "" {
			continue
		}
		if _, banned := ban[key]; banned {
			continue
		}
		if len(key) < 3 {
			continue
		}
		if prev, ok := seen[key]; !ok || c.conf > prev {
			seen[key] = c.conf
		}
	}

	out := make([]NormalizedLabel, 0, len(seen))
	for key, conf := range seen {
		out = append(out, NormalizedLabel{Key: key, Confidence: conf})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Key < out[j].Key
	})
	if opts.MaxLabels > 0 && len(out) > opts.MaxLabels {
		out = out[:opts.MaxLabels]
	}
	return out
}

// FilterIngredients 只保留白名單內的食材標籤，依 key 去重並截斷至 keepTopN。
// 輸入已依信心度排序，輸出維持相同順序。
func FilterIngredients(labels []NormalizedLabel, keepTopN int) []NormalizedLabel {
	out := make([]NormalizedLabel, 0, len(labels))
	seen := make(map[string]struct{})
	for _, l := range labels {
		key := NormKey(l.Key)
		if key == "" {
			continue
		}
		if _, ok := IngredientWhitelist[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, NormalizedLabel{Key: key, Confidence: math.Round(l.Confidence)})
	}
	if keepTopN > 0 && len(out) > keepTopN {
		out = out[:keepTopN]
	}
	return out
}

// IsDessert 判斷標籤是否含甜點提示詞
func IsDessert(labelKey string) bool {
	lower := strings.ToLower(labelKey)
	for _, hint := range DessertHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

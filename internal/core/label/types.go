package label

// DetectedLabel 偵測器輸出的原始標籤
type DetectedLabel struct {
	Name       string   `json:"name"`
	Confidence float64  `json:"confidence"`
	Parents    []string `json:"parents,omitempty"`
}

// NormalizedLabel 正規化後的標籤，key 一律為小寫且已解析別名
type NormalizedLabel struct {
	Key        string  `json:"label"`
	Confidence float64 `json:"conf"`
}

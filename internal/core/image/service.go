package image

import (
	"bytes"
	"image"
	"regexp"

	_ "image/jpeg" // 支援 JPEG
	_ "image/png"  // 支援 PNG

	_ "golang.org/x/image/webp" // 註冊 WebP，讓偽裝成 JPEG 的 WebP 能被識破

	"recipe-matcher/internal/pkg/common"
)

// 偵測服務只接受 JPEG/PNG（不支援 WebP）
var allowedContentType = regexp.MustCompile(`(?i)^image/(jpeg|png)$`)

// Service 圖片驗證服務
type Service struct {
	maxSizeBytes int64
}

// NewService 創建新的圖片驗證服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
	}
}

// Validate 驗證原始圖片位元組：檢查宣告的媒體類型、大小限制與實際格式。
// 宣告類型與實際解碼出的格式必須一致，否則回傳 415 類錯誤。
func (s *Service) Validate(data []byte, declaredType string) error {
	if !allowedContentType.MatchString(declaredType) {
		return common.ErrUnsupportedMedia
	}

	if int64(len(data)) > s.maxSizeBytes {
		return common.ErrPayloadTooLarge
	}

	if len(data) == 0 {
		return common.ErrInvalidRequest
	}

	// 解碼標頭確認實際格式
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return common.ErrUnsupportedMedia
	}
	if format != "jpeg" && format != "png" {
		return common.ErrUnsupportedMedia
	}

	return nil
}

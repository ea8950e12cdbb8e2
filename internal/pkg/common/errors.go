package common

import (
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ShapeError 表示外部服務回傳形狀不符的錯誤（例如相似度分數數量與語料不一致）
type ShapeError struct {
	message string
}

// Error 實現 error 介面
func (e *ShapeError) Error() string {
	return e.message
}

// NewShapeError 創建新的形狀錯誤
func NewShapeError(message string) error {
	return &ShapeError{
		message: message,
	}
}

// IsShapeError 檢查是否為形狀錯誤
func IsShapeError(err error) bool {
	_, ok := err.(*ShapeError)
	return ok
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest       = "INVALID_REQUEST"        // 400
	ErrCodeForbidden            = "FORBIDDEN"              // 403
	ErrCodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"     // 405
	ErrCodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"      // 413
	ErrCodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE" // 415
	ErrCodeNoIngredients        = "NO_INGREDIENTS"         // 422
	ErrCodeTooManyRequests      = "TOO_MANY_REQUESTS"      // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest   = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrForbidden        = NewError(ErrCodeForbidden, "Forbidden", http.StatusForbidden, nil)
	ErrMethodNotAllowed = NewError(ErrCodeMethodNotAllowed, "Method Not Allowed", http.StatusMethodNotAllowed, nil)
	ErrPayloadTooLarge  = NewError(ErrCodePayloadTooLarge, "Max 5MB", http.StatusRequestEntityTooLarge, nil)
	ErrUnsupportedMedia = NewError(ErrCodeUnsupportedMediaType, "Only JPG/PNG allowed", http.StatusUnsupportedMediaType, nil)
	ErrNoIngredients    = NewError(ErrCodeNoIngredients, "No recognizable ingredients in image", http.StatusUnprocessableEntity, nil)
	ErrTooManyRequests  = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)

	// 業務錯誤
	ErrCacheFull     = NewError("CACHE_FULL", "緩存已滿", http.StatusServiceUnavailable, nil)
	ErrCacheDisabled = NewError("CACHE_DISABLED", "緩存已禁用", http.StatusServiceUnavailable, nil)
	ErrCacheMiss     = NewError("CACHE_MISS", "快取未命中", http.StatusNotFound, nil)
)

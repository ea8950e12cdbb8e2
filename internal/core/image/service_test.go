package image

import (
	"bytes"
	stdimage "image"
	"image/jpeg"
	"image/png"
	"testing"

	"recipe-matcher/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, stdimage.NewRGBA(stdimage.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, stdimage.NewRGBA(stdimage.Rect(0, 0, 2, 2)), nil))
	return buf.Bytes()
}

func TestValidateAcceptsJPEGAndPNG(t *testing.T) {
	svc := NewService(5 << 20)

	assert.NoError(t, svc.Validate(encodePNG(t), "image/png"))
	assert.NoError(t, svc.Validate(encodeJPEG(t), "image/jpeg"))
	// 宣告類型不分大小寫
	assert.NoError(t, svc.Validate(encodePNG(t), "IMAGE/PNG"))
}

func TestValidateRejectsDeclaredType(t *testing.T) {
	svc := NewService(5 << 20)

	err := svc.Validate(encodePNG(t), "image/webp")
	assert.ErrorIs(t, err, common.ErrUnsupportedMedia)

	err = svc.Validate(encodePNG(t), "image/gif")
	assert.ErrorIs(t, err, common.ErrUnsupportedMedia)

	err = svc.Validate(encodePNG(t), "application/json")
	assert.ErrorIs(t, err, common.ErrUnsupportedMedia)
}

func TestValidateRejectsOversize(t *testing.T) {
	svc := NewService(16)

	err := svc.Validate(encodePNG(t), "image/png")
	assert.ErrorIs(t, err, common.ErrPayloadTooLarge)
}

func TestValidateRejectsEmptyBody(t *testing.T) {
	svc := NewService(5 << 20)

	err := svc.Validate(nil, "image/png")
	assert.ErrorIs(t, err, common.ErrInvalidRequest)
}

func TestValidateRejectsMismatchedContent(t *testing.T) {
	svc := NewService(5 << 20)

	// 宣告 JPEG 但內容不是可解碼的圖片
	err := svc.Validate([]byte("definitely not an image"), "image/jpeg")
	assert.ErrorIs(t, err, common.ErrUnsupportedMedia)

	// GIF 位元組偽裝成 JPEG，解碼格式對不上
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	err = svc.Validate(gif, "image/jpeg")
	assert.ErrorIs(t, err, common.ErrUnsupportedMedia)
}

package vision

import (
	"context"
	"fmt"

	"recipe-matcher/internal/core/label"
	appconfig "recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"go.uber.org/zap"
)

// Detector 影像標籤偵測介面，方便測試時注入假偵測器
type Detector interface {
	DetectLabels(ctx context.Context, imageBytes []byte) ([]label.DetectedLabel, error)
}

// RekognitionService Rekognition 標籤偵測服務
type RekognitionService struct {
	client *rekognition.Client
	cfg    appconfig.VisionConfig
}

// NewRekognitionService 創建 Rekognition 偵測服務
func NewRekognitionService(ctx context.Context, cfg appconfig.VisionConfig) (*RekognitionService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &RekognitionService{
		client: rekognition.NewFromConfig(awsCfg),
		cfg:    cfg,
	}, nil
}

// DetectLabels 對圖片位元組執行多標籤偵測
// 門檻刻意設低，後續由正規化與白名單階段做真正的過濾
func (s *RekognitionService) DetectLabels(ctx context.Context, imageBytes []byte) ([]label.DetectedLabel, error) {
	out, err := s.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: imageBytes},
		MaxLabels:     aws.Int32(s.cfg.MaxLabels),
		MinConfidence: aws.Float32(s.cfg.MinConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels: %w", err)
	}

	detected := make([]label.DetectedLabel, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name == nil {
			continue
		}
		d := label.DetectedLabel{Name: *l.Name}
		if l.Confidence != nil {
			d.Confidence = float64(*l.Confidence)
		}
		for _, p := range l.Parents {
			if p.Name != nil {
				d.Parents = append(d.Parents, *p.Name)
			}
		}
		detected = append(detected, d)
	}

	common.LogInfo("標籤偵測完成",
		zap.Int("標籤數", len(detected)),
	)
	return detected, nil
}

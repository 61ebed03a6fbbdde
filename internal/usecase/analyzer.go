package usecase

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"memewatch/internal/domain/models"
	"memewatch/internal/domain/repository"
	"memewatch/internal/scanerr"
	"memewatch/pkg/logger"
)

// analysisInstruction is the fixed prompt sent with every chart upload.
const analysisInstruction = "Analyze this price chart and provide technical analysis. " +
	"Focus on key support/resistance levels, trend direction, and potential entry/exit points. " +
	"Be concise."

// Analyzer runs one vision completion per uploaded chart image.
type Analyzer struct {
	vision repository.ChartVision
	log    *logger.Logger
}

func NewAnalyzer(vision repository.ChartVision, log *logger.Logger) *Analyzer {
	return &Analyzer{vision: vision, log: log}
}

// Analyze validates the upload as a supported image and returns the model's
// narrative verbatim. Single call, bounded by the vision client's timeout.
func (a *Analyzer) Analyze(ctx context.Context, imageBytes []byte) (*models.ChartAnalysisResult, error) {
	mediaType, err := sniffImage(imageBytes)
	if err != nil {
		return nil, err
	}

	text, err := a.vision.Complete(ctx, analysisInstruction, mediaType, imageBytes)
	if err != nil {
		return nil, err
	}
	return &models.ChartAnalysisResult{NarrativeText: text}, nil
}

// sniffImage decodes just the image header. PNG, JPEG and GIF are accepted.
func sniffImage(imageBytes []byte) (string, error) {
	if len(imageBytes) == 0 {
		return "", scanerr.New(scanerr.CodeInvalidImage, "empty attachment")
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		return "", scanerr.Wrap(scanerr.CodeInvalidImage, "unsupported image format", err)
	}
	return "image/" + format, nil
}

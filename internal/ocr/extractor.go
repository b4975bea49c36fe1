package ocr

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/anime-shed/study-worker-go/internal/errors"
	"github.com/anime-shed/study-worker-go/internal/logger"
	"github.com/anime-shed/study-worker-go/internal/storage"
	"github.com/sirupsen/logrus"
)

// TextExtractor reads the text printed on the image behind imageURL.
//
// A failure to fetch, decode or recognize is returned as an extraction_failed
// AppError. An image with no readable text yields "" and a nil error; deciding
// whether that is enough text is left to the caller.
type TextExtractor interface {
	Extract(ctx context.Context, imageURL string) (string, error)
}

// ImageTextExtractor fetches once from an ImageSource and hands the bytes to an Engine.
type ImageTextExtractor struct {
	source       storage.ImageSource
	engine       Engine
	fetchTimeout time.Duration
}

func NewImageTextExtractor(source storage.ImageSource, engine Engine, fetchTimeout time.Duration) *ImageTextExtractor {
	return &ImageTextExtractor{
		source:       source,
		engine:       engine,
		fetchTimeout: fetchTimeout,
	}
}

func (e *ImageTextExtractor) Extract(ctx context.Context, imageURL string) (string, error) {
	start := time.Now()

	fetchCtx := ctx
	if e.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, e.fetchTimeout)
		defer cancel()
	}

	data, err := e.source.FetchImage(fetchCtx, imageURL)
	if err != nil {
		return "", apperrors.NewExtractionFailed("failed to fetch image", err)
	}

	text, err := e.engine.Recognize(ctx, data)
	if err != nil {
		return "", apperrors.NewExtractionFailed("failed to read text from image", err)
	}
	text = strings.TrimSpace(text)

	logger.WithFields(logrus.Fields{
		"image_bytes": len(data),
		"characters":  len([]rune(text)),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Text extracted from image")

	return text, nil
}

package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anime-shed/study-worker-go/internal/config"
	apperrors "github.com/anime-shed/study-worker-go/internal/errors"
	"github.com/anime-shed/study-worker-go/internal/logger"
	"github.com/anime-shed/study-worker-go/internal/ocr"
	"github.com/anime-shed/study-worker-go/pkg/models"
	"github.com/anime-shed/study-worker-go/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const (
	ServiceName = "ai-worker"
	Version     = "1.0.0"

	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// Processor runs the study-material pipeline for one page.
type Processor interface {
	Process(ctx context.Context, imageURL, sessionID string) (*models.PipelineResult, error)
}

type handler struct {
	processor Processor
	extractor ocr.TextExtractor
	validator *validation.URLValidator
	cfg       *config.Config
}

// NewHandler builds the gin router wrapped in CORS. gatherer backs /metrics.
func NewHandler(processor Processor, extractor ocr.TextExtractor, gatherer prometheus.Gatherer, cfg *config.Config) http.Handler {
	h := &handler{
		processor: processor,
		extractor: extractor,
		validator: validation.NewURLValidator(),
		cfg:       cfg,
	}
	if len(cfg.AllowedImageHosts) > 0 {
		h.validator = validation.NewURLValidatorWithOptions([]string{"http", "https"}, cfg.AllowedImageHosts)
	}

	r := gin.Default()

	r.Use(
		requestID(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.POST("/process", h.processPage)
	api.POST("/ocr", h.extractText)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}).Handler(r)
}

func (h *handler) processPage(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	var req models.ProcessingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	if err := h.validator.ValidateProcessingRequest(req); err != nil {
		respondError(c, err)
		return
	}

	log := logger.ForSession(req.SessionID).WithFields(logrus.Fields{
		"request_id": c.GetString(requestIDKey),
		"image_url":  req.ImageURL,
		"ip":         c.ClientIP(),
	})
	log.Info("Processing study material request")

	result, err := h.processor.Process(ctx, req.ImageURL, req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	log.WithFields(logrus.Fields{
		"word_count":         result.WordCount,
		"topic":              result.Topic,
		"processing_time_ms": result.ProcessingTimeMs,
	}).Info("Study material generated")

	c.JSON(http.StatusOK, result)
}

func (h *handler) extractText(c *gin.Context) {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	var req models.OCRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	if err := h.validator.ValidateImageURL(req.ImageURL); err != nil {
		respondError(c, err)
		return
	}

	text, err := h.extractor.Extract(ctx, req.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}

	report := ocr.Report(text, req.ExpectedText)
	logger.WithFields(logrus.Fields{
		"request_id":         c.GetString(requestIDKey),
		"image_url":          req.ImageURL,
		"characters":         report.CharacterCount,
		"has_diagnostics":    report.Diagnostics != nil,
		"processing_time_ms": time.Since(startTime).Milliseconds(),
	}).Info("Text extraction completed")

	c.JSON(http.StatusOK, report)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			respondError(c, c.Errors.Last().Err)
		}
	}
}

func bindError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return &apperrors.AppError{
			Type:       apperrors.ErrorTypeValidation,
			Message:    fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit),
			StatusCode: http.StatusRequestEntityTooLarge,
			Cause:      err,
		}
	}
	return apperrors.NewValidationError("invalid request format", err)
}

func respondError(c *gin.Context, err error) {
	code := apperrors.GetStatusCode(err)

	body := models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: err.Error(),
	}
	if appErr, ok := apperrors.As(err); ok {
		body.Type = string(appErr.Type)
		body.Stage = appErr.Stage
		body.Message = appErr.Message
		if appErr.Cause != nil {
			body.Message = fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
	}

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"stage":       body.Stage,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
		"request_id":  c.GetString(requestIDKey),
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.AbortWithStatusJSON(code, body)
}

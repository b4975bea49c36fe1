package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anime-shed/study-worker-go/internal/config"
	apperrors "github.com/anime-shed/study-worker-go/internal/errors"
	"github.com/anime-shed/study-worker-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubProcessor struct {
	result    *models.PipelineResult
	err       error
	imageURL  string
	sessionID string
	deadline  bool
}

func (s *stubProcessor) Process(ctx context.Context, imageURL, sessionID string) (*models.PipelineResult, error) {
	s.imageURL, s.sessionID = imageURL, sessionID
	_, s.deadline = ctx.Deadline()
	return s.result, s.err
}

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(ctx context.Context, imageURL string) (string, error) {
	return s.text, s.err
}

func testConfig() *config.Config {
	return &config.Config{
		Port:               "5000",
		RequestTimeout:     time.Minute,
		MaxRequestBodySize: 1024,
	}
}

func newTestHandler(p Processor, e *stubExtractor) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "studyworker_test_total", Help: "test"}))
	return NewHandler(p, e, reg, testConfig())
}

func doJSON(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	w := doJSON(newTestHandler(&stubProcessor{}, &stubExtractor{}), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "ai-worker", resp.Service)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	newTestHandler(&stubProcessor{}, &stubExtractor{}).ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	w := doJSON(newTestHandler(&stubProcessor{}, &stubExtractor{}), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "studyworker_test_total")
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/process", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	newTestHandler(&stubProcessor{}, &stubExtractor{}).ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestProcessPage_Success(t *testing.T) {
	p := &stubProcessor{result: &models.PipelineResult{
		SessionID:     "sess-1",
		ExtractedText: "Cats are mammals. Dogs are mammals too. Mammals are warm blooded.",
		Topic:         "Biology",
		WordCount:     11,
	}}
	w := doJSON(newTestHandler(p, &stubExtractor{}), http.MethodPost, "/api/process",
		`{"image_url": "https://example.com/cats.jpg", "session_id": "sess-1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.PipelineResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Biology", resp.Topic)
	assert.Equal(t, 11, resp.WordCount)
	assert.Equal(t, "https://example.com/cats.jpg", p.imageURL)
	assert.Equal(t, "sess-1", p.sessionID)
	assert.True(t, p.deadline)
}

func TestProcessPage_Validation(t *testing.T) {
	tests := map[string]string{
		"malformed json":     `{"image_url":`,
		"missing session":    `{"image_url": "https://example.com/a.jpg"}`,
		"missing image_url":  `{"session_id": "sess-1"}`,
		"unsupported scheme": `{"image_url": "ftp://example.com/a.jpg", "session_id": "sess-1"}`,
		"blank session":      `{"image_url": "https://example.com/a.jpg", "session_id": "   "}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			p := &stubProcessor{}
			w := doJSON(newTestHandler(p, &stubExtractor{}), http.MethodPost, "/api/process", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "validation", decodeError(t, w).Type)
			assert.Empty(t, p.sessionID, "pipeline must not run on invalid input")
		})
	}
}

func TestProcessPage_BodyTooLarge(t *testing.T) {
	body := `{"image_url": "https://example.com/a.jpg", "session_id": "` + strings.Repeat("x", 2048) + `"}`
	w := doJSON(newTestHandler(&stubProcessor{}, &stubExtractor{}), http.MethodPost, "/api/process", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestProcessPage_PipelineErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
		stage  string
	}{
		{
			name:   "insufficient content",
			err:    apperrors.NewInsufficientContent(12, 50),
			status: http.StatusUnprocessableEntity,
			kind:   "insufficient_content",
			stage:  "extract",
		},
		{
			name:   "extraction failed",
			err:    apperrors.NewExtractionFailed("failed to fetch image", errors.New("status code 404")),
			status: http.StatusBadGateway,
			kind:   "extraction_failed",
			stage:  "extract",
		},
		{
			name:   "flashcards failed",
			err:    apperrors.NewGenerationFailed("flashcards", errors.New("provider returned status 500")),
			status: http.StatusBadGateway,
			kind:   "generation_failed",
			stage:  "flashcards",
		},
		{
			name:   "summary timed out",
			err:    apperrors.NewGenerationFailed("summary", context.DeadlineExceeded),
			status: http.StatusGatewayTimeout,
			kind:   "generation_failed",
			stage:  "summary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(newTestHandler(&stubProcessor{err: tt.err}, &stubExtractor{}), http.MethodPost, "/api/process",
				`{"image_url": "https://example.com/a.jpg", "session_id": "sess-1"}`)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.kind, resp.Type)
			assert.Equal(t, tt.stage, resp.Stage)
			assert.Equal(t, http.StatusText(tt.status), resp.Error)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestExtractText(t *testing.T) {
	e := &stubExtractor{text: "the cel is the unit"}
	w := doJSON(newTestHandler(&stubProcessor{}, e), http.MethodPost, "/api/ocr",
		`{"image_url": "https://example.com/a.jpg", "expected_text": "the cell is the unit"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.OCRResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "the cel is the unit", resp.ExtractedText)
	assert.Equal(t, 5, resp.WordCount)
	require.NotNil(t, resp.Diagnostics)
	assert.InDelta(t, 95.0, resp.Diagnostics.MatchScore, 0.01)
}

func TestExtractText_ShortTextIsNotRejected(t *testing.T) {
	w := doJSON(newTestHandler(&stubProcessor{}, &stubExtractor{text: "Hi"}), http.MethodPost, "/api/ocr",
		`{"image_url": "https://example.com/a.jpg"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "diagnostics")
}

func TestExtractText_Failure(t *testing.T) {
	e := &stubExtractor{err: apperrors.NewExtractionFailed("failed to fetch image", context.DeadlineExceeded)}
	w := doJSON(newTestHandler(&stubProcessor{}, e), http.MethodPost, "/api/ocr",
		`{"image_url": "https://example.com/a.jpg"}`)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "extract", decodeError(t, w).Stage)
}

func TestAllowedImageHosts(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedImageHosts = []string{"cdn.school.edu", ".blob.core.windows.net"}
	reg := prometheus.NewRegistry()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{
			name:   "exact host accepted",
			path:   "/api/process",
			body:   `{"image_url": "https://cdn.school.edu/p1.jpg", "session_id": "sess-1"}`,
			status: http.StatusOK,
		},
		{
			name:   "subdomain of suffix entry accepted",
			path:   "/api/process",
			body:   `{"image_url": "https://pages.blob.core.windows.net/c/p1.jpg", "session_id": "sess-1"}`,
			status: http.StatusOK,
		},
		{
			name:   "other host rejected",
			path:   "/api/process",
			body:   `{"image_url": "https://example.com/p1.jpg", "session_id": "sess-1"}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "ocr route uses the same list",
			path:   "/api/ocr",
			body:   `{"image_url": "https://example.com/p1.jpg"}`,
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProcessor{result: &models.PipelineResult{SessionID: "sess-1"}}
			h := NewHandler(p, &stubExtractor{text: "text"}, reg, cfg)

			w := doJSON(h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusBadRequest {
				assert.Equal(t, "validation", decodeError(t, w).Type)
			}
		})
	}
}

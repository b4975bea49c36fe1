package ocr

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	apperrors "github.com/anime-shed/study-worker-go/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	data     []byte
	err      error
	calls    int
	deadline bool
}

func (s *stubSource) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	s.calls++
	_, s.deadline = ctx.Deadline()
	return s.data, s.err
}

type stubEngine struct {
	text  string
	err   error
	calls int
	got   []byte
}

func (s *stubEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	s.calls++
	s.got = image
	return s.text, s.err
}

func TestImageTextExtractor_TrimsRecognizedText(t *testing.T) {
	source := &stubSource{data: []byte("img")}
	engine := &stubEngine{text: "\n  Photosynthesis converts light energy.  \n\n"}
	extractor := NewImageTextExtractor(source, engine, 30*time.Second)

	text, err := extractor.Extract(context.Background(), "https://example.com/page.jpg")

	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis converts light energy.", text)
	assert.Equal(t, 1, source.calls)
	assert.True(t, source.deadline, "fetch should run under a deadline")
	assert.Equal(t, []byte("img"), engine.got)
}

func TestImageTextExtractor_NoTextIsNotAnError(t *testing.T) {
	extractor := NewImageTextExtractor(&stubSource{data: []byte("img")}, &stubEngine{text: " \n "}, time.Second)

	text, err := extractor.Extract(context.Background(), "https://example.com/blank.jpg")

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestImageTextExtractor_FetchFailure(t *testing.T) {
	cause := errors.New("failed to fetch image: status code 404")
	engine := &stubEngine{text: "unused"}
	extractor := NewImageTextExtractor(&stubSource{err: cause}, engine, time.Second)

	_, err := extractor.Extract(context.Background(), "https://example.com/missing.jpg")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExtraction))
	assert.Equal(t, apperrors.StageExtract, apperrors.StageOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadGateway, apperrors.GetStatusCode(err))
	assert.Zero(t, engine.calls, "engine must not run when the fetch fails")
}

func TestImageTextExtractor_FetchTimeout(t *testing.T) {
	extractor := NewImageTextExtractor(&stubSource{err: context.DeadlineExceeded}, &stubEngine{}, time.Second)

	_, err := extractor.Extract(context.Background(), "https://example.com/slow.jpg")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExtraction))
	assert.Equal(t, http.StatusGatewayTimeout, apperrors.GetStatusCode(err))
}

func TestImageTextExtractor_RecognizeFailure(t *testing.T) {
	cause := errors.New("set image: unsupported format")
	extractor := NewImageTextExtractor(&stubSource{data: []byte("img")}, &stubEngine{err: cause}, time.Second)

	_, err := extractor.Extract(context.Background(), "https://example.com/page.jpg")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExtraction))
	assert.ErrorIs(t, err, cause)
}

func TestNewTesseractEngine_Languages(t *testing.T) {
	assert.Equal(t, []string{"eng"}, NewTesseractEngine("eng").languages)
	assert.Equal(t, []string{"eng", "fra"}, NewTesseractEngine(" eng + fra ").languages)
	assert.Empty(t, NewTesseractEngine("").languages)
}

func TestTesseractEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTesseractEngine("eng").Recognize(ctx, []byte("img"))
	assert.ErrorIs(t, err, context.Canceled)
}

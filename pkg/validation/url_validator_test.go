package validation

import (
	"testing"

	apperrors "github.com/anime-shed/study-worker-go/internal/errors"
	"github.com/anime-shed/study-worker-go/pkg/models"
)

func TestNewURLValidator(t *testing.T) {
	validator := NewURLValidator()
	if validator == nil {
		t.Fatal("Expected non-nil URL validator")
	}

	expectedSchemes := []string{"http", "https"}
	if len(validator.allowedSchemes) != len(expectedSchemes) {
		t.Fatalf("Expected %d schemes, got %d", len(expectedSchemes), len(validator.allowedSchemes))
	}
	for i, scheme := range expectedSchemes {
		if validator.allowedSchemes[i] != scheme {
			t.Errorf("Expected scheme %s, got %s", scheme, validator.allowedSchemes[i])
		}
	}
}

func TestValidateImageURL(t *testing.T) {
	validator := NewURLValidator()

	tests := []struct {
		name        string
		url         string
		wantMessage string
	}{
		{name: "https page photo", url: "https://res.cloudinary.com/demo/image/upload/page.jpg"},
		{name: "http with port", url: "http://192.168.1.1:8080/scan.png"},
		{name: "blob url", url: "https://acct.blob.core.windows.net/pages/2024/p1.jpg"},
		{name: "empty", url: "", wantMessage: "image_url cannot be empty"},
		{name: "whitespace", url: " \t\n", wantMessage: "image_url cannot be empty"},
		{name: "ftp scheme", url: "ftp://example.com/page.jpg", wantMessage: "image_url scheme not allowed"},
		{name: "file scheme", url: "file:///tmp/page.jpg", wantMessage: "image_url scheme not allowed"},
		{name: "no scheme", url: "not-a-url", wantMessage: "image_url scheme not allowed"},
		{name: "no host", url: "https://", wantMessage: "image_url must have a valid host"},
		{name: "path only", url: "http:///path", wantMessage: "image_url must have a valid host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateImageURL(tt.url)
			if tt.wantMessage == "" {
				if err != nil {
					t.Fatalf("Expected %q to pass validation, got: %v", tt.url, err)
				}
				return
			}
			appErr, ok := apperrors.As(err)
			if !ok {
				t.Fatalf("Expected AppError, got: %T (%v)", err, err)
			}
			if appErr.Type != apperrors.ErrorTypeValidation {
				t.Errorf("Expected validation error, got %s", appErr.Type)
			}
			if appErr.Message != tt.wantMessage {
				t.Errorf("Expected %q, got %q", tt.wantMessage, appErr.Message)
			}
		})
	}
}

func TestValidateImageURL_RestrictedHosts(t *testing.T) {
	validator := NewURLValidatorWithOptions(
		[]string{"https"},
		[]string{"res.cloudinary.com", ".blob.core.windows.net"},
	)

	allowed := []string{
		"https://res.cloudinary.com/demo/page.jpg",
		"https://RES.cloudinary.com/demo/page.jpg",
		"https://acct.blob.core.windows.net/pages/p1.png",
	}
	for _, u := range allowed {
		if err := validator.ValidateImageURL(u); err != nil {
			t.Errorf("Expected %q to be allowed, got: %v", u, err)
		}
	}

	denied := []string{
		"https://evil.example.com/page.jpg",
		"https://blob.core.windows.net.evil.com/p1.png",
	}
	for _, u := range denied {
		err := validator.ValidateImageURL(u)
		appErr, ok := apperrors.As(err)
		if !ok || appErr.Message != "image_url host not allowed" {
			t.Errorf("Expected %q to be rejected by host rules, got: %v", u, err)
		}
	}
}

func TestValidateProcessingRequest(t *testing.T) {
	validator := NewURLValidator()

	if err := validator.ValidateProcessingRequest(models.ProcessingRequest{
		ImageURL:  "https://example.com/page.jpg",
		SessionID: "sess-1",
	}); err != nil {
		t.Fatalf("Expected valid request, got: %v", err)
	}

	err := validator.ValidateProcessingRequest(models.ProcessingRequest{
		ImageURL:  "https://example.com/page.jpg",
		SessionID: "  ",
	})
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("Expected validation error for blank session, got: %v", err)
	}

	err = validator.ValidateProcessingRequest(models.ProcessingRequest{
		ImageURL:  "ftp://example.com/page.jpg",
		SessionID: "sess-1",
	})
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("Expected validation error for bad url, got: %v", err)
	}
}

func TestIsHostAllowed(t *testing.T) {
	validator := NewURLValidator()
	if !validator.isHostAllowed("example.com") {
		t.Error("Expected any host to be allowed when no restrictions")
	}

	restricted := NewURLValidatorWithOptions([]string{"http", "https"}, []string{"example.com", ".trusted.com"})
	cases := map[string]bool{
		"example.com":     true,
		"cdn.trusted.com": true,
		"trusted.com":     false,
		"malicious.com":   false,
		"sub.example.com": false,
	}
	for host, want := range cases {
		if got := restricted.isHostAllowed(host); got != want {
			t.Errorf("isHostAllowed(%q) = %v, want %v", host, got, want)
		}
	}
}

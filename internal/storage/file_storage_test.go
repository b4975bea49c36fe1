package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	pngData := pagePNG(t)

	page := filepath.Join(dir, "page.png")
	if err := os.WriteFile(page, pngData, 0o600); err != nil {
		t.Fatal(err)
	}
	notImage := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notImage, []byte("plain text, not a photo"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name          string
		path          string
		maxBytes      int64
		errorContains string
	}{
		{name: "Success", path: page, maxBytes: 1 << 20},
		{name: "Missing file", path: filepath.Join(dir, "missing.png"), maxBytes: 1 << 20, errorContains: "failed to open image"},
		{name: "Too large", path: page, maxBytes: 8, errorContains: "image exceeds 8 bytes"},
		{name: "Not an image", path: notImage, maxBytes: 1 << 20, errorContains: "failed to decode image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := NewFileSource(tt.maxBytes).FetchImage(context.Background(), tt.path)
			if tt.errorContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errorContains) {
					t.Fatalf("Expected error containing %q, got %v", tt.errorContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(data) != len(pngData) {
				t.Errorf("Expected %d bytes, got %d", len(pngData), len(data))
			}
		})
	}
}

func TestFileSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFileSource(1<<20).FetchImage(ctx, "page.png"); err == nil {
		t.Fatal("Expected error for a cancelled context")
	}
}

package storage

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads page photos from the local filesystem. The "URL" is a path.
type FileSource struct {
	maxBytes int64
}

func NewFileSource(maxBytes int64) *FileSource {
	return &FileSource{maxBytes: maxBytes}
}

func (f *FileSource) FetchImage(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	return readImage(file, f.maxBytes)
}

package factory

import (
	"fmt"
	"net/http"

	"github.com/anime-shed/study-worker-go/internal/config"
	"github.com/anime-shed/study-worker-go/internal/generation"
	"github.com/anime-shed/study-worker-go/internal/ocr"
	"github.com/anime-shed/study-worker-go/internal/pipeline"
	"github.com/anime-shed/study-worker-go/internal/storage"
)

// StorageType represents different types of image sources
type StorageType string

const (
	// HTTPStorage for plain HTTP(S) image URLs
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
	// FileStorage for local paths, used by the CLI
	FileStorage StorageType = "file"
)

// StorageFactory creates image sources
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ImageSource, error)
}

type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates an image source based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ImageSource, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(f.cfg.ImageFetchTimeout, f.cfg.MaxImageBytes), nil
	case AzureStorage:
		if !f.cfg.Azure.Enabled() {
			return nil, fmt.Errorf("azure storage is not configured")
		}
		return storage.NewAzureStorage(f.cfg.Azure.AccountName, f.cfg.Azure.AccountKey, f.cfg.MaxImageBytes)
	case FileStorage:
		return storage.NewFileSource(f.cfg.MaxImageBytes), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// ComponentFactory builds the pipeline's collaborators from configuration
type ComponentFactory struct {
	cfg            *config.Config
	StorageFactory StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		cfg:            cfg,
		StorageFactory: NewStorageFactory(cfg),
	}
}

// CreateImageSource returns the HTTP source, routed through Azure for blob
// URLs when an account is configured.
func (f *ComponentFactory) CreateImageSource() (storage.ImageSource, error) {
	httpSource, err := f.StorageFactory.CreateStorage(HTTPStorage)
	if err != nil {
		return nil, err
	}
	var blobSource storage.ImageSource
	if f.cfg.Azure.Enabled() {
		if blobSource, err = f.StorageFactory.CreateStorage(AzureStorage); err != nil {
			return nil, err
		}
	}
	return storage.NewRoutingSource(httpSource, blobSource), nil
}

func (f *ComponentFactory) CreateExtractor(source storage.ImageSource) ocr.TextExtractor {
	engine := ocr.NewTesseractEngine(f.cfg.OCR.Language)
	return ocr.NewImageTextExtractor(source, engine, f.cfg.ImageFetchTimeout)
}

func (f *ComponentFactory) CreateGenerator() (generation.ContentGenerator, error) {
	params, err := generation.ResolveParams(f.cfg.Generation.Profile)
	if err != nil {
		return nil, err
	}
	client := generation.NewChatClient(
		f.cfg.Generation.BaseURL,
		f.cfg.Generation.APIKey,
		f.cfg.Generation.Model,
		&http.Client{},
	)
	return generation.NewService(client, params, f.cfg.GenerationTimeout)
}

func (f *ComponentFactory) CreateStrategy() (pipeline.Strategy, error) {
	return pipeline.NewStrategy(f.cfg.Pipeline.Mode, f.cfg.Pipeline.MaxConcurrency)
}

package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobHostSuffix identifies Azure Blob Storage URLs.
const BlobHostSuffix = ".blob.core.windows.net"

type azureStorage struct {
	client   *azblob.Client
	maxBytes int64
}

func NewAzureStorage(accountName string, accountKey string, maxBytes int64) (ImageSource, error) {
	return newAzureStorage(accountName, accountKey, maxBytes, nil)
}

// newAzureStorage disables the SDK retry policy so a fetch is a single request.
// A nil transport uses the SDK default.
func newAzureStorage(accountName, accountKey string, maxBytes int64, transport policy.Transporter) (*azureStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s%s", accountName, BlobHostSuffix),
		credential,
		&azblob.ClientOptions{
			ClientOptions: azcore.ClientOptions{
				Retry:     policy.RetryOptions{MaxRetries: -1},
				Transport: transport,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create azure client: %w", err)
	}

	return &azureStorage{client: client, maxBytes: maxBytes}, nil
}

func (s *azureStorage) FetchImage(ctx context.Context, blobURL string) ([]byte, error) {
	containerName, blobName, err := ParseBlobURL(blobURL)
	if err != nil {
		return nil, err
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	body := downloadResponse.Body
	defer body.Close()

	return readImage(body, s.maxBytes)
}

// ParseBlobURL splits https://<account>.blob.core.windows.net/<container>/<blob path>.
func ParseBlobURL(blobURL string) (container, blob string, err error) {
	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob URL: %w", err)
	}

	path := strings.TrimPrefix(parsedURL.Path, "/")
	container, blob, found := strings.Cut(path, "/")
	if !found || container == "" || blob == "" {
		return "", "", fmt.Errorf("blob URL must have the form /<container>/<blob>: %q", parsedURL.Path)
	}
	return container, blob, nil
}

// IsBlobURL reports whether imageURL points at Azure Blob Storage.
func IsBlobURL(imageURL string) bool {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(parsedURL.Hostname()), BlobHostSuffix)
}

// RoutingSource sends blob URLs to the Azure source and everything else to HTTP.
type RoutingSource struct {
	http ImageSource
	blob ImageSource
}

// NewRoutingSource builds a router; blob may be nil when Azure is not configured.
func NewRoutingSource(httpSource, blobSource ImageSource) *RoutingSource {
	return &RoutingSource{http: httpSource, blob: blobSource}
}

func (r *RoutingSource) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	if r.blob != nil && IsBlobURL(imageURL) {
		return r.blob.FetchImage(ctx, imageURL)
	}
	return r.http.FetchImage(ctx, imageURL)
}

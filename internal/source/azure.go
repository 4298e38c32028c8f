package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
)

// Well-known Azurite development account
const (
	azuriteAccount = "devstoreaccount1"
	azuriteKey     = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
)

// Azure is a blob in Azure Blob Storage
type Azure struct {
	blob *blockblob.Client
	uri  *URI
}

// NewAzure creates an Azure source. AccessKey is the account name and
// SecretKey the account key; without them AZURE_STORAGE_CONNECTION_STRING is used.
func NewAzure(uri *URI, cfg *Config) (*Azure, error) {
	client, err := newAzureClient(cfg)
	if err != nil {
		return nil, err
	}

	blob := client.ServiceClient().NewContainerClient(uri.Bucket).NewBlockBlobClient(uri.Key)
	return &Azure{blob: blob, uri: uri}, nil
}

func newAzureClient(cfg *Config) (*azblob.Client, error) {
	account, key := cfg.AccessKey, cfg.SecretKey

	var serviceURL string
	switch {
	case cfg.Endpoint != "":
		if account == "" {
			account = azuriteAccount
		}
		if key == "" {
			key = azuriteKey
		}
		serviceURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + account
	case account != "" && key != "":
		serviceURL = fmt.Sprintf("https://%s.blob.core.windows.net/", account)
	default:
		connStr := os.Getenv("AZURE_STORAGE_CONNECTION_STRING")
		if connStr == "" {
			return nil, fmt.Errorf("azure requires an account name and key or AZURE_STORAGE_CONNECTION_STRING")
		}
		client, err := azblob.NewClientFromConnectionString(connStr, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client: %w", err)
		}
		return client, nil
	}

	cred, err := azblob.NewSharedKeyCredential(account, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure client: %w", err)
	}
	return client, nil
}

func (a *Azure) Size(ctx context.Context) (int64, error) {
	props, err := a.blob.GetProperties(ctx, nil)
	if err != nil {
		return 0, a.wrap("failed to get blob properties", err)
	}
	if props.ContentLength == nil {
		return 0, fmt.Errorf("content length not available for %s", a.uri)
	}
	return *props.ContentLength, nil
}

func (a *Azure) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := a.blob.DownloadStream(ctx, nil)
	if err != nil {
		return nil, a.wrap("failed to download blob", err)
	}
	return resp.Body, nil
}

func (a *Azure) wrap(msg string, err error) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, a.uri)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (a *Azure) Name() string {
	return a.uri.BaseName()
}

func (a *Azure) String() string {
	return a.uri.String()
}

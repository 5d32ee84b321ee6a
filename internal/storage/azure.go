package storage

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AzureStore implements Store against the Azure Blob Storage REST API using
// shared-access-signature authentication. Only the small surface the
// pipeline needs is implemented: block blob upload, download, flat listing,
// delete, and server-side copy.
type AzureStore struct {
	accountURL string
	sasToken   string
	client     *http.Client
}

// NewAzureStore creates an Azure blob store client. accountURL is the
// account endpoint (https://{account}.blob.core.windows.net) and sasToken a
// shared access signature with container-level permissions.
func NewAzureStore(accountURL, sasToken string, timeout time.Duration) (*AzureStore, error) {
	accountURL = strings.TrimRight(strings.TrimSpace(accountURL), "/")
	if accountURL == "" {
		return nil, errors.New("azure storage: empty account url")
	}
	sasToken = strings.TrimPrefix(strings.TrimSpace(sasToken), "?")
	if sasToken == "" {
		return nil, errors.New("azure storage: empty sas token")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AzureStore{
		accountURL: accountURL,
		sasToken:   sasToken,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

func (a *AzureStore) blobURL(container, name string) string {
	escaped := url.PathEscape(name)
	// PathEscape encodes slashes, but virtual directory separators must
	// survive in blob URLs.
	escaped = strings.ReplaceAll(escaped, "%2F", "/")
	return fmt.Sprintf("%s/%s/%s?%s", a.accountURL, container, escaped, a.sasToken)
}

func (a *AzureStore) do(req *http.Request, wantStatus int) (*http.Response, error) {
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azure storage: %s: %w", req.Method, err)
	}
	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, req.URL.Path)
		}
		return nil, fmt.Errorf("azure storage: %s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

// Upload copies a local file into the container as a block blob.
func (a *AzureStore) Upload(ctx context.Context, container, name, sourcePath string) error {
	file, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("azure storage: open source: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("azure storage: stat source: %w", err)
	}
	return a.putBlob(ctx, container, name, file, info.Size())
}

// Put writes raw bytes into the container as a block blob.
func (a *AzureStore) Put(ctx context.Context, container, name string, data []byte) error {
	return a.putBlob(ctx, container, name, bytes.NewReader(data), int64(len(data)))
}

func (a *AzureStore) putBlob(ctx context.Context, container, name string, body io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, a.blobURL(container, name), body)
	if err != nil {
		return fmt.Errorf("azure storage: build request: %w", err)
	}
	req.Header.Set("x-ms-blob-type", "BlockBlob")
	req.ContentLength = size

	resp, err := a.do(req, http.StatusCreated)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Get reads a blob's full contents.
func (a *AzureStore) Get(ctx context.Context, container, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.blobURL(container, name), nil)
	if err != nil {
		return nil, fmt.Errorf("azure storage: build request: %w", err)
	}
	resp, err := a.do(req, http.StatusOK)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("azure storage: read body: %w", err)
	}
	return data, nil
}

// Download streams a blob to a local file.
func (a *AzureStore) Download(ctx context.Context, container, name, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.blobURL(container, name), nil)
	if err != nil {
		return fmt.Errorf("azure storage: build request: %w", err)
	}
	resp, err := a.do(req, http.StatusOK)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("azure storage: create dest dir: %w", err)
	}
	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("azure storage: create dest: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, resp.Body); err != nil {
		return fmt.Errorf("azure storage: write dest: %w", err)
	}
	return nil
}

type listResponse struct {
	Blobs struct {
		Blob []struct {
			Name string `xml:"Name"`
		} `xml:"Blob"`
	} `xml:"Blobs"`
	NextMarker string `xml:"NextMarker"`
}

// List returns blob names in a container matching prefix, following
// continuation markers until the listing is exhausted.
func (a *AzureStore) List(ctx context.Context, container, prefix string) ([]string, error) {
	var names []string
	marker := ""
	for {
		listURL := fmt.Sprintf("%s/%s?restype=container&comp=list&prefix=%s&%s",
			a.accountURL, container, url.QueryEscape(prefix), a.sasToken)
		if marker != "" {
			listURL += "&marker=" + url.QueryEscape(marker)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
		if err != nil {
			return nil, fmt.Errorf("azure storage: build request: %w", err)
		}
		resp, err := a.do(req, http.StatusOK)
		if err != nil {
			return nil, err
		}

		var parsed listResponse
		decodeErr := xml.NewDecoder(resp.Body).Decode(&parsed)
		resp.Body.Close()
		if decodeErr != nil {
			return nil, fmt.Errorf("azure storage: parse listing: %w", decodeErr)
		}

		for _, blob := range parsed.Blobs.Blob {
			names = append(names, blob.Name)
		}
		if parsed.NextMarker == "" {
			return names, nil
		}
		marker = parsed.NextMarker
	}
}

// Delete removes a blob. Deleting a missing blob is not an error.
func (a *AzureStore) Delete(ctx context.Context, container, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, a.blobURL(container, name), nil)
	if err != nil {
		return fmt.Errorf("azure storage: build request: %w", err)
	}
	resp, err := a.do(req, http.StatusAccepted)
	if errors.Is(err, ErrBlobNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Copy duplicates a blob server-side via x-ms-copy-source.
func (a *AzureStore) Copy(ctx context.Context, srcContainer, srcName, dstContainer, dstName string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, a.blobURL(dstContainer, dstName), nil)
	if err != nil {
		return fmt.Errorf("azure storage: build request: %w", err)
	}
	req.Header.Set("x-ms-copy-source", a.blobURL(srcContainer, srcName))

	resp, err := a.do(req, http.StatusAccepted)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

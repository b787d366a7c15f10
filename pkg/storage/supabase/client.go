package supabase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tudor-manea/lahinch/pkg/config"
	"github.com/tudor-manea/lahinch/pkg/logger"
)

const (
	objectRoute = "/storage/v1/object"
	publicRoute = "/storage/v1/object/public"
)

// Client talks to Supabase Storage over its REST API. Uploads and deletes are
// plain authenticated object calls; public URLs follow the fixed
// {base}/storage/v1/object/public/{bucket}/{path} shape, which PathFromURL
// inverts so stored URLs can be deleted later.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
}

// NewClient builds a storage client for the configured Supabase project.
func NewClient(ctx context.Context, cfg config.StorageConfig, logg *logger.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("supabase base url is required")
	}
	serviceKey := strings.TrimSpace(cfg.ServiceKey)
	if serviceKey == "" {
		return nil, errors.New("supabase service key is required")
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		serviceKey: serviceKey,
	}

	if logg != nil {
		logg.Info(ctx, "supabase storage client initialized")
	}
	return client, nil
}

// Upload stores an object and returns the path it was stored under.
func (c *Client) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	if bucket == "" || path == "" {
		return "", errors.New("bucket and path are required")
	}
	if len(data) == 0 {
		return "", errors.New("no file data to upload")
	}

	u := fmt.Sprintf("%s%s/%s/%s", c.baseURL, objectRoute, bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	c.authorize(req)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage upload failed: %s: %s", resp.Status, readErrorBody(resp.Body))
	}
	return path, nil
}

// Delete removes an object from a bucket.
func (c *Client) Delete(ctx context.Context, bucket, path string) error {
	if bucket == "" || path == "" {
		return errors.New("bucket and path are required")
	}

	u := fmt.Sprintf("%s%s/%s/%s", c.baseURL, objectRoute, bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("storage delete failed: %s: %s", resp.Status, readErrorBody(resp.Body))
	}
	return nil
}

// PublicURL returns the public URL for an object.
func (c *Client) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s%s/%s/%s", c.baseURL, publicRoute, bucket, path)
}

// PathFromURL recovers the object path from a public URL previously produced
// by PublicURL. It returns "" when the URL does not belong to the bucket.
func (c *Client) PathFromURL(bucket, fileURL string) string {
	prefix := fmt.Sprintf("%s%s/%s/", c.baseURL, publicRoute, bucket)
	if !strings.HasPrefix(fileURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(fileURL, prefix)
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
}

func readErrorBody(body io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(body, 2048))
	return strings.TrimSpace(string(b))
}

package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Aneezakiran07/foodmaps/internal/storage"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
	"github.com/Aneezakiran07/foodmaps/pkg/httpclient"
)

// uploadTimeout bounds a single upload round trip. Image uploads over slow
// links can take a while, so this is far above the default client timeout.
const uploadTimeout = 60 * time.Second

// Config holds the CDN connection settings.
type Config struct {
	// BaseURL is the API root, e.g. https://api.cloudinary.com/v1_1/<cloud>.
	BaseURL string

	// UploadPreset names the unsigned upload preset.
	UploadPreset string

	// APIKey authorizes destroy calls.
	APIKey string
}

// Storage implements storage.Storage against a Cloudinary-style HTTP upload
// API. All calls go through a retrying client wrapped in a circuit breaker so
// a misbehaving CDN degrades uploads instead of tying up request handlers.
// Destroy calls use a fallback that reports success while the breaker is open;
// the orphaned asset stays on the CDN until the next cleanup sweep.
type Storage struct {
	cfg     Config
	client  *httpclient.CircuitBreakerClient
	destroy *httpclient.CircuitBreakerClient
	logger  *slog.Logger
}

// New creates a CDN-backed storage client.
func New(cfg Config, logger *slog.Logger) *Storage {
	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = uploadTimeout

	base := httpclient.New(clientCfg)
	cb := httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("image-cdn"), logger)

	destroy := cb.WithFallback(func(ctx context.Context, _ error) (*http.Response, error) {
		logger.WarnContext(ctx, "cdn unreachable, deferring destroy to cleanup sweep")
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"result":"deferred"}`)),
		}, nil
	})

	return &Storage{
		cfg:     cfg,
		client:  cb,
		destroy: destroy,
		logger:  logger,
	}
}

// uploadResponse is the subset of the CDN upload response we consume.
type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Upload streams the file to the CDN and returns the key and public URL.
func (s *Storage) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", input.Key)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, input.Data); err != nil {
		return nil, fmt.Errorf("copy upload data: %w", err)
	}
	if err := mw.WriteField("upload_preset", s.cfg.UploadPreset); err != nil {
		return nil, fmt.Errorf("write upload preset: %w", err)
	}
	if err := mw.WriteField("public_id", input.Key); err != nil {
		return nil, fmt.Errorf("write public id: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	endpoint := strings.TrimSuffix(s.cfg.BaseURL, "/") + "/image/upload"

	resp, err := s.client.Post(ctx, endpoint, mw.FormDataContentType(), &body)
	if err != nil {
		return nil, fmt.Errorf("upload to cdn: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if httpclient.IsClientError(resp.StatusCode) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("cdn rejected upload (status %d): %s", resp.StatusCode, string(raw)))
		}
		return nil, fmt.Errorf("cdn upload returned status %d: %s", resp.StatusCode, string(raw))
	}

	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return nil, fmt.Errorf("decode cdn upload response: %w", err)
	}

	s.logger.DebugContext(ctx, "file uploaded to cdn",
		slog.String("public_id", ur.PublicID),
	)

	return &storage.UploadResult{
		Key: ur.PublicID,
		URL: ur.SecureURL,
	}, nil
}

// Delete removes a file from the CDN by its key.
func (s *Storage) Delete(ctx context.Context, key string) error {
	endpoint := strings.TrimSuffix(s.cfg.BaseURL, "/") + "/image/destroy"

	form := url.Values{}
	form.Set("public_id", key)
	form.Set("api_key", s.cfg.APIKey)

	resp, err := s.destroy.Post(ctx, endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("delete from cdn: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("cdn delete returned status %d: %s", resp.StatusCode, string(raw))
	}

	return nil
}

// GetURL returns the public delivery URL for the given key.
func (s *Storage) GetURL(_ context.Context, key string) (string, error) {
	return strings.TrimSuffix(s.cfg.BaseURL, "/") + "/image/upload/" + key, nil
}

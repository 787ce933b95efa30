package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/avenues-school/site-api/pkg/config"
	appErrors "github.com/avenues-school/site-api/pkg/errors"
)

// UploadResult is the normalized outcome of a successful provider upload.
type UploadResult struct {
	URL          string `json:"url"`
	DisplayName  string `json:"display_name"`
	MimeCategory string `json:"mime_category"`
}

// providerResponse mirrors the fields we consume from the upload API.
type providerResponse struct {
	SecureURL        string `json:"secure_url"`
	OriginalFilename string `json:"original_filename"`
	ResourceType     string `json:"resource_type"`
	Format           string `json:"format"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Uploader posts files to the external media host. Uploads are single-shot:
// no retry is attempted, and repeated provider failures open the breaker.
type Uploader struct {
	endpoint string
	preset   string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
}

// NewUploader builds an Uploader against the configured provider.
func NewUploader(cfg config.MediaConfig) *Uploader {
	return &Uploader{
		endpoint: fmt.Sprintf("%s/v1_1/%s/auto/upload", cfg.BaseURL, cfg.CloudName),
		preset:   cfg.UploadPreset,
		client:   &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "media-upload",
			MaxRequests: 3,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

// Upload sends the file through the provider and returns the canonical URL,
// display name and MIME category. A non-2xx response yields UPLOAD_REJECTED
// with the provider's message when one can be extracted.
func (u *Uploader) Upload(ctx context.Context, filename string, file io.Reader) (*UploadResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build upload body")
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload file")
	}
	if err := writer.WriteField("upload_preset", u.preset); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build upload body")
	}
	if err := writer.Close(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to finalize upload body")
	}

	outcome, err := u.breaker.Execute(func() (interface{}, error) {
		return u.post(ctx, body, writer.FormDataContentType())
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, appErrors.Clone(appErrors.ErrUnavailable, "media provider unavailable")
		}
		return nil, err
	}
	post := outcome.(*postOutcome)
	if post.rejected != nil {
		return nil, post.rejected
	}
	return post.result, nil
}

// postOutcome separates caller-fault rejections from provider faults. The
// breaker sees only the error return, so a stream of bad files never opens
// it against a healthy provider.
type postOutcome struct {
	result   *UploadResult
	rejected error
}

func (u *Uploader) post(ctx context.Context, body *bytes.Buffer, contentType string) (*postOutcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build upload request")
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "media provider unreachable")
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to read provider response")
	}

	if resp.StatusCode >= 500 {
		return nil, appErrors.Clone(appErrors.ErrUploadRejected, rejectionMessage(raw, resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 4xx means the provider is up and disliked the input; that is the
		// caller's problem, not a provider outage.
		return &postOutcome{rejected: appErrors.Clone(appErrors.ErrUploadRejected, rejectionMessage(raw, resp.StatusCode))}, nil
	}

	var payload providerResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUploadRejected.Code, appErrors.ErrUploadRejected.Status, "malformed provider response")
	}

	return &postOutcome{result: &UploadResult{
		URL:          payload.SecureURL,
		DisplayName:  payload.OriginalFilename + "." + payload.Format,
		MimeCategory: payload.ResourceType + "/" + payload.Format,
	}}, nil
}

// rejectionMessage extracts the provider's human-readable message when the
// error body is well formed, falling back to a generic status line.
func rejectionMessage(raw []byte, status int) string {
	var pe providerError
	if err := json.Unmarshal(raw, &pe); err == nil && pe.Error.Message != "" {
		return pe.Error.Message
	}
	return fmt.Sprintf("upload failed with status %d", status)
}

package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/sethvargo/go-retry"
)

// Cloudinary uploads images through the Cloudinary SDK's signed upload.
// Transport errors and 5xx responses are retried with exponential backoff;
// rejected uploads and unreadable responses fail immediately.
type Cloudinary struct {
	cld        *cloudinary.Cloudinary
	maxRetries uint64
	backoff    time.Duration
}

// CloudinaryOption customizes a Cloudinary uploader.
type CloudinaryOption func(*Cloudinary)

// WithBaseURL points the uploader at a different API host (tests use httptest).
func WithBaseURL(u string) CloudinaryOption {
	return func(c *Cloudinary) { c.cld.Config.API.UploadPrefix = strings.TrimRight(u, "/") }
}

// WithTimeout bounds a single upload attempt.
func WithTimeout(d time.Duration) CloudinaryOption {
	return func(c *Cloudinary) { c.cld.Upload.Client.Timeout = d }
}

// WithRetries sets how many times a failed upload is retried and the
// initial backoff between attempts.
func WithRetries(n uint64, base time.Duration) CloudinaryOption {
	return func(c *Cloudinary) {
		c.maxRetries = n
		c.backoff = base
	}
}

// NewCloudinary constructs an uploader for the given account credentials.
func NewCloudinary(cloudName, apiKey, apiSecret string, opts ...CloudinaryOption) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("media.NewCloudinary: %w", err)
	}
	cld.Upload.Client = http.Client{
		Timeout:   30 * time.Second,
		Transport: serverErrorTransport{base: http.DefaultTransport},
	}

	c := &Cloudinary{cld: cld, maxRetries: 2, backoff: 250 * time.Millisecond}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Upload sends img with resource_type "auto" and returns its secure URL.
func (c *Cloudinary) Upload(ctx context.Context, img Image) (string, error) {
	var out string
	b := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		u, err := c.upload(ctx, img)
		if err != nil {
			var uerr *url.Error
			if errors.As(err, &uerr) {
				return retry.RetryableError(err)
			}
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("media.Cloudinary.Upload: %w", err)
	}
	return out, nil
}

// rejectedError is an upload Cloudinary answered with an error message.
type rejectedError struct{ msg string }

func (e *rejectedError) Error() string { return "cloudinary rejected upload: " + e.msg }

func (c *Cloudinary) upload(ctx context.Context, img Image) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, bytes.NewReader(img.Data), uploader.UploadParams{
		ResourceType:     "auto",
		FilenameOverride: img.Filename,
	})
	if err != nil {
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			return "", fmt.Errorf("decode cloudinary response: %w", err)
		}
		return "", err
	}
	if res.Error.Message != "" {
		return "", &rejectedError{msg: res.Error.Message}
	}
	if res.SecureURL != "" {
		return res.SecureURL, nil
	}
	return res.URL, nil
}

// serverErrorTransport turns 5xx responses into transport errors. The SDK
// only looks at response bodies, and a gateway's HTML error page would
// otherwise surface as a JSON decode failure.
type serverErrorTransport struct {
	base http.RoundTripper
}

func (t serverErrorTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		resp.Body.Close()
		return nil, fmt.Errorf("cloudinary status %d", resp.StatusCode)
	}
	return resp, nil
}

// internal/channel/image.go
package channel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Spaceonmymind/even-cookie-fp/internal/identity"
	"github.com/Spaceonmymind/even-cookie-fp/internal/pixel"
)

// maxImageSize bounds image body reads. A valid strip is a few hundred bytes.
const maxImageSize int64 = 1 << 20

// ImageConfig is the minimal runtime config of the image channel.
type ImageConfig struct {
	// URL of the cache image on the origin the frame runs in: the
	// third-party endpoint for cross delivery, the same-origin relay
	// for proxy delivery.
	URL string

	// Width is the decode canvas width. Zero means pixel.DefaultWidth.
	Width int

	Timeout time.Duration
}

// ImageChannel reads the identifier out of the cache image. Its
// durability comes from the server: the stored validator is replayed
// as If-None-Match and the server re-encodes it.
type ImageChannel struct {
	cfg    ImageConfig
	client *http.Client
	cache  ValidatorCache
}

func NewImage(cfg ImageConfig, client *http.Client, cache ValidatorCache) (*ImageChannel, error) {
	if cfg.URL == "" {
		return nil, errors.New("channel: image url required")
	}
	if cache == nil {
		return nil, errors.New("channel: validator cache required")
	}
	if cfg.Width <= 0 {
		cfg.Width = pixel.DefaultWidth
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &ImageChannel{cfg: cfg, client: client, cache: cache}, nil
}

func (c *ImageChannel) Name() Name { return PNGCache }

// Read fetches the fixed image resource; key is ignored.
func (c *ImageChannel) Read(ctx context.Context, _ string) Result {
	entry, cached, err := c.cache.Load(ctx)
	if err != nil {
		return Unavailable(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return Unavailable(fmt.Errorf("channel: image request: %w", err))
	}
	if cached && entry.ETag != "" {
		req.Header.Set("If-None-Match", identity.Validator(entry.ETag))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Unavailable(fmt.Errorf("channel: image fetch: %w", err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if !cached {
			return Unavailable(errors.New("channel: image 304 without cached entry"))
		}
		if len(entry.Body) == 0 {
			return Found(entry.ETag)
		}
		return c.decode(entry.Body)

	case http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
		if err != nil {
			return Unavailable(fmt.Errorf("channel: image body: %w", err))
		}
		res := c.decode(body)
		if res.Status == StatusUnavailable {
			return res
		}
		etag := identity.FromValidator(resp.Header.Get("ETag"))
		if etag != "" {
			if err := c.cache.Store(ctx, CacheEntry{ETag: etag, Body: body}); err != nil {
				return Unavailable(err)
			}
		}
		return res

	default:
		return Unavailable(fmt.Errorf("channel: image status %d", resp.StatusCode))
	}
}

// Write primes the validator cache so the next revalidation asks the
// server to echo value. The image itself cannot be written.
func (c *ImageChannel) Write(ctx context.Context, _ string, value string) error {
	entry, cached, err := c.cache.Load(ctx)
	if err != nil {
		return err
	}
	if cached && entry.ETag == value {
		return nil
	}
	return c.cache.Store(ctx, CacheEntry{ETag: value})
}

// Clear drops the cached validator, as clearing the HTTP cache would.
func (c *ImageChannel) Clear(ctx context.Context, _ string) error {
	return c.cache.Clear(ctx)
}

func (c *ImageChannel) decode(body []byte) Result {
	id, err := pixel.DecodePNG(bytes.NewReader(body), c.cfg.Width)
	if err != nil {
		return Unavailable(err)
	}
	return Found(id)
}

// internal/validator/service.go
package validator

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Spaceonmymind/even-cookie-fp/internal/clock"
	"github.com/Spaceonmymind/even-cookie-fp/internal/identity"
	"github.com/Spaceonmymind/even-cookie-fp/internal/pixel"
)

// DefaultMaxAge is how long clients are told to keep the image.
const DefaultMaxAge = 365 * 24 * time.Hour

type Config struct {
	Width  int
	MaxAge time.Duration
	NewID  func() string
	Clock  clock.Clock
	Logger *slog.Logger
}

// Service turns a presented cache validator into the image that
// encodes it. It holds no per-client state: the validator the client
// presents is the identifier.
type Service struct {
	width  int
	maxAge time.Duration
	newID  func() string
	clock  clock.Clock
	logger *slog.Logger
}

// Image is one response body plus the identifier it carries.
type Image struct {
	ID      string
	PNG     []byte
	Expires time.Time
	Minted  bool
}

func New(cfg Config) (*Service, error) {
	if cfg.Width <= 0 {
		cfg.Width = pixel.DefaultWidth
	}
	if pixel.Capacity(cfg.Width) < identity.Length {
		return nil, fmt.Errorf("validator: width %d cannot hold a %d-byte identifier", cfg.Width, identity.Length)
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultMaxAge
	}
	if cfg.NewID == nil {
		cfg.NewID = identity.New
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		width:  cfg.Width,
		maxAge: cfg.MaxAge,
		newID:  cfg.NewID,
		clock:  cfg.Clock,
		logger: cfg.Logger,
	}, nil
}

// Image returns the image for validator. An empty validator, or one
// that could not be encoded and decoded back intact, gets a fresh
// identifier.
func (s *Service) Image(validator string) (Image, error) {
	id := validator
	minted := false
	if !identity.Valid(id, pixel.Capacity(s.width)) {
		if id != "" {
			s.logger.Debug("rejecting validator", "validator", id)
		}
		id = s.newID()
		minted = true
	}

	body, err := pixel.EncodePNG(id, s.width)
	if err != nil {
		return Image{}, fmt.Errorf("validator: encode: %w", err)
	}

	return Image{
		ID:      id,
		PNG:     body,
		Expires: s.clock.Now().Add(s.maxAge),
		Minted:  minted,
	}, nil
}

// MaxAge is the freshness lifetime announced in Cache-Control.
func (s *Service) MaxAge() time.Duration { return s.maxAge }

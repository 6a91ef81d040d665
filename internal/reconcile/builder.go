// internal/reconcile/builder.go
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path/filepath"

	"github.com/Spaceonmymind/even-cookie-fp/internal/channel"
	cfg "github.com/Spaceonmymind/even-cookie-fp/internal/config"
)

// Set holds the five concrete channels of one frame origin.
type Set struct {
	Cookie  *channel.CookieChannel
	Durable *channel.DurableChannel
	Session *channel.SessionChannel
	Tx      *channel.TxChannel
	Image   *channel.ImageChannel
}

// Deps are the browser-level resources shared across origins.
// Zero values are replaced with private in-memory equivalents.
type Deps struct {
	Jar        http.CookieJar
	HTTPClient *http.Client
	Cache      channel.ValidatorCache
	Logger     *slog.Logger
}

// Build constructs the channel set for one client config. Storage
// lives under StateDir, partitioned by the frame origin.
// Assumes config has already been validated and normalized.
func Build(c cfg.ClientConfig, deps Deps) (*Set, error) {
	frame, err := url.Parse(c.FrameURL)
	if err != nil {
		return nil, fmt.Errorf("reconcile: frame url: %w", err)
	}
	if frame.Host == "" {
		return nil, errors.New("reconcile: frame url must be absolute")
	}

	partition := filepath.Join(c.StateDir, partitionName(frame))

	if deps.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		deps.Jar = jar
	}
	if deps.Cache == nil {
		fc, err := channel.NewFileValidatorCache(filepath.Join(partition, "http-cache.cbor"))
		if err != nil {
			return nil, err
		}
		deps.Cache = fc
	}

	cookie, err := channel.NewCookie(deps.Jar, channel.CookieConfig{
		Origin:     frame,
		ThirdParty: c.Mode == "cross",
	})
	if err != nil {
		return nil, err
	}

	durable, err := channel.NewDurable(filepath.Join(partition, "local-storage.cbor"))
	if err != nil {
		return nil, err
	}

	tx, err := channel.NewTx(channel.TxConfig{Dir: partition, Logger: deps.Logger})
	if err != nil {
		return nil, err
	}

	image, err := channel.NewImage(channel.ImageConfig{
		URL:     c.ImageURL,
		Width:   c.Width,
		Timeout: c.ReadTimeout(),
	}, deps.HTTPClient, deps.Cache)
	if err != nil {
		return nil, err
	}

	return &Set{
		Cookie:  cookie,
		Durable: durable,
		Session: channel.NewSession(),
		Tx:      tx,
		Image:   image,
	}, nil
}

// All returns the channels in precedence order.
func (s *Set) All() []channel.Channel {
	return []channel.Channel{s.Cookie, s.Durable, s.Session, s.Tx, s.Image}
}

// Clear removes key from the named channels, or from every channel
// when names is empty.
func (s *Set) Clear(ctx context.Context, key string, names ...channel.Name) error {
	want := make(map[channel.Name]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var errs []error
	for _, ch := range s.All() {
		if len(want) > 0 && !want[ch.Name()] {
			continue
		}
		c, ok := ch.(channel.Clearer)
		if !ok {
			continue
		}
		if err := c.Clear(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", ch.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// ClearStorage removes key from the four script-accessible stores and
// leaves the image validator cache intact.
func (s *Set) ClearStorage(ctx context.Context, key string) error {
	return s.Clear(ctx, key,
		channel.Cookie, channel.LocalStorage, channel.SessionStorage, channel.IndexedDB)
}

func (s *Set) Close() error {
	if s == nil || s.Tx == nil {
		return nil
	}
	return s.Tx.Close()
}

// partitionName turns scheme://host:port into a directory name.
func partitionName(u *url.URL) string {
	host := u.Host
	out := make([]byte, 0, len(u.Scheme)+1+len(host))
	out = append(out, u.Scheme...)
	out = append(out, '_')
	for i := 0; i < len(host); i++ {
		c := host[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

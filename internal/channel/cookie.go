// internal/channel/cookie.go
package channel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Spaceonmymind/even-cookie-fp/internal/identity"
)

// CookieConfig scopes the cookie channel to one origin.
type CookieConfig struct {
	// Origin is the URL of the document the frame runs in. The jar is
	// partitioned by it.
	Origin *url.URL

	// ThirdParty marks the pair for cross-site sendability
	// (SameSite=None; Secure). First-party delivery uses SameSite=Lax.
	ThirdParty bool
}

// CookieChannel keeps the identifier in a single name=value pair at path "/".
type CookieChannel struct {
	jar    http.CookieJar
	origin *url.URL
	third  bool
}

// NewCookie binds a cookie jar to an origin.
func NewCookie(jar http.CookieJar, cfg CookieConfig) (*CookieChannel, error) {
	if jar == nil {
		return nil, errors.New("channel: cookie jar required")
	}
	if cfg.Origin == nil || cfg.Origin.Host == "" {
		return nil, errors.New("channel: cookie origin required")
	}
	return &CookieChannel{jar: jar, origin: cfg.Origin, third: cfg.ThirdParty}, nil
}

func (c *CookieChannel) Name() Name { return Cookie }

func (c *CookieChannel) Read(ctx context.Context, key string) Result {
	if err := ctx.Err(); err != nil {
		return Unavailable(err)
	}
	for _, ck := range c.jar.Cookies(c.origin) {
		if ck.Name == key {
			return Found(ck.Value)
		}
	}
	return Absent()
}

// Write stores an expiry-less pair. Browsers refuse Secure cookies from
// insecure origins, so the Secure flag is only set on https origins.
func (c *CookieChannel) Write(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !identity.Valid(value, 0) {
		return fmt.Errorf("channel: cookie value %q not storable", value)
	}
	c.jar.SetCookies(c.origin, []*http.Cookie{c.pair(key, value, 0)})
	return nil
}

// Clear expires the pair.
func (c *CookieChannel) Clear(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.jar.SetCookies(c.origin, []*http.Cookie{c.pair(key, "", -1)})
	return nil
}

func (c *CookieChannel) pair(key, value string, maxAge int) *http.Cookie {
	ck := &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
	}
	if c.third {
		ck.SameSite = http.SameSiteNoneMode
		ck.Secure = c.origin.Scheme == "https"
	}
	return ck
}

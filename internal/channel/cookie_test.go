// internal/channel/cookie_test.go
package channel

import (
	"context"
	"net/http/cookiejar"
	"net/url"
	"testing"
)

func newJar(t *testing.T) *cookiejar.Jar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New err=%v", err)
	}
	return jar
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) err=%v", raw, err)
	}
	return u
}

func TestCookie_FirstParty(t *testing.T) {
	ctx := context.Background()
	c, err := NewCookie(newJar(t), CookieConfig{Origin: mustURL(t, "http://domain1.local/3ds-method-proxy")})
	if err != nil {
		t.Fatalf("NewCookie err=%v", err)
	}

	if r := c.Read(ctx, DefaultKey); r.Present() {
		t.Fatalf("expected absent, got %+v", r)
	}
	if err := c.Write(ctx, DefaultKey, "abc123"); err != nil {
		t.Fatalf("Write err=%v", err)
	}
	if r := c.Read(ctx, DefaultKey); r.Value != "abc123" {
		t.Fatalf("Read = %+v", r)
	}
	if err := c.Clear(ctx, DefaultKey); err != nil {
		t.Fatalf("Clear err=%v", err)
	}
	if r := c.Read(ctx, DefaultKey); r.Present() {
		t.Fatalf("after Clear: %+v", r)
	}
}

func TestCookie_ThirdPartyHTTPS(t *testing.T) {
	ctx := context.Background()
	c, err := NewCookie(newJar(t), CookieConfig{
		Origin:     mustURL(t, "https://identserver.local/3ds-method-cross"),
		ThirdParty: true,
	})
	if err != nil {
		t.Fatalf("NewCookie err=%v", err)
	}
	if err := c.Write(ctx, DefaultKey, "abc123"); err != nil {
		t.Fatalf("Write err=%v", err)
	}
	if r := c.Read(ctx, DefaultKey); r.Value != "abc123" {
		t.Fatalf("Read = %+v", r)
	}

	ck := c.pair(DefaultKey, "abc123", 0)
	if !ck.Secure {
		t.Fatalf("third-party cookie on https must be Secure")
	}
}

func TestCookie_PartitionedByOrigin(t *testing.T) {
	ctx := context.Background()
	jar := newJar(t)

	a, _ := NewCookie(jar, CookieConfig{Origin: mustURL(t, "http://a.local/")})
	b, _ := NewCookie(jar, CookieConfig{Origin: mustURL(t, "http://b.local/")})

	if err := a.Write(ctx, DefaultKey, "from-a"); err != nil {
		t.Fatalf("Write err=%v", err)
	}
	if r := b.Read(ctx, DefaultKey); r.Present() {
		t.Fatalf("cookie leaked across origins: %+v", r)
	}
}

func TestCookie_RejectsUnstorableValue(t *testing.T) {
	c, _ := NewCookie(newJar(t), CookieConfig{Origin: mustURL(t, "http://a.local/")})
	if err := c.Write(context.Background(), DefaultKey, "bad;value"); err == nil {
		t.Fatalf("expected error for value with ';'")
	}
}

func TestNewCookie_Validation(t *testing.T) {
	if _, err := NewCookie(nil, CookieConfig{Origin: mustURL(t, "http://a.local/")}); err == nil {
		t.Fatalf("expected error for nil jar")
	}
	if _, err := NewCookie(newJar(t), CookieConfig{}); err == nil {
		t.Fatalf("expected error for missing origin")
	}
}

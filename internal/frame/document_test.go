// internal/frame/document_test.go
package frame

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDocument_CarriesConfigInDataAttributes(t *testing.T) {
	h := Document(DocumentConfig{
		Mode:     Proxy,
		ImageURL: "/proxy-cache.png",
		LogURL:   "http://identserver.local:8001/log",
		Width:    200,
		Timeout:  3 * time.Second,
	}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/3ds-method-proxy", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`data-mode="proxy"`,
		`data-image-url="/proxy-cache.png"`,
		`data-log-url="http://identserver.local:8001/log"`,
		`data-width="200"`,
		`data-timeout-ms="3000"`,
		`<script src="/static/frame.v1.js"></script>`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("document missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "localStorage") {
		t.Fatalf("document must not inline executable logic")
	}
}

func TestDocument_EscapesValues(t *testing.T) {
	h := Document(DocumentConfig{Mode: Cross, ImageURL: `/x"><script>alert(1)</script>`}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/3ds-method-cross", nil))
	if strings.Contains(rec.Body.String(), "<script>alert(1)") {
		t.Fatalf("value not escaped")
	}
}

func TestStand_EmbedsFrame(t *testing.T) {
	h := Stand(StandConfig{Title: "Stand A", FrameURL: "http://identserver.local:8001/3ds-method-cross"}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test-cross", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`src="http://identserver.local:8001/3ds-method-cross"`,
		`id="uid-value"`, `id="mode-value"`, `id="channels"`,
		`<script src="/static/stand.v1.js"></script>`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("stand missing %q", want)
		}
	}
}

func TestStatic(t *testing.T) {
	h := Static()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/frame.v1.js", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "EvercookieFrame") {
		t.Fatalf("status=%d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Cache-Control"), "immutable") {
		t.Fatalf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/frame.html.tmpl", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("template should not be served, status=%d", rec.Code)
	}
}

// internal/relay/relay_test.go
package relay

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRelay_ForwardsValidatorAndCopiesHeaders(t *testing.T) {
	var seen string
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("If-None-Match")
		w.Header().Set("ETag", `"abc"`)
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.Header().Set("Expires", "Thu, 01 Jan 2037 00:00:00 GMT")
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("X-Internal", "secret")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer up.Close()

	rl, err := New(Config{Upstream: up.URL + "/cache-image"})
	if err != nil {
		t.Fatalf("New err=%v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/proxy-cache.png", nil)
	req.Header.Set("If-None-Match", `"abc"`)
	rec := httptest.NewRecorder()
	rl.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if seen != `"abc"` {
		t.Fatalf("upstream saw If-None-Match %q", seen)
	}
	if rec.Body.String() != "png-bytes" {
		t.Fatalf("body = %q", rec.Body.String())
	}
	for _, k := range []string{"ETag", "Cache-Control", "Expires", "Content-Type"} {
		if rec.Header().Get(k) == "" {
			t.Fatalf("header %s not copied", k)
		}
	}
	if rec.Header().Get("X-Internal") != "" {
		t.Fatalf("unexpected header copied")
	}
}

func TestRelay_UpstreamDownIs502(t *testing.T) {
	up := httptest.NewServer(http.NotFoundHandler())
	url := up.URL
	up.Close()

	rl, _ := New(Config{Upstream: url})
	rec := httptest.NewRecorder()
	rl.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/proxy-cache.png", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRelay_UpstreamErrorStatusIs502(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer up.Close()

	rl, _ := New(Config{Upstream: up.URL})
	rec := httptest.NewRecorder()
	rl.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/proxy-cache.png", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestNew_RequiresUpstream(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error")
	}
}

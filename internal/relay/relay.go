// internal/relay/relay.go
package relay

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds one upstream fetch.
const DefaultTimeout = 5 * time.Second

// maxBody bounds the relayed image.
const maxBody int64 = 1 << 20

// copied are the upstream headers the cache behaviour depends on.
var copied = []string{"ETag", "Cache-Control", "Expires", "Content-Type"}

type Config struct {
	// Upstream is the absolute URL of the third-party cache image.
	Upstream string
	Timeout  time.Duration
	Client   *http.Client
	Logger   *slog.Logger
}

// Relay serves the third-party cache image from the embedding origin,
// so the validator lands in the first-party cache partition.
type Relay struct {
	upstream string
	client   *http.Client
	logger   *slog.Logger
}

func New(cfg Config) (*Relay, error) {
	if cfg.Upstream == "" {
		return nil, errors.New("relay: upstream url required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Relay{upstream: cfg.Upstream, client: cfg.Client, logger: cfg.Logger}, nil
}

func (rl *Relay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, rl.upstream, nil)
	if err != nil {
		rl.fail(w, err)
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" {
		req.Header.Set("If-None-Match", inm)
	}

	resp, err := rl.client.Do(req)
	if err != nil {
		rl.fail(w, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotModified {
		rl.fail(w, errors.New("relay: upstream status "+resp.Status))
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		rl.fail(w, err)
		return
	}

	for _, k := range copied {
		if v := resp.Header.Get(k); v != "" {
			w.Header().Set(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(body)
}

func (rl *Relay) fail(w http.ResponseWriter, err error) {
	rl.logger.Warn("relay upstream failed", "upstream", rl.upstream, "error", err)
	http.Error(w, "upstream unavailable", http.StatusBadGateway)
}

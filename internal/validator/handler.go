// internal/validator/handler.go
package validator

import (
	"net/http"
	"strconv"

	"github.com/Spaceonmymind/even-cookie-fp/internal/identity"
)

// ValidatorParam is the query parameter accepted when no
// If-None-Match header is present.
const ValidatorParam = "validator"

// Handler serves the cache image. It always answers 200 with the full
// body so that clients without a cached copy still decode the id.
func (s *Service) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := identity.FromValidator(r.Header.Get("If-None-Match"))
		if v == "" {
			v = r.URL.Query().Get(ValidatorParam)
		}

		img, err := s.Image(v)
		if err != nil {
			s.logger.Error("cache image failed", "error", err)
			http.Error(w, "image unavailable", http.StatusInternalServerError)
			return
		}

		if img.Minted {
			s.logger.Info("minted identifier", "uid", img.ID)
		} else {
			s.logger.Debug("echoing identifier", "uid", img.ID)
		}

		h := w.Header()
		h.Set("Content-Type", "image/png")
		h.Set("Content-Length", strconv.Itoa(len(img.PNG)))
		h.Set("ETag", identity.Validator(img.ID))
		h.Set("Cache-Control", "public, max-age="+strconv.FormatInt(int64(s.maxAge.Seconds()), 10)+", immutable")
		h.Set("Expires", img.Expires.UTC().Format(http.TimeFormat))
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Expose-Headers", "ETag")

		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			_, _ = w.Write(img.PNG)
		}
	})
}

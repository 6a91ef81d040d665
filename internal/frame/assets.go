// internal/frame/assets.go
package frame

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/dop251/goja"
)

//go:embed assets/*.js assets/*.tmpl
var assets embed.FS

// Script names are versioned; a change in behaviour gets a new name so
// the immutable cache headers stay correct.
const (
	ScriptName      = "frame.v1.js"
	StandScriptName = "stand.v1.js"

	// StaticPrefix is where Static is mounted.
	StaticPrefix = "/static/"
)

var (
	frameTmpl = template.Must(template.ParseFS(assets, "assets/frame.html.tmpl"))
	standTmpl = template.Must(template.ParseFS(assets, "assets/stand.html.tmpl"))
)

// scripts lists the embedded executable assets.
func scripts() []string { return []string{ScriptName, StandScriptName} }

// Script returns the embedded source of one asset.
func Script(name string) ([]byte, error) {
	return fs.ReadFile(assets, path.Join("assets", name))
}

// CheckScript compiles every embedded script, so a broken asset fails
// at startup instead of in the browser.
func CheckScript() error {
	for _, name := range scripts() {
		src, err := Script(name)
		if err != nil {
			return fmt.Errorf("frame: read %s: %w", name, err)
		}
		if _, err := goja.Compile(name, string(src), true); err != nil {
			return fmt.Errorf("frame: compile %s: %w", name, err)
		}
	}
	return nil
}

// Static serves the embedded scripts under StaticPrefix with
// long-lived caching.
func Static() http.Handler {
	maxAge := strconv.FormatInt(int64((365 * 24 * time.Hour).Seconds()), 10)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Base(r.URL.Path)
		known := false
		for _, s := range scripts() {
			if s == name {
				known = true
				break
			}
		}
		if !known {
			http.NotFound(w, r)
			return
		}
		src, err := Script(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age="+maxAge+", immutable")
		_, _ = w.Write(src)
	})
}

// internal/frame/script_test.go
package frame

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/dop251/goja"

	"github.com/Spaceonmymind/even-cookie-fp/internal/pixel"
)

func loadScript(t *testing.T) *goja.Runtime {
	t.Helper()
	src, err := Script(ScriptName)
	if err != nil {
		t.Fatalf("Script err=%v", err)
	}
	vm := goja.New()
	if _, err := vm.RunScript(ScriptName, string(src)); err != nil {
		t.Fatalf("RunScript err=%v", err)
	}
	return vm
}

func run(t *testing.T, vm *goja.Runtime, expr string) goja.Value {
	t.Helper()
	v, err := vm.RunString(expr)
	if err != nil {
		t.Fatalf("%s: %v", expr, err)
	}
	return v
}

func TestCheckScript(t *testing.T) {
	if err := CheckScript(); err != nil {
		t.Fatalf("CheckScript err=%v", err)
	}
}

func TestScript_DecodeMatchesGoCodec(t *testing.T) {
	vm := loadScript(t)

	ids := []string{
		"0123456789abcdef0123456789abcdef",
		"a", "ab", "abc", "abcd",
		"minted1",
		"x-y_z.~!",
	}
	for _, id := range ids {
		img := pixel.Encode(id, pixel.DefaultWidth)

		data := make([]int, len(img.Pix))
		for i, b := range img.Pix {
			data[i] = int(b)
		}
		raw, _ := json.Marshal(data)

		got := run(t, vm, fmt.Sprintf("EvercookieFrame.decodePixels(%s, %d)", raw, pixel.DefaultWidth)).String()
		want := pixel.Decode(img, pixel.DefaultWidth)
		if got != want || got != id {
			t.Fatalf("id %q: js=%q go=%q", id, got, want)
		}
	}
}

func TestScript_DecodeDropsZeroGreenBlue(t *testing.T) {
	vm := loadScript(t)
	got := run(t, vm, "EvercookieFrame.decodePixels([65,0,66,255, 0,0,0,255], 2)").String()
	if got != "AB" {
		t.Fatalf("got %q", got)
	}
}

func TestScript_ChooseCanonical(t *testing.T) {
	vm := loadScript(t)

	cases := []struct {
		channels string
		want     string
	}{
		{`{cookie:"A", localStorage:"B", pngCache:"C"}`, "A"},
		{`{cookie:null, localStorage:"B", indexedDB:"D"}`, "B"},
		{`{sessionStorage:"S", indexedDB:"D"}`, "S"},
		{`{pngCache:"P"}`, "P"},
	}
	for _, c := range cases {
		got := run(t, vm, "EvercookieFrame.chooseCanonical("+c.channels+").id").String()
		if got != c.want {
			t.Fatalf("%s: got %q want %q", c.channels, got, c.want)
		}
	}

	if v := run(t, vm, "EvercookieFrame.chooseCanonical({})"); !goja.IsNull(v) {
		t.Fatalf("empty channels: got %v", v)
	}
}

func TestScript_OrderMatchesGo(t *testing.T) {
	vm := loadScript(t)
	got := run(t, vm, "EvercookieFrame.ORDER.join(',')").String()
	if got != "cookie,localStorage,sessionStorage,indexedDB,pngCache" {
		t.Fatalf("order = %s", got)
	}
}

func TestScript_RandomIdIsHex32(t *testing.T) {
	vm := loadScript(t)
	id := run(t, vm, "EvercookieFrame.randomId()").String()
	if len(id) != 32 {
		t.Fatalf("len = %d (%q)", len(id), id)
	}
	for _, r := range id {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Fatalf("non-hex id %q", id)
		}
	}
}

func TestScript_CookieAttributes(t *testing.T) {
	vm := loadScript(t)
	cases := map[string]string{
		`EvercookieFrame.cookieAttributes("cross", "https:")`: "; path=/; SameSite=None; Secure",
		`EvercookieFrame.cookieAttributes("cross", "http:")`:  "; path=/; SameSite=None",
		`EvercookieFrame.cookieAttributes("proxy", "https:")`: "; path=/; SameSite=Lax",
	}
	for expr, want := range cases {
		if got := run(t, vm, expr).String(); got != want {
			t.Fatalf("%s = %q", expr, got)
		}
	}
}

// internal/frame/mode.go
package frame

import "fmt"

// Mode is the delivery topology of the frame.
type Mode string

const (
	// Cross runs the frame on the third-party origin.
	Cross Mode = "cross"
	// Proxy runs the frame on the embedding origin and relays the image.
	Proxy Mode = "proxy"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Cross, Proxy:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("frame: unknown mode %q", s)
	}
}

// SameSite is the cookie policy the frame writes with in this mode.
func (m Mode) SameSite() string {
	if m == Cross {
		return "None"
	}
	return "Lax"
}

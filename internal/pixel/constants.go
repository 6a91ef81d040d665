// internal/pixel/constants.go
package pixel

// Strip layout constants.
// These values define the wire protocol shared with the frame script
// and MUST NOT be configurable per request.

// DefaultWidth is the strip width in pixels used by the servers and
// the frame script canvas.
const DefaultWidth = 200

// Height is the fixed strip height.
const Height = 1

// BytesPerPixel is the number of identifier bytes packed into one
// pixel (R, G, B).
const BytesPerPixel = 3

// Capacity returns the number of identifier bytes a strip of the given
// width can carry.
func Capacity(width int) int {
	if width <= 0 {
		width = DefaultWidth
	}
	return width * BytesPerPixel
}

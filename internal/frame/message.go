// internal/frame/message.go
package frame

import "github.com/Spaceonmymind/even-cookie-fp/internal/reconcile"

// MessageType tags the notification posted to the embedding page.
const MessageType = "DEVICE_ID"

// Message is what the frame tells its parent after a pass.
type Message struct {
	Type     string             `json:"type"`
	ID       string             `json:"id"`
	Mode     Mode               `json:"mode"`
	Channels reconcile.Snapshot `json:"channels"`
}

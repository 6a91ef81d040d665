// internal/channel/codec.go
package channel

import "github.com/fxamacker/cbor/v2"

// encMode uses Core Deterministic Encoding so the same record always
// produces identical bytes on disk.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("channel: CBOR encoder initialization failed: " + err.Error())
	}
}

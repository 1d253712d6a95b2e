package channel

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/vellumos/webview/internal/types"
)

// Encode marshals one message for the wire.
func Encode(msg types.Message) ([]byte, error) {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message on %q: %w", msg.Channel, err)
	}
	return data, nil
}

// Decode unmarshals one wire frame. Frames without a channel name are
// malformed and rejected.
func Decode(data []byte) (types.Message, error) {
	var msg types.Message
	if err := sonic.Unmarshal(data, &msg); err != nil {
		return types.Message{}, fmt.Errorf("decode message: %w", err)
	}
	if msg.Channel == "" {
		return types.Message{}, fmt.Errorf("decode message: missing channel name")
	}
	return msg, nil
}

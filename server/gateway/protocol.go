// Package gateway is the bidirectional channel between a connected,
// authenticated client and the chat service: message shapes, channel
// names, and ordering.
package gateway

import "encoding/json"

// Channel names the fixed set of message kinds on the wire. Handlers are
// bound per channel at connection registration; there is no open-ended
// dispatch.
type Channel string

const (
	// ChannelChatRequest carries one user chat turn (client to server).
	ChannelChatRequest Channel = "chat.request"
	// ChannelChatResponse carries one AI reply (server to client).
	ChannelChatResponse Channel = "chat.response"
	// ChannelChatEnd signals explicit session end (client to server).
	// The user identity comes from the connection's auth context.
	ChannelChatEnd Channel = "chat.end"
	// ChannelUnauthorized is emitted once when admission fails; no chat
	// channels are bound afterwards.
	ChannelUnauthorized Channel = "auth.unauthorized"
)

// Envelope frames every message in both directions.
type Envelope struct {
	Channel Channel         `json:"channel"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ChatRequestPayload is the chat.request payload.
type ChatRequestPayload struct {
	Message string `json:"message"`
	Ts      string `json:"ts,omitempty"`
}

// ChatResponsePayload is the chat.response payload.
type ChatResponsePayload struct {
	Message string `json:"message"`
	Ts      string `json:"ts"`
	Sender  string `json:"sender"`
}

// senderAI is the only sender value the server emits.
const senderAI = "ai"

func newEnvelope(channel Channel, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Channel: channel, Payload: data}, nil
}

package realtime

import "encoding/json"

const (
	FramePoolEntries      = "pool.entries"       // full list of today's pool entries
	FramePoolEntryCreated = "pool.entry.created" // one new pool entry
	FramePoolEntriesGet   = "pool.entries.get"   // client asks for the full list
	FrameError            = "error"
)

// Frame is the envelope of every websocket message in both directions.
type Frame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newFrame(frameType, requestID string, payload any) (Frame, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: frameType, RequestID: requestID, Payload: raw}, nil
}

func errorFrame(requestID, code, message string) Frame {
	frame, _ := newFrame(FrameError, requestID, ErrorPayload{Code: code, Message: message})
	return frame
}

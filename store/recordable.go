package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Recordable is anything that can be appended to the event log.
type Recordable interface {
	// TypeName is used during encoding/decoding to determine the concrete type
	// of the payload. Do NOT use %T, that changes when a type moves packages.
	TypeName() string

	Ts() time.Time

	SetId(int64) Recordable
}

var (
	decodersMu sync.RWMutex
	decoders   = make(map[string]func(data []byte) (Recordable, error))
)

// Register makes T decodable by Decode. Call it from an init func of the
// package that defines T.
func Register[T Recordable](t T) {
	decodersMu.Lock()
	defer decodersMu.Unlock()

	decoders[t.TypeName()] = func(data []byte) (Recordable, error) {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

type envelope struct {
	Type    string          `json:"type"`
	At      time.Time       `json:"at"`
	Payload json.RawMessage `json:"payload"`
}

type envelopeEncode struct {
	Type    string    `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

// Encode wraps r in a typed json envelope.
func Encode(r Recordable) ([]byte, error) {
	return json.Marshal(envelopeEncode{
		Type:    r.TypeName(),
		At:      r.Ts(),
		Payload: r,
	})
}

// Decode reverses Encode. The payload type must have been Register'd.
func Decode(data []byte) (Recordable, error) {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}

	decodersMu.RLock()
	d := decoders[e.Type]
	decodersMu.RUnlock()
	if d == nil {
		return nil, fmt.Errorf("unregistered event type: %s", e.Type)
	}

	return d(e.Payload)
}

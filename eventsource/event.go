// Package eventsource provides an append-only event store for notification
// streams, with in-memory and SQLite backends. Appends use optimistic
// concurrency: the writer states the stream version it expects, and a stale
// expectation fails without writing anything.
package eventsource

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is one immutable record in a stream.
type Event struct {
	// ID is a globally unique event identifier.
	ID string `json:"id"`

	// StreamID identifies the stream this event belongs to.
	StreamID string `json:"streamId"`

	// Type names the event for consumers.
	Type string `json:"type"`

	// Version is the event's position in its stream, assigned on append.
	// The first event of a stream has version 0.
	Version int `json:"version"`

	// Timestamp records when the event was created.
	Timestamp time.Time `json:"timestamp"`

	// Data is the JSON-encoded payload.
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent creates an event with a fresh ID and the payload marshaled to
// JSON. Version is assigned when the event is appended to a store.
func NewEvent(streamID, eventType string, data any) (*Event, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &Event{
		ID:        uuid.New().String(),
		StreamID:  streamID,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// Decode unmarshals the event payload into v.
func (e *Event) Decode(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// clone returns a deep copy, so stored history stays isolated from caller
// mutation.
func (e *Event) clone() *Event {
	c := *e
	if e.Data != nil {
		c.Data = append(json.RawMessage(nil), e.Data...)
	}
	return &c
}

package rabbitmq

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventPayload is the envelope every message on the bus is wrapped in.
type EventPayload struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func NewEvent(eventType string, payload any, at time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(EventPayload{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: at,
		Payload:    raw,
	})
}

package amqp

import (
	"encoding/json"
	"time"
)

// RecordChangedMessage announces that a persisted record was overwritten.
// It carries only the key and version; consumers read the value from the
// store.
type RecordChangedMessage struct {
	Key       string    `json:"key"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordChangedMessage(key string, version int64) *RecordChangedMessage {
	return &RecordChangedMessage{
		Key:       key,
		Version:   version,
		Timestamp: time.Now().UTC(),
	}
}

func (m *RecordChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordChangedMessageFromJSON(data []byte) (*RecordChangedMessage, error) {
	var msg RecordChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

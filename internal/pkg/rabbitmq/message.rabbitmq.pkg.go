package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Message struct {
	ID          string     `json:"id"`
	Body        []byte     `json:"content"`
	Type        string     `json:"type"`
	Headers     amqp.Table `json:"headers,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	ContentType string     `json:"content_type"`
}

func NewID(prefix string) (string, error) {
	gid, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s_%d", prefix, gid, time.Now().Unix()), nil
}

// NewMessage wraps payload for publishing. Strings and byte slices are sent
// as is, anything else is JSON encoded. msgType ends up in the AMQP type
// property so consumers can route without decoding.
func NewMessage(msgType string, payload any, headers amqp.Table) (*Message, error) {
	id, err := NewID("msg")
	if err != nil {
		return nil, err
	}

	var body []byte
	var contentType string
	switch v := payload.(type) {
	case string:
		body = []byte(v)
		contentType = "text/plain"
	case []byte:
		body = v
		contentType = "application/octet-stream"
	default:
		body, err = json.Marshal(v)
		if err != nil {
			return nil, err
		}
		contentType = "application/json"
	}

	if headers == nil {
		headers = amqp.Table{}
	}

	return &Message{
		ID:          id,
		Body:        body,
		Type:        msgType,
		Headers:     headers,
		Timestamp:   time.Now(),
		ContentType: contentType,
	}, nil
}

func (m *Message) GeneratePayload() *amqp.Publishing {
	m.Headers["id"] = m.ID

	return &amqp.Publishing{
		ContentType:  m.ContentType,
		Body:         m.Body,
		MessageId:    m.ID,
		Type:         m.Type,
		Timestamp:    m.Timestamp,
		DeliveryMode: amqp.Persistent,
		Headers:      m.Headers,
	}
}

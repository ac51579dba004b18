package outbound

import (
	"time"

	"github.com/google/uuid"
)

// Priority orders messages in the queue. Lower numeric value means higher
// priority, so Urgent sorts before everything else.
type Priority int8

const (
	PriorityUrgent Priority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow

	PriorityDefault = PriorityNormal
)

// Valid checks if the priority is within valid range
func (p Priority) Valid() bool {
	return p >= PriorityUrgent && p <= PriorityLow
}

func (p Priority) String() string {
	switch p {
	case PriorityUrgent:
		return "urgent"
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// ParsePriority converts a priority name into a Priority.
// Unknown names return PriorityDefault and false.
func ParsePriority(s string) (Priority, bool) {
	switch s {
	case "urgent":
		return PriorityUrgent, true
	case "high":
		return PriorityHigh, true
	case "normal":
		return PriorityNormal, true
	case "low":
		return PriorityLow, true
	default:
		return PriorityDefault, false
	}
}

// PayloadKind discriminates the two message payload shapes.
type PayloadKind string

const (
	PayloadText  PayloadKind = "text"
	PayloadMedia PayloadKind = "media"
)

// Media describes an attachment payload by reference. The queue never loads
// or inspects the referenced content; the transport resolves Ref.
type Media struct {
	Ref      string `json:"ref"`
	MIMEType string `json:"mime_type"`
	Caption  string `json:"caption,omitempty"`
}

// Payload is the message content. Exactly one kind is set: Body for text
// payloads, Media for media payloads.
type Payload struct {
	Kind  PayloadKind `json:"kind"`
	Body  string      `json:"body,omitempty"`
	Media Media       `json:"media,omitzero"`
}

// TextPayload builds a plain text payload.
func TextPayload(body string) Payload {
	return Payload{Kind: PayloadText, Body: body}
}

// MediaPayload builds a media payload with an optional caption.
func MediaPayload(ref, mimeType, caption string) Payload {
	return Payload{
		Kind:  PayloadMedia,
		Media: Media{Ref: ref, MIMEType: mimeType, Caption: caption},
	}
}

func (p Payload) validate() error {
	switch p.Kind {
	case PayloadText:
		return nil
	case PayloadMedia:
		if p.Media.Ref == "" {
			return ErrMediaRefRequired
		}
		return nil
	default:
		return ErrPayloadRequired
	}
}

// Status represents the delivery status of a message
type Status string

const (
	StatusPending   Status = "pending"
	StatusSending   Status = "sending"
	StatusSent      Status = "sent"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further automatic transition can occur.
func (s Status) Terminal() bool {
	return s == StatusSent || s == StatusFailed || s == StatusCancelled
}

// Message represents an outbound message in the queue
type Message struct {
	ID            uuid.UUID  `json:"id"`
	To            string     `json:"to"`
	Payload       Payload    `json:"payload"`
	Priority      Priority   `json:"priority"`
	Status        Status     `json:"status"`
	Attempts      int8       `json:"attempts"`
	MaxAttempts   int8       `json:"max_attempts"`
	ScheduledFor  *time.Time `json:"scheduled_for,omitempty"`
	NextAttemptAt *time.Time `json:"next_attempt_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`

	// Correlation with the owning support records; carried, never interpreted.
	CustomerID string `json:"customer_id,omitempty"`
	TicketID   string `json:"ticket_id,omitempty"`

	// Metadata is an opaque caller-defined bag passed through unmodified.
	Metadata map[string]any `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// sortsBefore reports whether m should be placed ahead of resident during
// insertion. When both messages carry a schedule the earlier schedule wins;
// otherwise the numerically smaller priority wins.
func (m *Message) sortsBefore(resident *Message) bool {
	if m.ScheduledFor != nil && resident.ScheduledFor != nil {
		return resident.ScheduledFor.After(*m.ScheduledFor)
	}
	return resident.Priority > m.Priority
}

// clone returns a copy safe to hand out; the metadata map is copied so caller
// mutations cannot reach store state.
func (m *Message) clone() Message {
	c := *m
	if m.ScheduledFor != nil {
		t := *m.ScheduledFor
		c.ScheduledFor = &t
	}
	if m.NextAttemptAt != nil {
		t := *m.NextAttemptAt
		c.NextAttemptAt = &t
	}
	if m.Metadata != nil {
		c.Metadata = make(map[string]any, len(m.Metadata))
		for k, v := range m.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// Stats holds aggregate queue counters recomputed from current store state.
// Total counts every message still in the store, cancelled included.
type Stats struct {
	Pending int `json:"pending"`
	Sending int `json:"sending"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

package logger

import (
	"fmt"
	"log/slog"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// MessageID records the message identifier under the key "message_id".
// If id is nil, it returns an empty Attr.
func MessageID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("message_id", id)
}

// Destination records the delivery endpoint under the key "destination".
func Destination(to string) slog.Attr {
	return slog.String("destination", to)
}

// Attempt records delivery attempt progress under the key "attempt",
// formatted as "current/max".
func Attempt(attempt, max int) slog.Attr {
	return slog.String("attempt", fmt.Sprintf("%d/%d", attempt, max))
}

// TicketID records the ticket identifier under the key "ticket_id".
// If id is empty, it returns an empty Attr.
func TicketID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("ticket_id", id)
}

// CustomerID records the customer identifier under the key "customer_id".
// If id is empty, it returns an empty Attr.
func CustomerID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("customer_id", id)
}

package outbound

import "context"

// Transport is the messaging capability the queue delivers through. The queue
// owns nothing about the transport's session lifecycle; it only asks for
// connectivity and all-or-nothing sends.
//
// A returned error, a panic, or a disconnected transport all count as one
// failed delivery attempt; there are no partial-success semantics.
type Transport interface {
	// Connected reports whether the transport can currently accept sends.
	Connected() bool

	// SendText delivers a plain text body to the destination endpoint.
	SendText(ctx context.Context, to, body string) error

	// SendMedia delivers a media attachment with an optional caption.
	SendMedia(ctx context.Context, to string, media Media) error
}

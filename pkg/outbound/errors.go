package outbound

import "errors"

// Common errors
var (
	// ErrTransportNil is returned when a nil transport is provided
	ErrTransportNil = errors.New("transport cannot be nil")

	// ErrQueueNil is returned when a nil queue is provided
	ErrQueueNil = errors.New("queue cannot be nil")

	// ErrDestinationRequired is returned when enqueueing without a destination
	ErrDestinationRequired = errors.New("destination cannot be empty")

	// ErrPayloadRequired is returned when the payload kind is missing or unknown
	ErrPayloadRequired = errors.New("payload must be text or media")

	// ErrMediaRefRequired is returned when a media payload has no media reference
	ErrMediaRefRequired = errors.New("media payload requires a media reference")

	// ErrTransportNotConnected marks a delivery attempt made while the
	// transport was offline; it counts as an ordinary failed attempt
	ErrTransportNotConnected = errors.New("transport not connected")

	// ErrDispatcherStarted is returned when starting an already running dispatcher
	ErrDispatcherStarted = errors.New("dispatcher already started")

	// ErrDispatcherNotStarted is returned when stopping a dispatcher that is not running
	ErrDispatcherNotStarted = errors.New("dispatcher not started")
)

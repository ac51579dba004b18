package outbound

import "time"

// EnqueueOption is a functional option for the Enqueue method
type EnqueueOption func(*enqueueOptions)

type enqueueOptions struct {
	priority    Priority
	maxAttempts int8
	delay       time.Duration
	scheduledAt *time.Time
	customerID  string
	ticketID    string
	metadata    map[string]any
}

// WithPriority sets the message priority
func WithPriority(priority Priority) EnqueueOption {
	return func(o *enqueueOptions) {
		if priority.Valid() {
			o.priority = priority
		}
	}
}

// WithMaxAttempts sets the delivery attempt budget (minimum 1)
func WithMaxAttempts(maxAttempts int8) EnqueueOption {
	return func(o *enqueueOptions) {
		if maxAttempts >= 1 {
			o.maxAttempts = maxAttempts
		}
	}
}

// WithDelay holds the message back for the given duration before it becomes
// eligible for dispatch
func WithDelay(delay time.Duration) EnqueueOption {
	return func(o *enqueueOptions) {
		if delay > 0 {
			o.delay = delay
		}
	}
}

// WithScheduledAt sets a specific not-before time for dispatch
func WithScheduledAt(scheduledAt time.Time) EnqueueOption {
	return func(o *enqueueOptions) {
		o.scheduledAt = &scheduledAt
	}
}

// WithCustomerID correlates the message with a customer record
func WithCustomerID(customerID string) EnqueueOption {
	return func(o *enqueueOptions) {
		o.customerID = customerID
	}
}

// WithTicketID correlates the message with a ticket record
func WithTicketID(ticketID string) EnqueueOption {
	return func(o *enqueueOptions) {
		o.ticketID = ticketID
	}
}

// WithMetadata attaches an opaque bag the queue carries but never reads
func WithMetadata(metadata map[string]any) EnqueueOption {
	return func(o *enqueueOptions) {
		o.metadata = metadata
	}
}

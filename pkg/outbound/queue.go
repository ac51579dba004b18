package outbound

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Queue is the in-memory store of outbound messages. It owns every message
// from enqueue until an explicit sweep, orders them for dispatch, and applies
// all status transitions. A single mutex serializes every mutation; snapshots
// handed out are copies and never alias store state.
//
// The queue is unbounded. Callers that enqueue faster than the transport can
// deliver are expected to watch Stats and sweep terminal messages themselves.
type Queue struct {
	mu       sync.Mutex
	messages []*Message
	byID     map[uuid.UUID]*Message

	now         func() time.Time
	backoffBase time.Duration
	backoffMax  time.Duration

	subs *subscribers
}

// QueueOption is a functional option for configuring a Queue
type QueueOption func(*Queue)

// WithClock overrides the queue's time source. Intended for tests that need
// deterministic scheduling and backoff deadlines.
func WithClock(now func() time.Time) QueueOption {
	return func(q *Queue) {
		if now != nil {
			q.now = now
		}
	}
}

// WithBackoff sets the base delay and cap for automatic retry backoff.
// The delay before attempt n+1 is base doubled per prior attempt, capped at max.
func WithBackoff(base, max time.Duration) QueueOption {
	return func(q *Queue) {
		if base > 0 {
			q.backoffBase = base
		}
		if max > 0 {
			q.backoffMax = max
		}
	}
}

// WithQueueLogger sets the logger used to report subscriber callback panics.
func WithQueueLogger(logger *slog.Logger) QueueOption {
	return func(q *Queue) {
		if logger != nil {
			q.subs.logger = logger
		}
	}
}

// NewQueue creates an empty message queue.
func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		byID:        make(map[uuid.UUID]*Message),
		now:         time.Now,
		backoffBase: time.Second,
		backoffMax:  30 * time.Second,
		subs:        newSubscribers(slog.Default()),
	}

	for _, opt := range opts {
		opt(q)
	}

	return q
}

// Enqueue adds a message to the queue and returns its id immediately; it
// never waits for delivery. The only validation is that a destination and a
// well-formed payload are present.
func (q *Queue) Enqueue(to string, payload Payload, opts ...EnqueueOption) (uuid.UUID, error) {
	if to == "" {
		return uuid.Nil, ErrDestinationRequired
	}
	if err := payload.validate(); err != nil {
		return uuid.Nil, err
	}

	options := &enqueueOptions{
		priority:    PriorityDefault,
		maxAttempts: 3,
	}
	for _, opt := range opts {
		opt(options)
	}

	now := q.now()
	msg := &Message{
		ID:          uuid.New(),
		To:          to,
		Payload:     payload,
		Priority:    options.priority,
		Status:      StatusPending,
		Attempts:    0,
		MaxAttempts: options.maxAttempts,
		CustomerID:  options.customerID,
		TicketID:    options.ticketID,
		Metadata:    options.metadata,
		CreatedAt:   now,
	}
	if options.scheduledAt != nil {
		t := *options.scheduledAt
		msg.ScheduledFor = &t
	} else if options.delay > 0 {
		t := now.Add(options.delay)
		msg.ScheduledFor = &t
	}

	q.mu.Lock()
	q.insert(msg)
	q.byID[msg.ID] = msg
	stats := q.statsLocked()
	q.mu.Unlock()

	q.subs.notifyStats(stats)

	return msg.ID, nil
}

// insert places msg before the first resident it sorts ahead of, appending
// when no such resident exists. Must be called with the mutex held.
func (q *Queue) insert(msg *Message) {
	for i, resident := range q.messages {
		if msg.sortsBefore(resident) {
			q.messages = slices.Insert(q.messages, i, msg)
			return
		}
	}
	q.messages = append(q.messages, msg)
}

// Cancel aborts a pending message. It reports false for any message that is
// not currently pending, including one already handed to the transport; an
// in-flight send is never interrupted and its outcome still lands.
func (q *Queue) Cancel(id uuid.UUID) bool {
	q.mu.Lock()
	msg, ok := q.byID[id]
	if !ok || msg.Status != StatusPending {
		q.mu.Unlock()
		return false
	}

	msg.Status = StatusCancelled
	stats := q.statsLocked()
	q.mu.Unlock()

	q.subs.notifyStats(stats)

	return true
}

// Get returns a snapshot of the message with the given id.
func (q *Queue) Get(id uuid.UUID) (Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	msg, ok := q.byID[id]
	if !ok {
		return Message{}, false
	}
	return msg.clone(), true
}

// List returns a snapshot of all messages in dispatch order.
func (q *Queue) List() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Message, 0, len(q.messages))
	for _, msg := range q.messages {
		out = append(out, msg.clone())
	}
	return out
}

// ListByStatus returns a snapshot of all messages with the given status.
func (q *Queue) ListByStatus(status Status) []Message {
	return q.filter(func(m *Message) bool { return m.Status == status })
}

// ListByCustomer returns a snapshot of all messages correlated to a customer.
func (q *Queue) ListByCustomer(customerID string) []Message {
	return q.filter(func(m *Message) bool { return m.CustomerID == customerID })
}

// ListByTicket returns a snapshot of all messages correlated to a ticket.
func (q *Queue) ListByTicket(ticketID string) []Message {
	return q.filter(func(m *Message) bool { return m.TicketID == ticketID })
}

func (q *Queue) filter(keep func(*Message) bool) []Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []Message
	for _, msg := range q.messages {
		if keep(msg) {
			out = append(out, msg.clone())
		}
	}
	return out
}

// SweepTerminal removes every sent, failed, and cancelled message and returns
// how many were removed. The store never prunes itself; this is the only way
// messages leave it.
func (q *Queue) SweepTerminal() int {
	q.mu.Lock()
	count := 0
	q.messages = slices.DeleteFunc(q.messages, func(m *Message) bool {
		if m.Status.Terminal() {
			delete(q.byID, m.ID)
			count++
			return true
		}
		return false
	})
	if count == 0 {
		q.mu.Unlock()
		return 0
	}
	stats := q.statsLocked()
	q.mu.Unlock()

	q.subs.notifyStats(stats)

	return count
}

// Retry resets a failed message back to pending with its full attempt budget
// restored. This is an operator action, distinct from automatic backoff
// retries which preserve the attempt counter.
func (q *Queue) Retry(id uuid.UUID) bool {
	q.mu.Lock()
	msg, ok := q.byID[id]
	if !ok || msg.Status != StatusFailed {
		q.mu.Unlock()
		return false
	}

	q.resetFailed(msg)
	stats := q.statsLocked()
	q.mu.Unlock()

	q.subs.notifyStats(stats)

	return true
}

// RetryAllFailed resets every failed message back to pending with attempts
// zeroed, returning how many were reset.
func (q *Queue) RetryAllFailed() int {
	q.mu.Lock()
	count := 0
	for _, msg := range q.messages {
		if msg.Status != StatusFailed {
			continue
		}
		msg.Attempts = 0
		// The guard always holds once attempts are zeroed; kept as the gate
		// for a partial-budget reset should one ever be introduced.
		if msg.Attempts < msg.MaxAttempts {
			msg.Status = StatusPending
			msg.NextAttemptAt = nil
			msg.LastError = ""
			count++
		}
	}
	if count == 0 {
		q.mu.Unlock()
		return 0
	}
	stats := q.statsLocked()
	q.mu.Unlock()

	q.subs.notifyStats(stats)

	return count
}

func (q *Queue) resetFailed(msg *Message) {
	msg.Status = StatusPending
	msg.Attempts = 0
	msg.NextAttemptAt = nil
	msg.LastError = ""
}

// Stats recomputes aggregate counters from current store state.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.statsLocked()
}

func (q *Queue) statsLocked() Stats {
	stats := Stats{Total: len(q.messages)}
	for _, msg := range q.messages {
		switch msg.Status {
		case StatusPending:
			stats.Pending++
		case StatusSending:
			stats.Sending++
		case StatusSent:
			stats.Sent++
		case StatusFailed:
			stats.Failed++
		}
	}
	return stats
}

// OnMessageSent registers a callback fired after each successful delivery.
func (q *Queue) OnMessageSent(cb func(Message)) {
	q.subs.addSent(cb)
}

// OnMessageFailed registers a callback fired when a message exhausts its
// attempt budget. The string is a human-readable description of the last
// transport error.
func (q *Queue) OnMessageFailed(cb func(Message, string)) {
	q.subs.addFailed(cb)
}

// OnStatsChanged registers a callback fired after every mutating operation
// with freshly recomputed counters.
func (q *Queue) OnStatsChanged(cb func(Stats)) {
	q.subs.addStats(cb)
}

// claim transitions up to limit eligible messages from pending to sending in
// dispatch order, incrementing each attempt counter before any transport call
// is made, and returns snapshots for delivery.
func (q *Queue) claim(limit int) []Message {
	if limit <= 0 {
		return nil
	}

	q.mu.Lock()
	now := q.now()
	var batch []Message
	for _, msg := range q.messages {
		if len(batch) == limit {
			break
		}
		if !q.eligible(msg, now) {
			continue
		}
		msg.Status = StatusSending
		msg.Attempts++
		batch = append(batch, msg.clone())
	}
	if len(batch) == 0 {
		q.mu.Unlock()
		return nil
	}
	stats := q.statsLocked()
	q.mu.Unlock()

	q.subs.notifyStats(stats)

	return batch
}

// eligible reports whether a message is due for dispatch: pending, past its
// schedule, and past any backoff deadline from a prior failed attempt.
func (q *Queue) eligible(msg *Message, now time.Time) bool {
	if msg.Status != StatusPending {
		return false
	}
	if msg.ScheduledFor != nil && msg.ScheduledFor.After(now) {
		return false
	}
	if msg.NextAttemptAt != nil && msg.NextAttemptAt.After(now) {
		return false
	}
	return true
}

// markSent records a successful delivery for a message previously claimed.
func (q *Queue) markSent(id uuid.UUID) (Message, bool) {
	q.mu.Lock()
	msg, ok := q.byID[id]
	if !ok || msg.Status != StatusSending {
		q.mu.Unlock()
		return Message{}, false
	}

	msg.Status = StatusSent
	msg.NextAttemptAt = nil
	msg.LastError = ""
	snapshot := msg.clone()
	stats := q.statsLocked()
	q.mu.Unlock()

	q.subs.notifySent(snapshot)
	q.subs.notifyStats(stats)

	return snapshot, true
}

// markFailed records a failed delivery attempt for a claimed message. With
// budget remaining the message returns to pending behind an exponential
// backoff deadline; otherwise it becomes terminally failed and the failure
// callbacks fire. The returned snapshot reflects the applied transition.
func (q *Queue) markFailed(id uuid.UUID, errMsg string) (Message, bool) {
	q.mu.Lock()
	msg, ok := q.byID[id]
	if !ok || msg.Status != StatusSending {
		q.mu.Unlock()
		return Message{}, false
	}

	msg.LastError = errMsg

	terminal := msg.Attempts >= msg.MaxAttempts
	if terminal {
		msg.Status = StatusFailed
		msg.NextAttemptAt = nil
	} else {
		msg.Status = StatusPending
		deadline := q.now().Add(q.backoffFor(msg.Attempts))
		msg.NextAttemptAt = &deadline
	}
	snapshot := msg.clone()
	stats := q.statsLocked()
	q.mu.Unlock()

	if terminal {
		q.subs.notifyFailed(snapshot, errMsg)
	}
	q.subs.notifyStats(stats)

	return snapshot, true
}

// backoffFor returns the delay before the attempt following the given one:
// the base delay doubled per prior attempt, capped at the configured maximum.
func (q *Queue) backoffFor(attempts int8) time.Duration {
	delay := q.backoffBase
	for i := int8(1); i < attempts; i++ {
		delay *= 2
		if delay >= q.backoffMax {
			return q.backoffMax
		}
	}
	return min(delay, q.backoffMax)
}

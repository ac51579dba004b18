// Package outbound provides an in-process delivery queue for outbound
// messages sent through an unreliable, rate-limited messaging transport.
//
// The package is organised around three main components:
//
//   - Queue      — ordered in-memory store of messages with their delivery state
//   - Dispatcher — periodic loop that claims eligible messages and drives them
//     through a Transport in bounded concurrent batches
//   - Transport  — the consumed capability: connectivity plus all-or-nothing
//     text and media sends
//
// A message is enqueued with a destination, a text or media payload, a
// priority, an optional not-before schedule, and an attempt budget. The queue
// orders messages at insertion time: when both compared messages carry a
// schedule the earlier schedule wins, otherwise the higher priority wins.
// The dispatcher scans that order on a fixed interval, claims at most one
// batch at a time, and delivers the batch concurrently so one slow message
// never blocks its siblings.
//
// # Delivery lifecycle
//
// Messages move pending → sending → sent. A failed transport call returns the
// message to pending behind an exponential backoff deadline while attempts
// remain, or marks it failed once the budget is exhausted. Pending messages
// can be cancelled; failed messages stay visible until swept or reset by an
// operator via Retry or RetryAllFailed, which restore the full budget.
//
// # Usage
//
//	q := outbound.NewQueue()
//	d, err := outbound.NewDispatcher(q, transport,
//	    outbound.WithDispatchInterval(2*time.Second),
//	    outbound.WithBatchSize(5),
//	)
//	if err != nil {
//	    return err
//	}
//
//	q.OnMessageSent(func(m outbound.Message) { /* update UI */ })
//	q.OnStatsChanged(func(s outbound.Stats) { /* refresh counters */ })
//
//	if err := d.Start(ctx); err != nil {
//	    return err
//	}
//	defer d.Stop()
//
//	id, err := q.Enqueue("5511999990000@c.us",
//	    outbound.TextPayload("your ticket was updated"),
//	    outbound.WithPriority(outbound.PriorityHigh),
//	    outbound.WithMaxAttempts(3),
//	    outbound.WithTicketID("TCK-1042"),
//	)
//
// # Delivery semantics
//
// Delivery is at-most-once per attempt and best-effort overall: the queue is
// not persisted across restarts and a message claimed by an in-flight send
// cannot be cancelled, though its outcome is still recorded. Subscriber
// callbacks are isolated; a panicking subscriber never breaks the operation
// that notified it.
package outbound

// Package queue carries session events between portal replicas.
package queue

import (
	"context"
	"ops-portal/internal/auth"
)

type Delivery struct {
	Data *auth.Event
	Ack  func()
	Nack func(requeue bool)
}

type EventQueue interface {
	Publish(ctx context.Context, ev auth.Event) error
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

// MemoryEventQueue serves a single replica, where the hub already reaches every subscriber.
type MemoryEventQueue struct {
	ch chan auth.Event
}

func NewMemoryEventQueue(bufferSize int) *MemoryEventQueue {
	return &MemoryEventQueue{ch: make(chan auth.Event, bufferSize)}
}

func (q *MemoryEventQueue) Publish(ctx context.Context, ev auth.Event) error {
	select {
	case q.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryEventQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-q.ch:
				d := Delivery{
					Data: &ev,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							select {
							case q.ch <- ev:
							default:
							}
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

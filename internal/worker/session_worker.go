package worker

import (
	"context"
	"ops-portal/internal/auth"
	"ops-portal/internal/queue"
	"ops-portal/pkg/logger"
	"time"

	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// WorkspaceDropper releases the in-memory state held for a session.
type WorkspaceDropper interface {
	Drop(sessionID string)
}

// SessionWorker applies session events published by any replica to this replica's workspaces.
type SessionWorker interface {
	Start(ctx context.Context) error
}

type SessionWorkerImpl struct {
	workspaces WorkspaceDropper
	queue      queue.EventQueue
}

func NewSessionWorker(workspaces WorkspaceDropper, queue queue.EventQueue) SessionWorker {
	return &SessionWorkerImpl{
		workspaces: workspaces,
		queue:      queue,
	}
}

func (w *SessionWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			w.handle(msg)
		}
	}()
	return nil
}

func (w *SessionWorkerImpl) handle(msg queue.Delivery) {
	ev := msg.Data
	if ev == nil || ev.SessionID == "" {
		msg.Nack(false)
		return
	}
	if ev.Type == auth.EventSignedOut {
		w.workspaces.Drop(ev.SessionID)
		logger.WithComponent("worker").Debug("workspace dropped", zap.String("session_id", ev.SessionID))
	}
	msg.Ack()
}

// Forward publishes every hub event to q. The returned func unsubscribes.
func Forward(hub *auth.Hub, q queue.EventQueue) func() {
	return hub.Subscribe(func(ev auth.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := q.Publish(ctx, ev); err != nil {
			logger.WithComponent("worker").Error("publish session event failed",
				zap.String("type", string(ev.Type)), zap.Error(err))
		}
	})
}

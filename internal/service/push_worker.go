package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PushDelivery is one queued fan-out request.
type PushDelivery struct {
	MemberID uuid.UUID
	Title    string
	Body     string
	URL      string
}

// PushWorker runs push fan-out on its own goroutine so callers never block
// on (or fail because of) delivery. Queued deliveries are drained before
// shutdown completes; nothing is left dangling at process exit.
type PushWorker struct {
	push   *PushService
	queue  chan PushDelivery
	stop   chan struct{}
	done   chan struct{} // closed when Run() exits
	logger *zap.Logger
}

func NewPushWorker(push *PushService, queueSize int, logger *zap.Logger) *PushWorker {
	return &PushWorker{
		push:   push,
		queue:  make(chan PushDelivery, queueSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger,
	}
}

func (w *PushWorker) Run() {
	defer close(w.done)

	for {
		select {
		case <-w.stop:
			// Drain whatever is already queued, then exit.
			for {
				select {
				case delivery := <-w.queue:
					w.deliver(delivery)
				default:
					return
				}
			}
		case delivery := <-w.queue:
			w.deliver(delivery)
		}
	}
}

// Enqueue never blocks; when the queue is full the delivery is dropped and
// logged. Push is best effort with no retry queue.
func (w *PushWorker) Enqueue(delivery PushDelivery) {
	select {
	case w.queue <- delivery:
	default:
		w.logger.Warn("push queue full, dropping delivery",
			zap.String("memberId", delivery.MemberID.String()))
	}
}

func (w *PushWorker) Stop() {
	close(w.stop)
	<-w.done
}

func (w *PushWorker) deliver(delivery PushDelivery) {
	err := w.push.Deliver(context.Background(), delivery.MemberID, delivery.Title, delivery.Body, delivery.URL)
	if err != nil {
		w.logger.Error("push fan-out failed",
			zap.String("memberId", delivery.MemberID.String()),
			zap.Error(err))
	}
}

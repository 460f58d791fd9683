package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aricom-studios/notification-server/pkg/metrics"
)

const (
	defaultQueueSize    = 1000
	defaultWriteTimeout = 5 * time.Second
)

// Recorder accepts audit events. The zero-value-safe interface lets callers
// record unconditionally; a nil Manager drops everything.
type Recorder interface {
	Record(event *Event)
}

// Manager fans audit events out to the configured sinks through an async
// queue. Recording never blocks request handling: events are dropped when
// the queue is full.
type Manager struct {
	sinks []Sink
	queue chan *Event
	log   *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a Manager over the given sinks.
func NewManager(sinks []Sink, log *zap.SugaredLogger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		sinks:  sinks,
		queue:  make(chan *Event, defaultQueueSize),
		log:    log.Named("audit"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the background worker.
func (m *Manager) Start() {
	m.wg.Add(1)
	go m.worker()
	m.log.Infow("Audit manager started", "sinks", len(m.sinks))
}

// Record enqueues an event for delivery to all sinks. Never blocks.
func (m *Manager) Record(event *Event) {
	if m == nil || event == nil {
		return
	}
	select {
	case <-m.ctx.Done():
		metrics.AuditEventsDropped.WithLabelValues("queue").Inc()
	case m.queue <- event:
	default:
		metrics.AuditEventsDropped.WithLabelValues("queue").Inc()
		m.log.Warnw("Audit queue full, dropping event",
			"eventID", event.ID,
			"eventType", event.Type)
	}
}

func (m *Manager) worker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.ctx.Done():
			// Drain whatever is already queued before exiting.
			for {
				select {
				case event := <-m.queue:
					m.write(event)
				default:
					return
				}
			}
		case event := <-m.queue:
			m.write(event)
		}
	}
}

func (m *Manager) write(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
	defer cancel()
	for _, sink := range m.sinks {
		if err := sink.Write(ctx, event); err != nil {
			metrics.AuditEventsFailed.WithLabelValues(sink.Name()).Inc()
			m.log.Warnw("Audit sink write failed",
				"sink", sink.Name(),
				"eventID", event.ID,
				"error", err)
		}
	}
}

// Stop shuts the worker down and closes all sinks.
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
	for _, sink := range m.sinks {
		if err := sink.Close(); err != nil {
			m.log.Warnw("Error closing audit sink", "sink", sink.Name(), "error", err)
		}
	}
	m.log.Info("Audit manager stopped")
}

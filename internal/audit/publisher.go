package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sink delivers one event. Implementations: KafkaSink for production,
// MemorySink for tests and brokerless deployments.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher decouples the issuance saga from broker latency: Emit enqueues
// onto a buffered channel and a single worker goroutine drains it. A full
// buffer drops the event with a log line rather than stalling an approval.
type Publisher struct {
	sink   Sink
	logger *slog.Logger
	inbox  chan Event

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewPublisher(sink Sink, buffer int, logger *slog.Logger) *Publisher {
	if buffer < 1 {
		buffer = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{
		sink:   sink,
		logger: logger,
		inbox:  make(chan Event, buffer),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Emit enqueues an event, stamping the time when unset. Never blocks.
func (p *Publisher) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("event buffer full, dropping lifecycle event",
			"event_type", string(event.Type),
			"document_id", event.DocumentID.String())
	}
}

// Close drains buffered events and stops the worker.
func (p *Publisher) Close() {
	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
}

func (p *Publisher) run() {
	defer close(p.done)
	for {
		select {
		case event := <-p.inbox:
			p.deliver(event)
		case <-p.stop:
			for {
				select {
				case event := <-p.inbox:
					p.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (p *Publisher) deliver(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.sink.Append(ctx, event); err != nil {
		p.logger.Error("deliver lifecycle event",
			"event_type", string(event.Type),
			"document_id", event.DocumentID.String(),
			"error", err)
	}
}

// MemorySink collects events in memory.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Append(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a snapshot of everything appended so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

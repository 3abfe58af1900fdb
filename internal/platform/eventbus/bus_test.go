package eventbus_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/harborblog/backend/internal/platform/eventbus"
)

// noopLogger satisfies logger.Logger for tests without producing output.
type noopLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *noopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (l *noopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (l *noopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (l *noopLogger) Error(ctx context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *noopLogger) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	bus := eventbus.NewBus(&noopLogger{})

	const topic eventbus.Topic = "post.deleted"

	var wg sync.WaitGroup
	wg.Add(2)

	var mu sync.Mutex
	var received []any

	handler := func(ctx context.Context, event eventbus.Event) error {
		mu.Lock()
		received = append(received, event.Payload)
		mu.Unlock()
		wg.Done()
		return nil
	}

	bus.Subscribe(topic, handler)
	bus.Subscribe(topic, handler)

	bus.Publish(context.Background(), eventbus.Event{Topic: topic, Payload: "payload"})

	if !waitTimeout(&wg, time.Second) {
		t.Fatal("timed out waiting for handlers")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 {
		t.Errorf("expected 2 deliveries, got %d", len(received))
	}
	for _, payload := range received {
		if payload != "payload" {
			t.Errorf("unexpected payload %v", payload)
		}
	}
}

func TestPublishWithNoSubscribersIsSilent(t *testing.T) {
	log := &noopLogger{}
	bus := eventbus.NewBus(log)

	// Must not panic or log.
	bus.Publish(context.Background(), eventbus.Event{Topic: "nobody.listens"})

	if log.errorCount() != 0 {
		t.Errorf("expected no errors logged, got %d", log.errorCount())
	}
}

func TestPublishLogsHandlerErrors(t *testing.T) {
	log := &noopLogger{}
	bus := eventbus.NewBus(log)

	const topic eventbus.Topic = "media.cleanup"

	done := make(chan struct{})
	bus.Subscribe(topic, func(ctx context.Context, event eventbus.Event) error {
		defer close(done)
		return errors.New("disk on fire")
	})

	bus.Publish(context.Background(), eventbus.Event{Topic: topic})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}

	// The error is logged from the dispatch goroutine after the handler
	// returns; give it a moment.
	deadline := time.Now().Add(time.Second)
	for log.errorCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if log.errorCount() != 1 {
		t.Errorf("expected 1 logged error, got %d", log.errorCount())
	}
}

func TestSubscribeIsConcurrencySafe(t *testing.T) {
	bus := eventbus.NewBus(&noopLogger{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Subscribe("concurrent", func(ctx context.Context, event eventbus.Event) error {
				return nil
			})
			bus.Publish(context.Background(), eventbus.Event{Topic: "concurrent"})
		}()
	}
	wg.Wait()
}

func waitTimeout(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

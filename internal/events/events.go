package events

import (
	"context"
	"sync"

	"github.com/Skotchmaster/hugelabz/pkg/logging"
)

const (
	TopicProducts = "product_events"
	TopicSerials  = "serial_events"
	TopicUsers    = "user_events"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

// Emit publishes best-effort: a failed publish is logged and swallowed.
func Emit(ctx context.Context, p Publisher, topic, key string, event any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "key", key, "error", err)
	}
}

type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }

type Message struct {
	Topic string
	Key   string
	Event any
}

// Recorder keeps every published event in memory.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
	Err      error
}

func (r *Recorder) Publish(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Messages = append(r.Messages, Message{Topic: topic, Key: key, Event: event})
	return nil
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Messages))
	for _, m := range r.Messages {
		if ev, ok := m.Event.(map[string]any); ok {
			if t, ok := ev["type"].(string); ok {
				out = append(out, t)
			}
		}
	}
	return out
}

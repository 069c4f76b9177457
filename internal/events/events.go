// Package events publishes tracker notifications for other processes, e.g. a
// gateway forwarding them over SSE. Publishing is always best-effort.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Channels.
const (
	ChannelStatusChanged   = "EVENT_STATUS_CHANGED"
	ChannelDigestGenerated = "EVENT_DIGEST_GENERATED"
)

// Event types carried in the payload's "type" field.
const (
	TypeStatusChanged   = "status.changed"
	TypeDigestGenerated = "digest.generated"
)

// Publisher delivers a JSON payload on a channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Nop drops every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, string, any) error { return nil }

// RedisPublisher publishes on Redis pub/sub.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher returns a Publisher backed by rdb.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish implements Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", channel, err)
	}
	return p.rdb.Publish(ctx, channel, b).Err()
}

// Message is one event captured by a Recorder.
type Message struct {
	Channel string
	Payload any
}

// Recorder keeps every published event in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, channel string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Channel: channel, Payload: payload})
	return nil
}

// Messages returns a copy of the recorded events.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

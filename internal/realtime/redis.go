package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"estate_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "notifications:"

// RedisBroker раздает события через Redis pub/sub, чтобы websocket-клиент
// получал уведомление независимо от того, какой инстанс его создал.
type RedisBroker struct {
	rdb *redis.Client
}

func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{rdb: rdb}
}

func channelFor(userID string) string {
	return channelPrefix + userID
}

func (b *RedisBroker) Publish(ctx context.Context, userID string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal realtime event: %w", err)
	}
	if err := b.rdb.Publish(ctx, channelFor(userID), payload).Err(); err != nil {
		return fmt.Errorf("publish realtime event for %s: %w", userID, err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, userID string) (<-chan Event, func(), error) {
	sub := b.rdb.Subscribe(ctx, channelFor(userID))
	// Ждем подтверждения подписки, иначе ранние события потеряются
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe to %s: %w", channelFor(userID), err)
	}

	out := make(chan Event, subscriberBuffer)
	done := make(chan struct{})

	go func() {
		defer close(out)
		msgs := sub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logger.Warn("Failed to parse realtime event", "channel", msg.Channel, "error", err)
					continue
				}
				select {
				case out <- event:
				default:
				}
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}

	return out, unsubscribe, nil
}

func (b *RedisBroker) Close() error {
	return b.rdb.Close()
}

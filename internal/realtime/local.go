package realtime

import (
	"context"
	"sync"
)

const subscriberBuffer = 32

// LocalBroker - брокер в памяти процесса, для одного инстанса и тестов.
type LocalBroker struct {
	mu     sync.RWMutex
	subs   map[string]map[chan Event]struct{}
	closed bool
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{
		subs: make(map[string]map[chan Event]struct{}),
	}
}

// Publish не блокируется: медленный подписчик теряет событие.
func (b *LocalBroker) Publish(ctx context.Context, userID string, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[userID] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (b *LocalBroker) Subscribe(ctx context.Context, userID string) (<-chan Event, func(), error) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}, nil
	}
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan Event]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[userID][ch]; !ok {
				return
			}
			delete(b.subs[userID], ch)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
			close(ch)
		})
	}

	return ch, unsubscribe, nil
}

func (b *LocalBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for userID, chans := range b.subs {
		for ch := range chans {
			close(ch)
		}
		delete(b.subs, userID)
	}
	return nil
}

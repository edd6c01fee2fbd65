package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBroker_PublishToSubscribers(t *testing.T) {
	b := NewLocalBroker()
	defer b.Close()
	ctx := context.Background()

	first, unsubFirst, err := b.Subscribe(ctx, "user-1")
	require.NoError(t, err)
	defer unsubFirst()
	second, unsubSecond, err := b.Subscribe(ctx, "user-1")
	require.NoError(t, err)
	defer unsubSecond()
	other, unsubOther, err := b.Subscribe(ctx, "user-2")
	require.NoError(t, err)
	defer unsubOther()

	require.NoError(t, b.Publish(ctx, "user-1", Event{NotificationID: "n-1", Title: "Booking Confirmed!"}))

	for _, ch := range []<-chan Event{first, second} {
		select {
		case ev := <-ch:
			assert.Equal(t, "n-1", ev.NotificationID)
		case <-time.After(time.Second):
			t.Fatal("событие не доставлено")
		}
	}

	select {
	case ev := <-other:
		t.Fatalf("чужой подписчик получил событие %+v", ev)
	default:
	}
}

func TestLocalBroker_Unsubscribe(t *testing.T) {
	b := NewLocalBroker()
	defer b.Close()
	ctx := context.Background()

	ch, unsubscribe, err := b.Subscribe(ctx, "user-1")
	require.NoError(t, err)

	unsubscribe()
	unsubscribe() // повторный вызов безопасен

	_, open := <-ch
	assert.False(t, open, "канал закрывается при отписке")

	// Публикация без подписчиков не ошибка
	assert.NoError(t, b.Publish(ctx, "user-1", Event{NotificationID: "n-2"}))
}

func TestLocalBroker_SlowSubscriberDropsEvents(t *testing.T) {
	b := NewLocalBroker()
	defer b.Close()
	ctx := context.Background()

	ch, unsubscribe, err := b.Subscribe(ctx, "user-1")
	require.NoError(t, err)
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+10; i++ {
		require.NoError(t, b.Publish(ctx, "user-1", Event{Title: "spam"}))
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestLocalBroker_Close(t *testing.T) {
	b := NewLocalBroker()
	ctx := context.Background()

	ch, unsubscribe, err := b.Subscribe(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, b.Close())
	_, open := <-ch
	assert.False(t, open)
	unsubscribe()

	late, _, err := b.Subscribe(ctx, "user-1")
	require.NoError(t, err)
	_, open = <-late
	assert.False(t, open, "после Close подписка сразу закрыта")
}

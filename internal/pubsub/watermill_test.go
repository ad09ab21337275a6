package pubsub

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeting struct {
	Text string `json:"text"`
}

func TestWatermillBridge_PublishSubscribe(t *testing.T) {
	bus := NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Message, 1)
	require.NoError(t, bus.Subscribe(ctx, "test.topic", func(ctx context.Context, msg Message) error {
		received <- msg
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, Message{
		Topic:    "test.topic",
		UserID:   "device-1",
		Payload:  []byte(`{"hello":"world"}`),
		Metadata: map[string]string{"request_id": "req-123", metaKeyUserID: "spoofed"},
	}))

	select {
	case msg := <-received:
		assert.Equal(t, "test.topic", msg.Topic)
		assert.Equal(t, "device-1", msg.UserID)
		assert.JSONEq(t, `{"hello":"world"}`, string(msg.Payload))
		assert.Equal(t, "req-123", msg.Metadata["request_id"])
		assert.NotContains(t, msg.Metadata, metaKeyUserID)
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestTypedEvent(t *testing.T) {
	bus := NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	event := NewEvent[greeting]("test.greeting", "a greeting")
	assert.Equal(t, "test.greeting", event.Name())
	assert.Equal(t, "a greeting", event.Description())

	got := make(chan greeting, 2)
	require.NoError(t, Subscribe(ctx, bus, event, func(ctx context.Context, g greeting) error {
		got <- g
		if g.Text == "fail" {
			return errors.New("handler failure")
		}
		return nil
	}))

	// A failing handler must not stall delivery of the next message.
	require.NoError(t, Publish(ctx, bus, event, "device-1", greeting{Text: "fail"}))
	require.NoError(t, Publish(ctx, bus, event, "device-1", greeting{Text: "hi"}))

	for _, want := range []string{"fail", "hi"} {
		select {
		case g := <-got:
			assert.Equal(t, want, g.Text)
		case <-time.After(2 * time.Second):
			t.Fatalf("typed event %q not delivered", want)
		}
	}
}

func TestWatermillBridge_PreservesOrder(t *testing.T) {
	bus := NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const n = 20
	got := make(chan string, n)
	require.NoError(t, bus.Subscribe(ctx, "test.order", func(ctx context.Context, msg Message) error {
		got <- string(msg.Payload)
		return nil
	}))

	for i := 0; i < n; i++ {
		require.NoError(t, bus.Publish(ctx, Message{Topic: "test.order", Payload: []byte(strconv.Itoa(i))}))
	}

	for i := 0; i < n; i++ {
		select {
		case p := <-got:
			assert.Equal(t, strconv.Itoa(i), p)
		case <-time.After(2 * time.Second):
			t.Fatalf("message %d not delivered", i)
		}
	}
}

func TestWatermillBridge_CloseTwice(t *testing.T) {
	bus := NewWatermillBridge()
	assert.NoError(t, bus.Close())
	assert.NoError(t, bus.Close())
}

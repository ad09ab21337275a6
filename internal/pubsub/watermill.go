package pubsub

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// WatermillBridge implements Bus on top of watermill's in-memory GoChannel.
type WatermillBridge struct {
	pub    message.Publisher
	sub    message.Subscriber
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

const (
	// Metadata keys used to carry Message fields through watermill's message.
	metaKeyUserID = "user_id"
	metaKeyTopic  = "topic"
)

// NewWatermillBridge creates an in-memory bus.
func NewWatermillBridge() *WatermillBridge {
	logger := slog.Default().With("service", "pubsub")
	goChannel := gochannel.NewGoChannel(
		// Blocking until the ack keeps delivery in publish order.
		gochannel.Config{OutputChannelBuffer: 64, BlockPublishUntilSubscriberAck: true},
		&slogAdapter{logger: logger},
	)

	return &WatermillBridge{
		pub:    goChannel,
		sub:    goChannel,
		logger: logger,
	}
}

func toWatermill(msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)
	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}
	// Reserved keys win over caller metadata.
	wmMsg.Metadata.Set(metaKeyUserID, msg.UserID)
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)
	return wmMsg
}

func fromWatermill(wmMsg *message.Message) Message {
	metadata := make(map[string]string, len(wmMsg.Metadata))
	for k, v := range wmMsg.Metadata {
		if k != metaKeyUserID && k != metaKeyTopic {
			metadata[k] = v
		}
	}
	return Message{
		Topic:    wmMsg.Metadata.Get(metaKeyTopic),
		UserID:   wmMsg.Metadata.Get(metaKeyUserID),
		Payload:  wmMsg.Payload,
		Metadata: metadata,
	}
}

// Publish implements Publisher.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	return wb.pub.Publish(msg.Topic, toWatermill(msg))
}

// Subscribe implements Subscriber. Handler errors are logged and the message
// is acknowledged anyway: the in-memory bus would otherwise redeliver it
// forever.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.sub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for wmMsg := range messages {
			if err := handler(wmMsg.Context(), fromWatermill(wmMsg)); err != nil {
				wb.logger.Error("Failed to handle message", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
			}
			wmMsg.Ack()
		}
		wb.logger.Debug("Subscription message loop ended", "topic", topic)
	}()

	return nil
}

// Close shuts the bus down. It is safe to call more than once.
func (wb *WatermillBridge) Close() error {
	wb.closeOnce.Do(func() {
		wb.closeErr = wb.sub.Close()
	})
	return wb.closeErr
}

// slogAdapter routes watermill's internal logging into slog.
type slogAdapter struct {
	logger *slog.Logger
}

func attrs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error(msg, append(attrs(fields), "error", err)...)
}

func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Info(msg, attrs(fields)...)
}

func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, attrs(fields)...)
}

func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, attrs(fields)...)
}

func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{logger: a.logger.With(attrs(fields)...)}
}

package account

import (
	"context"
	"log/slog"

	"github.com/nfrund/starbeam/internal/pubsub"
)

// Event is the payload of account lifecycle events. It never carries the
// secret.
type Event struct {
	Namespace string `json:"namespace"`
	PublicKey string `json:"public_key,omitempty"`
}

var (
	Created = pubsub.NewEvent[Event]("account.created", "An account keypair was created and recorded")
	Deleted = pubsub.NewEvent[Event]("account.deleted", "An account was erased from the vault and storage")
)

// Topics lists every account event.
var Topics = []pubsub.Topic{Created, Deleted}

// StartAudit logs every account event received on sub until ctx ends.
func StartAudit(ctx context.Context, sub pubsub.Subscriber) error {
	logger := slog.Default().With("service", "account.audit")

	if err := pubsub.Subscribe(ctx, sub, Created, func(ctx context.Context, e Event) error {
		logger.Info("account created", "namespace", e.Namespace, "public_key", e.PublicKey)
		return nil
	}); err != nil {
		return err
	}
	return pubsub.Subscribe(ctx, sub, Deleted, func(ctx context.Context, e Event) error {
		logger.Info("account deleted", "namespace", e.Namespace)
		return nil
	})
}

package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/specialist-marketplace/internal/events"
	"github.com/spec-kit/specialist-marketplace/internal/storage"
)

// StartCleanupWorker subscribes handlers that remove orphaned objects from
// storage and log lifecycle events. Storage deletion is best-effort: the
// rows are already soft-deleted, a leftover object only costs space.
func StartCleanupWorker(dispatcher events.Dispatcher, store storage.ObjectStore, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	dispatcher.Subscribe(events.EventMediaRemoved, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.MediaRemovedPayload)
		if !ok {
			return nil
		}
		for _, key := range payload.StorageKeys {
			if err := store.Delete(ctx, key); err != nil {
				logger.Warn("failed to delete stored object",
					zap.String("key", key), zap.Error(err))
			}
		}
		return nil
	})

	dispatcher.Subscribe(events.EventUserRegistered, func(_ context.Context, event events.Event) error {
		logger.Info("UserRegistered", zap.Any("payload", event.Payload))
		return nil
	})

	dispatcher.Subscribe(events.EventSpecialistCreated, func(_ context.Context, event events.Event) error {
		logger.Info("SpecialistCreated", zap.Any("payload", event.Payload))
		return nil
	})

	dispatcher.Subscribe(events.EventSpecialistDeleted, func(_ context.Context, event events.Event) error {
		logger.Info("SpecialistDeleted", zap.Any("payload", event.Payload))
		return nil
	})
}

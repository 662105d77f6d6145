package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campushire/platform/internal/events"
	"github.com/campushire/platform/internal/repository"
)

// ActivityRecorder mirrors domain events into the admin activity feed.
type ActivityRecorder struct {
	feed   repository.ActivityFeed
	logger *zap.Logger
}

// NewActivityRecorder creates the recorder.
func NewActivityRecorder(feed repository.ActivityFeed, logger *zap.Logger) *ActivityRecorder {
	return &ActivityRecorder{feed: feed, logger: logger}
}

// RegisterHandlers subscribes the recorder to every event type.
func (a *ActivityRecorder) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventAccountRegistered,
		events.EventVerificationResent,
		events.EventPasswordResetRequested,
		events.EventApplicationSubmitted,
		events.EventApplicationStatusChanged,
		events.EventEventRegistered,
	} {
		dispatcher.Subscribe(eventType, a.record)
	}
}

func (a *ActivityRecorder) record(ctx context.Context, event events.Event) error {
	if err := a.feed.Push(ctx, event); err != nil {
		a.logger.Warn("activity feed push failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
	return nil
}

package worker

import (
	"github.com/campushire/platform/internal/events"
	"github.com/campushire/platform/internal/service"
)

// StartNotificationWorker registers the event subscribers: mail delivery and
// the admin activity feed.
func StartNotificationWorker(notifications *service.NotificationService, recorder *service.ActivityRecorder, dispatcher events.Dispatcher) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if recorder != nil {
		recorder.RegisterHandlers(dispatcher)
	}
}

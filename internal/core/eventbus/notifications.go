package eventbus

import (
	"fmt"

	"github.com/colonyops/calm/internal/core/daily"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
)

// NotificationRouter maps domain events to user-facing notifications.
type NotificationRouter struct {
	bus *EventBus
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
func NewNotificationRouter(bus *EventBus) *NotificationRouter {
	return &NotificationRouter{bus: bus}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil {
		return
	}

	r.bus.SubscribeTaskCompleted(func(p TaskCompletedPayload) {
		r.notifyf(LevelSuccess, "completed %q", p.Task.Title)
	})

	r.bus.SubscribeTaskRescheduled(func(p TaskRescheduledPayload) {
		if p.Decommitted {
			r.notifyf(LevelInfo, "%q moved off today's commitments", p.Task.Title)
		}
	})

	r.bus.SubscribeDailyRitualCompleted(func(p DailyRitualCompletedPayload) {
		switch p.Ritual {
		case daily.RitualEvening:
			r.notifyf(LevelSuccess, "evening review done for %s", p.Ledger.DateKey)
		case daily.RitualReset:
			r.notifyf(LevelSuccess, "welcome back, reset done for %s", p.Ledger.DateKey)
		default:
			r.notifyf(LevelInfo, "%s ritual done for %s", p.Ritual, p.Ledger.DateKey)
		}
	})

	r.bus.SubscribeIdeaArchived(func(p IdeaArchivedPayload) {
		r.notifyf(LevelInfo, "idea %q archived", p.Idea.Title)
	})
}

func (r *NotificationRouter) notifyf(level Level, format string, args ...any) {
	r.bus.PublishNotificationPublished(NotificationPublishedPayload{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}

// Package eventbus provides a typed publish/subscribe event bus for domain
// change events within calm.
package eventbus

import (
	"github.com/colonyops/calm/internal/core/daily"
	"github.com/colonyops/calm/internal/core/idea"
	"github.com/colonyops/calm/internal/core/task"
)

// Keep list sorted A-Z
const (
	EventDailyCommitmentsChanged Event = "daily.commitments-changed"
	EventDailyRitualCompleted    Event = "daily.ritual-completed"
	EventIdeaArchived            Event = "idea.archived"
	EventIdeaCreated             Event = "idea.created"
	EventIdeaReordered           Event = "idea.reordered"
	EventNotificationPublished   Event = "notification.published"
	EventTaskCompleted           Event = "task.completed"
	EventTaskCreated             Event = "task.created"
	EventTaskDropped             Event = "task.dropped"
	EventTaskRescheduled         Event = "task.rescheduled"
	EventTaskUpdated             Event = "task.updated"
)

// All lists every event the bus carries.
var All = []Event{
	EventDailyCommitmentsChanged,
	EventDailyRitualCompleted,
	EventIdeaArchived,
	EventIdeaCreated,
	EventIdeaReordered,
	EventNotificationPublished,
	EventTaskCompleted,
	EventTaskCreated,
	EventTaskDropped,
	EventTaskRescheduled,
	EventTaskUpdated,
}

// TaskCreatedPayload is emitted when a task is created.
type TaskCreatedPayload struct {
	Task task.Task `json:"task"`
}

// TaskUpdatedPayload is emitted when a task's title or session length changes.
type TaskUpdatedPayload struct {
	Task task.Task `json:"task"`
}

// TaskCompletedPayload is emitted when an active task is marked done.
type TaskCompletedPayload struct {
	Task task.Task `json:"task"`
}

// TaskDroppedPayload is emitted when an active task is dropped.
type TaskDroppedPayload struct {
	Task task.Task `json:"task"`
}

// TaskRescheduledPayload is emitted when a task's due date changes.
// Decommitted is set when the change removed it from today's ledger.
type TaskRescheduledPayload struct {
	Task        task.Task `json:"task"`
	OldDueDate  *string   `json:"old_due_date"`
	Decommitted bool      `json:"decommitted"`
}

// IdeaCreatedPayload is emitted when an idea is captured.
type IdeaCreatedPayload struct {
	Idea idea.Idea `json:"idea"`
}

// IdeaReorderedPayload is emitted after a move or reorder wrote new ranks.
type IdeaReorderedPayload struct {
	IdeaID  string `json:"idea_id"`
	Written int    `json:"written"`
}

// IdeaArchivedPayload is emitted when an idea is archived.
type IdeaArchivedPayload struct {
	Idea idea.Idea `json:"idea"`
}

// DailyCommitmentsChangedPayload is emitted when a ledger's commitment set changes.
type DailyCommitmentsChangedPayload struct {
	Ledger daily.Ledger `json:"ledger"`
}

// DailyRitualCompletedPayload is emitted when a ritual is stamped.
type DailyRitualCompletedPayload struct {
	Ledger daily.Ledger `json:"ledger"`
	Ritual daily.Ritual `json:"ritual"`
}

// NotificationPublishedPayload is a short human readable message derived
// from other events.
type NotificationPublishedPayload struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// PublishDailyCommitmentsChanged enqueues a daily.commitments-changed event.
func (bus *EventBus) PublishDailyCommitmentsChanged(p DailyCommitmentsChangedPayload) {
	bus.send(EventDailyCommitmentsChanged, p)
}

// SubscribeDailyCommitmentsChanged registers fn for daily.commitments-changed events.
func (bus *EventBus) SubscribeDailyCommitmentsChanged(fn func(DailyCommitmentsChangedPayload)) {
	bus.subscribe(EventDailyCommitmentsChanged, func(v any) {
		if p, ok := v.(DailyCommitmentsChangedPayload); ok {
			fn(p)
		}
	})
}

// PublishDailyRitualCompleted enqueues a daily.ritual-completed event.
func (bus *EventBus) PublishDailyRitualCompleted(p DailyRitualCompletedPayload) {
	bus.send(EventDailyRitualCompleted, p)
}

// SubscribeDailyRitualCompleted registers fn for daily.ritual-completed events.
func (bus *EventBus) SubscribeDailyRitualCompleted(fn func(DailyRitualCompletedPayload)) {
	bus.subscribe(EventDailyRitualCompleted, func(v any) {
		if p, ok := v.(DailyRitualCompletedPayload); ok {
			fn(p)
		}
	})
}

// PublishIdeaArchived enqueues a idea.archived event.
func (bus *EventBus) PublishIdeaArchived(p IdeaArchivedPayload) {
	bus.send(EventIdeaArchived, p)
}

// SubscribeIdeaArchived registers fn for idea.archived events.
func (bus *EventBus) SubscribeIdeaArchived(fn func(IdeaArchivedPayload)) {
	bus.subscribe(EventIdeaArchived, func(v any) {
		if p, ok := v.(IdeaArchivedPayload); ok {
			fn(p)
		}
	})
}

// PublishIdeaCreated enqueues a idea.created event.
func (bus *EventBus) PublishIdeaCreated(p IdeaCreatedPayload) {
	bus.send(EventIdeaCreated, p)
}

// SubscribeIdeaCreated registers fn for idea.created events.
func (bus *EventBus) SubscribeIdeaCreated(fn func(IdeaCreatedPayload)) {
	bus.subscribe(EventIdeaCreated, func(v any) {
		if p, ok := v.(IdeaCreatedPayload); ok {
			fn(p)
		}
	})
}

// PublishIdeaReordered enqueues a idea.reordered event.
func (bus *EventBus) PublishIdeaReordered(p IdeaReorderedPayload) {
	bus.send(EventIdeaReordered, p)
}

// SubscribeIdeaReordered registers fn for idea.reordered events.
func (bus *EventBus) SubscribeIdeaReordered(fn func(IdeaReorderedPayload)) {
	bus.subscribe(EventIdeaReordered, func(v any) {
		if p, ok := v.(IdeaReorderedPayload); ok {
			fn(p)
		}
	})
}

// PublishNotificationPublished enqueues a notification.published event.
func (bus *EventBus) PublishNotificationPublished(p NotificationPublishedPayload) {
	bus.send(EventNotificationPublished, p)
}

// SubscribeNotificationPublished registers fn for notification.published events.
func (bus *EventBus) SubscribeNotificationPublished(fn func(NotificationPublishedPayload)) {
	bus.subscribe(EventNotificationPublished, func(v any) {
		if p, ok := v.(NotificationPublishedPayload); ok {
			fn(p)
		}
	})
}

// PublishTaskCompleted enqueues a task.completed event.
func (bus *EventBus) PublishTaskCompleted(p TaskCompletedPayload) {
	bus.send(EventTaskCompleted, p)
}

// SubscribeTaskCompleted registers fn for task.completed events.
func (bus *EventBus) SubscribeTaskCompleted(fn func(TaskCompletedPayload)) {
	bus.subscribe(EventTaskCompleted, func(v any) {
		if p, ok := v.(TaskCompletedPayload); ok {
			fn(p)
		}
	})
}

// PublishTaskCreated enqueues a task.created event.
func (bus *EventBus) PublishTaskCreated(p TaskCreatedPayload) {
	bus.send(EventTaskCreated, p)
}

// SubscribeTaskCreated registers fn for task.created events.
func (bus *EventBus) SubscribeTaskCreated(fn func(TaskCreatedPayload)) {
	bus.subscribe(EventTaskCreated, func(v any) {
		if p, ok := v.(TaskCreatedPayload); ok {
			fn(p)
		}
	})
}

// PublishTaskDropped enqueues a task.dropped event.
func (bus *EventBus) PublishTaskDropped(p TaskDroppedPayload) {
	bus.send(EventTaskDropped, p)
}

// SubscribeTaskDropped registers fn for task.dropped events.
func (bus *EventBus) SubscribeTaskDropped(fn func(TaskDroppedPayload)) {
	bus.subscribe(EventTaskDropped, func(v any) {
		if p, ok := v.(TaskDroppedPayload); ok {
			fn(p)
		}
	})
}

// PublishTaskRescheduled enqueues a task.rescheduled event.
func (bus *EventBus) PublishTaskRescheduled(p TaskRescheduledPayload) {
	bus.send(EventTaskRescheduled, p)
}

// SubscribeTaskRescheduled registers fn for task.rescheduled events.
func (bus *EventBus) SubscribeTaskRescheduled(fn func(TaskRescheduledPayload)) {
	bus.subscribe(EventTaskRescheduled, func(v any) {
		if p, ok := v.(TaskRescheduledPayload); ok {
			fn(p)
		}
	})
}

// PublishTaskUpdated enqueues a task.updated event.
func (bus *EventBus) PublishTaskUpdated(p TaskUpdatedPayload) {
	bus.send(EventTaskUpdated, p)
}

// SubscribeTaskUpdated registers fn for task.updated events.
func (bus *EventBus) SubscribeTaskUpdated(fn func(TaskUpdatedPayload)) {
	bus.subscribe(EventTaskUpdated, func(v any) {
		if p, ok := v.(TaskUpdatedPayload); ok {
			fn(p)
		}
	})
}

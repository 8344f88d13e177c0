package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"taskdesk.com/taskdesk/internal/constants"
)

// EventData is the type-specific event payload, stored as a JSON text column.
type EventData map[string]interface{}

func (d EventData) Value() (driver.Value, error) {
	if d == nil {
		d = EventData{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *EventData) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = EventData{}
		return nil
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	}
	return fmt.Errorf("unsupported event data type %T", value)
}

// TaskEvent is an append-only audit record. Rows are never updated or deleted;
// EventID is assigned by the store and breaks ties between same-timestamp events.
type TaskEvent struct {
	EventID     uint64              `gorm:"primaryKey;autoIncrement" json:"event_id"`
	TaskID      string              `gorm:"size:36;not null;index" json:"task_id"`
	TenantID    string              `gorm:"not null;index" json:"tenant_id"`
	WorkspaceID string              `gorm:"not null" json:"workspace_id"`
	EventType   constants.EventType `gorm:"type:varchar(30);not null" json:"event_type"`
	EventData   EventData           `gorm:"type:text;not null" json:"event_data"`
	CreatedAt   time.Time           `gorm:"index" json:"created_at"`
}

func NewTaskCreatedEvent(task *Task) *TaskEvent {
	return newEvent(task, constants.EventTaskCreated, EventData{
		"title":         task.Title,
		"priority":      task.Priority,
		"initial_state": task.State,
	})
}

// NewTaskAssignedEvent captures the delta before the aggregate is mutated, so
// task.AssigneeID is still the previous assignee here.
func NewTaskAssignedEvent(task *Task, assigneeID string) *TaskEvent {
	return newEvent(task, constants.EventTaskAssigned, EventData{
		"assignee_id":       assigneeID,
		"previous_assignee": assigneePayload(task.AssigneeID),
	})
}

func NewTaskStateChangedEvent(task *Task, from, to constants.TaskState, changedBy constants.Role) *TaskEvent {
	return newEvent(task, constants.EventTaskStateChanged, EventData{
		"from_state": from,
		"to_state":   to,
		"changed_by": changedBy,
	})
}

func newEvent(task *Task, eventType constants.EventType, data EventData) *TaskEvent {
	return &TaskEvent{
		TaskID:      task.TaskID,
		TenantID:    task.TenantID,
		WorkspaceID: task.WorkspaceID,
		EventType:   eventType,
		EventData:   data,
		CreatedAt:   time.Now().UTC(),
	}
}

func assigneePayload(assignee *string) interface{} {
	if assignee == nil {
		return nil
	}
	return *assignee
}

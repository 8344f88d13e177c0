package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"taskdesk.com/taskdesk/internal/constants"
	model "taskdesk.com/taskdesk/internal/models"
)

const DefaultPageSize = 20

type TaskRepository struct {
	db *gorm.DB
}

var ErrOptimisticLock = errors.New("optimistic locking conflict")

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts the task together with its TASK_CREATED event. Both rows
// commit or roll back as one unit.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, event *model.TaskEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return tx.Create(event).Error
	})
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "task_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

type TaskFilter struct {
	State      constants.TaskState
	AssigneeID string
	Limit      int
	Cursor     string
}

// FindByWorkspace lists tasks newest first. It fetches limit+1 rows to decide
// whether a next page exists; the returned cursor encodes the created_at of
// the last task on the page, or nil on the terminal page.
func (r *TaskRepository) FindByWorkspace(ctx context.Context, workspaceID string, filter TaskFilter) ([]model.Task, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	query := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceID)
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.AssigneeID != "" {
		query = query.Where("assignee_id = ?", filter.AssigneeID)
	}
	if boundary, ok := decodeCursor(filter.Cursor); ok {
		query = query.Where("created_at < ?", boundary)
	}

	var tasks []model.Task
	if err := query.Order("created_at desc").Limit(limit + 1).Find(&tasks).Error; err != nil {
		return nil, nil, err
	}

	var nextCursor *string
	if len(tasks) > limit {
		tasks = tasks[:limit]
		cursor := encodeCursor(tasks[len(tasks)-1].CreatedAt)
		nextCursor = &cursor
	}

	return tasks, nextCursor, nil
}

// UpdateWithVersion is the single conflict-detection point: the UPDATE only
// matches when the stored version still equals expectedVersion, and the event
// row joins it in the same transaction. Zero affected rows means a concurrent
// writer won and nothing was written.
func (r *TaskRepository) UpdateWithVersion(ctx context.Context, task *model.Task, expectedVersion uint, event *model.TaskEvent) error {
	now := time.Now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Task{}).
			Where("task_id = ? AND version = ?", task.TaskID, expectedVersion).
			Updates(map[string]interface{}{
				"title":       task.Title,
				"priority":    task.Priority,
				"state":       task.State,
				"assignee_id": task.AssigneeID,
				"version":     gorm.Expr("version + 1"),
				"updated_at":  now,
			})

		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOptimisticLock
		}

		return tx.Create(event).Error
	})
	if err != nil {
		return err
	}

	task.Version = expectedVersion + 1
	task.UpdatedAt = now
	return nil
}

func (r *TaskRepository) FindEventsByTaskID(ctx context.Context, taskID string, limit int) ([]model.TaskEvent, error) {
	var events []model.TaskEvent
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at desc, event_id desc").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *TaskRepository) FindEventsByTenant(ctx context.Context, tenantID string, limit int) ([]model.TaskEvent, error) {
	var events []model.TaskEvent
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at desc, event_id desc").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// FindEventsAfter reads the event log in append order, for the outbox
// dispatcher.
func (r *TaskRepository) FindEventsAfter(ctx context.Context, afterEventID uint64, limit int) ([]model.TaskEvent, error) {
	var events []model.TaskEvent
	err := r.db.WithContext(ctx).
		Where("event_id > ?", afterEventID).
		Order("event_id asc").
		Limit(limit).
		Find(&events).Error
	return events, err
}

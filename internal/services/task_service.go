package services

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"taskdesk.com/taskdesk/internal/constants"
	dto "taskdesk.com/taskdesk/internal/data_models"
	apperrors "taskdesk.com/taskdesk/internal/errors"
	"taskdesk.com/taskdesk/internal/idempotency"
	model "taskdesk.com/taskdesk/internal/models"
	repository "taskdesk.com/taskdesk/internal/repositories"
)

const (
	defaultTimelineLimit  = 20
	defaultEventFeedLimit = 50
)

type TaskService struct {
	repo *repository.TaskRepository
	idem idempotency.Store
}

func NewTaskService(repo *repository.TaskRepository, idem idempotency.Store) *TaskService {
	return &TaskService{
		repo: repo,
		idem: idem,
	}
}

// CreateTask creates a task and its TASK_CREATED event. With an idempotency
// key, a replay within the TTL returns the cached response verbatim and
// creates nothing.
func (s *TaskService) CreateTask(
	ctx context.Context,
	tenantID,
	workspaceID,
	title string,
	priority constants.TaskPriority,
	idempotencyKey string,
) (*dto.CreateTaskResult, error) {
	if idempotencyKey != "" {
		cached, found, err := s.idem.FindByKey(ctx, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if found {
			var result dto.CreateTaskResult
			if err := json.Unmarshal([]byte(cached), &result); err != nil {
				return nil, err
			}
			return &result, nil
		}
	}

	task, err := model.NewTask(tenantID, workspaceID, title, priority)
	if err != nil {
		return nil, err
	}

	event := model.NewTaskCreatedEvent(task)
	if err := s.repo.Create(ctx, task, event); err != nil {
		return nil, err
	}

	result := &dto.CreateTaskResult{Task: task}

	if idempotencyKey != "" {
		payload, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		if err := s.idem.Save(ctx, idempotencyKey, string(payload)); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// AssignTask sets or overwrites the assignee. Only a manager may assign, and
// never on a terminal task.
func (s *TaskService) AssignTask(
	ctx context.Context,
	workspaceID,
	taskID,
	assigneeID string,
	role constants.Role,
	expectedVersion uint,
) (*dto.AssignTaskResult, error) {
	task, err := s.findWorkspaceTask(ctx, workspaceID, taskID)
	if err != nil {
		return nil, err
	}

	if err := task.AuthorizeAssign(role); err != nil {
		return nil, err
	}

	if task.Version != expectedVersion {
		return nil, apperrors.ErrVersionConflict
	}

	event := model.NewTaskAssignedEvent(task, assigneeID)
	previousAssignee := task.AssigneeID
	task.AssigneeID = &assigneeID

	if err := s.persistMutation(ctx, task, expectedVersion, event); err != nil {
		return nil, err
	}

	return &dto.AssignTaskResult{
		Task: task,
		Event: dto.AssignEventSummary{
			Type:             constants.EventTaskAssigned,
			PreviousAssignee: previousAssignee,
			NewAssignee:      assigneeID,
		},
	}, nil
}

// TransitionTask moves the task through the state machine, subject to the
// role rules of the aggregate.
func (s *TaskService) TransitionTask(
	ctx context.Context,
	workspaceID,
	taskID string,
	toState constants.TaskState,
	role constants.Role,
	expectedVersion uint,
) (*dto.TransitionTaskResult, error) {
	task, err := s.findWorkspaceTask(ctx, workspaceID, taskID)
	if err != nil {
		return nil, err
	}

	if err := task.AuthorizeTransition(role, toState); err != nil {
		return nil, err
	}

	if task.Version != expectedVersion {
		return nil, apperrors.ErrVersionConflict
	}

	fromState := task.State
	event := model.NewTaskStateChangedEvent(task, fromState, toState, role)
	task.State = toState

	if err := s.persistMutation(ctx, task, expectedVersion, event); err != nil {
		return nil, err
	}

	return &dto.TransitionTaskResult{
		Task: task,
		Event: dto.TransitionEventSummary{
			Type:      constants.EventTaskStateChanged,
			FromState: fromState,
			ToState:   toState,
			ChangedBy: role,
		},
	}, nil
}

func (s *TaskService) GetTask(ctx context.Context, workspaceID, taskID string) (*dto.TaskWithTimeline, error) {
	task, err := s.findWorkspaceTask(ctx, workspaceID, taskID)
	if err != nil {
		return nil, err
	}

	timeline, err := s.repo.FindEventsByTaskID(ctx, taskID, defaultTimelineLimit)
	if err != nil {
		return nil, err
	}

	return &dto.TaskWithTimeline{
		Task:     task,
		Timeline: timeline,
	}, nil
}

func (s *TaskService) ListTasks(ctx context.Context, workspaceID string, filter repository.TaskFilter) (*dto.TaskPage, error) {
	tasks, nextCursor, err := s.repo.FindByWorkspace(ctx, workspaceID, filter)
	if err != nil {
		return nil, err
	}

	if tasks == nil {
		tasks = []model.Task{}
	}

	return &dto.TaskPage{
		Tasks:      tasks,
		NextCursor: nextCursor,
	}, nil
}

func (s *TaskService) GetEvents(ctx context.Context, tenantID string, limit int) (*dto.EventList, error) {
	if limit <= 0 {
		limit = defaultEventFeedLimit
	}

	events, err := s.repo.FindEventsByTenant(ctx, tenantID, limit)
	if err != nil {
		return nil, err
	}

	if events == nil {
		events = []model.TaskEvent{}
	}

	return &dto.EventList{
		Events: events,
		Count:  len(events),
	}, nil
}

// findWorkspaceTask reports a task outside the requested workspace exactly
// like an absent one, so lookups cannot probe other workspaces.
func (s *TaskService) findWorkspaceTask(ctx context.Context, workspaceID, taskID string) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	if task.WorkspaceID != workspaceID {
		return nil, apperrors.ErrTaskNotFound
	}

	return task, nil
}

func (s *TaskService) persistMutation(ctx context.Context, task *model.Task, expectedVersion uint, event *model.TaskEvent) error {
	if err := s.repo.UpdateWithVersion(ctx, task, expectedVersion, event); err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			return apperrors.ErrVersionConflict
		}
		return err
	}
	return nil
}

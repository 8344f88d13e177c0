package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"taskdesk.com/taskdesk/internal/constants"
	apperrors "taskdesk.com/taskdesk/internal/errors"
)

const maxTitleLength = 120

type Task struct {
	TaskID      string                 `gorm:"primaryKey;size:36;column:task_id" json:"task_id"`
	TenantID    string                 `gorm:"not null;index" json:"tenant_id"`
	WorkspaceID string                 `gorm:"not null;index" json:"workspace_id"`
	Title       string                 `gorm:"not null" json:"title"`
	Priority    constants.TaskPriority `gorm:"type:varchar(10);not null" json:"priority"`
	State       constants.TaskState    `gorm:"type:varchar(20);not null;index" json:"state"`
	AssigneeID  *string                `gorm:"index" json:"assignee_id"`
	Version     uint                   `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time              `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func NewTask(tenantID, workspaceID, title string, priority constants.TaskPriority) (*Task, error) {
	validated, err := ValidateTitle(title)
	if err != nil {
		return nil, err
	}

	if priority == "" {
		priority = constants.PriorityMedium
	}

	now := time.Now().UTC()
	return &Task{
		TaskID:      uuid.NewString(),
		TenantID:    tenantID,
		WorkspaceID: workspaceID,
		Title:       validated,
		Priority:    priority,
		State:       constants.StateNew,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ValidateTitle trims the title and rejects blank or over-long values.
// The trimmed value is what gets stored.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", apperrors.Validation("title is required")
	}
	if utf8.RuneCountInString(trimmed) > maxTitleLength {
		return "", apperrors.Validation("title must be at most 120 characters")
	}
	return trimmed, nil
}

// AuthorizeTransition checks the state machine first: a transition the table
// forbids is rejected as invalid regardless of role. Role rules apply after.
func (t *Task) AuthorizeTransition(role constants.Role, target constants.TaskState) error {
	if !constants.CanTransition(t.State, target) {
		return apperrors.ErrInvalidTransition
	}

	switch role {
	case constants.RoleAgent:
		// NEW → IN_PROGRESS acts as an implicit claim when unassigned.
		if t.State == constants.StateNew && target == constants.StateInProgress {
			return nil
		}
		if t.State == constants.StateInProgress && target == constants.StateDone {
			if t.AssigneeID == nil {
				return apperrors.Authorization("agent cannot complete unassigned task")
			}
			return nil
		}
		return apperrors.Authorization("agent not authorized for this transition")
	case constants.RoleManager:
		if target == constants.StateCancelled {
			return nil
		}
		return apperrors.Authorization("manager not authorized for this transition")
	}

	return apperrors.Authorization("unknown role")
}

func (t *Task) AuthorizeAssign(role constants.Role) error {
	if role != constants.RoleManager {
		return apperrors.Authorization("only manager can assign tasks")
	}
	if t.State == constants.StateDone || t.State == constants.StateCancelled {
		return apperrors.Authorization("cannot assign DONE or CANCELLED tasks")
	}
	return nil
}

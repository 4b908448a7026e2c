package domain

import (
	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/shared/domain"
	trackingDomain "github.com/mfeller/questlog/internal/tracking/domain"
)

const aggregateType = "Profile"

// ProfileCreated is raised when a new profile is created.
type ProfileCreated struct {
	domain.BaseEvent
	ProfileID uuid.UUID `json:"profile_id"`
	Name      string    `json:"name"`
}

func NewProfileCreated(p *Profile) *ProfileCreated {
	return &ProfileCreated{
		BaseEvent: domain.NewBaseEvent(p.ID(), aggregateType, "profiles.profile.created"),
		ProfileID: p.ID(),
		Name:      p.Name(),
	}
}

// TaskSelected is raised when a profile opts into a task.
type TaskSelected struct {
	domain.BaseEvent
	ProfileID uuid.UUID `json:"profile_id"`
	TaskID    string    `json:"task_id"`
	Rarity    string    `json:"rarity"`
}

func NewTaskSelected(p *Profile, taskID string, rarity trackingDomain.Rarity) *TaskSelected {
	return &TaskSelected{
		BaseEvent: domain.NewBaseEvent(p.ID(), aggregateType, "profiles.task.selected"),
		ProfileID: p.ID(),
		TaskID:    taskID,
		Rarity:    rarity.String(),
	}
}

// TaskDeselected is raised when a profile drops a task.
type TaskDeselected struct {
	domain.BaseEvent
	ProfileID uuid.UUID `json:"profile_id"`
	TaskID    string    `json:"task_id"`
}

func NewTaskDeselected(p *Profile, taskID string) *TaskDeselected {
	return &TaskDeselected{
		BaseEvent: domain.NewBaseEvent(p.ID(), aggregateType, "profiles.task.deselected"),
		ProfileID: p.ID(),
		TaskID:    taskID,
	}
}

// TaskRarityChanged is raised when a profile reassigns a task's rarity.
type TaskRarityChanged struct {
	domain.BaseEvent
	ProfileID uuid.UUID `json:"profile_id"`
	TaskID    string    `json:"task_id"`
	Rarity    string    `json:"rarity"`
}

func NewTaskRarityChanged(p *Profile, taskID string, rarity trackingDomain.Rarity) *TaskRarityChanged {
	return &TaskRarityChanged{
		BaseEvent: domain.NewBaseEvent(p.ID(), aggregateType, "profiles.task.rarity_changed"),
		ProfileID: p.ID(),
		TaskID:    taskID,
		Rarity:    rarity.String(),
	}
}

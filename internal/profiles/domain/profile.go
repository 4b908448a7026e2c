package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/shared/domain"
	trackingDomain "github.com/mfeller/questlog/internal/tracking/domain"
)

var (
	ErrProfileEmptyName  = errors.New("profile name cannot be empty")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrTaskAlreadyChosen = errors.New("task already selected")
	ErrTaskNotChosen     = errors.New("task not selected")
	ErrInvalidTaskID     = errors.New("task ID is required")
)

// SelectedTask is one task a profile has opted into, with the rarity the
// user assigned to it. A profile holds at most one selection per task.
type SelectedTask struct {
	TaskID  string
	Rarity  trackingDomain.Rarity
	AddedAt time.Time
}

// Profile is a user's workspace: a display name and the set of tasks the
// user tracks, each with a chosen rarity tier.
type Profile struct {
	domain.BaseAggregateRoot
	name     string
	selected map[string]SelectedTask
}

// NewProfile creates a profile with the given display name.
func NewProfile(name string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrProfileEmptyName
	}

	p := &Profile{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		name:              name,
		selected:          make(map[string]SelectedTask),
	}

	p.AddDomainEvent(NewProfileCreated(p))

	return p, nil
}

// RehydrateProfile reconstructs a profile from persistence.
func RehydrateProfile(id uuid.UUID, name string, selected []SelectedTask, createdAt, updatedAt time.Time) *Profile {
	tasks := make(map[string]SelectedTask, len(selected))
	for _, s := range selected {
		tasks[s.TaskID] = s
	}
	return &Profile{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(
			domain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		name:     name,
		selected: tasks,
	}
}

func (p *Profile) Name() string { return p.name }

// Rename changes the profile's display name.
func (p *Profile) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrProfileEmptyName
	}
	p.name = name
	p.Touch()
	return nil
}

// SelectTask adds a task to the profile with the given rarity.
func (p *Profile) SelectTask(taskID string, rarity trackingDomain.Rarity) error {
	if taskID == "" {
		return ErrInvalidTaskID
	}
	if !rarity.IsValid() {
		return trackingDomain.ErrInvalidRarity
	}
	if _, exists := p.selected[taskID]; exists {
		return ErrTaskAlreadyChosen
	}

	p.selected[taskID] = SelectedTask{
		TaskID:  taskID,
		Rarity:  rarity,
		AddedAt: time.Now().UTC(),
	}
	p.Touch()
	p.AddDomainEvent(NewTaskSelected(p, taskID, rarity))
	return nil
}

// DeselectTask removes a task from the profile. Past log entries for the
// task are untouched.
func (p *Profile) DeselectTask(taskID string) error {
	if _, exists := p.selected[taskID]; !exists {
		return ErrTaskNotChosen
	}
	delete(p.selected, taskID)
	p.Touch()
	p.AddDomainEvent(NewTaskDeselected(p, taskID))
	return nil
}

// SetRarity changes the rarity assigned to an already selected task.
// Points earned before the change keep their original value.
func (p *Profile) SetRarity(taskID string, rarity trackingDomain.Rarity) error {
	if !rarity.IsValid() {
		return trackingDomain.ErrInvalidRarity
	}
	current, exists := p.selected[taskID]
	if !exists {
		return ErrTaskNotChosen
	}
	current.Rarity = rarity
	p.selected[taskID] = current
	p.Touch()
	p.AddDomainEvent(NewTaskRarityChanged(p, taskID, rarity))
	return nil
}

// SelectedTasks returns the profile's selections. Order is unspecified.
func (p *Profile) SelectedTasks() []SelectedTask {
	tasks := make([]SelectedTask, 0, len(p.selected))
	for _, s := range p.selected {
		tasks = append(tasks, s)
	}
	return tasks
}

// RarityFor returns the rarity the profile assigned to a task, and
// whether the task is selected at all.
func (p *Profile) RarityFor(taskID string) (trackingDomain.Rarity, bool) {
	s, ok := p.selected[taskID]
	if !ok {
		return "", false
	}
	return s.Rarity, true
}

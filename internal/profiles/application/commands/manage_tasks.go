package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/catalog"
	"github.com/mfeller/questlog/internal/profiles/domain"
	sharedApplication "github.com/mfeller/questlog/internal/shared/application"
	"github.com/mfeller/questlog/internal/shared/infrastructure/outbox"
	trackingDomain "github.com/mfeller/questlog/internal/tracking/domain"
)

// SelectTaskCommand adds a catalog task to a profile. When Rarity is
// empty the catalog default applies.
type SelectTaskCommand struct {
	ProfileID uuid.UUID
	TaskID    string
	Rarity    trackingDomain.Rarity
}

// DeselectTaskCommand removes a task from a profile.
type DeselectTaskCommand struct {
	ProfileID uuid.UUID
	TaskID    string
}

// SetRarityCommand reassigns the rarity of an already selected task.
type SetRarityCommand struct {
	ProfileID uuid.UUID
	TaskID    string
	Rarity    trackingDomain.Rarity
}

// ManageTasksHandler handles profile task selection commands.
type ManageTasksHandler struct {
	profileRepo domain.Repository
	tasks       *catalog.Catalog
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewManageTasksHandler creates a new ManageTasksHandler.
func NewManageTasksHandler(profileRepo domain.Repository, tasks *catalog.Catalog, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ManageTasksHandler {
	return &ManageTasksHandler{
		profileRepo: profileRepo,
		tasks:       tasks,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// HandleSelect executes the SelectTaskCommand.
func (h *ManageTasksHandler) HandleSelect(ctx context.Context, cmd SelectTaskCommand) error {
	task, err := h.tasks.Lookup(cmd.TaskID)
	if err != nil {
		return err
	}

	rarity := cmd.Rarity
	if rarity == "" {
		rarity = task.DefaultRarity
	}

	return h.withProfile(ctx, cmd.ProfileID, func(profile *domain.Profile) error {
		return profile.SelectTask(cmd.TaskID, rarity)
	})
}

// HandleDeselect executes the DeselectTaskCommand.
func (h *ManageTasksHandler) HandleDeselect(ctx context.Context, cmd DeselectTaskCommand) error {
	return h.withProfile(ctx, cmd.ProfileID, func(profile *domain.Profile) error {
		return profile.DeselectTask(cmd.TaskID)
	})
}

// HandleSetRarity executes the SetRarityCommand.
func (h *ManageTasksHandler) HandleSetRarity(ctx context.Context, cmd SetRarityCommand) error {
	return h.withProfile(ctx, cmd.ProfileID, func(profile *domain.Profile) error {
		return profile.SetRarity(cmd.TaskID, cmd.Rarity)
	})
}

// withProfile loads, mutates, and saves a profile inside one unit of work.
func (h *ManageTasksHandler) withProfile(ctx context.Context, profileID uuid.UUID, mutate func(*domain.Profile) error) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		profile, err := h.profileRepo.FindByID(txCtx, profileID)
		if err != nil {
			return err
		}
		if profile == nil {
			return domain.ErrProfileNotFound
		}

		if err := mutate(profile); err != nil {
			return err
		}

		if err := h.profileRepo.Save(txCtx, profile); err != nil {
			return err
		}
		return saveProfileEvents(txCtx, h.outboxRepo, profile)
	})
}

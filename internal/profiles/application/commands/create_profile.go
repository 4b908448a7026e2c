package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/profiles/domain"
	sharedApplication "github.com/mfeller/questlog/internal/shared/application"
	"github.com/mfeller/questlog/internal/shared/infrastructure/outbox"
)

// CreateProfileCommand contains the data needed to create a profile.
type CreateProfileCommand struct {
	Name string
}

// CreateProfileHandler handles the CreateProfileCommand.
type CreateProfileHandler struct {
	profileRepo domain.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewCreateProfileHandler creates a new CreateProfileHandler.
func NewCreateProfileHandler(profileRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateProfileHandler {
	return &CreateProfileHandler{
		profileRepo: profileRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle executes the CreateProfileCommand.
func (h *CreateProfileHandler) Handle(ctx context.Context, cmd CreateProfileCommand) (uuid.UUID, error) {
	profile, err := domain.NewProfile(cmd.Name)
	if err != nil {
		return uuid.Nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.profileRepo.Save(txCtx, profile); err != nil {
			return err
		}
		return saveProfileEvents(txCtx, h.outboxRepo, profile)
	})
	if err != nil {
		return uuid.Nil, err
	}

	return profile.ID(), nil
}

// saveProfileEvents pushes the aggregate's uncommitted events to the outbox.
func saveProfileEvents(ctx context.Context, outboxRepo outbox.Repository, profile *domain.Profile) error {
	events := profile.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(profile.ID()))

	msgs := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return outboxRepo.SaveBatch(ctx, msgs)
}

package calm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/calm/internal/core/eventbus"
	"github.com/colonyops/calm/internal/core/idea"
	"github.com/colonyops/calm/internal/core/logging"
	"github.com/colonyops/calm/internal/core/result"
	"github.com/colonyops/calm/internal/core/validate"
	"github.com/colonyops/calm/pkg/randid"
)

// IdeaService manages the ranked idea list.
type IdeaService struct {
	store idea.Store
	bus   *eventbus.EventBus
	log   zerolog.Logger
	now   Clock
}

// NewIdeaService creates a new IdeaService.
func NewIdeaService(store idea.Store, bus *eventbus.EventBus, log zerolog.Logger, now Clock) *IdeaService {
	return &IdeaService{
		store: store,
		bus:   bus,
		log:   logging.ComponentOf(log, "idea-service"),
		now:   now.orSystem(),
	}
}

// Create captures an idea at the bottom of the active list.
func (s *IdeaService) Create(ctx context.Context, title string, referenceURL *string) (idea.Idea, error) {
	title, err := validate.Title(title)
	if err != nil {
		return idea.Idea{}, err
	}
	ref, err := validate.ReferenceURL(referenceURL)
	if err != nil {
		return idea.Idea{}, err
	}

	now := s.now()
	it, err := s.store.Create(ctx, idea.Idea{
		ID:           randid.Generate(8),
		Title:        title,
		ReferenceURL: ref,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return idea.Idea{}, fmt.Errorf("create idea: %w", err)
	}

	s.log.Info().Str("id", it.ID).Int("rank", it.Rank).Msg("idea created")
	s.bus.PublishIdeaCreated(eventbus.IdeaCreatedPayload{Idea: it})
	return it, nil
}

// Get returns an idea by id.
func (s *IdeaService) Get(ctx context.Context, id string) (idea.Idea, error) {
	return s.store.Get(ctx, id)
}

// ListActive returns active ideas in rank order.
func (s *IdeaService) ListActive(ctx context.Context) ([]idea.Idea, error) {
	return s.store.ListActive(ctx)
}

// Move swaps id with its neighbor. It returns how many ideas were written,
// zero when id is already at the edge.
func (s *IdeaService) Move(ctx context.Context, id string, dir idea.Direction) (int, error) {
	if _, ok := idea.ParseDirection(string(dir)); !ok {
		return 0, validate.Fieldf("direction", "must be up or down, got %q", dir)
	}

	active, err := s.store.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("move idea: %w", err)
	}
	changes, err := idea.PlanMove(active, id, dir)
	if err != nil {
		return 0, err
	}
	return s.apply(ctx, id, changes)
}

// Reorder moves id to targetIndex (clamped) and renumbers the list.
func (s *IdeaService) Reorder(ctx context.Context, id string, targetIndex int) (int, error) {
	active, err := s.store.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("reorder idea: %w", err)
	}
	changes, err := idea.PlanReorder(active, id, targetIndex)
	if err != nil {
		return 0, err
	}
	return s.apply(ctx, id, changes)
}

func (s *IdeaService) apply(ctx context.Context, id string, changes []idea.RankChange) (int, error) {
	if len(changes) == 0 {
		return 0, nil
	}
	if err := s.store.ApplyRanks(ctx, changes, s.now()); err != nil {
		return 0, fmt.Errorf("rank ideas: %w", err)
	}

	s.log.Info().Str("id", id).Int("written", len(changes)).Msg("ideas reordered")
	s.bus.PublishIdeaReordered(eventbus.IdeaReorderedPayload{IdeaID: id, Written: len(changes)})
	return len(changes), nil
}

// Archive removes an idea from the active list. Survivors keep their ranks.
func (s *IdeaService) Archive(ctx context.Context, id string) (result.Outcome, error) {
	outcome, err := s.store.Archive(ctx, id, s.now())
	if err != nil {
		return result.NoOp, err
	}
	if !outcome.Changed() {
		return outcome, nil
	}

	it, err := s.store.Get(ctx, id)
	if err != nil {
		return outcome, fmt.Errorf("reload idea: %w", err)
	}
	s.log.Info().Str("id", id).Msg("idea archived")
	s.bus.PublishIdeaArchived(eventbus.IdeaArchivedPayload{Idea: it})
	return outcome, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"scavngr.io/todolist/dtos"
	"scavngr.io/todolist/events"
	"scavngr.io/todolist/models"
	"scavngr.io/todolist/stores"
)

// SeedItems populate the default collection the first time it is seen empty.
var SeedItems = []string{
	"Welcome to your ToDoList!",
	"Hit the + button to add a new item.",
	"<-- Check this box to delete an item.",
}

// ListService works on canonical list names; callers run user input through
// NormalizeName first.
type ListService interface {
	NormalizeName(raw string) string

	DefaultItems(ctx context.Context) ([]models.Item, error)
	AddItem(ctx context.Context, listName string, itemName string) (models.Item, error)
	DeleteItem(ctx context.Context, listName string, itemID string) error

	Lists(ctx context.Context) ([]models.List, error)
	OpenList(ctx context.Context, name string) (models.List, bool, error)
	CreateList(ctx context.Context, title string) (models.List, bool, error)
	DeleteList(ctx context.Context, listID string) (models.List, error)
}

type ListServiceOptions struct {
	Store     stores.Store
	Publisher events.Publisher
	// Now defaults to time.Now.
	Now func() time.Time
}

type listService struct {
	store     stores.Store
	publisher events.Publisher
	now       func() time.Time
}

func NewListService(opts ListServiceOptions) ListService {
	s := &listService{
		store:     opts.Store,
		publisher: opts.Publisher,
		now:       opts.Now,
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *listService) NormalizeName(raw string) string {
	return NormalizeName(raw, s.now())
}

// DefaultItems returns the default collection as it was before seeding: when
// it comes back empty the seed items are inserted and an empty result is
// returned, so callers re-fetch to observe them.
func (s *listService) DefaultItems(ctx context.Context) ([]models.Item, error) {
	items, err := s.store.DefaultItems(ctx)
	if err != nil {
		return items, err
	}
	if len(items) > 0 {
		return items, nil
	}

	seeded, err := s.store.SeedDefaultItems(ctx, SeedItems)
	if err != nil {
		return items, err
	}
	if seeded {
		log.Info().Int("count", len(SeedItems)).Msg("Successfully saved default items")
	}

	return items, nil
}

func (s *listService) AddItem(ctx context.Context, listName string, itemName string) (models.Item, error) {
	if isBlank(itemName) {
		return models.Item{}, fmt.Errorf("item name is empty - %w", models.ErrValidationFailed)
	}

	var (
		item models.Item
		err  error
	)
	if listName == models.DefaultListName {
		item, err = s.store.AddDefaultItem(ctx, itemName)
	} else {
		item, err = s.store.AddItemToList(ctx, listName, itemName)
	}
	if err != nil {
		return item, err
	}

	s.publish(ctx, dtos.ListEvent{Type: dtos.EventItemAdded, ListName: listName, ItemID: item.ID, ItemName: item.Name})

	return item, nil
}

func (s *listService) DeleteItem(ctx context.Context, listName string, itemID string) error {
	var err error
	if listName == models.DefaultListName {
		err = s.store.DeleteDefaultItem(ctx, itemID)
	} else {
		err = s.store.DeleteItemFromList(ctx, listName, itemID)
	}
	if err != nil {
		return err
	}

	log.Info().Str("item", itemID).Str("list", listName).Msg("Successfully deleted item")
	s.publish(ctx, dtos.ListEvent{Type: dtos.EventItemDeleted, ListName: listName, ItemID: itemID})

	return nil
}

func (s *listService) Lists(ctx context.Context) ([]models.List, error) {
	return s.store.Lists(ctx)
}

// OpenList returns the named list, creating it empty when it does not exist.
// created reports whether this call created it.
func (s *listService) OpenList(ctx context.Context, name string) (models.List, bool, error) {
	if name == models.DefaultListName {
		return models.List{}, false, fmt.Errorf("%q is reserved for the default list - %w", name, models.ErrValidationFailed)
	}

	list, err := s.store.FindList(ctx, name)
	if err == nil {
		return list, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return list, false, err
	}

	return s.createList(ctx, name)
}

// CreateList validates and normalizes a raw title, then creates the list
// unless one with the same name exists.
func (s *listService) CreateList(ctx context.Context, title string) (models.List, bool, error) {
	if isBlank(title) {
		return models.List{}, false, fmt.Errorf("list title is empty - %w", models.ErrValidationFailed)
	}

	name := s.NormalizeName(title)
	if name == models.DefaultListName {
		return models.List{}, false, fmt.Errorf("%q is reserved for the default list - %w", name, models.ErrValidationFailed)
	}

	return s.createList(ctx, name)
}

func (s *listService) DeleteList(ctx context.Context, listID string) (models.List, error) {
	list, err := s.store.DeleteList(ctx, listID)
	if err != nil {
		return list, err
	}

	log.Info().Str("id", list.ID).Str("list", list.Name).Msg("Successfully deleted list")
	s.publish(ctx, dtos.ListEvent{Type: dtos.EventListDeleted, ListID: list.ID, ListName: list.Name})

	return list, nil
}

func (s *listService) createList(ctx context.Context, name string) (models.List, bool, error) {
	list, created, err := s.store.CreateList(ctx, name)
	if err != nil {
		return list, false, err
	}

	if created {
		log.Info().Str("id", list.ID).Str("list", list.Name).Msg("created list")
		s.publish(ctx, dtos.ListEvent{Type: dtos.EventListCreated, ListID: list.ID, ListName: list.Name})
	} else {
		log.Info().Str("list", list.Name).Msg("List already exists")
	}

	return list, created, nil
}

func (s *listService) publish(ctx context.Context, event dtos.ListEvent) {
	event.At = s.now()
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Err(err).Str("type", string(event.Type)).Str("list", event.ListName).Msg("unable to publish list event")
	}
}

package stores

import (
	"context"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"scavngr.io/todolist/models"
)

// Store persists the default item collection and the named lists.
//
// CreateList is an insert-if-absent: when a list with the same name already
// exists it is returned with created set to false instead of failing.
type Store interface {
	DefaultItems(ctx context.Context) ([]models.Item, error)
	SeedDefaultItems(ctx context.Context, names []string) (bool, error)
	AddDefaultItem(ctx context.Context, name string) (models.Item, error)
	DeleteDefaultItem(ctx context.Context, id string) error

	FindList(ctx context.Context, name string) (models.List, error)
	CreateList(ctx context.Context, name string) (list models.List, created bool, err error)
	AddItemToList(ctx context.Context, listName string, name string) (models.Item, error)
	DeleteItemFromList(ctx context.Context, listName string, itemID string) error
	DeleteList(ctx context.Context, id string) (models.List, error)
	Lists(ctx context.Context) ([]models.List, error)

	Close(ctx context.Context) error
}

func newID() (string, error) {
	id, err := gonanoid.New(21)
	if err != nil {
		return "", fmt.Errorf("unable to generate id - %w", err)
	}
	return id, nil
}

// unavailable tags a driver failure so callers can match models.ErrStoreUnavailable.
func unavailable(msg string, err error) error {
	return fmt.Errorf("%s - %w", msg, errors.Join(models.ErrStoreUnavailable, err))
}

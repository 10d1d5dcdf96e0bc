package stores

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"scavngr.io/todolist/models"
)

const (
	itemsCollection = "items"
	listsCollection = "lists"
)

type Firestore struct {
	client *firestore.Client
	now    func() time.Time
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client, now: time.Now}
}

func (s *Firestore) DefaultItems(ctx context.Context) ([]models.Item, error) {
	items := []models.Item{}

	docSnapshots, err := s.client.Collection(itemsCollection).OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return items, unavailable("unable to fetch default items", err)
	}

	for _, docSnapshot := range docSnapshots {
		item := models.Item{}
		if err := docSnapshot.DataTo(&item); err != nil {
			log.Err(err).Str("id", docSnapshot.Ref.ID).Msg("unable to unmarshal item...skipping item")
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// SeedDefaultItems checks for emptiness and inserts in one transaction, so two
// concurrent first visits cannot both seed.
func (s *Firestore) SeedDefaultItems(ctx context.Context, names []string) (bool, error) {
	seeded := false
	coll := s.client.Collection(itemsCollection)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		seeded = false

		existing, err := tx.Documents(coll.Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}

		now := s.now()
		for i, name := range names {
			id, err := newID()
			if err != nil {
				return err
			}
			item := models.Item{ID: id, Name: name, CreatedAt: now.Add(time.Duration(i) * time.Millisecond)}
			if err := tx.Create(coll.Doc(id), item); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, unavailable("unable to seed default items", err)
	}

	return seeded, nil
}

func (s *Firestore) AddDefaultItem(ctx context.Context, name string) (models.Item, error) {
	id, err := newID()
	if err != nil {
		return models.Item{}, err
	}

	item := models.Item{ID: id, Name: name, CreatedAt: s.now()}
	if _, err := s.client.Collection(itemsCollection).Doc(id).Create(ctx, item); err != nil {
		return item, unavailable("unable to create item", err)
	}

	return item, nil
}

func (s *Firestore) DeleteDefaultItem(ctx context.Context, id string) error {
	if id == "" {
		return models.ErrNotFound
	}

	if _, err := s.client.Collection(itemsCollection).Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return firestoreErr("unable to delete item", err, models.ErrNotFound)
	}

	return nil
}

func (s *Firestore) FindList(ctx context.Context, name string) (models.List, error) {
	list := models.List{}

	docSnapshots, err := s.byName(name).Documents(ctx).GetAll()
	if err != nil {
		return list, unavailable("unable to find list", err)
	}
	if len(docSnapshots) == 0 {
		return list, models.ErrNotFound
	}

	if err := docSnapshots[0].DataTo(&list); err != nil {
		return list, unavailable("unable to marshal from firestore to struct", err)
	}

	return list, nil
}

// CreateList reads and writes inside a transaction; Firestore retries it when a
// concurrent request commits a list with the same name first.
func (s *Firestore) CreateList(ctx context.Context, name string) (models.List, bool, error) {
	var (
		list    models.List
		created bool
	)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		list, created = models.List{}, false

		docSnapshots, err := tx.Documents(s.byName(name)).GetAll()
		if err != nil {
			return err
		}
		if len(docSnapshots) > 0 {
			return docSnapshots[0].DataTo(&list)
		}

		id, err := newID()
		if err != nil {
			return err
		}
		list = models.List{ID: id, Name: name, Items: []models.Item{}, CreatedAt: s.now()}
		if err := tx.Create(s.client.Collection(listsCollection).Doc(id), list); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return models.List{}, false, unavailable("unable to create list", err)
	}

	return list, created, nil
}

func (s *Firestore) AddItemToList(ctx context.Context, listName string, name string) (models.Item, error) {
	id, err := newID()
	if err != nil {
		return models.Item{}, err
	}
	item := models.Item{ID: id, Name: name, CreatedAt: s.now()}

	err = s.updateItems(ctx, listName, func(items []models.Item) []models.Item {
		return append(items, item)
	})
	if err != nil {
		return models.Item{}, err
	}

	return item, nil
}

func (s *Firestore) DeleteItemFromList(ctx context.Context, listName string, itemID string) error {
	return s.updateItems(ctx, listName, func(items []models.Item) []models.Item {
		return models.WithoutItem(items, itemID)
	})
}

func (s *Firestore) DeleteList(ctx context.Context, id string) (models.List, error) {
	list := models.List{}

	if id == "" {
		return list, models.ErrNotFound
	}
	ref := s.client.Collection(listsCollection).Doc(id)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnapshot, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if err := docSnapshot.DataTo(&list); err != nil {
			return err
		}
		return tx.Delete(ref)
	})
	if err != nil {
		return models.List{}, firestoreErr("unable to delete list", err, models.ErrNotFound)
	}

	return list, nil
}

func (s *Firestore) Lists(ctx context.Context) ([]models.List, error) {
	lists := []models.List{}

	docSnapshots, err := s.client.Collection(listsCollection).OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return lists, unavailable("unable to fetch lists", err)
	}

	for _, docSnapshot := range docSnapshots {
		l := models.List{}
		if err := docSnapshot.DataTo(&l); err != nil {
			log.Err(err).Str("id", docSnapshot.Ref.ID).Msg("unable to unmarshal list...skipping list")
			continue
		}
		lists = append(lists, l)
	}

	return lists, nil
}

func (s *Firestore) Close(ctx context.Context) error {
	return s.client.Close()
}

func (s *Firestore) byName(name string) firestore.Query {
	return s.client.Collection(listsCollection).Where("name", "==", name).Limit(1)
}

// updateItems rewrites the embedded items of the named list as a whole.
func (s *Firestore) updateItems(ctx context.Context, listName string, apply func([]models.Item) []models.Item) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnapshots, err := tx.Documents(s.byName(listName)).GetAll()
		if err != nil {
			return err
		}
		if len(docSnapshots) == 0 {
			return models.ErrListNotFound
		}

		list := models.List{}
		if err := docSnapshots[0].DataTo(&list); err != nil {
			return err
		}

		return tx.Update(docSnapshots[0].Ref, []firestore.Update{
			{Path: "items", Value: apply(list.Items)},
		})
	})
	if err != nil {
		return firestoreErr("unable to update list items", err, models.ErrListNotFound)
	}

	return nil
}

// firestoreErr maps a failed call: gRPC NotFound becomes notFound, sentinels
// returned from inside a transaction pass through, anything else means the
// store is unavailable.
func firestoreErr(msg string, err error, notFound error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return models.ErrNotFound
	case errors.Is(err, models.ErrListNotFound):
		return models.ErrListNotFound
	case status.Code(err) == codes.NotFound:
		return notFound
	default:
		return unavailable(msg, err)
	}
}

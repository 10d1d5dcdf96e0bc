package stores

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"scavngr.io/todolist/models"
)

type Mongo struct {
	client *mongo.Client
	items  *mongo.Collection
	lists  *mongo.Collection
	now    func() time.Time
}

// NewMongo ensures the unique index on list names that CreateList relies on.
func NewMongo(ctx context.Context, client *mongo.Client, database string) (*Mongo, error) {
	db := client.Database(database)
	s := &Mongo{
		client: client,
		items:  db.Collection(itemsCollection),
		lists:  db.Collection(listsCollection),
		now:    time.Now,
	}

	_, err := s.lists.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, unavailable("unable to create list name index", err)
	}

	return s, nil
}

func (s *Mongo) DefaultItems(ctx context.Context) ([]models.Item, error) {
	items := []models.Item{}

	cursor, err := s.items.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return items, unavailable("unable to fetch default items", err)
	}
	if err := cursor.All(ctx, &items); err != nil {
		return items, unavailable("unable to decode default items", err)
	}

	return items, nil
}

// SeedDefaultItems counts then inserts. Two concurrent first visits may both
// seed; that race is accepted for the default collection.
func (s *Mongo) SeedDefaultItems(ctx context.Context, names []string) (bool, error) {
	count, err := s.items.CountDocuments(ctx, bson.D{}, options.Count().SetLimit(1))
	if err != nil {
		return false, unavailable("unable to count default items", err)
	}
	if count > 0 {
		return false, nil
	}

	now := s.now()
	docs := make([]any, 0, len(names))
	for i, name := range names {
		id, err := newID()
		if err != nil {
			return false, err
		}
		docs = append(docs, models.Item{ID: id, Name: name, CreatedAt: now.Add(time.Duration(i) * time.Millisecond)})
	}

	if _, err := s.items.InsertMany(ctx, docs); err != nil {
		return false, unavailable("unable to seed default items", err)
	}

	return true, nil
}

func (s *Mongo) AddDefaultItem(ctx context.Context, name string) (models.Item, error) {
	id, err := newID()
	if err != nil {
		return models.Item{}, err
	}

	item := models.Item{ID: id, Name: name, CreatedAt: s.now()}
	if _, err := s.items.InsertOne(ctx, item); err != nil {
		return item, unavailable("unable to create item", err)
	}

	return item, nil
}

func (s *Mongo) DeleteDefaultItem(ctx context.Context, id string) error {
	res, err := s.items.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return unavailable("unable to delete item", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (s *Mongo) FindList(ctx context.Context, name string) (models.List, error) {
	list := models.List{}

	err := s.lists.FindOne(ctx, bson.D{{Key: "name", Value: name}}).Decode(&list)
	if err != nil {
		return models.List{}, mongoErr("unable to find list", err)
	}

	return list, nil
}

// CreateList upserts with $setOnInsert so an existing list is left untouched
// and returned. A duplicate key error means a concurrent upsert won the race.
func (s *Mongo) CreateList(ctx context.Context, name string) (models.List, bool, error) {
	id, err := newID()
	if err != nil {
		return models.List{}, false, err
	}

	update := bson.D{{Key: "$setOnInsert", Value: bson.D{
		{Key: "_id", Value: id},
		{Key: "items", Value: bson.A{}},
		{Key: "createdAt", Value: s.now()},
	}}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	list := models.List{}
	err = s.lists.FindOneAndUpdate(ctx, bson.D{{Key: "name", Value: name}}, update, opts).Decode(&list)
	if err != nil {
		if lostUpsertRace(err) {
			existing, findErr := s.FindList(ctx, name)
			return existing, false, findErr
		}
		return list, false, unavailable("unable to create list", err)
	}
	if list.Items == nil {
		list.Items = []models.Item{}
	}

	return list, list.ID == id, nil
}

func (s *Mongo) AddItemToList(ctx context.Context, listName string, name string) (models.Item, error) {
	id, err := newID()
	if err != nil {
		return models.Item{}, err
	}
	item := models.Item{ID: id, Name: name, CreatedAt: s.now()}

	res, err := s.lists.UpdateOne(ctx,
		bson.D{{Key: "name", Value: listName}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "items", Value: item}}}},
	)
	if err != nil {
		return models.Item{}, unavailable("unable to add item to list", err)
	}
	if res.MatchedCount == 0 {
		return models.Item{}, models.ErrListNotFound
	}

	return item, nil
}

func (s *Mongo) DeleteItemFromList(ctx context.Context, listName string, itemID string) error {
	res, err := s.lists.UpdateOne(ctx,
		bson.D{{Key: "name", Value: listName}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "items", Value: bson.D{{Key: "_id", Value: itemID}}}}}},
	)
	if err != nil {
		return unavailable("unable to delete item from list", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrListNotFound
	}

	return nil
}

func (s *Mongo) DeleteList(ctx context.Context, id string) (models.List, error) {
	list := models.List{}

	err := s.lists.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&list)
	if err != nil {
		return models.List{}, mongoErr("unable to delete list", err)
	}

	return list, nil
}

func (s *Mongo) Lists(ctx context.Context) ([]models.List, error) {
	lists := []models.List{}

	cursor, err := s.lists.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return lists, unavailable("unable to fetch lists", err)
	}
	if err := cursor.All(ctx, &lists); err != nil {
		return lists, unavailable("unable to decode lists", err)
	}

	return lists, nil
}

func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func mongoErr(msg string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return unavailable(msg, err)
}

// lostUpsertRace reports whether an upsert failed on the unique name index
// because a concurrent request inserted the same name first.
func lostUpsertRace(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

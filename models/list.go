package models

import "time"

// DefaultListName is the reserved name of the home page's item collection.
// No List document may carry it.
const DefaultListName = "List"

type Item struct {
	ID        string    `json:"id" firestore:"id" bson:"_id"`
	Name      string    `json:"name" firestore:"name" bson:"name"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
}

type List struct {
	ID        string    `json:"id" firestore:"id" bson:"_id"`
	Name      string    `json:"name" firestore:"name" bson:"name"`
	Items     []Item    `json:"items" firestore:"items" bson:"items"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
}

// WithoutItem returns a copy of items with every entry matching id removed.
// The order of the remaining items is preserved.
func WithoutItem(items []Item, id string) []Item {
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ID == id {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

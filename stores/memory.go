package stores

import (
	"context"
	"slices"
	"sync"
	"time"

	"scavngr.io/todolist/models"
)

// Memory keeps everything in process. Lists are kept in creation order.
type Memory struct {
	mu    sync.Mutex
	items []models.Item
	lists []models.List
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) DefaultItems(ctx context.Context) ([]models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items), nil
}

func (m *Memory) SeedDefaultItems(ctx context.Context, names []string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.items) > 0 {
		return false, nil
	}
	for _, name := range names {
		item, err := m.newItem(name)
		if err != nil {
			return false, err
		}
		m.items = append(m.items, item)
	}
	return true, nil
}

func (m *Memory) AddDefaultItem(ctx context.Context, name string) (models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, err := m.newItem(name)
	if err != nil {
		return item, err
	}
	m.items = append(m.items, item)
	return item, nil
}

func (m *Memory) DeleteDefaultItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.items, func(item models.Item) bool { return item.ID == id })
	if i < 0 {
		return models.ErrNotFound
	}
	m.items = slices.Delete(m.items, i, i+1)
	return nil
}

func (m *Memory) FindList(ctx context.Context, name string) (models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexByName(name)
	if i < 0 {
		return models.List{}, models.ErrNotFound
	}
	return cloneList(m.lists[i]), nil
}

func (m *Memory) CreateList(ctx context.Context, name string) (models.List, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexByName(name); i >= 0 {
		return cloneList(m.lists[i]), false, nil
	}

	id, err := newID()
	if err != nil {
		return models.List{}, false, err
	}
	list := models.List{
		ID:        id,
		Name:      name,
		Items:     []models.Item{},
		CreatedAt: m.now(),
	}
	m.lists = append(m.lists, list)
	return cloneList(list), true, nil
}

func (m *Memory) AddItemToList(ctx context.Context, listName string, name string) (models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexByName(listName)
	if i < 0 {
		return models.Item{}, models.ErrListNotFound
	}
	item, err := m.newItem(name)
	if err != nil {
		return item, err
	}
	m.lists[i].Items = append(m.lists[i].Items, item)
	return item, nil
}

func (m *Memory) DeleteItemFromList(ctx context.Context, listName string, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexByName(listName)
	if i < 0 {
		return models.ErrListNotFound
	}
	m.lists[i].Items = models.WithoutItem(m.lists[i].Items, itemID)
	return nil
}

func (m *Memory) DeleteList(ctx context.Context, id string) (models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.lists, func(l models.List) bool { return l.ID == id })
	if i < 0 {
		return models.List{}, models.ErrNotFound
	}
	list := m.lists[i]
	m.lists = slices.Delete(m.lists, i, i+1)
	return list, nil
}

func (m *Memory) Lists(ctx context.Context) ([]models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lists := make([]models.List, 0, len(m.lists))
	for _, l := range m.lists {
		lists = append(lists, cloneList(l))
	}
	return lists, nil
}

func (m *Memory) Close(ctx context.Context) error { return nil }

func (m *Memory) indexByName(name string) int {
	return slices.IndexFunc(m.lists, func(l models.List) bool { return l.Name == name })
}

func (m *Memory) newItem(name string) (models.Item, error) {
	id, err := newID()
	if err != nil {
		return models.Item{}, err
	}
	return models.Item{ID: id, Name: name, CreatedAt: m.now()}, nil
}

func cloneList(l models.List) models.List {
	l.Items = slices.Clone(l.Items)
	if l.Items == nil {
		l.Items = []models.Item{}
	}
	return l
}

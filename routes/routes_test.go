package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"scavngr.io/todolist/models"
	"scavngr.io/todolist/services"
	"scavngr.io/todolist/stores"
	"scavngr.io/todolist/views"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

type brokenStore struct {
	*stores.Memory
}

func (brokenStore) DefaultItems(ctx context.Context) ([]models.Item, error) {
	return nil, models.ErrStoreUnavailable
}

func (brokenStore) Lists(ctx context.Context) ([]models.List, error) {
	return nil, models.ErrStoreUnavailable
}

func newTestRouter(t *testing.T, store stores.Store) http.Handler {
	t.Helper()
	renderer, err := views.New()
	require.NoError(t, err)
	svc := services.NewListService(services.ListServiceOptions{
		Store: store,
		Now:   func() time.Time { return fixedNow },
	})
	return New(svc, renderer)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func post(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, location, rec.Header().Get("Location"))
}

func TestHome_SeedsThenRenders(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	assertRedirect(t, get(t, h, "/"), "/")

	items, err := store.DefaultItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>List</h1>")
	assert.Contains(t, body, "Welcome to your ToDoList!")
	assert.Contains(t, body, "Hit the + button to add a new item.")
	assert.Contains(t, body, "&lt;-- Check this box to delete an item.")

	items, err = store.DefaultItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestHome_StoreFailureStillRenders(t *testing.T) {
	h := newTestRouter(t, brokenStore{stores.NewMemory()})

	rec := get(t, h, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>List</h1>")
}

func TestDefaultListAddAndDelete(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	assertRedirect(t, post(t, h, "/addItem", url.Values{"newItem": {"call mom"}, "list": {"List"}}), "/")

	items, err := store.DefaultItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	rec := post(t, h, "/delete", url.Values{"deleteCheckbox": {items[0].ID}, "listDeleteName": {"List"}, "dashboardList": {"Dashboard"}})
	assertRedirect(t, rec, "/")

	items, err = store.DefaultItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestNamedListEndToEnd(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	assertRedirect(t, post(t, h, "/createList", url.Values{"newList": {"groceries"}}), "/lists/Groceries")

	list, err := store.FindList(context.Background(), "Groceries")
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	assertRedirect(t, post(t, h, "/addItem", url.Values{"newItem": {"milk"}, "list": {"Groceries"}}), "/lists/Groceries")

	rec := get(t, h, "/lists/Groceries")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Groceries</h1>")
	assert.Contains(t, rec.Body.String(), "<p>milk</p>")

	list, err = store.FindList(context.Background(), "Groceries")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	rec = post(t, h, "/delete", url.Values{"deleteCheckbox": {list.Items[0].ID}, "listDeleteName": {"Groceries"}})
	assertRedirect(t, rec, "/lists/Groceries")

	rec = get(t, h, "/lists/Groceries")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<p>milk</p>")

	list, err = store.FindList(context.Background(), "Groceries")
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestCreateList_BlankTitle(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	assertRedirect(t, post(t, h, "/createList", url.Values{"newList": {"   "}}), "/")
	assertRedirect(t, post(t, h, "/createList", url.Values{}), "/")
	assertRedirect(t, post(t, h, "/createList", url.Values{"newList": {"list"}}), "/")

	lists, err := store.Lists(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestCreateList_ExistingAndViewOrigin(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	assertRedirect(t, post(t, h, "/createList", url.Values{"newList": {"work"}, "createList": {"View"}}), "/view")
	assertRedirect(t, post(t, h, "/createList", url.Values{"newList": {"WORK"}}), "/lists/Work")

	lists, err := store.Lists(context.Background())
	require.NoError(t, err)
	assert.Len(t, lists, 1)
}

func TestCreateList_DayKeyword(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	assertRedirect(t, post(t, h, "/createList", url.Values{"newList": {"dAY"}}), "/lists/Saturday%20the%2017th")

	_, err := store.FindList(context.Background(), "Saturday the 17th")
	assert.NoError(t, err)
	_, err = store.FindList(context.Background(), "Day")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestNamedList_CreatedOnFirstVisit(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	assertRedirect(t, get(t, h, "/lists/foo"), "/lists/Foo")

	rec := get(t, h, "/lists/Foo")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Foo</h1>")

	assert.Equal(t, http.StatusOK, get(t, h, "/lists/Foo").Code)
	assertRedirect(t, get(t, h, "/lists/FOO"), "/lists/Foo")

	lists, err := store.Lists(context.Background())
	require.NoError(t, err)
	assert.Len(t, lists, 1)
}

func TestNamedList_SpecialNames(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	assertRedirect(t, get(t, h, "/lists/list"), "/")
	assertRedirect(t, get(t, h, "/lists/day"), "/lists/Saturday%20the%2017th")

	rec := get(t, h, "/lists/Saturday%20the%2017th")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Saturday the 17th</h1>")
}

func TestAddItem_MissingListIsSilent(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	assertRedirect(t, post(t, h, "/addItem", url.Values{"newItem": {"milk"}, "list": {"Gone"}}), "/lists/Gone")
	assertRedirect(t, post(t, h, "/addItem", url.Values{"newItem": {"milk"}, "list": {"Gone"}, "dashboardList": {"Dashboard"}}), "/dashboard")

	_, err := store.FindList(context.Background(), "Gone")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDashboardOrigin(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	_, _, err := store.CreateList(context.Background(), "Errands")
	require.NoError(t, err)

	assertRedirect(t, post(t, h, "/addItem", url.Values{"newItem": {"post office"}, "list": {"Errands"}, "dashboardList": {"Dashboard"}}), "/dashboard")

	list, err := store.FindList(context.Background(), "Errands")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	rec := post(t, h, "/delete", url.Values{"deleteCheckbox": {list.Items[0].ID}, "listDeleteName": {"Errands"}, "dashboardList": {"Dashboard"}})
	assertRedirect(t, rec, "/dashboard")
}

func TestDashboardAndView(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	for _, path := range []string{"/dashboard", "/view"} {
		rec := get(t, h, path)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<h1>No lists available.</h1>")
	}

	_, _, err := store.CreateList(context.Background(), "Errands")
	require.NoError(t, err)

	rec := get(t, h, "/dashboard")
	assert.Contains(t, rec.Body.String(), "<h1>Dashboard</h1>")
	assert.Contains(t, rec.Body.String(), "Errands")

	rec = get(t, h, "/view")
	assert.Contains(t, rec.Body.String(), "<h1>View</h1>")
	assert.Contains(t, rec.Body.String(), "Errands")
}

func TestDashboard_StoreFailureRendersEmpty(t *testing.T) {
	h := newTestRouter(t, brokenStore{stores.NewMemory()})

	rec := get(t, h, "/dashboard")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>No lists available.</h1>")
}

func TestDeleteList(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	work, _, err := store.CreateList(context.Background(), "Work")
	require.NoError(t, err)
	home, _, err := store.CreateList(context.Background(), "Home")
	require.NoError(t, err)

	assertRedirect(t, post(t, h, "/deleteList", url.Values{"deleteCheckbox": {work.ID}, "listDeleteName": {"View"}}), "/view")
	assertRedirect(t, post(t, h, "/deleteList", url.Values{"deleteCheckbox": {home.ID}}), "/dashboard")
	assertRedirect(t, post(t, h, "/deleteList", url.Values{"deleteCheckbox": {"missing"}}), "/dashboard")

	lists, err := store.Lists(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestStaticRoutes(t *testing.T) {
	h := newTestRouter(t, stores.NewMemory())

	rec := get(t, h, "/about")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>About</h1>")

	rec = get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(t, h, "/public/css/styles.css")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOriginSentinelsArePerRoute(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	assertRedirect(t, post(t, h, "/createList", url.Values{"newList": {"work"}, "createList": {"Dashboard"}}), "/lists/Work")

	_, _, err := store.CreateList(context.Background(), "Errands")
	require.NoError(t, err)
	assertRedirect(t, post(t, h, "/addItem", url.Values{"newItem": {"stamps"}, "list": {"Errands"}, "dashboardList": {"View"}}), "/lists/Errands")

	list, err := store.FindList(context.Background(), "Errands")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	rec := post(t, h, "/delete", url.Values{"deleteCheckbox": {list.Items[0].ID}, "listDeleteName": {"Errands"}, "dashboardList": {"View"}})
	assertRedirect(t, rec, "/lists/Errands")
}

func TestNamedList_PercentInNameIsNotDecodedTwice(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	assertRedirect(t, post(t, h, "/createList", url.Values{"newList": {"50%41"}}), "/lists/50%2541")

	rec := get(t, h, "/lists/50%2541")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>50%41</h1>")

	lists, err := store.Lists(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "50%41", lists[0].Name)
}

func TestNamedList_EscapedSlashAndQuestionMark(t *testing.T) {
	store := stores.NewMemory()
	h := newTestRouter(t, store)

	assertRedirect(t, post(t, h, "/createList", url.Values{"newList": {"a/b"}}), "/lists/A%2Fb")
	rec := get(t, h, "/lists/A%2Fb")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>A/b</h1>")

	assertRedirect(t, post(t, h, "/createList", url.Values{"newList": {"why?"}}), "/lists/Why%3F")
	rec = get(t, h, "/lists/Why%3F")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Why?</h1>")

	rec = get(t, h, "/dashboard")
	assert.Contains(t, rec.Body.String(), `href="/lists/A%2Fb"`)
	assert.Contains(t, rec.Body.String(), `href="/lists/Why%3F"`)

	lists, err := store.Lists(context.Background())
	require.NoError(t, err)
	assert.Len(t, lists, 2)
}

package dtos

import (
	"net/url"
	"time"
)

// Origin identifies the page a form was submitted from. It only selects the
// redirect target once the action completes.
type Origin int

const (
	OriginHome Origin = iota
	OriginDashboard
	OriginView
	OriginNamedList
)

func (o Origin) String() string {
	switch o {
	case OriginHome:
		return "home"
	case OriginDashboard:
		return "dashboard"
	case OriginView:
		return "view"
	case OriginNamedList:
		return "list"
	default:
		return "unknown"
	}
}

// Sentinel values the templates post to say where a form came from.
const (
	dashboardSentinel = "Dashboard"
	viewSentinel      = "View"
)

// ParseOrigin returns hit when flag equals the single sentinel the route
// understands, and fallback otherwise.
func ParseOrigin(flag string, sentinel string, hit Origin, fallback Origin) Origin {
	if flag == sentinel {
		return hit
	}
	return fallback
}

type AddItemRequest struct {
	ListName string
	ItemName string
	Origin   Origin
}

func NewAddItemRequest(form url.Values) AddItemRequest {
	return AddItemRequest{
		ListName: form.Get("list"),
		ItemName: form.Get("newItem"),
		Origin:   ParseOrigin(form.Get("dashboardList"), dashboardSentinel, OriginDashboard, OriginNamedList),
	}
}

type DeleteItemRequest struct {
	ListName string
	ItemID   string
	Origin   Origin
}

func NewDeleteItemRequest(form url.Values) DeleteItemRequest {
	return DeleteItemRequest{
		ListName: form.Get("listDeleteName"),
		ItemID:   form.Get("deleteCheckbox"),
		Origin:   ParseOrigin(form.Get("dashboardList"), dashboardSentinel, OriginDashboard, OriginNamedList),
	}
}

type CreateListRequest struct {
	Title  string
	Origin Origin
}

func NewCreateListRequest(form url.Values) CreateListRequest {
	return CreateListRequest{
		Title:  form.Get("newList"),
		Origin: ParseOrigin(form.Get("createList"), viewSentinel, OriginView, OriginNamedList),
	}
}

type DeleteListRequest struct {
	ListID string
	Origin Origin
}

func NewDeleteListRequest(form url.Values) DeleteListRequest {
	return DeleteListRequest{
		ListID: form.Get("deleteCheckbox"),
		Origin: ParseOrigin(form.Get("listDeleteName"), viewSentinel, OriginView, OriginDashboard),
	}
}

type EventType string

const (
	EventListCreated EventType = "list.created"
	EventListDeleted EventType = "list.deleted"
	EventItemAdded   EventType = "item.added"
	EventItemDeleted EventType = "item.deleted"
)

// ListEvent is published whenever a list or one of its items changes. The
// default collection is reported with ListName "List" and no ListID.
type ListEvent struct {
	Type     EventType `json:"type"`
	ListID   string    `json:"listId,omitempty"`
	ListName string    `json:"listName"`
	ItemID   string    `json:"itemId,omitempty"`
	ItemName string    `json:"itemName,omitempty"`
	At       time.Time `json:"at"`
}

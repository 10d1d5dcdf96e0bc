package routes

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"
	"scavngr.io/todolist/dtos"
	"scavngr.io/todolist/models"
	"scavngr.io/todolist/services"
	"scavngr.io/todolist/views"
)

const (
	dashboardTitle = "Dashboard"
	viewTitle      = "View"
	noListsTitle   = "No lists available."
	aboutTitle     = "About"
)

// redirectTargets picks where a form submission lands once it is handled.
var redirectTargets = map[dtos.Origin]func(listName string) string{
	dtos.OriginHome:      func(string) string { return "/" },
	dtos.OriginDashboard: func(string) string { return "/dashboard" },
	dtos.OriginView:      func(string) string { return "/view" },
	dtos.OriginNamedList: listPath,
}

func listPath(name string) string {
	if name == "" {
		return "/"
	}
	return views.ListPath(name)
}

type handler struct {
	lists services.ListService
	views *views.Renderer
}

// New wires every route. Store failures never surface as errors to the
// caller: they are logged and the request still ends in a render or redirect.
func New(lists services.ListService, renderer *views.Renderer) http.Handler {
	h := &handler{lists: lists, views: renderer}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.home)
	r.Post("/addItem", h.addItem)
	r.Post("/delete", h.deleteItem)
	r.Get("/about", h.about)
	r.Get("/dashboard", h.dashboard)
	r.Get("/view", h.view)
	r.Post("/createList", h.createList)
	r.Post("/deleteList", h.deleteList)
	r.Get("/lists/{customListName}", h.namedList)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "ok")
	})
	r.Handle("/public/*", http.StripPrefix("/public/", http.FileServerFS(views.Public())))

	return r
}

func (h *handler) home(w http.ResponseWriter, r *http.Request) {
	items, err := h.lists.DefaultItems(r.Context())
	if err != nil {
		log.Err(err).Msg("unable to load default items")
	} else if len(items) == 0 {
		// Seeding just happened; come back to render the seeded items.
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	h.render(w, r, views.PageList, views.Page{
		Title:    models.DefaultListName,
		ListName: models.DefaultListName,
		Items:    items,
	})
}

func (h *handler) addItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Err(err).Msg("unable to parse add item form")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	req := dtos.NewAddItemRequest(r.PostForm)
	listName := h.lists.NormalizeName(req.ListName)
	origin := req.Origin
	if listName == models.DefaultListName {
		origin = dtos.OriginHome
	}

	if _, err := h.lists.AddItem(r.Context(), listName, req.ItemName); err != nil {
		log.Err(err).Str("list", listName).Msg("unable to add item")
	}

	h.redirect(w, r, origin, listName)
}

func (h *handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Err(err).Msg("unable to parse delete item form")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	req := dtos.NewDeleteItemRequest(r.PostForm)
	listName := h.lists.NormalizeName(req.ListName)
	origin := req.Origin
	if listName == models.DefaultListName {
		origin = dtos.OriginHome
	}

	if err := h.lists.DeleteItem(r.Context(), listName, req.ItemID); err != nil {
		log.Err(err).Str("item", req.ItemID).Str("list", listName).Msg("unable to delete item")
	}

	h.redirect(w, r, origin, listName)
}

func (h *handler) about(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.PageAbout, views.Page{Title: aboutTitle})
}

func (h *handler) dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderLists(w, r, views.PageDashboard, dashboardTitle)
}

func (h *handler) view(w http.ResponseWriter, r *http.Request) {
	h.renderLists(w, r, views.PageView, viewTitle)
}

func (h *handler) renderLists(w http.ResponseWriter, r *http.Request, page string, title string) {
	lists, err := h.lists.Lists(r.Context())
	if err != nil {
		log.Err(err).Str("page", page).Msg("unable to load lists")
	}
	if len(lists) == 0 {
		title = noListsTitle
	}

	h.render(w, r, page, views.Page{Title: title, Lists: lists})
}

func (h *handler) createList(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Err(err).Msg("unable to parse create list form")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	req := dtos.NewCreateListRequest(r.PostForm)
	list, _, err := h.lists.CreateList(r.Context(), req.Title)
	if err != nil {
		if errors.Is(err, models.ErrValidationFailed) {
			log.Info().Str("title", req.Title).Msg("Invalid List Title")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		log.Err(err).Str("title", req.Title).Msg("unable to create list")
		h.redirect(w, r, req.Origin, h.lists.NormalizeName(req.Title))
		return
	}

	h.redirect(w, r, req.Origin, list.Name)
}

func (h *handler) deleteList(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Err(err).Msg("unable to parse delete list form")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	req := dtos.NewDeleteListRequest(r.PostForm)
	log.Info().Str("id", req.ListID).Msg("ID to be deleted")

	if _, err := h.lists.DeleteList(r.Context(), req.ListID); err != nil {
		log.Err(err).Str("id", req.ListID).Msg("unable to delete list")
	}

	h.redirect(w, r, req.Origin, "")
}

func (h *handler) namedList(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the request carried escapes that Path
	// cannot represent (such as %2F); only then is the segment still escaped.
	raw := r.PathValue("customListName")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(raw); err == nil {
			raw = unescaped
		}
	}

	name := h.lists.NormalizeName(raw)
	if name == models.DefaultListName {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	list, created, err := h.lists.OpenList(r.Context(), name)
	if err != nil {
		log.Err(err).Str("list", name).Msg("unable to open list")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	// Keep the address bar on the canonical name.
	if created || raw != list.Name {
		http.Redirect(w, r, listPath(list.Name), http.StatusFound)
		return
	}

	h.render(w, r, views.PageList, views.Page{
		Title:    list.Name,
		ListName: list.Name,
		Items:    list.Items,
	})
}

func (h *handler) redirect(w http.ResponseWriter, r *http.Request, origin dtos.Origin, listName string) {
	target, ok := redirectTargets[origin]
	if !ok {
		target = redirectTargets[dtos.OriginHome]
	}
	location := target(listName)
	log.Debug().Str("origin", origin.String()).Str("location", location).Msg("redirecting")
	http.Redirect(w, r, location, http.StatusFound)
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, page string, data views.Page) {
	var buf bytes.Buffer
	if err := h.views.Render(&buf, page, data); err != nil {
		log.Err(err).Str("page", page).Msg("unable to render page")
		render.Status(r, http.StatusInternalServerError)
		render.PlainText(w, r, "")
		return
	}

	render.HTML(w, r, buf.String())
}

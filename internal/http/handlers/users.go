package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/hongminglow/lendsqr-admin/internal/auth"
	"github.com/hongminglow/lendsqr-admin/internal/http/respond"
	"github.com/hongminglow/lendsqr-admin/internal/layout"
	"github.com/hongminglow/lendsqr-admin/internal/listing"
	"github.com/hongminglow/lendsqr-admin/internal/models"
	"github.com/hongminglow/lendsqr-admin/internal/models/dto"
	"github.com/hongminglow/lendsqr-admin/internal/source"
	"github.com/hongminglow/lendsqr-admin/internal/storage"
	"github.com/hongminglow/lendsqr-admin/internal/web"
)

const (
	// sourceUsers selects the plain users list; anything else means the dashboard list.
	sourceUsers = "users"

	handoffSource = "handoff"
	lookupSource  = "lookup"
)

// UsersHandler serves the two list views, row activation, row actions and
// the detail view, plus their JSON twins under /api.
type UsersHandler struct {
	dashboard source.Fetcher
	plain     source.Fetcher
	store     storage.HandoffStore
	views     *web.Renderer
	logger    *slog.Logger
}

// NewUsersHandler constructs the handler. dashboard and plain read the two
// upstream documents.
func NewUsersHandler(dashboard, plain source.Fetcher, store storage.HandoffStore, views *web.Renderer, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{dashboard: dashboard, plain: plain, store: store, views: views, logger: logger}
}

// Register attaches user routes to the router.
func (h *UsersHandler) Register(r *mux.Router) {
	r.HandleFunc("/dashboard", h.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/users", h.handleUsers).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}/open", h.handleOpen).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}/actions/{action}", h.handleAction).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}", h.handleDetail).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/users", h.handleAPIList).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", h.handleAPIDetail).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/select", h.handleAPISelect).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}/actions/{action}", h.handleAPIAction).Methods(http.MethodPost)
	api.HandleFunc("/stats", h.handleAPIStats).Methods(http.MethodGet)
}

// dashboardState is everything the dashboard URL carries.
type dashboardState struct {
	page     int
	criteria listing.Criteria
	popover  listing.Popover
	menu     listing.ActionMenu
	sidebar  bool
}

func dashboardStateFrom(q url.Values) dashboardState {
	return dashboardState{
		page:     listing.ParsePage(q.Get("page")),
		criteria: listing.CriteriaFromQuery(q),
		popover:  listing.NewPopover(q.Get("filter")),
		menu:     listing.NewActionMenu(q.Get("menu")),
		sidebar:  q.Get(layout.SidebarParam) == "open",
	}
}

// with returns a copy whose criteria map is not shared with s.
func (s dashboardState) with(fn func(*dashboardState)) dashboardState {
	c := s
	c.criteria = listing.NewCriteria()
	for k, v := range s.criteria {
		c.criteria.Set(k, v)
	}
	fn(&c)
	return c
}

func (s dashboardState) url() string {
	q := url.Values{}
	if s.page > 1 {
		q.Set("page", strconv.Itoa(s.page))
	}
	s.criteria.Encode(q)
	if f := s.popover.Open(); f != "" {
		q.Set("filter", string(f))
	}
	if id := s.menu.OpenID(); id != "" {
		q.Set("menu", id)
	}
	if s.sidebar {
		q.Set(layout.SidebarParam, "open")
	}
	if len(q) == 0 {
		return dashboardPath
	}
	return dashboardPath + "?" + q.Encode()
}

func (h *UsersHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := dashboardStateFrom(q)
	view := web.DashboardView{
		Page:    newPage("Dashboard", r),
		Cards:   listing.Stats{}.Cards(),
		Sidebar: state.sidebar,
	}

	users, err := h.dashboard.FetchUsers(r.Context())
	if err != nil {
		h.logger.Error("load dashboard users", "error", err)
		view.Error = loadFailure(err)
		render(w, h.views, h.logger, http.StatusBadGateway, web.PageDashboard, view)
		return
	}

	switch {
	case q.Has("reset"):
		state.criteria.Reset()
		state.popover.Close()
	case q.Has("apply"):
		state.popover.Close()
		h.logger.Info("applying filters", "criteria", map[listing.Field]string(state.criteria))
	}

	rows := listing.Apply(users, state.criteria)
	page := listing.Paginate(rows, state.page)
	state.page = page.Number
	options := listing.DistinctOptions(users)

	view.Cards = listing.ComputeStats(users).Cards()
	view.Organizations = options.Organizations
	view.Statuses = options.Statuses
	view.Filters = make(map[string]string, len(listing.Fields))
	for _, f := range listing.Fields {
		view.Filters[string(f)] = state.criteria.Get(f)
		toggled := state.with(func(s *dashboardState) {
			s.popover.Click(f)
			s.menu.Close()
		})
		view.Columns = append(view.Columns, web.Column{
			Field:     string(f),
			Header:    f.Header(),
			ToggleURL: toggled.url(),
			Open:      state.popover.IsOpen(f),
		})
	}

	returnTo := state.with(func(s *dashboardState) { s.menu.Close() }).url()
	for _, u := range page.Items {
		id := u.ID.String()
		menu := state.with(func(s *dashboardState) {
			s.menu.Toggle(id)
			s.popover.Close()
		})
		row := newRow(u, "")
		row.MenuURL = menu.url()
		row.MenuOpen = state.menu.IsOpen(id)
		row.ReturnTo = returnTo
		for _, a := range listing.Actions {
			row.Actions = append(row.Actions, web.Action{Label: a.Label(), URL: userPath(id) + "/actions/" + string(a)})
		}
		view.Rows = append(view.Rows, row)
	}
	if state.menu.OpenID() != "" {
		view.CloseMenuURL = returnTo
	}

	view.Pager = pager(page, func(n int) string {
		return state.with(func(s *dashboardState) {
			s.page = n
			s.menu.Close()
		}).url()
	})
	render(w, h.views, h.logger, http.StatusOK, web.PageDashboard, view)
}

func (h *UsersHandler) handleUsers(w http.ResponseWriter, r *http.Request) {
	view := web.UsersView{Page: newPage("Users", r)}

	users, err := h.plain.FetchUsers(r.Context())
	if err != nil {
		h.logger.Error("load users", "error", err)
		view.Error = "Failed to load users"
		render(w, h.views, h.logger, http.StatusBadGateway, web.PageUsers, view)
		return
	}

	page := listing.Paginate(users, listing.ParsePage(r.URL.Query().Get("page")))
	for _, u := range page.Items {
		view.Rows = append(view.Rows, newRow(u, sourceUsers))
	}
	view.Pager = pager(page, func(n int) string {
		return "/users?page=" + strconv.Itoa(n)
	})
	render(w, h.views, h.logger, http.StatusOK, web.PageUsers, view)
}

// handleOpen is row activation: the record goes into the session's hand-off
// slot and the browser moves on to the detail route.
func (h *UsersHandler) handleOpen(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.activate(r.Context(), id, r.URL.Query().Get("from")); err != nil {
		h.logger.Warn("activate row", "user_id", id, "error", err)
	}
	http.Redirect(w, r, detailURL(id, r.URL.Query().Get("from")), http.StatusFound)
}

func (h *UsersHandler) handleAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	action, ok := listing.ParseAction(vars["action"])
	if !ok {
		http.NotFound(w, r)
		return
	}

	if action == listing.ActionView {
		if _, err := h.activate(r.Context(), id, ""); err != nil {
			h.logger.Warn("activate row", "user_id", id, "error", err)
		}
		http.Redirect(w, r, userPath(id), http.StatusSeeOther)
		return
	}

	h.logAction(r.Context(), action, id)
	http.Redirect(w, r, safeReturn(r.PostFormValue("return")), http.StatusSeeOther)
}

func (h *UsersHandler) handleDetail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	user, origin, err := h.resolve(r.Context(), id, r.URL.Query().Get("from"))
	if err != nil {
		h.logger.Info("user detail unavailable", "user_id", id, "error", err)
		render(w, h.views, h.logger, http.StatusNotFound, web.PageDetailMissing, web.MissingView{
			Page:    newPage("User Details", r),
			BackURL: dashboardPath,
		})
		return
	}

	render(w, h.views, h.logger, http.StatusOK, web.PageDetail, web.DetailView{
		Page:    newPage("User Details", r),
		User:    user,
		Record:  recordItems(user),
		Profile: models.PlaceholderProfile(),
		BackURL: dashboardPath,
		Source:  origin,
	})
}

func (h *UsersHandler) handleAPIList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := h.fetcher(q.Get("source")).FetchUsers(r.Context())
	if err != nil {
		h.logger.Error("load users", "error", err)
		respond.Error(w, http.StatusBadGateway, loadFailure(err))
		return
	}
	page := listing.Paginate(users, listing.ParsePage(q.Get("page")))
	respond.JSON(w, http.StatusOK, "users fetched", dto.UserPage{
		Users:        page.Items,
		Page:         page.Number,
		PageSize:     listing.PageSize,
		TotalPages:   page.TotalPages,
		Total:        page.Total,
		PrevDisabled: page.PrevDisabled,
		NextDisabled: page.NextDisabled,
	})
}

func (h *UsersHandler) handleAPIDetail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	user, origin, err := h.resolve(r.Context(), id, r.URL.Query().Get("source"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	}
	respond.JSON(w, http.StatusOK, "user fetched", dto.UserDetail{
		User:    user,
		Profile: models.PlaceholderProfile(),
		Source:  origin,
	})
}

func (h *UsersHandler) handleAPISelect(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	user, err := h.activate(r.Context(), id, r.URL.Query().Get("source"))
	if err != nil {
		if errors.Is(err, source.ErrUserNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		respond.Error(w, http.StatusBadGateway, loadFailure(err))
		return
	}
	respond.JSON(w, http.StatusOK, "user selected", user)
}

func (h *UsersHandler) handleAPIAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	action, ok := listing.ParseAction(vars["action"])
	if !ok {
		respond.Error(w, http.StatusNotFound, "unknown action")
		return
	}
	if action == listing.ActionView {
		respond.JSON(w, http.StatusOK, "view user", map[string]string{"redirect": userPath(id)})
		return
	}
	h.logAction(r.Context(), action, id)
	respond.JSON(w, http.StatusAccepted, string(action)+" request logged", nil)
}

func (h *UsersHandler) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	users, err := h.fetcher(r.URL.Query().Get("source")).FetchUsers(r.Context())
	if err != nil {
		h.logger.Error("load users", "error", err)
		respond.Error(w, http.StatusBadGateway, loadFailure(err))
		return
	}
	stats := listing.ComputeStats(users)
	options := listing.DistinctOptions(users)
	respond.JSON(w, http.StatusOK, "stats computed", dto.StatsResponse{
		Users:         stats.Users,
		ActiveUsers:   stats.Active,
		WithLoans:     stats.WithLoans,
		WithSavings:   stats.WithSavings,
		Organizations: options.Organizations,
		Statuses:      options.Statuses,
	})
}

// activate looks the row up and writes it to the session's hand-off slot.
// A failed write is logged and otherwise ignored; the detail view can still
// find the record by identifier.
func (h *UsersHandler) activate(ctx context.Context, id, from string) (models.User, error) {
	user, err := h.lookup(ctx, id, from)
	if err != nil {
		return models.User{}, err
	}
	session, ok := auth.SessionFrom(ctx)
	if !ok {
		return user, nil
	}
	if err := h.store.Put(ctx, session.ID, user); err != nil {
		h.logger.Error("write handoff", "user_id", id, "error", err)
	}
	return user, nil
}

// resolve prefers the session's hand-off record when it matches id and
// otherwise looks id up in the upstream lists.
func (h *UsersHandler) resolve(ctx context.Context, id, from string) (models.User, string, error) {
	if session, ok := auth.SessionFrom(ctx); ok {
		user, err := h.store.Get(ctx, session.ID)
		switch {
		case err == nil && user.ID.String() == id:
			return user, handoffSource, nil
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			h.logger.Warn("read handoff", "error", err)
		}
	}
	user, err := h.lookup(ctx, id, from)
	if err != nil {
		return models.User{}, "", err
	}
	return user, lookupSource, nil
}

// lookup searches the preferred list first, then the other one.
func (h *UsersHandler) lookup(ctx context.Context, id, from string) (models.User, error) {
	order := []source.Fetcher{h.dashboard, h.plain}
	if from == sourceUsers {
		order = []source.Fetcher{h.plain, h.dashboard}
	}
	var lastErr error
	for _, f := range order {
		user, err := source.FindByID(ctx, f, id)
		if err == nil {
			return user, nil
		}
		lastErr = err
	}
	return models.User{}, lastErr
}

func (h *UsersHandler) fetcher(name string) source.Fetcher {
	if name == sourceUsers {
		return h.plain
	}
	return h.dashboard
}

// logAction records a blacklist or activate request. Neither changes any
// state: the upstream list is read-only.
func (h *UsersHandler) logAction(ctx context.Context, action listing.Action, id string) {
	email := ""
	if session, ok := auth.SessionFrom(ctx); ok {
		email = session.Email
	}
	h.logger.Info("user action requested", "action", string(action), "user_id", id, "by", email)
}

// loadFailure is the message shown when the dashboard list cannot be loaded.
// The cause is capitalised the way the list's own errors read on screen.
func loadFailure(err error) string {
	cause := err.Error()
	if cause != "" {
		cause = strings.ToUpper(cause[:1]) + cause[1:]
	}
	return "Failed to load users: " + cause
}

func newPage(title string, r *http.Request) web.Page {
	return web.Page{Title: title, Shell: layout.NewShell(r.URL, layout.ViewportWidth(r.Header))}
}

func newRow(u models.User, from string) web.Row {
	id := u.ID.String()
	open := userPath(id) + "/open"
	if from != "" {
		open += "?from=" + url.QueryEscape(from)
	}
	return web.Row{
		User:        u,
		OpenURL:     open,
		StatusClass: models.StatusClass(u.Status),
		StatusLabel: models.StatusLabel(u.Status),
		Joined:      u.JoinedOn(),
	}
}

func pager(page listing.Page, link func(int) string) web.Pager {
	p := web.Pager{
		Number:       page.Number,
		TotalPages:   page.TotalPages,
		PrevDisabled: page.PrevDisabled,
		NextDisabled: page.NextDisabled,
	}
	if !p.PrevDisabled {
		p.PrevURL = link(page.PrevNumber())
	}
	if !p.NextDisabled {
		p.NextURL = link(page.NextNumber())
	}
	return p
}

func recordItems(u models.User) []models.DetailItem {
	return []models.DetailItem{
		{Label: "ORGANIZATION", Value: u.Organization},
		{Label: "USERNAME", Value: u.Username},
		{Label: "EMAIL ADDRESS", Value: u.Email},
		{Label: "PHONE NUMBER", Value: u.Phone},
		{Label: "DATE JOINED", Value: u.JoinedOn()},
		{Label: "STATUS", Value: models.StatusLabel(u.Status)},
		{Label: "LOANS", Value: amount(u.Loans)},
		{Label: "SAVINGS", Value: amount(u.Savings)},
	}
}

func amount(a models.Amount) string {
	if a == 0 {
		return ""
	}
	return strconv.FormatFloat(float64(a), 'f', -1, 64)
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}

func detailURL(id, from string) string {
	if from == "" {
		return userPath(id)
	}
	return userPath(id) + "?from=" + url.QueryEscape(from)
}

// safeReturn only follows local paths.
func safeReturn(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return dashboardPath
	}
	return target
}

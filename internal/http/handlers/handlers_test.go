package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	goversion "github.com/caarlos0/go-version"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/lendsqr-admin/internal/auth"
	"github.com/hongminglow/lendsqr-admin/internal/http/respond"
	"github.com/hongminglow/lendsqr-admin/internal/layout"
	"github.com/hongminglow/lendsqr-admin/internal/middleware"
	"github.com/hongminglow/lendsqr-admin/internal/models"
	"github.com/hongminglow/lendsqr-admin/internal/models/dto"
	"github.com/hongminglow/lendsqr-admin/internal/source"
	"github.com/hongminglow/lendsqr-admin/internal/storage/memory"
	"github.com/hongminglow/lendsqr-admin/internal/web"
)

type stubFetcher struct {
	users []models.User
	err   error
}

func (s *stubFetcher) FetchUsers(context.Context) ([]models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users, nil
}

type failingAuthenticator struct{}

func (failingAuthenticator) Authenticate(context.Context, string, string) error {
	return fmt.Errorf("rejected")
}

func makeUsers(n int) []models.User {
	users := make([]models.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, models.User{
			ID:           models.ID(fmt.Sprint(i)),
			Organization: fmt.Sprintf("Org %d", i%3),
			Username:     fmt.Sprintf("user%02d", i),
			Email:        fmt.Sprintf("user%02d@example.com", i),
			Phone:        "08012345678",
			DateJoined:   "2023-05-10T00:00:00Z",
			Status:       "active",
		})
	}
	return users
}

type harness struct {
	handler   http.Handler
	dashboard *stubFetcher
	plain     *stubFetcher
	store     *memory.Store
}

func newHarness(t *testing.T, authn auth.Authenticator) *harness {
	t.Helper()
	views, err := web.NewRenderer()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("test-secret", "lendsqr-admin", time.Hour)
	if authn == nil {
		authn = auth.NewDemoAuthenticator(0)
	}

	h := &harness{
		dashboard: &stubFetcher{users: makeUsers(25)},
		plain:     &stubFetcher{users: makeUsers(3)},
		store:     memory.NewHandoffStore(time.Hour),
	}

	router := mux.NewRouter()
	authHandler := NewAuthHandler(authn, tokens, views, logger)
	authHandler.Register(router)
	NewUsersHandler(h.dashboard, h.plain, h.store, views, logger).Register(router)
	NewHealthHandler(time.Now(), goversion.Info{GitVersion: "test"}).Register(router)
	router.NotFoundHandler = http.HandlerFunc(authHandler.NotFound)

	h.handler = middleware.Session(tokens, logger, router)
	return h
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	return rr
}

func (h *harness) client(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(h.handler)
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func decodeEnvelope(t *testing.T, body io.Reader, data any) respond.Envelope {
	t.Helper()
	var raw struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&raw))
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return respond.Envelope{Code: raw.Code, Message: raw.Message}
}

func TestLoginPageRenders(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `<form method="post" action="/">`)
	assert.Contains(t, rr.Body.String(), "SHOW")
}

func TestLoginPageShowPasswordToggle(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(httptest.NewRequest(http.MethodGet, "/?show=1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "HIDE")
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginSubmitValidation(t *testing.T) {
	h := newHarness(t, nil)

	cases := []struct {
		name     string
		email    string
		password string
		want     string
	}{
		{"empty", "", "", auth.MsgFillAllFields},
		{"missing password", "admin@lendsqr.com", "", auth.MsgFillAllFields},
		{"bad email", "admin.lendsqr.com", "Passw0rd!", auth.MsgInvalidEmail},
		{"weak password", "admin@lendsqr.com", "abcdefgh", "Password requirements: " + auth.MsgPasswordUppercase},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := h.do(postForm("/", url.Values{"email": {tc.email}, "password": {tc.password}}))

			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.want)
		})
	}
}

func TestLoginSubmitSuccessRedirectsToDashboard(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(postForm("/", url.Values{"email": {"admin@lendsqr.com"}, "password": {"Passw0rd!"}}))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))

	var found bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CookieName {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLoginSubmitRejected(t *testing.T) {
	h := newHarness(t, failingAuthenticator{})

	rr := h.do(postForm("/", url.Values{"email": {"admin@lendsqr.com"}, "password": {"Passw0rd!"}}))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), auth.MsgInvalidLogin)
}

func TestAPILogin(t *testing.T) {
	h := newHarness(t, nil)

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"admin@lendsqr.com","password":"Passw0rd!"}`))
		rr := h.do(req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp dto.LoginResponse
		decodeEnvelope(t, rr.Body, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "admin@lendsqr.com", resp.Email)
		assert.Equal(t, "/dashboard", resp.Redirect)
	})

	t.Run("validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"admin@lendsqr.com","password":"abcdefgh"}`))
		rr := h.do(req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		var body dto.ValidationErrorBody
		env := decodeEnvelope(t, rr.Body, &body)
		assert.True(t, strings.HasPrefix(env.Message, "Password requirements: "))
		assert.Equal(t, []string{auth.MsgPasswordUppercase, auth.MsgPasswordNumber, auth.MsgPasswordSymbol}, body.Violations)
	})

	t.Run("bad json", func(t *testing.T) {
		rr := h.do(httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCatchAllFallsBackToLogin(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(httptest.NewRequest(http.MethodGet, "/does/not/exist", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Login | Lendsqr")

	rr = h.do(httptest.NewRequest(http.MethodGet, "/api/nothing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestDashboardFirstPage(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Page 1 of 2")
	assert.Contains(t, body, "user20")
	assert.NotContains(t, body, "user21")
	assert.Contains(t, body, `<h2 class="stat-value">25</h2>`)
}

func TestDashboardClampsPage(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(httptest.NewRequest(http.MethodGet, "/dashboard?page=9", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Page 2 of 2")
	assert.Contains(t, rr.Body.String(), "user25")
}

func TestDashboardUpstreamFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.dashboard.err = &source.StatusError{Code: http.StatusInternalServerError}

	rr := h.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Failed to load users: HTTP error! status: 500")
	assert.NotContains(t, body, `class="users-table"`)
	assert.Contains(t, body, `<h2 class="stat-value">0</h2>`)
}

func TestDashboardInvalidFormatMessage(t *testing.T) {
	h := newHarness(t, nil)
	h.dashboard.err = source.ErrNotArray

	rr := h.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to load users: Invalid data format: expected array")
}

func TestDashboardApplyDoesNotFilter(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(httptest.NewRequest(http.MethodGet, "/dashboard?apply=&organization=Org+1&username=user01", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "user02")
	assert.Contains(t, body, "user20")
	assert.Contains(t, body, "Page 1 of 2")
}

func TestDashboardFilterPopoverAndMenu(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(httptest.NewRequest(http.MethodGet, "/dashboard?filter=organization", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `class="filter-dropdown"`)

	rr = h.do(httptest.NewRequest(http.MethodGet, "/dashboard?menu=3", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `class="filter-dropdown"`)
	assert.Contains(t, rr.Body.String(), "/users/3/actions/blacklist")
}

func TestSidebarFollowsViewportHint(t *testing.T) {
	h := newHarness(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/3?sidebar=open", nil)
	rr := h.do(req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, layout.ViewportHintHeader, rr.Header().Get("Accept-CH"))
	assert.Contains(t, rr.Body.String(), `class="sidebar sidebar-open"`)

	req = httptest.NewRequest(http.MethodGet, "/users/3?sidebar=open", nil)
	req.Header.Set(layout.ViewportHintHeader, "1440")
	rr = h.do(req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `class="sidebar sidebar-open"`)
}

func TestUsersPage(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(httptest.NewRequest(http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Page 1 / 1")
	assert.Contains(t, rr.Body.String(), "/users/2/open?from=users")

	h.plain.err = source.ErrNotArray
	rr = h.do(httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to load users")
	assert.NotContains(t, rr.Body.String(), "Failed to load users:")
}

func TestRowOpenHandsOffToDetail(t *testing.T) {
	h := newHarness(t, nil)
	h.dashboard.users = append(h.dashboard.users, models.User{ID: "42", Username: "grace", Status: "Blacklisted"})
	srv, client := h.client(t)

	resp, err := client.Get(srv.URL + "/users/42/open")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/users/42", resp.Request.URL.Path)
	assert.Contains(t, string(body), `data-source="handoff"`)
	assert.Contains(t, string(body), "grace")
}

func TestDetailFallsBackToLookup(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(httptest.NewRequest(http.MethodGet, "/users/7", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `data-source="lookup"`)
	assert.Contains(t, rr.Body.String(), "user07")
}

func TestDetailMissing(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(httptest.NewRequest(http.MethodGet, "/users/999", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "User not found")
	assert.Contains(t, rr.Body.String(), "Back to Users")
}

func TestRowActionRedirects(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(postForm("/users/3/actions/blacklist", url.Values{"return": {"/dashboard?page=2"}}))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard?page=2", rr.Header().Get("Location"))

	rr = h.do(postForm("/users/3/actions/activate", url.Values{"return": {"https://evil.example"}}))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))

	rr = h.do(postForm("/users/3/actions/view", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/users/3", rr.Header().Get("Location"))

	rr = h.do(postForm("/users/3/actions/delete", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPIUsersPagination(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(httptest.NewRequest(http.MethodGet, "/api/users?page=2", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var page dto.UserPage
	decodeEnvelope(t, rr.Body, &page)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 25, page.Total)
	assert.Len(t, page.Users, 5)
	assert.False(t, page.PrevDisabled)
	assert.True(t, page.NextDisabled)
}

func TestAPIUsersUpstreamFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.dashboard.err = &source.StatusError{Code: http.StatusNotFound}

	rr := h.do(httptest.NewRequest(http.MethodGet, "/api/users", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	env := decodeEnvelope(t, rr.Body, nil)
	assert.Equal(t, "Failed to load users: HTTP error! status: 404", env.Message)
}

func TestAPISelectThenDetail(t *testing.T) {
	h := newHarness(t, nil)
	srv, client := h.client(t)

	resp, err := client.Post(srv.URL+"/api/users/5/select", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(srv.URL + "/api/users/5")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail dto.UserDetail
	decodeEnvelope(t, resp.Body, &detail)
	assert.Equal(t, "handoff", detail.Source)
	assert.Equal(t, "user05", detail.User.Username)
	assert.True(t, detail.Profile.Placeholder)

	resp, err = client.Post(srv.URL+"/api/users/404/select", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPIStats(t *testing.T) {
	h := newHarness(t, nil)
	h.dashboard.users = []models.User{
		{ID: "1", Organization: "Lendsqr", Status: "Active", Loans: 1000},
		{ID: "2", Organization: "Irorun", Status: "Pending", Savings: 50},
		{ID: "3", Organization: "Lendsqr", Status: "active"},
	}

	rr := h.do(httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var stats dto.StatsResponse
	decodeEnvelope(t, rr.Body, &stats)
	assert.Equal(t, 3, stats.Users)
	assert.Equal(t, 2, stats.ActiveUsers)
	assert.Equal(t, 1, stats.WithLoans)
	assert.Equal(t, 1, stats.WithSavings)
	assert.Equal(t, []string{"Lendsqr", "Irorun"}, stats.Organizations)
	assert.Equal(t, []string{"Active", "Pending", "active"}, stats.Statuses)
}

func TestHealth(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	decodeEnvelope(t, rr.Body, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

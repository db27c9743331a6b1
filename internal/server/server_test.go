package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goversion "github.com/caarlos0/go-version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/lendsqr-admin/internal/auth"
	"github.com/hongminglow/lendsqr-admin/internal/config"
	"github.com/hongminglow/lendsqr-admin/internal/storage/memory"
)

func testConfig(upstream string) config.Config {
	return config.Config{
		Port:               "0",
		UsersSourceURL:     upstream,
		DashboardSourceURL: upstream,
		SourceTimeout:      time.Second,
		JWTSecret:          "secret",
		JWTIssuer:          "lendsqr-admin",
		JWTTTL:             time.Hour,
		CORSOrigins:        []string{"*"},
	}
}

func newTestServer(t *testing.T, upstream string) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := New(testConfig(upstream), memory.NewHandoffStore(time.Hour), logger, goversion.Info{GitVersion: "v-test"})
	require.NoError(t, err)
	return srv
}

func TestServerServesDashboardWithSessionCookie(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"1","username":"tade","organization":"Lendsqr","status":"Active"}]`))
	}))
	defer upstream.Close()

	srv := newTestServer(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "tade")
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var session bool
	for _, c := range rr.Result().Cookies() {
		session = session || c.Name == auth.CookieName
	}
	assert.True(t, session)
}

func TestServerHealth(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:0")

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "v-test")
	assert.Equal(t, ":0", srv.Addr())
}

func TestServerUnknownRouteShowsLogin(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:0")

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/settings", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Login | Lendsqr")
}

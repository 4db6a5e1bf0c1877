package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wanderlist/internal/config"
	"wanderlist/internal/crypto"
	"wanderlist/internal/guard"
	"wanderlist/internal/models"
	"wanderlist/internal/session"
)

func newTestLogrus() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fixture struct {
	server *Server
	store  *session.Store

	// lastAuthHeader records what the fake backend saw on /api calls.
	lastAuthHeader string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{}

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			var req struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.Password != "right" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"token": "backend-token",
				"user": map[string]interface{}{
					"id": 1, "name": "Alice", "username": "alice",
					"email": "a@b.com", "role": "user", "avatar": "",
				},
			})
			return
		}
		f.lastAuthHeader = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(backend.Close)

	// The fake frontend echoes the path it was asked for, which makes
	// rewrites observable.
	frontend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("page:" + r.URL.Path + "?" + r.URL.RawQuery))
	}))
	t.Cleanup(frontend.Close)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Gateway.BackendURL = backend.URL
	cfg.Gateway.FrontendURL = frontend.URL

	f.store = session.NewStore(key, false, time.Hour, zap.NewNop())
	client := session.NewClient(backend.URL, zap.NewNop())
	bridge := session.NewBridge(f.store, client, zap.NewNop())

	srv, err := NewServer(cfg, bridge, guard.New(guard.DefaultConfig()), zap.NewNop(), newTestLogrus())
	require.NoError(t, err)
	f.server = srv
	return f
}

func (f *fixture) request(t *testing.T, method, target, body string, sess *session.Session) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	// ReverseProxy falls back to CloseNotify (which ResponseRecorder lacks)
	// unless the request context is cancellable.
	ctx, cancel := context.WithCancel(req.Context())
	t.Cleanup(cancel)
	req = req.WithContext(ctx)
	if sess != nil {
		w := httptest.NewRecorder()
		require.NoError(t, f.store.Write(w, sess))
		for _, cookie := range w.Result().Cookies() {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	f.server.Router().ServeHTTP(w, req)
	return w
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	f := newFixture(t)

	w := f.request(t, http.MethodPost, "/session/login", `{"email":"a@b.com","password":"right"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var sessionCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == session.CookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.NotEmpty(t, sessionCookie.Value)

	// The response body must not leak the bearer token.
	assert.NotContains(t, w.Body.String(), "backend-token")
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)

	w := f.request(t, http.MethodPost, "/session/login", `{"email":"a@b.com","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	for _, cookie := range w.Result().Cookies() {
		assert.NotEqual(t, session.CookieName, cookie.Name)
	}
}

func TestProxyAPI_AttachesBearerToken(t *testing.T) {
	f := newFixture(t)

	sess := &session.Session{ID: 1, Role: models.RoleUser, Token: "backend-token"}
	w := f.request(t, http.MethodGet, "/api/profile", "", sess)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bearer backend-token", f.lastAuthHeader)
}

func TestProxyAPI_AnonymousHasNoAuthHeader(t *testing.T) {
	f := newFixture(t)

	w := f.request(t, http.MethodGet, "/api/locations", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.lastAuthHeader)
}

func TestServePage_AdminRewriteKeepsURL(t *testing.T) {
	f := newFixture(t)

	sess := &session.Session{ID: 1, Role: models.RoleUser, Token: "tok"}
	w := f.request(t, http.MethodGet, "/admin/reports", "", sess)

	// Not a redirect: the browser URL stays /admin/reports while the login
	// page's content is served with the error indicator.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "page:/login?error=forbidden")
}

func TestServePage_AuthenticatedLoginRedirectsHome(t *testing.T) {
	f := newFixture(t)

	sess := &session.Session{ID: 1, Role: models.RoleUser, Token: "tok"}
	w := f.request(t, http.MethodGet, "/login", "", sess)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRefreshProfile_UpdatesCookieOnly(t *testing.T) {
	f := newFixture(t)

	sess := &session.Session{ID: 1, Name: "Old", Role: models.RoleUser, Token: "tok"}
	w := f.request(t, http.MethodPatch, "/session/profile", `{"name":"New"}`, sess)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range w.Result().Cookies() {
		req.AddCookie(cookie)
	}
	updated := f.store.Read(req)
	require.NotNil(t, updated)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "tok", updated.Token)
	assert.Equal(t, models.RoleUser, updated.Role)
}

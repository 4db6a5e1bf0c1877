package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wanderlist/internal/crypto"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return NewStore(key, false, time.Hour, zap.NewNop())
}

// fakeBackend mimics the credential-exchange endpoint for a single identity.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Email != "a@b.com" || req.Password != "right" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid email or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "opaque-bearer-token",
			"user": map[string]interface{}{
				"id": 1, "name": "Alice", "username": "alice",
				"email": "a@b.com", "role": "user", "avatar": "",
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	sess := &Session{
		ID: 1, Name: "Alice", Username: "alice", Email: "a@b.com",
		Role: "user", Token: "tok", IssuedAt: time.Now().UTC().Truncate(time.Second),
	}

	w := httptest.NewRecorder()
	require.NoError(t, store.Write(w, sess))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range w.Result().Cookies() {
		req.AddCookie(cookie)
	}

	got := store.Read(req)
	require.NotNil(t, got)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.Token, got.Token)
	assert.Equal(t, sess.Role, got.Role)
}

func TestStore_Read_NoCookie(t *testing.T) {
	store := newTestStore(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, store.Read(req))
}

func TestStore_Read_TamperedCookie(t *testing.T) {
	store := newTestStore(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-real-sealed-value"})
	assert.Nil(t, store.Read(req))
}

func TestStore_Read_WrongKey(t *testing.T) {
	store := newTestStore(t)
	other := newTestStore(t)

	w := httptest.NewRecorder()
	require.NoError(t, store.Write(w, &Session{ID: 1, Token: "tok", Role: "user"}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range w.Result().Cookies() {
		req.AddCookie(cookie)
	}
	assert.Nil(t, other.Read(req))
}

func TestBridge_Login_Success(t *testing.T) {
	backend := fakeBackend(t)
	bridge := NewBridge(newTestStore(t), NewClient(backend.URL, zap.NewNop()), zap.NewNop())

	sess := bridge.Login(context.Background(), "a@b.com", "right")
	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, int64(1), sess.ID)
}

func TestBridge_Login_WrongPassword(t *testing.T) {
	backend := fakeBackend(t)
	bridge := NewBridge(newTestStore(t), NewClient(backend.URL, zap.NewNop()), zap.NewNop())

	assert.Nil(t, bridge.Login(context.Background(), "a@b.com", "wrong"))
}

func TestBridge_Login_BackendDown(t *testing.T) {
	backend := fakeBackend(t)
	backend.Close()
	bridge := NewBridge(newTestStore(t), NewClient(backend.URL, zap.NewNop()), zap.NewNop())

	// Network failure must become a nil session, never a panic or error.
	assert.Nil(t, bridge.Login(context.Background(), "a@b.com", "right"))
}

func TestBridge_Login_NoTokenInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"user": map[string]interface{}{"id": 1}})
	}))
	t.Cleanup(srv.Close)

	bridge := NewBridge(newTestStore(t), NewClient(srv.URL, zap.NewNop()), zap.NewNop())
	assert.Nil(t, bridge.Login(context.Background(), "a@b.com", "right"))
}

func TestBridge_RefreshProfile_PatchesOnlyProvidedFields(t *testing.T) {
	bridge := NewBridge(newTestStore(t), nil, zap.NewNop())

	original := &Session{
		ID: 7, Name: "Old Name", Username: "old", Email: "a@b.com",
		Role: "user", Avatar: "old.png", Token: "original-token",
	}

	newName := "New Name"
	updated := bridge.RefreshProfile(original, ProfilePatch{Name: &newName})

	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.Role, updated.Role)
	assert.Equal(t, original.Token, updated.Token)
	assert.Equal(t, original.Username, updated.Username)
	assert.Equal(t, original.Avatar, updated.Avatar)
}

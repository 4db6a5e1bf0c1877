// Package session bridges the browser's cookie-based session to the API's
// stateless bearer tokens. The session is the gateway's projection of an
// authenticated identity: the embedded token is opaque here and is forwarded
// verbatim on every proxied API call.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"wanderlist/internal/crypto"
)

const CookieName = "wl_session"

// Session is what the gateway knows about a logged-in user. It is created at
// login, patched in place on profile edits, and destroyed on logout; the
// token inside is never reissued by the gateway.
type Session struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	Avatar   string    `json:"avatar"`
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"issued_at"`
}

// ProfilePatch carries the fields RefreshProfile may change. Nil means
// "leave unchanged".
type ProfilePatch struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Avatar   *string `json:"avatar"`
}

// Store seals sessions into an encrypted httpOnly cookie and opens them back.
type Store struct {
	key    []byte
	secure bool
	maxAge time.Duration
	logger *zap.Logger
}

func NewStore(key []byte, secure bool, maxAge time.Duration, logger *zap.Logger) *Store {
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &Store{key: key, secure: secure, maxAge: maxAge, logger: logger}
}

// Read returns the session carried by the request, or nil if the cookie is
// absent, expired, or fails to decrypt. Tampering is indistinguishable from
// absence on purpose.
func (s *Store) Read(r *http.Request) *Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	plaintext, err := crypto.Open(cookie.Value, s.key)
	if err != nil {
		s.logger.Debug("Failed to open session cookie", zap.Error(err))
		return nil
	}

	var sess Session
	if err := json.Unmarshal(plaintext, &sess); err != nil {
		return nil
	}
	if sess.Token == "" {
		return nil
	}
	return &sess
}

// Write seals the session and sets the cookie.
func (s *Store) Write(w http.ResponseWriter, sess *Session) error {
	plaintext, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	sealed, err := crypto.Seal(plaintext, s.key)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sealed,
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the cookie.
func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Bridge drives the login/refresh/logout lifecycle over the Store.
type Bridge struct {
	store  *Store
	client *Client
	logger *zap.Logger
}

func NewBridge(store *Store, client *Client, logger *zap.Logger) *Bridge {
	return &Bridge{store: store, client: client, logger: logger}
}

// Login exchanges credentials for a token and builds the session. Any
// failure (bad credentials, unreachable backend, missing token in the
// response) collapses to nil; nothing propagates past this boundary.
func (b *Bridge) Login(ctx context.Context, email, password string) *Session {
	resp, err := b.client.ExchangeCredentials(ctx, email, password)
	if err != nil {
		b.logger.Info("Login failed", zap.Error(err))
		return nil
	}
	if resp.Token == "" {
		b.logger.Warn("Credential exchange succeeded without a token")
		return nil
	}

	return &Session{
		ID:       resp.User.ID,
		Name:     resp.User.Name,
		Username: resp.User.Username,
		Email:    resp.User.Email,
		Role:     resp.User.Role,
		Avatar:   resp.User.Avatar,
		Token:    resp.Token,
		IssuedAt: time.Now(),
	}
}

// RefreshProfile merges only the provided fields into a copy of the session.
// Identity, role and token are never touched here; the backend is not called.
func (b *Bridge) RefreshProfile(sess *Session, patch ProfilePatch) *Session {
	if sess == nil {
		return nil
	}

	updated := *sess
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Username != nil {
		updated.Username = *patch.Username
	}
	if patch.Avatar != nil {
		updated.Avatar = *patch.Avatar
	}
	return &updated
}

func (b *Bridge) Store() *Store { return b.store }

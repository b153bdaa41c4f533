package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/nextgenfx/fxterm/internal/domain"
	"github.com/nextgenfx/fxterm/pkg/api"
	"github.com/nextgenfx/fxterm/pkg/logger"
	"github.com/nextgenfx/fxterm/pkg/secretstore"
)

var log = logger.WithField("module", "session")

// AuthAPI is the slice of the auth client the session manager needs.
type AuthAPI interface {
	Login(ctx context.Context, creds api.LoginCredentials) (*api.AuthResponse, error)
	Register(ctx context.Context, creds api.RegisterCredentials) (*api.AuthResponse, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context, refreshToken string) (string, error)
	UpdateProfile(ctx context.Context, patch domain.UserPatch) (*domain.User, error)
}

// ErrNoRefreshToken is returned by RefreshAccessToken outside a session.
var ErrNoRefreshToken = errors.New("session: no refresh token available")

// Manager mirrors the server session into the credential vault and exposes
// the current user to everything that renders. The state machine is minimal:
// anonymous -> authenticated on login/register, back to anonymous on logout.
// There is no modeled refreshing or expired state; a 401 on any call simply
// propagates to the caller.
type Manager struct {
	mu    sync.RWMutex
	vault *secretstore.Store
	auth  AuthAPI
	user  *domain.User
}

// NewManager restores the cached user snapshot from the vault. A corrupt
// snapshot is dropped instead of failing startup: the session then just
// looks anonymous and the user logs in again.
func NewManager(vault *secretstore.Store, auth AuthAPI) *Manager {
	m := &Manager{vault: vault, auth: auth}

	raw, err := vault.Get(secretstore.KeyUser)
	if err == nil {
		var u domain.User
		if jsonErr := json.Unmarshal(raw, &u); jsonErr != nil {
			log.Warnf("dropping unreadable user snapshot: %v", jsonErr)
			_ = vault.Delete(secretstore.KeyUser)
		} else {
			m.user = &u
		}
	} else if !errors.Is(err, secretstore.ErrNotFound) {
		log.Warnf("reading user snapshot: %v", err)
	}

	return m
}

// AccessToken implements api.TokenSource: it returns the stored bearer
// token, or "" for an anonymous session.
func (m *Manager) AccessToken() string {
	tok, _, err := m.vault.GetString(secretstore.KeyAuthToken)
	if err != nil {
		log.Warnf("reading access token: %v", err)
		return ""
	}
	return tok
}

// IsAuthenticated reports token presence. The token is not validated
// locally; the server rejects stale ones.
func (m *Manager) IsAuthenticated() bool {
	return m.AccessToken() != ""
}

// CurrentUser returns the cached user snapshot, or nil when anonymous.
func (m *Manager) CurrentUser() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Login authenticates and persists the session. Errors pass through
// untouched so the caller can render the server's message.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	resp, err := m.auth.Login(ctx, api.LoginCredentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := m.persistSession(resp); err != nil {
		return nil, err
	}
	log.Infof("logged in as %s", resp.User.Email)
	return m.CurrentUser(), nil
}

// Register creates the account, persists the session, and returns the full
// auth response so callers (onboarding) can chain calls that need the fresh
// user id.
func (m *Manager) Register(ctx context.Context, creds api.RegisterCredentials) (*api.AuthResponse, error) {
	resp, err := m.auth.Register(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := m.persistSession(resp); err != nil {
		return nil, err
	}
	log.Infof("registered %s", resp.User.Email)
	return resp, nil
}

// Logout tells the server best-effort, then clears the local session
// unconditionally. A failing network call must never leave a locally
// authenticated session behind.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.auth.Logout(ctx); err != nil {
		log.Warnf("server logout failed (clearing local session anyway): %v", err)
	}
	m.clearLocal()
}

// UpdateUser PUTs the change and re-persists the merged snapshot.
func (m *Manager) UpdateUser(ctx context.Context, patch domain.UserPatch) (*domain.User, error) {
	user, err := m.auth.UpdateProfile(ctx, patch)
	if err != nil {
		return nil, err
	}
	if err := m.storeUser(user); err != nil {
		return nil, err
	}
	return m.CurrentUser(), nil
}

// SetUser replaces the cached snapshot without a network call. Onboarding
// uses it after a trading-account update that already returned the merged
// user.
func (m *Manager) SetUser(user *domain.User) error {
	return m.storeUser(user)
}

// RefreshAccessToken explicitly exchanges the refresh token for a new access
// token. Nothing triggers this automatically.
func (m *Manager) RefreshAccessToken(ctx context.Context) (string, error) {
	refresh, found, err := m.vault.GetString(secretstore.KeyRefreshToken)
	if err != nil {
		return "", err
	}
	if !found || refresh == "" {
		return "", ErrNoRefreshToken
	}
	token, err := m.auth.Refresh(ctx, refresh)
	if err != nil {
		return "", err
	}
	if err := m.vault.SetString(secretstore.KeyAuthToken, token); err != nil {
		return "", errors.Wrap(err, "session: persist refreshed token")
	}
	return token, nil
}

func (m *Manager) persistSession(resp *api.AuthResponse) error {
	if err := m.vault.SetString(secretstore.KeyAuthToken, resp.Token); err != nil {
		return errors.Wrap(err, "session: persist access token")
	}
	if err := m.vault.SetString(secretstore.KeyRefreshToken, resp.RefreshToken); err != nil {
		return errors.Wrap(err, "session: persist refresh token")
	}
	user := resp.User
	return m.storeUser(&user)
}

func (m *Manager) storeUser(user *domain.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "session: encode user snapshot")
	}
	if err := m.vault.Set(secretstore.KeyUser, b); err != nil {
		return errors.Wrap(err, "session: persist user snapshot")
	}
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return nil
}

func (m *Manager) clearLocal() {
	for _, key := range []string{
		secretstore.KeyAuthToken,
		secretstore.KeyRefreshToken,
		secretstore.KeyUser,
	} {
		if err := m.vault.Delete(key); err != nil {
			log.Warnf("clearing %s: %v", key, err)
		}
	}
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
}

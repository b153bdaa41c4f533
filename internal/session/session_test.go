package session

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgenfx/fxterm/internal/domain"
	"github.com/nextgenfx/fxterm/pkg/api"
	"github.com/nextgenfx/fxterm/pkg/secretstore"
)

// fakeAuth implements AuthAPI with canned responses and error injection.
type fakeAuth struct {
	loginResp    *api.AuthResponse
	registerResp *api.AuthResponse
	updateResp   *domain.User
	refreshToken string

	loginErr    error
	registerErr error
	logoutErr   error
	refreshErr  error
	updateErr   error

	calls map[string]int
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{calls: make(map[string]int)}
}

func (f *fakeAuth) Login(_ context.Context, _ api.LoginCredentials) (*api.AuthResponse, error) {
	f.calls["login"]++
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Register(_ context.Context, _ api.RegisterCredentials) (*api.AuthResponse, error) {
	f.calls["register"]++
	return f.registerResp, f.registerErr
}

func (f *fakeAuth) Logout(_ context.Context) error {
	f.calls["logout"]++
	return f.logoutErr
}

func (f *fakeAuth) Refresh(_ context.Context, _ string) (string, error) {
	f.calls["refresh"]++
	return f.refreshToken, f.refreshErr
}

func (f *fakeAuth) UpdateProfile(_ context.Context, _ domain.UserPatch) (*domain.User, error) {
	f.calls["update"]++
	return f.updateResp, f.updateErr
}

func openTestVault(t *testing.T) *secretstore.Store {
	t.Helper()
	vault, err := secretstore.Open(secretstore.OpenOptions{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = vault.Close() })
	return vault
}

func authResponse(id, email string) *api.AuthResponse {
	return &api.AuthResponse{
		User:         domain.User{ID: id, Email: email, Role: domain.RoleUser},
		Token:        "access-" + id,
		RefreshToken: "refresh-" + id,
	}
}

func TestLogin_PersistsSession(t *testing.T) {
	vault := openTestVault(t)
	auth := newFakeAuth()
	auth.loginResp = authResponse("u1", "trader@example.com")

	m := NewManager(vault, auth)
	assert.False(t, m.IsAuthenticated())

	user, err := m.Login(context.Background(), "trader@example.com", "hunter22")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "access-u1", m.AccessToken())

	refresh, found, err := vault.GetString(secretstore.KeyRefreshToken)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "refresh-u1", refresh)
}

func TestLogin_ErrorPropagatesUntouched(t *testing.T) {
	vault := openTestVault(t)
	auth := newFakeAuth()
	auth.loginErr = &api.Error{Status: 401, Message: "Invalid credentials"}

	m := NewManager(vault, auth)
	_, err := m.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)

	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.CurrentUser())
}

func TestSessionSurvivesRestart(t *testing.T) {
	vault := openTestVault(t)
	auth := newFakeAuth()
	auth.loginResp = authResponse("u1", "trader@example.com")

	m := NewManager(vault, auth)
	_, err := m.Login(context.Background(), "trader@example.com", "hunter22")
	require.NoError(t, err)

	// A new manager over the same vault plays the role of a restart.
	m2 := NewManager(vault, newFakeAuth())
	assert.True(t, m2.IsAuthenticated())
	require.NotNil(t, m2.CurrentUser())
	assert.Equal(t, "trader@example.com", m2.CurrentUser().Email)
}

func TestRestart_CorruptUserSnapshotIsDropped(t *testing.T) {
	vault := openTestVault(t)
	require.NoError(t, vault.Set(secretstore.KeyUser, []byte("{not json")))

	m := NewManager(vault, newFakeAuth())
	assert.Nil(t, m.CurrentUser())

	_, err := vault.Get(secretstore.KeyUser)
	assert.ErrorIs(t, err, secretstore.ErrNotFound)
}

func TestLogout_AlwaysClearsLocalSession(t *testing.T) {
	tests := []struct {
		name      string
		logoutErr error
	}{
		{name: "server logout succeeds"},
		{name: "server logout fails", logoutErr: errors.New("network down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vault := openTestVault(t)
			auth := newFakeAuth()
			auth.loginResp = authResponse("u1", "trader@example.com")
			auth.logoutErr = tt.logoutErr

			m := NewManager(vault, auth)
			_, err := m.Login(context.Background(), "trader@example.com", "hunter22")
			require.NoError(t, err)

			m.Logout(context.Background())

			assert.False(t, m.IsAuthenticated())
			assert.Nil(t, m.CurrentUser())
			for _, key := range []string{secretstore.KeyAuthToken, secretstore.KeyRefreshToken, secretstore.KeyUser} {
				_, found, err := vault.GetString(key)
				require.NoError(t, err)
				assert.False(t, found, "key %s should be cleared", key)
			}
			assert.Equal(t, 1, auth.calls["logout"])
		})
	}
}

func TestUpdateUser_RepersistsSnapshot(t *testing.T) {
	vault := openTestVault(t)
	auth := newFakeAuth()
	auth.loginResp = authResponse("u1", "trader@example.com")
	auth.updateResp = &domain.User{ID: "u1", Email: "trader@example.com", FirstName: "Ada", Role: domain.RoleUser}

	m := NewManager(vault, auth)
	_, err := m.Login(context.Background(), "trader@example.com", "hunter22")
	require.NoError(t, err)

	first := "Ada"
	user, err := m.UpdateUser(context.Background(), domain.UserPatch{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.FirstName)

	m2 := NewManager(vault, newFakeAuth())
	require.NotNil(t, m2.CurrentUser())
	assert.Equal(t, "Ada", m2.CurrentUser().FirstName)
}

func TestRefreshAccessToken(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		m := NewManager(openTestVault(t), newFakeAuth())
		_, err := m.RefreshAccessToken(context.Background())
		assert.ErrorIs(t, err, ErrNoRefreshToken)
	})

	t.Run("rotates the stored access token", func(t *testing.T) {
		vault := openTestVault(t)
		auth := newFakeAuth()
		auth.loginResp = authResponse("u1", "trader@example.com")
		auth.refreshToken = "access-next"

		m := NewManager(vault, auth)
		_, err := m.Login(context.Background(), "trader@example.com", "hunter22")
		require.NoError(t, err)

		token, err := m.RefreshAccessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "access-next", token)
		assert.Equal(t, "access-next", m.AccessToken())
	})
}

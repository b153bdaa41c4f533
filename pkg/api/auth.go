package api

import (
	"context"

	"github.com/nextgenfx/fxterm/internal/domain"
)

// AuthService is the typed client for /auth endpoints. It performs the
// network calls only; persisting tokens is the session manager's job.
type AuthService struct {
	t *Transport
}

func NewAuthService(t *Transport) *AuthService {
	return &AuthService{t: t}
}

// Login exchanges credentials for a session.
func (s *AuthService) Login(ctx context.Context, creds LoginCredentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := s.t.post(ctx, "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns the freshly issued identity so the
// caller can chain dependent calls (subscription creation needs the user id).
func (s *AuthService) Register(ctx context.Context, creds RegisterCredentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := s.t.post(ctx, "/auth/register", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout notifies the server. Callers treat a failure here as non-fatal.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.t.post(ctx, "/auth/logout", nil, nil)
}

// Refresh trades the refresh token for a new access token. Nothing calls
// this automatically on 401; it is an explicit operation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var out struct {
		Token string `json:"token"`
	}
	if err := s.t.post(ctx, "/auth/refresh", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Me fetches the server's current view of the authenticated user.
func (s *AuthService) Me(ctx context.Context) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	if err := s.t.get(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateProfile PUTs a partial profile change and returns the merged user.
func (s *AuthService) UpdateProfile(ctx context.Context, patch domain.UserPatch) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	if err := s.t.put(ctx, "/auth/profile", patch, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ChangePassword rotates the password for the authenticated user.
func (s *AuthService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	return s.t.put(ctx, "/auth/change-password", body, nil)
}

// ForgotPassword requests a reset mail for email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.t.post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword consumes a reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{
		"token":       token,
		"newPassword": newPassword,
	}
	return s.t.post(ctx, "/auth/reset-password", body, nil)
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgenfx/fxterm/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(TransportConfig{
		BaseURL:   srv.URL,
		UserAgent: "fxterm-test",
		Tokens:    tokens,
	})
	return client, srv
}

func writeEnvelope(w http.ResponseWriter, status int, env map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func TestTransport_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    []domain.Trade{},
		})
	}, func() string { return "tok-123" })

	_, err := client.Trades.List(context.Background(), TradeQuery{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestTransport_AnonymousHasNoAuthHeader(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    []domain.Trade{},
		})
	}, nil)

	_, err := client.Trades.List(context.Background(), TradeQuery{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestTransport_ErrorMessageFromEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		env     map[string]interface{}
		wantMsg string
	}{
		{
			name:    "message field wins",
			status:  http.StatusBadRequest,
			env:     map[string]interface{}{"success": false, "message": "Invalid credentials", "error": "bad_request"},
			wantMsg: "Invalid credentials",
		},
		{
			name:    "error field is the fallback",
			status:  http.StatusConflict,
			env:     map[string]interface{}{"success": false, "error": "Email already registered"},
			wantMsg: "Email already registered",
		},
		{
			name:    "empty body still yields a message",
			status:  http.StatusInternalServerError,
			env:     map[string]interface{}{},
			wantMsg: "An error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, tt.status, tt.env)
			}, nil)

			_, err := client.Auth.Login(context.Background(), LoginCredentials{
				Email:    "a@b.c",
				Password: "irrelevant",
			})
			require.Error(t, err)

			apiErr, ok := AsError(err)
			require.True(t, ok, "expected *Error, got %T", err)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantMsg, UserMessage(err))
		})
	}
}

func TestTransport_Unauthorized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"message": "Token expired",
		})
	}, func() string { return "stale" })

	_, err := client.Auth.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestTradeService_ListBuildsQuery(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"_id": "t1", "symbol": "XAUUSD", "status": "open"},
			},
		})
	}, nil)

	trades, err := client.Trades.List(context.Background(), TradeQuery{
		Status: domain.TradeOpen,
		Symbol: "XAUUSD",
		Limit:  50,
		Page:   2,
	})
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "t1", trades[0].ID)

	assert.Contains(t, gotQuery, "status=open")
	assert.Contains(t, gotQuery, "symbol=XAUUSD")
	assert.Contains(t, gotQuery, "limit=50")
	assert.Contains(t, gotQuery, "page=2")
}

func TestTradeService_ListEmptyDataIsEmptySlice(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"success": true})
	}, nil)

	trades, err := client.Trades.List(context.Background(), TradeQuery{})
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestAuthService_LoginReturnsSession(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var creds LoginCredentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "trader@example.com", creds.Email)

		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"user":         map[string]interface{}{"id": "u1", "email": creds.Email, "role": "user"},
				"token":        "access-token",
				"refreshToken": "refresh-token",
			},
		})
	}, nil)

	resp, err := client.Auth.Login(context.Background(), LoginCredentials{
		Email:    "trader@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "access-token", resp.Token)
	assert.Equal(t, "refresh-token", resp.RefreshToken)
}

func TestSubscriptionService_CreatePostsLinkage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req CreateSubscriptionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "u1", req.UserID)
		assert.Equal(t, "professional", req.PlanID)
		assert.Equal(t, "card", req.PaymentMethod)

		writeEnvelope(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"_id": "sub1", "userId": req.UserID, "planId": req.PlanID, "status": "active",
			},
		})
	}, nil)

	sub, err := client.Subscriptions.Create(context.Background(), CreateSubscriptionRequest{
		UserID:        "u1",
		PlanID:        "professional",
		PaymentID:     "pay_x",
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	assert.Equal(t, "sub1", sub.ID)
	assert.Equal(t, domain.SubscriptionActive, sub.Status)
}

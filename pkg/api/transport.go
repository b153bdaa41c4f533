package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/nextgenfx/fxterm/pkg/logger"
)

// TokenSource supplies the current bearer token, or "" when the session is
// anonymous. Reading is a pure lookup; the transport never mutates tokens.
type TokenSource func() string

// TransportConfig wires a Transport.
type TransportConfig struct {
	BaseURL   string
	UserAgent string
	// Timeout of zero keeps the HTTP stack default. The product API is
	// called once per user action with no retry, so there is nothing else
	// to tune here.
	Timeout time.Duration
	Tokens  TokenSource
}

// Transport is the single HTTP layer under every resource client. It owns
// base URL handling, JSON headers, bearer attachment and envelope decoding.
type Transport struct {
	client *resty.Client
	tokens TokenSource
}

var transportLog = logger.WithField("module", "api")

// NewTransport builds the shared transport. resty picks up proxy settings
// from the environment (HTTP_PROXY, HTTPS_PROXY) on its own.
func NewTransport(cfg TransportConfig) *Transport {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	client := resty.New().
		SetBaseURL(base).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	tokens := cfg.Tokens
	if tokens == nil {
		tokens = func() string { return "" }
	}

	return &Transport{client: client, tokens: tokens}
}

// BaseURL returns the configured API root.
func (t *Transport) BaseURL() string {
	return t.client.BaseURL
}

func (t *Transport) newRequest(ctx context.Context) *resty.Request {
	r := t.client.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	if tok := t.tokens(); tok != "" {
		r.SetAuthToken(tok)
	}
	return r
}

// do issues one request and decodes the {success,data,message,error}
// envelope. out, when non-nil, receives the unmarshaled data payload.
// Non-2xx responses come back as *Error carrying the server's message; pure
// transport failures are wrapped and carry no status.
func (t *Transport) do(ctx context.Context, method, endpoint string, query url.Values, body, out interface{}) error {
	r := t.newRequest(ctx)
	if len(query) > 0 {
		r.SetQueryParamsFromValues(query)
	}
	if body != nil {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(body)
	}

	transportLog.Debugf("%s %s", method, endpoint)

	var resp *resty.Response
	var err error
	switch method {
	case http.MethodGet:
		resp, err = r.Get(endpoint)
	case http.MethodPost:
		resp, err = r.Post(endpoint)
	case http.MethodPut:
		resp, err = r.Put(endpoint)
	case http.MethodDelete:
		resp, err = r.Delete(endpoint)
	default:
		return fmt.Errorf("unsupported method: %s", method)
	}
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, endpoint)
	}

	return decodeEnvelope(resp, out)
}

func (t *Transport) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	return t.do(ctx, http.MethodGet, endpoint, query, nil, out)
}

func (t *Transport) post(ctx context.Context, endpoint string, body, out interface{}) error {
	return t.do(ctx, http.MethodPost, endpoint, nil, body, out)
}

func (t *Transport) put(ctx context.Context, endpoint string, body, out interface{}) error {
	return t.do(ctx, http.MethodPut, endpoint, nil, body, out)
}

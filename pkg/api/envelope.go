package api

import (
	"encoding/json"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// envelope is the uniform response wrapper every endpoint uses:
// {success, data?, message?, error?}.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ErrEmptyData flags a 2xx response whose envelope carried no data when the
// caller expected a payload.
var ErrEmptyData = errors.New("api: response envelope has no data")

// decodeEnvelope turns a resty response into either the typed payload or an
// *Error built from the server's message. A body that does not parse as the
// envelope still produces a useful error on non-2xx.
func decodeEnvelope(resp *resty.Response, out interface{}) error {
	var env envelope
	parseErr := json.Unmarshal(resp.Body(), &env)

	if resp.IsError() {
		msg := ""
		if parseErr == nil {
			msg = firstNonEmpty(env.Message, env.Error)
		}
		if msg == "" {
			msg = "An error occurred"
		}
		return &Error{Status: resp.StatusCode(), Message: msg}
	}

	if out == nil {
		return nil
	}
	if parseErr != nil {
		return errors.Wrap(parseErr, "api: decode response envelope")
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrEmptyData
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrap(err, "api: decode response data")
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

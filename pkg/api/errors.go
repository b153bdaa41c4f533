package api

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Error is a non-2xx API response. Message is the server's human-readable
// explanation, which callers display as-is.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// AsError unwraps err into *Error if it came from the API.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401 response. The client does not
// auto-refresh on 401; callers just see the error.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// UserMessage extracts a displayable message from any error the client
// returns: API errors yield the server's message, everything else its
// Error() string.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsError(err); ok {
		return apiErr.Message
	}
	return err.Error()
}

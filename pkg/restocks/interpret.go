package restocks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// envelope is the wrapper the marketplace puts around every JSON payload.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Meta    *pageMeta       `json:"meta"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// pageMeta carries the pagination block on list responses.
type pageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
}

// interpret maps a raw response to the expected shape or a classified
// error. shape names the payload for error messages ("product", "listing
// page", ...). dst may be nil when only the status matters.
//
// Classification rules:
//   - 401 -> ErrSessionExpired (the session manager reacts before the
//     error surfaces to the caller)
//   - 404 -> ErrNotFound
//   - other non-2xx -> *APIError carrying the vendor code/message verbatim
//   - 2xx that fails to decode into shape -> *MalformedResponseError
func interpret(raw *rawResponse, shape string, dst any) error {
	_, err := interpretPage(raw, shape, dst)
	return err
}

// interpretPage is interpret plus the pagination meta block, for the
// page-walking list endpoints.
func interpretPage(raw *rawResponse, shape string, dst any) (*pageMeta, error) {
	switch {
	case raw.status == http.StatusUnauthorized:
		return nil, fmt.Errorf("%s: %w", shape, ErrSessionExpired)
	case raw.status == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", shape, ErrNotFound)
	case raw.status < 200 || raw.status > 299:
		return nil, vendorError(raw)
	}

	var env envelope
	if err := json.Unmarshal(raw.body, &env); err != nil {
		return nil, &MalformedResponseError{Shape: shape, Reason: "body is not a JSON envelope"}
	}
	if env.Data == nil {
		return nil, &MalformedResponseError{Shape: shape, Reason: "missing data field"}
	}

	if dst != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			return nil, &MalformedResponseError{
				Shape:  shape,
				Reason: fmt.Sprintf("data does not match expected shape: %v", err),
			}
		}
	}

	return env.Meta, nil
}

// vendorError extracts the marketplace's own error code and message from a
// non-2xx body. An unparseable body still yields an APIError with the
// status and trimmed raw text.
func vendorError(raw *rawResponse) error {
	apiErr := &APIError{Status: raw.status}

	var env envelope
	if err := json.Unmarshal(raw.body, &env); err == nil {
		apiErr.Code = env.Error
		apiErr.Message = env.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw.body))
	}

	return apiErr
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError represents a non-2xx response from the storefront API. Detail holds
// the server's human-readable message; Fields carries the field-keyed
// validation payload when the server rejects a form.
type APIError struct {
	Status int
	Detail string
	Fields map[string][]string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for field, msgs := range e.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
		}
		return strings.Join(parts, ", ")
	}
	return http.StatusText(e.Status)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// decodeAPIError reads an error body in the API's two shapes: a detail string
// or a field -> messages validation map.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var detail struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &detail) == nil && detail.Detail != "" {
		apiErr.Detail = detail.Detail
		return apiErr
	}

	var raw map[string]json.RawMessage
	if json.Unmarshal(body, &raw) != nil {
		return apiErr
	}
	fields := make(map[string][]string, len(raw))
	for field, msg := range raw {
		var many []string
		if json.Unmarshal(msg, &many) == nil {
			fields[field] = many
			continue
		}
		var one string
		if json.Unmarshal(msg, &one) == nil {
			fields[field] = []string{one}
		}
	}
	if len(fields) > 0 {
		apiErr.Fields = fields
	}
	return apiErr
}

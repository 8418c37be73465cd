package common

import (
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// QueryParam возвращает обязательный query-параметр.
func QueryParam(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return "", NewBadRequestError("INVALID_INPUT", name+" is required")
	}
	return value, nil
}

// DecodeJSON читает тело запроса в v.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return NewBadRequestError("INVALID_JSON", "invalid JSON body")
	}
	return nil
}

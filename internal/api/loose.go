package api

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/kelexine/moltbook-cli/internal/domain"
)

// Decode converts a loosely-typed value into out. A failure is reported as
// a [domain.ParseError] carrying the value's raw text.
func Decode(v gjson.Result, out any) error {
	if err := json.Unmarshal([]byte(v.Raw), out); err != nil {
		return &domain.ParseError{Body: v.Raw, Err: err}
	}
	return nil
}

// Unwrap returns v[key] when present, else v itself. Endpoints return
// either {"agent": {...}} or the bare object.
func Unwrap(v gjson.Result, key string) gjson.Result {
	if inner := v.Get(key); inner.Exists() {
		return inner
	}
	return v
}

// DecodeList decodes a list that may arrive as v[key] (array),
// v[key].items, or v itself. Anything else yields an empty list.
func DecodeList[T any](v gjson.Result, key string) ([]T, error) {
	var list gjson.Result
	switch inner := v.Get(key); {
	case inner.IsArray():
		list = inner
	case inner.IsObject() && inner.Get("items").IsArray():
		list = inner.Get("items")
	case !inner.Exists() && v.IsArray():
		list = v
	default:
		return nil, nil
	}
	var out []T
	if err := Decode(list, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Succeeded reports whether the response carried "success": true.
func Succeeded(v gjson.Result) bool {
	return v.Get("success").Type == gjson.True
}

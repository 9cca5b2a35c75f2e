package fortigen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

type (
	// Params holds the query parameters sent with a request.
	Params map[string]any

	// Payload is a request body keyed by wire-format field names.
	Payload map[string]any

	// Response is the decoded response returned by a Transport.
	Response map[string]any
)

// Transport is the HTTP collaborator consumed by generated endpoint code.
// Implementations own retries, sessions and error mapping; a missing object
// must be reported with an error wrapping ErrNotFound.
type Transport interface {
	Get(ctx context.Context, category, path string, params Params, vdom string, rawJSON bool) (Response, error)
	Post(ctx context.Context, category, path string, data Payload, params Params, vdom string, rawJSON bool) (Response, error)
	Put(ctx context.Context, category, path string, data Payload, params Params, vdom string, rawJSON bool) (Response, error)
	Delete(ctx context.Context, category, path string, params Params, vdom string, rawJSON bool) (Response, error)
}

// Deprecation describes a deprecated schema field.
type Deprecation struct {
	Reason      string
	Alternative string
}

// ItemPath returns the request path of one table object.
// An empty mkey addresses the whole table.
func ItemPath(path, mkey string) string {
	if mkey == "" {
		return path
	}
	return path + "/" + url.PathEscape(mkey)
}

// ToPayload converts a typed request body into a Payload using its json tags.
func ToPayload(v any) (Payload, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("fortigen: encode payload: %w", err)
	}
	p := Payload{}
	if err := json.Unmarshal(buf, &p); err != nil {
		return nil, fmt.Errorf("fortigen: decode payload: %w", err)
	}
	return p, nil
}

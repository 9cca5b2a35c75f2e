package load

import (
	"fmt"
	"strings"

	"github.com/syssam/fortigen/naming"
)

// ParsePath splits a wire path into its segments. Dots and slashes are both
// separators, so "firewall.service/custom" and "firewall/service/custom"
// yield the same segments. Empty segments are rejected.
func ParsePath(apiPath string) ([]string, error) {
	apiPath = strings.TrimSpace(apiPath)
	if apiPath == "" {
		return nil, fmt.Errorf("empty path")
	}
	segments := strings.FieldsFunc(apiPath, func(r rune) bool { return r == '.' || r == '/' })
	if n := strings.Count(apiPath, ".") + strings.Count(apiPath, "/") + 1; n != len(segments) {
		return nil, fmt.Errorf("path %q contains an empty segment", apiPath)
	}
	return segments, nil
}

// newSchema builds the path-derived part of a Schema.
func newSchema(category, apiPath string) (*Schema, error) {
	segments, err := ParsePath(apiPath)
	if err != nil {
		return nil, err
	}
	last := segments[len(segments)-1]
	return &Schema{
		Category:  category,
		Path:      strings.Join(segments, "/"),
		APIPath:   apiPath,
		Segments:  segments,
		FileName:  naming.FileName(last),
		ClassName: naming.ClassName(last),
	}, nil
}

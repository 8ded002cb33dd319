package ceed

import (
	"fmt"
	"strings"
)

// Resource string defaults.
const (
	DefaultRootSeparator = ":"
	DefaultRootDepth     = 2
)

// ResourceBase returns the part of resource before sep.
func ResourceBase(resource, sep string) string {
	if sep == "" {
		return resource
	}
	if i := strings.Index(resource, sep); i >= 0 {
		return resource[:i]
	}
	return resource
}

// ResourceRoot returns the first depth path segments of the resource base.
// A leading "/" is kept, so "/cpu/self/opt/serial" has root "/cpu/self".
func ResourceRoot(resource, sep string, depth int) string {
	base := ResourceBase(resource, sep)
	if depth <= 0 {
		return base
	}

	lead := ""
	rest := base
	if strings.HasPrefix(rest, "/") {
		lead = "/"
		rest = rest[1:]
	}

	parts := strings.Split(rest, "/")
	if len(parts) > depth {
		parts = parts[:depth]
	}
	return lead + strings.Join(parts, "/")
}

// ParseResourceOptions parses the "key=value,key=value" suffix that follows sep.
func ParseResourceOptions(resource, sep string) (map[string]string, error) {
	opts := make(map[string]string)
	if sep == "" {
		return opts, nil
	}
	i := strings.Index(resource, sep)
	if i < 0 {
		return opts, nil
	}

	for _, kv := range strings.Split(resource[i+len(sep):], ",") {
		if kv == "" {
			continue
		}
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, &ResourceError{Resource: resource, Reason: fmt.Sprintf("malformed option %q", kv)}
		}
		opts[key] = value
	}
	return opts, nil
}

package router

import (
	"errors"
	"fmt"
	"strings"
)

var ErrAmbiguousRoute = errors.New("ambiguous route")

type segment struct {
	literal string
	param   string
}

func (s segment) isParam() bool {
	return s.param != ""
}

type route struct {
	method   string
	template string
	segments []segment
	before   []Before
	after    []After
	handler  Handler
}

type RouteOption func(*route)

// WithBefore adds hooks run before the handler of this route only
func WithBefore(hooks ...Before) RouteOption {
	return func(r *route) {
		r.before = append(r.before, hooks...)
	}
}

// WithAfter adds hooks run after the handler of this route only
func WithAfter(hooks ...After) RouteOption {
	return func(r *route) {
		r.after = append(r.after, hooks...)
	}
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func parseTemplate(template string) ([]segment, error) {
	parts := splitPath(template)
	segments := make([]segment, 0, len(parts))
	names := make(map[string]bool)
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("empty segment in %q", template)
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := part[1 : len(part)-1]
			if name == "" || strings.ContainsAny(name, "{}") {
				return nil, fmt.Errorf("invalid parameter %q in %q", part, template)
			}
			if names[name] {
				return nil, fmt.Errorf("duplicate parameter %q in %q", name, template)
			}
			names[name] = true
			segments = append(segments, segment{param: name})
			continue
		}
		if strings.ContainsAny(part, "{}:*") {
			return nil, fmt.Errorf("invalid literal %q in %q", part, template)
		}
		segments = append(segments, segment{literal: part})
	}
	return segments, nil
}

// match compares path segments with the template: same arity, literals equal,
// parameters match anything non-empty
func (r *route) match(parts []string) (map[string]string, bool) {
	if len(parts) != len(r.segments) {
		return nil, false
	}
	var params map[string]string
	for i, s := range r.segments {
		if s.isParam() {
			if parts[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[s.param] = parts[i]
			continue
		}
		if parts[i] != s.literal {
			return nil, false
		}
	}
	return params, true
}

// overlaps reports whether some path would match both routes
func (r *route) overlaps(other *route) bool {
	if len(r.segments) != len(other.segments) {
		return false
	}
	for i, s := range r.segments {
		o := other.segments[i]
		if !s.isParam() && !o.isParam() && s.literal != o.literal {
			return false
		}
	}
	return true
}

// httprouterPath converts {name} segments to :name
func (r *route) httprouterPath() string {
	var sb strings.Builder
	for _, s := range r.segments {
		sb.WriteByte('/')
		if s.isParam() {
			sb.WriteByte(':')
			sb.WriteString(s.param)
		} else {
			sb.WriteString(s.literal)
		}
	}
	if sb.Len() == 0 {
		return "/"
	}
	return sb.String()
}

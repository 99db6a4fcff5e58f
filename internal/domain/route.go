package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxSegments is the maximum number of segments a route template may have.
const MaxSegments = 16

// Route associates a route name with its path template.
type Route struct {
	Name     string `json:"name"`
	Template string `json:"template"`
}

// SegmentKind identifies the role of a template segment.
type SegmentKind int

const (
	// SegmentLiteral must equal the path segment.
	SegmentLiteral SegmentKind = iota
	// SegmentParam (":id") captures exactly one path segment.
	SegmentParam
	// SegmentOptional (":id?") captures one path segment when present.
	SegmentOptional
	// SegmentCatchAll ("*rest") captures the remainder of the path.
	SegmentCatchAll
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentLiteral:
		return "literal"
	case SegmentParam:
		return "param"
	case SegmentOptional:
		return "optional"
	case SegmentCatchAll:
		return "catch-all"
	}
	return fmt.Sprintf("SegmentKind(%d)", int(k))
}

// Segment is one "/"-delimited unit of a route template. Value holds the
// decoded literal text or the param name.
type Segment struct {
	Kind  SegmentKind `json:"kind"`
	Value string      `json:"value"`
}

// String returns the segment in template syntax.
func (s Segment) String() string {
	switch s.Kind {
	case SegmentParam:
		return ":" + s.Value
	case SegmentOptional:
		return ":" + s.Value + "?"
	case SegmentCatchAll:
		return "*" + s.Value
	}
	return s.Value
}

var paramName = regexp.MustCompile(`^\w+$`)

// ParseTemplate splits a route template such as "users/:id/*rest" into
// segments. Empty segments are ignored, so leading, trailing and repeated
// slashes have no effect.
func ParseTemplate(template string) ([]Segment, error) {
	parts := splitPath(template)
	if len(parts) > MaxSegments {
		return nil, &InvalidTemplateError{
			Template: template,
			Reason:   fmt.Sprintf("more than %d segments", MaxSegments),
		}
	}

	segments := make([]Segment, 0, len(parts))
	seen := make(map[string]bool)

	for i, part := range parts {
		segment := parseSegment(part)

		if segment.Kind == SegmentLiteral {
			segments = append(segments, segment)
			continue
		}

		if !paramName.MatchString(segment.Value) {
			return nil, &InvalidTemplateError{
				Template: template,
				Reason:   fmt.Sprintf("invalid param name in segment %q", part),
			}
		}
		if seen[segment.Value] {
			return nil, &InvalidTemplateError{
				Template: template,
				Reason:   fmt.Sprintf("duplicate param %q", segment.Value),
			}
		}
		if segment.Kind == SegmentCatchAll && i != len(parts)-1 {
			return nil, &InvalidTemplateError{
				Template: template,
				Reason:   fmt.Sprintf("catch-all %q must be the last segment", part),
			}
		}

		seen[segment.Value] = true
		segments = append(segments, segment)
	}

	return segments, nil
}

func parseSegment(part string) Segment {
	switch {
	case strings.HasPrefix(part, "*"):
		return Segment{Kind: SegmentCatchAll, Value: part[1:]}
	case strings.HasPrefix(part, ":") && strings.HasSuffix(part, "?"):
		return Segment{Kind: SegmentOptional, Value: part[1 : len(part)-1]}
	case strings.HasPrefix(part, ":"):
		return Segment{Kind: SegmentParam, Value: part[1:]}
	}
	return Segment{Kind: SegmentLiteral, Value: decodeSegment(part)}
}

// splitPath splits a path into its non-empty segments.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := parts[:0]
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// JoinTemplate prefixes a template with a base path.
func JoinTemplate(basePath, template string) string {
	return strings.TrimSuffix(basePath, "/") + "/" + strings.TrimPrefix(template, "/")
}

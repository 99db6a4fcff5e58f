package domain

import (
	"net/url"
	"strings"
)

// RawLocation is the pathname/search/hash triple exchanged with the history.
// Search keeps its leading "?" and Hash its leading "#" when present.
type RawLocation struct {
	Pathname string `json:"pathname"`
	Search   string `json:"search,omitempty"`
	Hash     string `json:"hash,omitempty"`
}

// String returns the absolute path form of the location.
func (l RawLocation) String() string {
	return CreatePath(l)
}

// ParsePath splits an absolute path such as "/a/b?x=1#top" into its parts.
func ParsePath(path string) RawLocation {
	var loc RawLocation
	if i := strings.IndexByte(path, '#'); i >= 0 {
		loc.Hash = path[i:]
		path = path[:i]
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		loc.Search = path[i:]
		path = path[:i]
	}
	loc.Pathname = path
	if loc.Pathname == "" {
		loc.Pathname = "/"
	}
	return loc
}

// CreatePath joins a RawLocation back into an absolute path.
func CreatePath(l RawLocation) string {
	var b strings.Builder
	if l.Pathname == "" {
		b.WriteByte('/')
	} else {
		b.WriteString(l.Pathname)
	}
	if l.Search != "" && l.Search != "?" {
		if l.Search[0] != '?' {
			b.WriteByte('?')
		}
		b.WriteString(l.Search)
	}
	if l.Hash != "" && l.Hash != "#" {
		if l.Hash[0] != '#' {
			b.WriteByte('#')
		}
		b.WriteString(l.Hash)
	}
	return b.String()
}

// Location is the canonical, decoded form of where the app is.
// A new Location is produced on every navigation; existing values are never
// modified.
type Location struct {
	// URL is the canonical absolute path used for identity checks.
	URL string `json:"url"`

	// Pathname is the canonical, encoded path portion of URL.
	Pathname string `json:"pathname"`

	// Path holds the decoded path segments.
	Path []string `json:"path"`

	Search Search `json:"search"`
	Hash   string `json:"hash,omitempty"`
}

// Equal reports structural equality.
func (l Location) Equal(other Location) bool {
	if l.URL != other.URL || l.Hash != other.Hash || len(l.Path) != len(other.Path) {
		return false
	}
	for i := range l.Path {
		if l.Path[i] != other.Path[i] {
			return false
		}
	}
	return l.Search.Equal(other.Search)
}

// DecodeLocation converts a raw location into its canonical form.
//
// On the initial load the path is also cleaned up: empty and "." segments are
// dropped and ".." segments are resolved without escaping the root. Later
// locations are produced by the router itself and are taken as they are.
func DecodeLocation(raw RawLocation, initialLoad bool) Location {
	segments := decodeSegments(raw.Pathname, initialLoad)
	search := DecodeSearch(raw.Search)
	hash := decodeHash(raw.Hash)
	pathname := encodePath(segments)

	return Location{
		URL: CreatePath(RawLocation{
			Pathname: pathname,
			Search:   EncodeSearch(search),
			Hash:     encodeHash(hash),
		}),
		Pathname: pathname,
		Path:     segments,
		Search:   search,
		Hash:     hash,
	}
}

// NeedsCleanup reports whether the canonical form of loc differs from the raw
// location it was decoded from, meaning the address bar should be replaced.
func NeedsCleanup(raw RawLocation, loc Location) bool {
	return loc.URL != CreatePath(raw)
}

func decodeSegments(pathname string, clean bool) []string {
	trimmed := strings.TrimPrefix(pathname, "/")
	if trimmed == "" {
		return []string{}
	}

	parts := strings.Split(trimmed, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if clean {
			switch part {
			case "", ".":
				continue
			case "..":
				if len(segments) > 0 {
					segments = segments[:len(segments)-1]
				}
				continue
			}
		}
		segments = append(segments, decodeSegment(part))
	}
	return segments
}

// decodeSegment percent-decodes a path segment, keeping it as is when the
// escape sequences are malformed.
func decodeSegment(segment string) string {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}
	return decoded
}

func encodePath(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	encoded := make([]string, len(segments))
	for i, segment := range segments {
		encoded[i] = url.PathEscape(segment)
	}
	return "/" + strings.Join(encoded, "/")
}

func decodeHash(hash string) string {
	return decodeSegment(strings.TrimPrefix(hash, "#"))
}

func encodeHash(hash string) string {
	if hash == "" {
		return ""
	}
	return "#" + (&url.URL{Fragment: hash}).EscapedFragment()
}

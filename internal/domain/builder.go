package domain

import (
	"net/url"
	"sort"
	"strings"
)

// MatchToHistoryPath builds the location of a route from its params. Params
// that are not consumed by a path segment are encoded into the search string
// in key order.
func MatchToHistoryPath(m *Matcher, params Params) (RawLocation, error) {
	var path strings.Builder
	consumed := make(map[string]bool, len(m.params))

	for _, segment := range m.Segments {
		if segment.Kind == SegmentLiteral {
			path.WriteString("/")
			path.WriteString(url.PathEscape(segment.Value))
			continue
		}

		consumed[segment.Value] = true
		text, present, err := segmentValue(segment.Value, params)
		if err != nil {
			return RawLocation{}, err
		}

		switch segment.Kind {
		case SegmentParam:
			if !present || text == "" {
				return RawLocation{}, &MissingRequiredParamError{Route: m.Name, Param: segment.Value}
			}
			path.WriteString("/")
			path.WriteString(url.PathEscape(text))
		case SegmentOptional:
			if present && text != "" {
				path.WriteString("/")
				path.WriteString(url.PathEscape(text))
			}
		case SegmentCatchAll:
			if !present {
				return RawLocation{}, &MissingRequiredParamError{Route: m.Name, Param: segment.Value}
			}
			for _, part := range splitPath(text) {
				path.WriteString("/")
				path.WriteString(url.PathEscape(part))
			}
		}
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if !consumed[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var search Search
	for _, k := range keys {
		if err := search.Set(k, params[k]); err != nil {
			return RawLocation{}, err
		}
	}

	loc := RawLocation{Pathname: path.String()}
	if loc.Pathname == "" {
		loc.Pathname = "/"
	}
	if query := EncodeSearch(search); query != "" {
		loc.Search = "?" + query
	}
	return loc, nil
}

// segmentValue returns the textual value of a param used in a path segment.
// Lists cannot be placed in a path segment.
func segmentValue(name string, params Params) (string, bool, error) {
	raw, ok := params[name]
	if !ok || raw == nil {
		return "", false, nil
	}
	value, err := NormalizeValue(name, raw)
	if err != nil {
		return "", false, err
	}
	text, ok := FormatValue(value)
	if !ok {
		return "", false, &InvalidParamTypeError{Param: name, Value: raw}
	}
	return text, true, nil
}

package domain

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Params holds route params. Path captures are strings; values coming from
// the search string keep their decoded type.
type Params map[string]any

// Segment scores used for ranking. A position past the end of a template
// scores between a required and an optional param: "/docs" is preferred over
// "/docs/:page?" and "/docs/*rest" for the path "/docs".
const (
	scoreCatchAll = 1
	scoreOptional = 2
	scoreEnd      = 3
	scoreParam    = 4
	scoreLiteral  = 5
	scoreBase     = 6
)

// Matcher is the compiled form of a route template.
type Matcher struct {
	Name     string    `json:"name"`
	Template string    `json:"template"`
	Segments []Segment `json:"segments"`
	Ranking  int64     `json:"ranking"`
	IsNested bool      `json:"nested"`

	pattern *regexp.Regexp
	params  []string // param name per capture group
}

// MatchResult is the outcome of a successful match.
type MatchResult struct {
	Name   string `json:"name"`
	Params Params `json:"params"`
}

// GetMatcher compiles a route template.
func GetMatcher(name, template string) (*Matcher, error) {
	segments, err := ParseTemplate(template)
	if err != nil {
		if tplErr, ok := err.(*InvalidTemplateError); ok {
			tplErr.Route = name
		}
		return nil, err
	}

	var expr strings.Builder
	expr.WriteString("^")
	params := make([]string, 0, len(segments))

	for _, segment := range segments {
		switch segment.Kind {
		case SegmentLiteral:
			expr.WriteString("/")
			expr.WriteString(regexp.QuoteMeta(url.PathEscape(segment.Value)))
		case SegmentParam:
			expr.WriteString("/([^/]+)")
			params = append(params, segment.Value)
		case SegmentOptional:
			expr.WriteString("(?:/([^/]+))?")
			params = append(params, segment.Value)
		case SegmentCatchAll:
			expr.WriteString("(?:/(.*))?")
			params = append(params, segment.Value)
		}
	}
	expr.WriteString("$")

	return &Matcher{
		Name:     name,
		Template: template,
		Segments: segments,
		Ranking:  rank(segments),
		IsNested: len(segments) > 0 && segments[len(segments)-1].Kind == SegmentCatchAll,
		pattern:  regexp.MustCompile(expr.String()),
		params:   params,
	}, nil
}

// rank scores every position of the template as a base-6 digit, so that
// templates compare position by position from the left.
func rank(segments []Segment) int64 {
	var ranking int64
	for i := 0; i < MaxSegments; i++ {
		score := int64(scoreEnd)
		if i < len(segments) {
			switch segments[i].Kind {
			case SegmentLiteral:
				score = scoreLiteral
			case SegmentParam:
				score = scoreParam
			case SegmentOptional:
				score = scoreOptional
			case SegmentCatchAll:
				score = scoreCatchAll
			}
		}
		ranking = ranking*scoreBase + score
	}
	return ranking
}

// RankMatchers sorts matchers from most to least specific. Equal rankings are
// ordered by name so the result never depends on declaration order.
func RankMatchers(matchers []*Matcher) {
	sort.SliceStable(matchers, func(i, j int) bool {
		if matchers[i].Ranking != matchers[j].Ranking {
			return matchers[i].Ranking > matchers[j].Ranking
		}
		return matchers[i].Name < matchers[j].Name
	})
}

// FilterMatchers returns the ranked matchers whose name is in names, keeping
// their relative order.
func FilterMatchers(ranked []*Matcher, names []string) []*Matcher {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	filtered := make([]*Matcher, 0, len(names))
	for _, m := range ranked {
		if wanted[m.Name] {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// MatchPath matches an encoded pathname against the matcher and returns the
// decoded path params.
func (m *Matcher) MatchPath(pathname string) (Params, bool) {
	if len(pathname) > 1 {
		pathname = strings.TrimSuffix(pathname, "/")
	} else {
		pathname = ""
	}

	groups := m.pattern.FindStringSubmatchIndex(pathname)
	if groups == nil {
		return nil, false
	}

	params := make(Params, len(m.params))
	for i, name := range m.params {
		start, end := groups[2*(i+1)], groups[2*(i+1)+1]
		if start < 0 {
			if m.IsNested && i == len(m.params)-1 {
				params[name] = ""
			}
			continue
		}
		params[name] = decodeSegment(pathname[start:end])
	}
	return params, true
}

// Match returns the first of the ranked matchers that matches the location.
// Path params are merged over the location's search values.
func Match(loc Location, matchers []*Matcher) (MatchResult, bool) {
	pathname := loc.Pathname
	if pathname == "" {
		pathname = encodePath(loc.Path)
	}

	for _, m := range matchers {
		pathParams, ok := m.MatchPath(pathname)
		if !ok {
			continue
		}

		params := loc.Search.Params()
		for k, v := range pathParams {
			params[k] = v
		}
		return MatchResult{Name: m.Name, Params: params}, true
	}

	return MatchResult{}, false
}

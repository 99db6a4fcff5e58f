package domain

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// scalarGen draws search values whose textual form decodes back to the same
// type: words never look like numbers or booleans.
func scalarGen() *rapid.Generator[any] {
	return rapid.OneOf(
		rapid.Map(rapid.StringMatching(`[a-zA-Z][a-zA-Z0-9 _.&=?/-]{0,12}`), func(s string) any {
			if s == "true" || s == "false" {
				return s + "!"
			}
			return s
		}),
		rapid.Map(rapid.IntRange(-100000, 100000), func(n int) any { return float64(n) }),
		rapid.Map(rapid.Float64Range(-1e6, 1e6), func(f float64) any { return f }),
		rapid.Map(rapid.Bool(), func(b bool) any { return b }),
	)
}

// Property: decoding an encoded search gives back the same mapping
func TestSearchRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z][a-z0-9_]{0,6}`), 0, 6, rapid.ID[string]).Draw(t, "keys")

		var s Search
		for i, key := range keys {
			var value any
			if rapid.Bool().Draw(t, fmt.Sprintf("isList_%d", i)) {
				value = rapid.SliceOfN(scalarGen(), 2, 4).Draw(t, fmt.Sprintf("list_%d", i))
			} else {
				value = scalarGen().Draw(t, fmt.Sprintf("value_%d", i))
			}
			if err := s.Set(key, value); err != nil {
				t.Fatalf("Set(%q, %v) error = %v", key, value, err)
			}
		}

		encoded := EncodeSearch(s)
		decoded := DecodeSearch(encoded)

		if !decoded.Equal(s) {
			t.Fatalf("DecodeSearch(%q) = %v, want %v", encoded, decoded.Params(), s.Params())
		}
		if again := EncodeSearch(decoded); again != encoded {
			t.Fatalf("re-encoding changed the query: %q != %q", again, encoded)
		}
	})
}

// Property: a path built for a template matches that template with the same params
func TestBuildThenMatch(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numSegments := rapid.IntRange(0, 5).Draw(t, "numSegments")
		parts := make([]string, 0, numSegments+1)
		params := make(Params)

		for i := 0; i < numSegments; i++ {
			kind := rapid.SampledFrom([]SegmentKind{SegmentLiteral, SegmentParam, SegmentOptional}).Draw(t, fmt.Sprintf("kind_%d", i))
			name := fmt.Sprintf("p%d", i)
			switch kind {
			case SegmentLiteral:
				parts = append(parts, rapid.StringMatching(`[a-z]{1,6}`).Draw(t, fmt.Sprintf("literal_%d", i)))
			case SegmentParam:
				parts = append(parts, ":"+name)
				params[name] = rapid.StringMatching(`[a-zA-Z0-9 %_~-]{1,8}`).Draw(t, fmt.Sprintf("value_%d", i))
			case SegmentOptional:
				// optionals before the tail are always filled, otherwise the
				// path would not say which one was left out
				parts = append(parts, ":"+name+"?")
				params[name] = rapid.StringMatching(`[a-zA-Z0-9]{1,8}`).Draw(t, fmt.Sprintf("value_%d", i))
			}
		}

		switch rapid.SampledFrom([]string{"none", "catchAll", "optional"}).Draw(t, "tail") {
		case "catchAll":
			parts = append(parts, "*rest")
			params["rest"] = rapid.StringMatching(`([a-z0-9]{1,4}/){0,3}[a-z0-9]{0,4}`).Draw(t, "rest")
		case "optional":
			parts = append(parts, ":tail?")
			if rapid.Bool().Draw(t, "tailPresent") {
				params["tail"] = rapid.StringMatching(`[a-zA-Z0-9]{1,8}`).Draw(t, "tailValue")
			}
		}

		m, err := GetMatcher("route", "/"+strings.Join(parts, "/"))
		if err != nil {
			t.Fatalf("GetMatcher() error = %v", err)
		}

		raw, err := MatchToHistoryPath(m, params)
		if err != nil {
			t.Fatalf("MatchToHistoryPath() error = %v", err)
		}

		got, ok := Match(DecodeLocation(raw, true), []*Matcher{m})
		if !ok {
			t.Fatalf("template %q should match built path %q", m.Template, raw.String())
		}

		want := Params{}
		for k, v := range params {
			want[k] = v
		}
		if rest, ok := want["rest"].(string); ok {
			want["rest"] = strings.Trim(rest, "/")
		}
		if !reflect.DeepEqual(got.Params, want) {
			t.Fatalf("Match(%q) params = %v, want %v", raw.String(), got.Params, want)
		}
	})
}

// Property: a more specific template always outranks its generalisations
func TestRankingPrefersLiterals(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		literals := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,5}`), 1, 5).Draw(t, "literals")
		generalize := rapid.IntRange(0, len(literals)-1).Draw(t, "position")

		specific := make([]string, len(literals))
		general := make([]string, len(literals))
		copy(specific, literals)
		copy(general, literals)
		general[generalize] = ":p"

		a, err := GetMatcher("specific", "/"+strings.Join(specific, "/"))
		if err != nil {
			t.Fatal(err)
		}
		b, err := GetMatcher("general", "/"+strings.Join(general, "/"))
		if err != nil {
			t.Fatal(err)
		}
		c, err := GetMatcher("nested", "/"+strings.Join(general[:generalize], "/")+"/*rest")
		if err != nil {
			t.Fatal(err)
		}

		if a.Ranking <= b.Ranking || b.Ranking <= c.Ranking {
			t.Fatalf("rankings out of order: %q=%d %q=%d %q=%d",
				a.Template, a.Ranking, b.Template, b.Ranking, c.Template, c.Ranking)
		}

		matchers := []*Matcher{c, b, a}
		RankMatchers(matchers)
		got, ok := Match(DecodeLocation(RawLocation{Pathname: "/" + strings.Join(literals, "/")}, true), matchers)
		if !ok || got.Name != "specific" {
			t.Fatalf("Match() = %+v, %v, want specific", got, ok)
		}
	})
}

// Property: matching is deterministic
func TestMatchDeterministicProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segments := rapid.SliceOfN(rapid.StringMatching(`[a-z0-9]{1,4}`), 0, 5).Draw(t, "segments")
		loc := DecodeLocation(RawLocation{Pathname: "/" + strings.Join(segments, "/")}, true)

		var matchers []*Matcher
		for i, template := range []string{"/", "/:a", "/:a/:b?", "/x/*rest", "*rest", "/:a/b/:c"} {
			m, err := GetMatcher(fmt.Sprintf("r%d", i), template)
			if err != nil {
				t.Fatal(err)
			}
			matchers = append(matchers, m)
		}
		RankMatchers(matchers)

		first, ok1 := Match(loc, matchers)
		second, ok2 := Match(loc, matchers)
		if ok1 != ok2 || !reflect.DeepEqual(first, second) {
			t.Fatalf("Match() should be deterministic: %+v != %+v", first, second)
		}
		if !ok1 {
			t.Fatalf("the root catch-all should match %q", loc.URL)
		}
	})
}

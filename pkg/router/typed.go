package router

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"

	"waypoint/internal/domain"
)

// ErrRouteMismatch is returned when a match is decoded with the typed route
// of another name.
var ErrRouteMismatch = errors.New("match belongs to another route")

// paramTag is the struct tag naming the route param a field maps to.
const paramTag = "param"

// TypedRoute binds a route name to the struct type of its params. Fields are
// mapped with the `param` tag; untagged fields use the field name and "-"
// skips a field. The "omitempty" option leaves zero values out of URLs.
//
//	type UserParams struct {
//		ID  int    `param:"id"`
//		Tab string `param:"tab,omitempty"`
//	}
//
//	var User = router.Define[UserParams]("user")
type TypedRoute[P any] struct {
	name string
}

// Define declares the params type of the named route.
func Define[P any](name string) TypedRoute[P] {
	return TypedRoute[P]{name: name}
}

func (t TypedRoute[P]) Name() string {
	return t.name
}

// Is reports whether m is a match of this route.
func (t TypedRoute[P]) Is(m MatchResult) bool {
	return m.Name == t.name
}

// Decode binds the params of m into a P.
func (t TypedRoute[P]) Decode(m MatchResult) (P, error) {
	var p P
	if m.Name != t.name {
		return p, fmt.Errorf("%w: decoding %q as %q", ErrRouteMismatch, m.Name, t.name)
	}

	form := make(map[string][]string, len(m.Params))
	for key, value := range m.Params {
		form[key] = formValues(value)
	}
	if err := binding.MapFormWithTag(&p, form, paramTag); err != nil {
		return p, fmt.Errorf("decoding params of %q: %w", t.name, err)
	}
	return p, nil
}

// Params flattens p into route params.
func (t TypedRoute[P]) Params(p P) (Params, error) {
	return structParams(p)
}

// NavigateTo pushes the location of a typed route.
func NavigateTo[P any](r *Router, route TypedRoute[P], p P) error {
	params, err := route.Params(p)
	if err != nil {
		return err
	}
	return r.Navigate(route.name, params)
}

// ReplaceTo replaces the current entry with the location of a typed route.
func ReplaceTo[P any](r *Router, route TypedRoute[P], p P) error {
	params, err := route.Params(p)
	if err != nil {
		return err
	}
	return r.Replace(route.name, params)
}

// URLFor returns the absolute path of a typed route.
func URLFor[P any](r *Router, route TypedRoute[P], p P) (string, error) {
	params, err := route.Params(p)
	if err != nil {
		return "", err
	}
	return r.CreateURL(route.name, params)
}

func formValues(v any) []string {
	if list, ok := v.([]domain.Value); ok {
		values := make([]string, 0, len(list))
		for _, item := range list {
			if text, ok := domain.FormatValue(item); ok {
				values = append(values, text)
			}
		}
		return values
	}
	if text, ok := domain.FormatValue(v); ok {
		return []string{text}
	}
	return nil
}

func structParams(v any) (Params, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Params{}, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, &domain.InvalidParamTypeError{Param: "", Value: v}
	}

	rt := rv.Type()
	params := make(Params, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name, options, _ := strings.Cut(field.Tag.Get(paramTag), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		fv := rv.Field(i)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		if hasOption(options, "omitempty") && fv.IsZero() {
			continue
		}
		params[name] = fv.Interface()
	}
	return params, nil
}

func hasOption(options, option string) bool {
	for _, o := range strings.Split(options, ",") {
		if o == option {
			return true
		}
	}
	return false
}

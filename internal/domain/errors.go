package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	ErrInvalidTemplate      = errors.New("invalid route template")
	ErrMissingRequiredParam = errors.New("missing required param")
	ErrInvalidParamType     = errors.New("invalid param type")
	ErrUnknownRoute         = errors.New("unknown route")
	ErrEmptySearchKey       = errors.New("empty search key")
)

// InvalidTemplateError reports a malformed route template.
type InvalidTemplateError struct {
	Route    string
	Template string
	Reason   string
}

func (e *InvalidTemplateError) Error() string {
	if e.Route == "" {
		return fmt.Sprintf("invalid route template %q: %s", e.Template, e.Reason)
	}
	return fmt.Sprintf("invalid template %q for route %q: %s", e.Template, e.Route, e.Reason)
}

func (e *InvalidTemplateError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

// MissingRequiredParamError is returned when building a path without a value
// for a required or catch-all segment.
type MissingRequiredParamError struct {
	Route string
	Param string
}

func (e *MissingRequiredParamError) Error() string {
	return fmt.Sprintf("route %q: missing required param %q", e.Route, e.Param)
}

func (e *MissingRequiredParamError) Is(target error) bool {
	return target == ErrMissingRequiredParam
}

// InvalidParamTypeError is returned for values that are not a string, number,
// boolean or a list of those.
type InvalidParamTypeError struct {
	Param string
	Value any
}

func (e *InvalidParamTypeError) Error() string {
	return fmt.Sprintf("param %q: unsupported value %v (%T)", e.Param, e.Value, e.Value)
}

func (e *InvalidParamTypeError) Is(target error) bool {
	return target == ErrInvalidParamType
}

// UnknownRouteError is returned when a route name is not part of the table.
type UnknownRouteError struct {
	Route string
}

func (e *UnknownRouteError) Error() string {
	return fmt.Sprintf("unknown route %q", e.Route)
}

func (e *UnknownRouteError) Is(target error) bool {
	return target == ErrUnknownRoute
}

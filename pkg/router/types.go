package router

import (
	"waypoint/internal/domain"
	"waypoint/internal/storage"
)

// Aliases so callers can use the router without importing internal packages.
type (
	Location    = domain.Location
	RawLocation = domain.RawLocation
	Search      = domain.Search
	Value       = domain.Value
	Params      = domain.Params
	MatchResult = domain.MatchResult
	Matcher     = domain.Matcher
	Update      = storage.Update

	InvalidTemplateError      = domain.InvalidTemplateError
	MissingRequiredParamError = domain.MissingRequiredParamError
	InvalidParamTypeError     = domain.InvalidParamTypeError
	UnknownRouteError         = domain.UnknownRouteError
)

var (
	ErrInvalidTemplate      = domain.ErrInvalidTemplate
	ErrMissingRequiredParam = domain.ErrMissingRequiredParam
	ErrInvalidParamType     = domain.ErrInvalidParamType
	ErrUnknownRoute         = domain.ErrUnknownRoute
	ErrEmptySearchKey       = domain.ErrEmptySearchKey
)

// History is the session history the router reads from and writes to.
// storage.MemoryHistory is the in-process implementation.
type History interface {
	Location() RawLocation
	Push(to RawLocation)
	Replace(to RawLocation)
	Back()
	Forward()
	Listen(fn func(Update)) (unlisten func())
}

// NewMemoryHistory returns an in-memory history starting at path.
func NewMemoryHistory(path string) *storage.MemoryHistory {
	return storage.NewMemoryHistory(path)
}

// EncodeSearch serializes a search mapping without the leading "?".
func EncodeSearch(s Search) string {
	return domain.EncodeSearch(s)
}

// DecodeSearch parses a query string into a search mapping.
func DecodeSearch(query string) Search {
	return domain.DecodeSearch(query)
}

// ParsePath splits an absolute path into pathname, search and hash.
func ParsePath(path string) RawLocation {
	return domain.ParsePath(path)
}

// CreatePath joins a raw location into an absolute path.
func CreatePath(l RawLocation) string {
	return domain.CreatePath(l)
}

package router

import "waypoint/internal/domain"

// ClickEvent is the part of a pointer click the link policy looks at.
type ClickEvent struct {
	Button           int
	MetaKey          bool
	AltKey           bool
	CtrlKey          bool
	ShiftKey         bool
	DefaultPrevented bool
}

// PreventDefault marks the event as handled.
func (e *ClickEvent) PreventDefault() {
	e.DefaultPrevented = true
}

func (e *ClickEvent) hasModifier() bool {
	return e.MetaKey || e.AltKey || e.CtrlKey || e.ShiftKey
}

// LinkOptions configures Link.
type LinkOptions struct {
	// Replace replaces the current entry instead of pushing a new one.
	Replace bool

	// Target is the browsing context name. Only "" and "_self" are handled
	// by the router.
	Target string
}

// Link is the navigation state of an anchor-like element.
type Link struct {
	Href string

	// Active reports whether Href is the current location.
	Active bool

	// OnClick navigates to Href when the click is a plain primary click on
	// a link targeting the current context. It prevents the event's default
	// action when it does.
	OnClick func(*ClickEvent)
}

// Link returns the state of a link to href, an absolute path. Clicking an
// active link replaces the current entry.
func (r *Router) Link(href string, opts LinkOptions) Link {
	active := href == r.Location().URL
	to := domain.ParsePath(href)
	replace := opts.Replace || active
	ownTarget := opts.Target == "" || opts.Target == "_self"

	return Link{
		Href:   href,
		Active: active,
		OnClick: func(e *ClickEvent) {
			if e.DefaultPrevented || !ownTarget || e.Button != 0 || e.hasModifier() {
				return
			}
			e.PreventDefault()

			if replace {
				r.history.Replace(to)
			} else {
				r.history.Push(to)
			}
		},
	}
}

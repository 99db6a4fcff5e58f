// Package router matches named URL templates against a session history and
// notifies subscribers when the location changes.
package router

import (
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"waypoint/internal/domain"
	"waypoint/internal/logging"
	"waypoint/internal/metrics"
	"waypoint/internal/storage"
)

type subscriber struct {
	id     uint64
	fn     func(Location)
	active atomic.Bool
}

// Router owns the compiled route table and the current location.
type Router struct {
	basePath string
	history  History
	logger   *logging.Logger
	metrics  *metrics.Metrics

	matchers []*domain.Matcher // ranked, most specific first
	byName   map[string]*domain.Matcher

	current atomic.Pointer[domain.Location]

	mu          sync.Mutex
	subscribers []*subscriber
	nextID      uint64
	unlisten    func()
}

// New compiles routes, a mapping of route name to path template, and starts
// following the history. It fails on the first invalid template.
//
// If the initial history location is not in canonical form it is replaced,
// once and before any subscriber can exist, by its canonical form.
func New(routes map[string]string, opts ...Option) (*Router, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.history == nil {
		cfg.history = storage.NewMemoryHistory("/")
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewLogger("router")
		cfg.logger.SetLevel(logrus.WarnLevel)
	}

	r := &Router{
		basePath: cfg.basePath,
		history:  cfg.history,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		byName:   make(map[string]*domain.Matcher, len(routes)),
	}

	names := make([]string, 0, len(routes))
	for name := range routes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m, err := domain.GetMatcher(name, domain.JoinTemplate(r.basePath, routes[name]))
		if err != nil {
			return nil, err
		}
		r.matchers = append(r.matchers, m)
		r.byName[name] = m
	}
	domain.RankMatchers(r.matchers)

	raw := r.history.Location()
	loc := domain.DecodeLocation(raw, true)
	if domain.NeedsCleanup(raw, loc) {
		r.logger.InfoCleanup(domain.CreatePath(raw), loc.URL)
		r.metrics.RecordCleanup()
		r.history.Replace(domain.ParsePath(loc.URL))
	}
	r.current.Store(&loc)

	r.unlisten = r.history.Listen(r.onUpdate)
	return r, nil
}

func (r *Router) onUpdate(u Update) {
	loc := domain.DecodeLocation(u.Location, false)

	// The swap and the subscriber snapshot happen together so Watch sees each
	// location either as its starting value or as a delivery, never both.
	r.mu.Lock()
	prev := r.current.Swap(&loc)
	subs := append([]*subscriber(nil), r.subscribers...)
	r.mu.Unlock()

	r.metrics.RecordNavigation(string(u.Action))
	r.logger.InfoNavigate(string(u.Action), prev.URL, loc.URL)

	for _, s := range subs {
		if s.active.Load() {
			s.fn(loc)
		}
	}
}

// Location returns the current location.
func (r *Router) Location() Location {
	return *r.current.Load()
}

// BasePath returns the prefix applied to every route template.
func (r *Router) BasePath() string {
	return r.basePath
}

// History returns the history the router follows.
func (r *Router) History() History {
	return r.history
}

// Subscribe calls fn with every new location, in the order the history
// reports them. The returned function removes the subscription; it may be
// called more than once, including from inside fn.
func (r *Router) Subscribe(fn func(Location)) (unsubscribe func()) {
	_, unsubscribe = r.Watch(fn)
	return unsubscribe
}

// Watch is Subscribe that also returns the location current at the time of
// subscribing. fn receives exactly the locations that follow it.
func (r *Router) Watch(fn func(Location)) (current Location, unsubscribe func()) {
	r.mu.Lock()
	current = *r.current.Load()
	r.nextID++
	s := &subscriber{id: r.nextID, fn: fn}
	s.active.Store(true)
	r.subscribers = append(r.subscribers, s)
	r.mu.Unlock()

	r.metrics.SubscriberAdded()

	return current, func() {
		if !s.active.CompareAndSwap(true, false) {
			return
		}
		r.mu.Lock()
		for i, other := range r.subscribers {
			if other.id == s.id {
				r.subscribers = append(r.subscribers[:i:i], r.subscribers[i+1:]...)
				break
			}
		}
		r.mu.Unlock()
		r.metrics.SubscriberRemoved()
	}
}

// SubscribeRoute calls fn whenever the best match among names changes. It is
// not called for locations that leave the match unchanged.
func (r *Router) SubscribeRoute(names []string, fn func(MatchResult, bool)) (unsubscribe func()) {
	matchers := domain.FilterMatchers(r.matchers, names)

	var (
		mu     sync.Mutex
		last   MatchResult
		lastOK bool
	)

	// Deliveries wait until the starting match is known.
	mu.Lock()
	defer mu.Unlock()

	current, unsubscribe := r.Watch(func(loc Location) {
		next, ok := domain.Match(loc, matchers)

		mu.Lock()
		changed := ok != lastOK || !reflect.DeepEqual(next, last)
		last, lastOK = next, ok
		mu.Unlock()

		if changed {
			fn(next, ok)
		}
	})
	last, lastOK = domain.Match(current, matchers)
	return unsubscribe
}

// Navigate pushes the location of the named route.
func (r *Router) Navigate(name string, params Params) error {
	to, err := r.build(name, params)
	if err != nil {
		return err
	}
	r.history.Push(to)
	return nil
}

// Replace replaces the current entry with the location of the named route.
func (r *Router) Replace(name string, params Params) error {
	to, err := r.build(name, params)
	if err != nil {
		return err
	}
	r.history.Replace(to)
	return nil
}

// CreateURL returns the absolute path of the named route.
func (r *Router) CreateURL(name string, params Params) (string, error) {
	to, err := r.build(name, params)
	if err != nil {
		return "", err
	}
	return domain.CreatePath(to), nil
}

func (r *Router) GoBack() {
	r.history.Back()
}

func (r *Router) GoForward() {
	r.history.Forward()
}

// Route returns the best match for the current location among the named
// routes only. Unknown names are ignored.
func (r *Router) Route(names ...string) (MatchResult, bool) {
	return r.match(r.Location(), domain.FilterMatchers(r.matchers, names))
}

// Current returns the best match for the current location among all routes.
func (r *Router) Current() (MatchResult, bool) {
	return r.match(r.Location(), r.matchers)
}

// Resolve matches an absolute path against all routes without navigating.
func (r *Router) Resolve(path string) (MatchResult, bool) {
	return r.match(domain.DecodeLocation(domain.ParsePath(path), true), r.matchers)
}

// Matchers returns the compiled routes, most specific first.
func (r *Router) Matchers() []*Matcher {
	return append([]*domain.Matcher(nil), r.matchers...)
}

// Matcher returns the compiled route with the given name.
func (r *Router) Matcher(name string) (*Matcher, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Close stops following the history and drops every subscriber.
func (r *Router) Close() {
	r.unlisten()

	r.mu.Lock()
	subs := r.subscribers
	r.subscribers = nil
	r.mu.Unlock()

	for _, s := range subs {
		if s.active.CompareAndSwap(true, false) {
			r.metrics.SubscriberRemoved()
		}
	}
}

func (r *Router) match(loc Location, matchers []*domain.Matcher) (MatchResult, bool) {
	m, ok := domain.Match(loc, matchers)
	r.metrics.RecordMatch(m.Name, ok)
	if ok {
		r.logger.DebugMatch(loc.URL, m.Name)
	}
	return m, ok
}

func (r *Router) build(name string, params Params) (RawLocation, error) {
	m, ok := r.byName[name]
	if !ok {
		return RawLocation{}, &domain.UnknownRouteError{Route: name}
	}
	to, err := domain.MatchToHistoryPath(m, params)
	if err != nil {
		r.metrics.RecordBuildError(name)
		r.logger.WithError(err).Debugf("Failed to build URL for %s", name)
		return RawLocation{}, err
	}
	return to, nil
}

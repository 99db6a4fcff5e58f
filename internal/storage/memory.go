package storage

import (
	"sync"

	"waypoint/internal/domain"
)

// Action describes how the current history entry changed.
type Action string

const (
	ActionPush    Action = "PUSH"
	ActionReplace Action = "REPLACE"
	ActionPop     Action = "POP"
)

// Entry is one session history entry.
type Entry struct {
	Key      string             `json:"key"`
	Location domain.RawLocation `json:"location"`
}

// Update is delivered to listeners after every history change.
type Update struct {
	Action   Action             `json:"action"`
	Key      string             `json:"key"`
	Location domain.RawLocation `json:"location"`
}

type listener struct {
	id uint64
	fn func(Update)
}

// MemoryHistory is a thread-safe, in-memory session history.
//
// Listeners are called in registration order without the lock held. A
// history change made while updates are being delivered is queued and
// delivered once the current update has reached every listener, so all
// listeners observe updates in the order the changes happened.
type MemoryHistory struct {
	mu          sync.RWMutex
	entries     []Entry
	index       int
	listeners   []listener
	nextID      uint64
	pending     []Update
	dispatching bool
}

// NewMemoryHistory creates a history holding a single entry for path.
func NewMemoryHistory(path string) *MemoryHistory {
	return &MemoryHistory{
		entries: []Entry{{Key: domain.GenerateShortID(), Location: domain.ParsePath(path)}},
	}
}

// Location returns the location of the current entry.
func (h *MemoryHistory) Location() domain.RawLocation {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.entries[h.index].Location
}

// Push adds an entry after the current one, dropping any forward entries.
func (h *MemoryHistory) Push(to domain.RawLocation) {
	h.mu.Lock()
	entry := Entry{Key: domain.GenerateShortID(), Location: to}
	h.entries = append(h.entries[:h.index+1], entry)
	h.index++
	h.commit(ActionPush, entry)
}

// Replace swaps the current entry without adding a new one.
func (h *MemoryHistory) Replace(to domain.RawLocation) {
	h.mu.Lock()
	entry := Entry{Key: domain.GenerateShortID(), Location: to}
	h.entries[h.index] = entry
	h.commit(ActionReplace, entry)
}

// Back moves to the previous entry. It does nothing on the first entry.
func (h *MemoryHistory) Back() {
	h.Go(-1)
}

// Forward moves to the next entry. It does nothing on the last entry.
func (h *MemoryHistory) Forward() {
	h.Go(1)
}

// Go moves delta entries through the history. Moves past either end are
// ignored.
func (h *MemoryHistory) Go(delta int) {
	h.mu.Lock()
	target := h.index + delta
	if delta == 0 || target < 0 || target >= len(h.entries) {
		h.mu.Unlock()
		return
	}
	h.index = target
	h.commit(ActionPop, h.entries[target])
}

// Listen registers fn for every later history change and returns a function
// removing it. The returned function may be called more than once.
func (h *MemoryHistory) Listen(fn func(Update)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.listeners = append(h.listeners, listener{id: id, fn: fn})

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		for i, l := range h.listeners {
			if l.id == id {
				h.listeners = append(h.listeners[:i:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

// Entries returns a copy of all entries.
func (h *MemoryHistory) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := make([]Entry, len(h.entries))
	copy(entries, h.entries)
	return entries
}

// Index returns the position of the current entry.
func (h *MemoryHistory) Index() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.index
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// commit queues an update and, unless another call is already delivering,
// delivers queued updates until none are left. Must be called with the lock
// held; it releases it.
func (h *MemoryHistory) commit(action Action, entry Entry) {
	h.pending = append(h.pending, Update{Action: action, Key: entry.Key, Location: entry.Location})
	if h.dispatching {
		h.mu.Unlock()
		return
	}
	h.dispatching = true
	h.mu.Unlock()

	h.dispatch()
}

// dispatch delivers pending updates in order. If a listener panics, the
// panic propagates and the updates still queued are delivered by the next
// history change.
func (h *MemoryHistory) dispatch() {
	done := false
	defer func() {
		if !done {
			h.mu.Lock()
			h.dispatching = false
			h.mu.Unlock()
		}
	}()

	for {
		h.mu.Lock()
		if len(h.pending) == 0 {
			h.dispatching = false
			h.mu.Unlock()
			done = true
			return
		}
		update := h.pending[0]
		h.pending = h.pending[1:]
		listeners := append([]listener(nil), h.listeners...)
		h.mu.Unlock()

		for _, l := range listeners {
			l.fn(update)
		}
	}
}

package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink_Active(t *testing.T) {
	r := newTestRouter(t, WithHistory(NewMemoryHistory("/users/1")))

	assert.True(t, r.Link("/users/1", LinkOptions{}).Active)
	assert.False(t, r.Link("/users/2", LinkOptions{}).Active)
	assert.False(t, r.Link("/users/1?tab=a", LinkOptions{}).Active)
}

func TestLink_ClickPolicy(t *testing.T) {
	tests := []struct {
		name        string
		opts        LinkOptions
		event       ClickEvent
		intercepted bool
	}{
		{"primary click", LinkOptions{}, ClickEvent{}, true},
		{"self target", LinkOptions{Target: "_self"}, ClickEvent{}, true},
		{"blank target", LinkOptions{Target: "_blank"}, ClickEvent{}, false},
		{"named frame", LinkOptions{Target: "preview"}, ClickEvent{}, false},
		{"middle button", LinkOptions{}, ClickEvent{Button: 1}, false},
		{"meta key", LinkOptions{}, ClickEvent{MetaKey: true}, false},
		{"alt key", LinkOptions{}, ClickEvent{AltKey: true}, false},
		{"ctrl key", LinkOptions{}, ClickEvent{CtrlKey: true}, false},
		{"shift key", LinkOptions{}, ClickEvent{ShiftKey: true}, false},
		{"already prevented", LinkOptions{}, ClickEvent{DefaultPrevented: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newRecordingHistory("/")
			r := newTestRouter(t, WithHistory(h))

			event := tt.event
			r.Link("/users/3?tab=a#bio", tt.opts).OnClick(&event)

			if !tt.intercepted {
				assert.Empty(t, h.pushes)
				assert.Equal(t, "/", r.Location().URL)
				assert.Equal(t, tt.event.DefaultPrevented, event.DefaultPrevented)
				return
			}

			assert.True(t, event.DefaultPrevented)
			require.Len(t, h.pushes, 1)
			assert.Equal(t, RawLocation{Pathname: "/users/3", Search: "?tab=a", Hash: "#bio"}, h.pushes[0])
			assert.Equal(t, "/users/3?tab=a#bio", r.Location().URL)
		})
	}
}

func TestLink_ReplaceOption(t *testing.T) {
	h := newRecordingHistory("/")
	r := newTestRouter(t, WithHistory(h))

	r.Link("/users", LinkOptions{Replace: true}).OnClick(&ClickEvent{})

	assert.Empty(t, h.pushes)
	assert.Len(t, h.replaces, 1)
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, "/users", r.Location().URL)
}

func TestLink_ActiveLinkReplaces(t *testing.T) {
	h := newRecordingHistory("/users")
	r := newTestRouter(t, WithHistory(h))

	link := r.Link("/users", LinkOptions{})
	require.True(t, link.Active)
	link.OnClick(&ClickEvent{})

	assert.Empty(t, h.pushes)
	assert.Len(t, h.replaces, 1)
	assert.Equal(t, 1, h.Len())
}

func TestLink_NotifiesSubscribers(t *testing.T) {
	r := newTestRouter(t)

	var seen []string
	r.Subscribe(func(loc Location) { seen = append(seen, loc.URL) })

	href, err := r.CreateURL("user", Params{"id": 4})
	require.NoError(t, err)
	r.Link(href, LinkOptions{}).OnClick(&ClickEvent{})

	assert.Equal(t, []string{"/users/4"}, seen)
}

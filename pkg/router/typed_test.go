package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userParams struct {
	ID int `param:"id"`
}

type profileParams struct {
	ID     int      `param:"id"`
	Tab    string   `param:"tab,omitempty"`
	Tags   []string `param:"tags,omitempty"`
	Draft  bool     `param:"draft,omitempty"`
	Secret string   `param:"-"`
}

type docsParams struct {
	Rest string `param:"rest"`
}

var (
	userRoute    = Define[userParams]("user")
	profileRoute = Define[profileParams]("profile")
	docsRoute    = Define[docsParams]("docs")
)

func TestTypedRoute_URLFor(t *testing.T) {
	r := newTestRouter(t)

	url, err := URLFor(r, userRoute, userParams{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, "/users/7", url)

	url, err = URLFor(r, profileRoute, profileParams{ID: 7, Tab: "posts", Tags: []string{"a", "b"}, Secret: "x"})
	require.NoError(t, err)
	assert.Equal(t, "/users/7/profile/posts?tags=a&tags=b", url)

	url, err = URLFor(r, docsRoute, docsParams{Rest: "guide/intro"})
	require.NoError(t, err)
	assert.Equal(t, "/docs/guide/intro", url)
}

func TestTypedRoute_NavigateAndDecode(t *testing.T) {
	r := newTestRouter(t)

	require.NoError(t, NavigateTo(r, profileRoute, profileParams{ID: 3, Tags: []string{"x", "y"}, Draft: true}))

	m, ok := r.Current()
	require.True(t, ok)
	require.True(t, profileRoute.Is(m))

	got, err := profileRoute.Decode(m)
	require.NoError(t, err)
	assert.Equal(t, profileParams{ID: 3, Tags: []string{"x", "y"}, Draft: true}, got)

	require.NoError(t, ReplaceTo(r, userRoute, userParams{ID: 8}))
	m, ok = r.Current()
	require.True(t, ok)

	user, err := userRoute.Decode(m)
	require.NoError(t, err)
	assert.Equal(t, userParams{ID: 8}, user)
}

func TestTypedRoute_DecodeMismatch(t *testing.T) {
	_, err := userRoute.Decode(MatchResult{Name: "docs", Params: Params{"rest": ""}})
	assert.ErrorIs(t, err, ErrRouteMismatch)
}

func TestTypedRoute_DecodeInvalidValue(t *testing.T) {
	_, err := userRoute.Decode(MatchResult{Name: "user", Params: Params{"id": "abc"}})
	assert.Error(t, err)
}

func TestTypedRoute_Switch(t *testing.T) {
	r := newTestRouter(t, WithHistory(NewMemoryHistory("/docs/a/b")))

	m, ok := r.Current()
	require.True(t, ok)

	var rest string
	switch m.Name {
	case userRoute.Name():
		t.Fatal("unexpected user match")
	case docsRoute.Name():
		p, err := docsRoute.Decode(m)
		require.NoError(t, err)
		rest = p.Rest
	}
	assert.Equal(t, "a/b", rest)
}

func TestStructParams(t *testing.T) {
	params, err := structParams(&profileParams{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, Params{"id": 1}, params)

	var nilParams *profileParams
	params, err = structParams(nilParams)
	require.NoError(t, err)
	assert.Empty(t, params)

	_, err = structParams(42)
	assert.ErrorIs(t, err, ErrInvalidParamType)
}

func TestTypedRoute_MissingParam(t *testing.T) {
	r := newTestRouter(t)

	_, err := URLFor(r, userRoute, userParams{})
	assert.NoError(t, err, "zero id is still a value")

	type emptyParams struct{}
	_, err = URLFor(r, Define[emptyParams]("user"), emptyParams{})
	assert.ErrorIs(t, err, ErrMissingRequiredParam)
}

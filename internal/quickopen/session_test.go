package quickopen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession_SelectsFirst(t *testing.T) {
	t.Parallel()

	s := NewSession(cands("a.txt", "b.txt"), nil)
	assert.Equal(t, Selected, s.State())
	assert.Equal(t, 0, s.Selection())
	c, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "a.txt", c.DisplayName)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, MatchSubstring, s.Matcher().Mode())
}

func TestNewSession_IDsDiffer(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, NewSession(nil, nil).ID(), NewSession(nil, nil).ID())
}

func TestNewSession_WithID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "picker-1", NewSession(nil, nil, WithID("picker-1")).ID())
	assert.NotEmpty(t, NewSession(nil, nil, WithID("")).ID())
}

func TestNewSession_EmptyHasNoSelection(t *testing.T) {
	t.Parallel()

	s := NewSession(nil, SubstringMatcher{})
	assert.Equal(t, NoSelection, s.State())
	assert.Equal(t, -1, s.Selection())
	_, ok := s.Current()
	assert.False(t, ok)

	path, err := s.Activate()
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Empty(t, path)
	assert.Equal(t, NoSelection, s.State(), "illegal activation must not change state")

	require.NoError(t, s.Move(1))
	assert.Equal(t, NoSelection, s.State())
}

func TestSession_FullIsCopied(t *testing.T) {
	t.Parallel()

	full := cands("a", "b")
	s := NewSession(full, nil)
	full[0].DisplayName = "mutated"
	assert.Equal(t, "a", s.Full()[0].DisplayName)
}

func TestSession_SetQueryRetainsVisibleSelection(t *testing.T) {
	t.Parallel()

	s := NewSession(cands("alpha.txt", "beta.txt", "alphabet.txt"), nil)
	require.NoError(t, s.MoveTo(2))

	require.NoError(t, s.SetQuery("alpha"))
	c, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "alphabet.txt", c.DisplayName)
	assert.Equal(t, 1, s.Selection())
	assert.Equal(t, Selected, s.State())
}

func TestSession_SetQueryReselectsFirstWhenSelectionFiltered(t *testing.T) {
	t.Parallel()

	s := NewSession(cands("alpha.txt", "beta.txt", "gamma.txt", "betamax.txt"), nil)
	require.NoError(t, s.MoveTo(2))

	require.NoError(t, s.SetQuery("beta"))
	c, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "beta.txt", c.DisplayName)
	assert.Equal(t, 0, s.Selection())
}

func TestSession_SetQueryNoMatches(t *testing.T) {
	t.Parallel()

	s := NewSession(cands("alpha.txt"), nil)
	require.NoError(t, s.SetQuery("zzz"))
	assert.Equal(t, NoSelection, s.State())
	assert.Equal(t, -1, s.Selection())
	assert.Empty(t, s.Visible())

	_, err := s.Activate()
	assert.ErrorIs(t, err, ErrNoSelection)

	// Clearing the query brings everything back with the first selected.
	require.NoError(t, s.SetQuery(""))
	assert.Equal(t, Selected, s.State())
	assert.Equal(t, s.Full(), s.Visible())
}

func TestSession_SelectionNeverDangles(t *testing.T) {
	t.Parallel()

	s := NewSession(cands("notes.md", "nothing.txt", "node.js", "main.go", "index.html"), nil)
	for _, q := range []string{"n", "no", "not", "note", "x", "", "o", "ma"} {
		require.NoError(t, s.MoveTo(len(s.Visible())-1))
		require.NoError(t, s.SetQuery(q))
		if len(s.Visible()) == 0 {
			assert.Equal(t, NoSelection, s.State(), q)
			continue
		}
		assert.GreaterOrEqual(t, s.Selection(), 0, q)
		assert.Less(t, s.Selection(), len(s.Visible()), q)
	}
}

func TestSession_MoveClamps(t *testing.T) {
	t.Parallel()

	s := NewSession(cands("a", "b", "c"), nil)
	require.NoError(t, s.Move(1))
	assert.Equal(t, 1, s.Selection())
	require.NoError(t, s.Move(10))
	assert.Equal(t, 2, s.Selection())
	require.NoError(t, s.Move(1))
	assert.Equal(t, 2, s.Selection(), "no wraparound at the end")
	require.NoError(t, s.Move(-10))
	assert.Equal(t, 0, s.Selection())
	require.NoError(t, s.Move(-1))
	assert.Equal(t, 0, s.Selection(), "no wraparound at the start")

	require.NoError(t, s.MoveTo(-5))
	assert.Equal(t, 0, s.Selection())
	require.NoError(t, s.MoveTo(99))
	assert.Equal(t, 2, s.Selection())
}

func TestSession_ActivateReturnsSelectedPath(t *testing.T) {
	t.Parallel()

	s := NewSession(cands("a.txt", "b.txt"), nil)
	require.NoError(t, s.Move(1))
	visibleBefore := append([]Candidate(nil), s.Visible()...)

	path, err := s.Activate()
	require.NoError(t, err)
	assert.Equal(t, "/c/b.txt", path)
	assert.Equal(t, Activated, s.State())
	assert.Equal(t, "/c/b.txt", s.ActivatedPath())
	assert.Equal(t, visibleBefore, s.Visible(), "activation must not mutate the visible set")
	assert.Len(t, s.Full(), 2)
}

func TestSession_EventsAfterActivationIgnored(t *testing.T) {
	t.Parallel()

	s := NewSession(cands("a.txt", "b.txt"), nil)
	_, err := s.Activate()
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetQuery("b"), ErrSessionClosed)
	assert.ErrorIs(t, s.Move(1), ErrSessionClosed)
	assert.ErrorIs(t, s.MoveTo(1), ErrSessionClosed)
	assert.ErrorIs(t, s.Cancel(), ErrSessionClosed)
	_, err = s.Activate()
	assert.ErrorIs(t, err, ErrSessionClosed)

	assert.Equal(t, Activated, s.State())
	assert.Equal(t, "", s.Query())
	assert.Equal(t, 0, s.Selection())
}

func TestSession_Cancel(t *testing.T) {
	t.Parallel()

	for _, s := range []*Session{NewSession(cands("a"), nil), NewSession(nil, nil)} {
		require.NoError(t, s.Cancel())
		assert.Equal(t, Cancelled, s.State())
		assert.True(t, s.State().Terminal())

		_, err := s.Activate()
		assert.ErrorIs(t, err, ErrSessionClosed)
		assert.Empty(t, s.ActivatedPath())
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no-selection", NoSelection.String())
	assert.Equal(t, "selected", Selected.String())
	assert.Equal(t, "activated", Activated.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.False(t, Selected.Terminal())
}

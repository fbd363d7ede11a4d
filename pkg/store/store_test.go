package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajdev-xr/spire-thread-nexus/pkg/identity"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/models"
)

func newTestStore(t *testing.T, opts Options) (*identity.Provider, *Store) {
	t.Helper()
	p := identity.NewProvider(nil, identity.Options{BcryptCost: bcrypt.MinCost})
	return p, New(p, opts)
}

func loginDemo(t *testing.T, p *identity.Provider) *models.User {
	t.Helper()
	u, err := p.Login(context.Background(), "demo@threadspire.com", "password123")
	require.NoError(t, err)
	return u
}

func loginJane(t *testing.T, p *identity.Provider) *models.User {
	t.Helper()
	u, err := p.Login(context.Background(), "jane@threadspire.com", "password123")
	require.NoError(t, err)
	return u
}

func TestSeedContent(t *testing.T) {
	_, s := newTestStore(t, Options{})
	assert.Len(t, s.PublicThreads(), 3)

	th, err := s.ThreadByID("1")
	require.NoError(t, err)
	assert.Equal(t, "The Art of Mindful Productivity", th.Title)
	assert.Equal(t, "Jane Smith", th.AuthorName)
	assert.Len(t, th.Segments, 3)
	assert.True(t, th.Bookmarks.Has("1"))
}

func TestThreadByIDMissing(t *testing.T) {
	_, s := newTestStore(t, Options{})
	_, err := s.ThreadByID("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadsReturnCopies(t *testing.T) {
	_, s := newTestStore(t, Options{})
	th, err := s.ThreadByID("1")
	require.NoError(t, err)
	th.Title = "mutated"
	th.Segments[0].Content = "mutated"

	again, err := s.ThreadByID("1")
	require.NoError(t, err)
	assert.Equal(t, "The Art of Mindful Productivity", again.Title)
	assert.NotEqual(t, "mutated", again.Segments[0].Content)
}

func TestCreateThreadRequiresAuth(t *testing.T) {
	_, s := newTestStore(t, Options{})
	_, err := s.CreateThread("x", []models.ThreadSegment{{Content: "c", Order: 1}}, nil, true)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCreateThread(t *testing.T) {
	p, s := newTestStore(t, Options{})
	u := loginDemo(t, p)

	th, err := s.CreateThread("Hello", []models.ThreadSegment{
		{Content: "second", Order: 5},
		{Content: "first", Order: 2},
	}, []string{"Test"}, true)
	require.NoError(t, err)

	assert.NotEmpty(t, th.ID)
	assert.Equal(t, u.ID, th.AuthorID)
	assert.Equal(t, u.Name, th.AuthorName)
	// segments reordered and renumbered densely
	require.Len(t, th.Segments, 2)
	assert.Equal(t, "first", th.Segments[0].Content)
	assert.Equal(t, 1, th.Segments[0].Order)
	assert.Equal(t, "second", th.Segments[1].Content)
	assert.Equal(t, 2, th.Segments[1].Order)
	assert.NotEmpty(t, th.Segments[0].ID)
	// fresh engagement state
	assert.Empty(t, th.Bookmarks)
	assert.Empty(t, th.Forks)
	for _, sym := range models.ReactionSymbols {
		assert.Empty(t, th.Reactions[sym])
	}

	assert.Len(t, s.PublicThreads(), 4)
}

func TestCreateThreadNoSegments(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginDemo(t, p)
	_, err := s.CreateThread("x", nil, nil, true)
	assert.ErrorIs(t, err, ErrNoSegments)
}

func TestDraftsExcludedFromPublicViews(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginDemo(t, p)
	_, err := s.CreateThread("Draft", []models.ThreadSegment{{Content: "c", Order: 1}}, []string{"Hidden"}, false)
	require.NoError(t, err)

	assert.Len(t, s.PublicThreads(), 3)
	assert.Empty(t, s.ThreadsByTag("Hidden"))
	assert.Empty(t, s.SearchThreads("Draft"))
	assert.NotContains(t, s.AllTags(), "Hidden")
	// but visible to the author
	assert.Len(t, s.UserThreads(), 2)
}

func TestUpdateThread(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginJane(t, p)

	title := "Renamed"
	published := false
	th, err := s.UpdateThread("1", ThreadUpdate{Title: &title, IsPublished: &published})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", th.Title)
	assert.False(t, th.IsPublished)
	// untouched fields survive
	assert.Len(t, th.Segments, 3)
	assert.True(t, th.UpdatedAt.After(th.CreatedAt))
	assert.Equal(t, "2", th.AuthorID)
}

func TestUpdateThreadForbidden(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginDemo(t, p) // thread 1 belongs to Jane

	title := "hijack"
	_, err := s.UpdateThread("1", ThreadUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	th, err := s.ThreadByID("1")
	require.NoError(t, err)
	assert.Equal(t, "The Art of Mindful Productivity", th.Title)
}

func TestUpdateThreadLenient(t *testing.T) {
	p, s := newTestStore(t, Options{LenientUpdates: true})
	loginDemo(t, p)

	title := "hijack"
	th, err := s.UpdateThread("1", ThreadUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "The Art of Mindful Productivity", th.Title)
}

func TestForkThread(t *testing.T) {
	p, s := newTestStore(t, Options{})
	u := loginDemo(t, p)

	fork, err := s.ForkThread("1")
	require.NoError(t, err)

	assert.Equal(t, "Fork of: The Art of Mindful Productivity", fork.Title)
	assert.Equal(t, u.ID, fork.AuthorID)
	assert.False(t, fork.IsPublished)
	assert.Equal(t, "1", fork.OriginalThreadID)
	assert.Equal(t, "Jane Smith", fork.OriginalAuthorName)
	// fresh engagement state despite the source having some
	assert.Empty(t, fork.Bookmarks)
	assert.Empty(t, fork.Forks)
	for _, sym := range models.ReactionSymbols {
		assert.Empty(t, fork.Reactions[sym])
	}

	src, err := s.ThreadByID("1")
	require.NoError(t, err)
	assert.Contains(t, src.Forks, fork.ID)
}

func TestForkDeepCopyIndependence(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginDemo(t, p)

	fork, err := s.ForkThread("1")
	require.NoError(t, err)

	seg := append([]models.ThreadSegment(nil), fork.Segments...)
	seg[0].Content = "edited in fork"
	_, err = s.UpdateThread(fork.ID, ThreadUpdate{Segments: seg})
	require.NoError(t, err)

	src, err := s.ThreadByID("1")
	require.NoError(t, err)
	assert.NotEqual(t, "edited in fork", src.Segments[0].Content)
}

func TestForkDraftNotFound(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginDemo(t, p)

	draft, err := s.CreateThread("Draft", []models.ThreadSegment{{Content: "c", Order: 1}}, nil, false)
	require.NoError(t, err)

	_, err = s.ForkThread(draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ForkThread("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleReactionParity(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginDemo(t, p)

	on, err := s.ToggleReaction("3", "❤️")
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.HasUserReacted("3", "❤️"))

	on, err = s.ToggleReaction("3", "❤️")
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, s.HasUserReacted("3", "❤️"))
}

func TestToggleReactionUnknownSymbol(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginDemo(t, p)
	_, err := s.ToggleReaction("1", "👍")
	assert.ErrorIs(t, err, ErrUnknownReaction)
}

func TestToggleReactionIsolatedPerUser(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginDemo(t, p)
	_, err := s.ToggleReaction("3", "🔥")
	require.NoError(t, err)

	loginJane(t, p)
	assert.False(t, s.HasUserReacted("3", "🔥"))
	on, err := s.ToggleReaction("3", "🔥")
	require.NoError(t, err)
	assert.True(t, on)

	th, err := s.ThreadByID("3")
	require.NoError(t, err)
	assert.Len(t, th.Reactions["🔥"], 2)
}

func TestToggleBookmarkParity(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginJane(t, p)

	require.False(t, s.IsThreadBookmarked("1"))
	on, err := s.ToggleBookmark("1")
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.IsThreadBookmarked("1"))

	on, err = s.ToggleBookmark("1")
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, s.IsThreadBookmarked("1"))
}

func TestEngagementRequiresAuth(t *testing.T) {
	_, s := newTestStore(t, Options{})
	_, err := s.ToggleReaction("1", "👏")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = s.ToggleBookmark("1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = s.ForkThread("1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.False(t, s.IsThreadBookmarked("1"))
	assert.False(t, s.HasUserReacted("1", "👏"))
	assert.Empty(t, s.UserThreads())
	assert.Empty(t, s.UserCollections())
}

func TestThreadsByTagCaseInsensitive(t *testing.T) {
	_, s := newTestStore(t, Options{})
	assert.Len(t, s.ThreadsByTag("productivity"), 2)
	assert.Len(t, s.ThreadsByTag("PRODUCTIVITY"), 2)
	assert.Empty(t, s.ThreadsByTag("unknown"))
}

func TestSearchThreads(t *testing.T) {
	_, s := newTestStore(t, Options{})
	// title match
	assert.Len(t, s.SearchThreads("second brain"), 1)
	// segment content match
	assert.Len(t, s.SearchThreads("transferable skills"), 1)
	// tag match
	assert.Len(t, s.SearchThreads("mindfulness"), 1)
	// empty query matches all published
	assert.Len(t, s.SearchThreads(""), 3)
	assert.Empty(t, s.SearchThreads("zzz-no-match"))
}

func TestAllTagsSortedUnique(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginDemo(t, p)
	// duplicate tag in different case collapses into first-seen spelling
	_, err := s.CreateThread("T", []models.ThreadSegment{{Content: "c", Order: 1}}, []string{"productivity"}, true)
	require.NoError(t, err)

	tags := s.AllTags()
	assert.Equal(t, []string{
		"Career", "Change", "Growth", "Knowledge Management",
		"Learning", "Mindfulness", "Productivity", "Work",
	}, tags)
}

func TestSortThreadsStable(t *testing.T) {
	_, s := newTestStore(t, Options{})
	list := s.PublicThreads()

	byNewest := s.SortThreads(list, models.SortNewest)
	require.Len(t, byNewest, 3)
	assert.Equal(t, "3", byNewest[0].ID)
	assert.Equal(t, "2", byNewest[1].ID)
	assert.Equal(t, "1", byNewest[2].ID)

	// threads 1 and 3 both have one bookmark; stable sort keeps input order
	byBookmarks := s.SortThreads(list, models.SortBookmarks)
	assert.Equal(t, "1", byBookmarks[0].ID)
	assert.Equal(t, "3", byBookmarks[1].ID)
	assert.Equal(t, "2", byBookmarks[2].ID)

	// unrecognized key leaves order untouched, input is not mutated
	same := s.SortThreads(byNewest, "bogus")
	assert.Equal(t, byNewest, same)
	assert.Equal(t, "1", list[0].ID)
}

func TestCollections(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginDemo(t, p)

	cols := s.UserCollections()
	require.Len(t, cols, 1)
	assert.Equal(t, "Productivity Gems", cols[0].Name)
	assert.Equal(t, []string{"1", "2"}, cols[0].Threads)

	c, err := s.CreateCollection("Reading List", false)
	require.NoError(t, err)
	assert.Empty(t, c.Threads)
	assert.Len(t, s.UserCollections(), 2)

	require.NoError(t, s.AddToCollection("3", c.ID))
	// adding again is a no-op
	require.NoError(t, s.AddToCollection("3", c.ID))
	cols = s.UserCollections()
	for _, cc := range cols {
		if cc.ID == c.ID {
			assert.Equal(t, []string{"3"}, cc.Threads)
		}
	}

	require.NoError(t, s.RemoveFromCollection("3", c.ID))
	// removing a non-member is a no-op
	require.NoError(t, s.RemoveFromCollection("3", c.ID))
}

func TestAddToCollectionMissingThread(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginDemo(t, p)
	err := s.AddToCollection("missing", "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollectionOwnership(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginJane(t, p) // collection 1 belongs to Demo User

	name := "hijack"
	_, err := s.UpdateCollection("1", CollectionUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, s.AddToCollection("3", "1"), ErrForbidden)
	assert.ErrorIs(t, s.RemoveFromCollection("1", "1"), ErrForbidden)
	// Jane sees no collections of her own
	assert.Empty(t, s.UserCollections())
}

func TestUpdateCollection(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginDemo(t, p)

	name := "Gems"
	private := false
	c, err := s.UpdateCollection("1", CollectionUpdate{Name: &name, IsPublic: &private})
	require.NoError(t, err)
	assert.Equal(t, "Gems", c.Name)
	assert.False(t, c.IsPublic)
	assert.Equal(t, "1", c.OwnerID)
}

func TestResetToSeed(t *testing.T) {
	p, s := newTestStore(t, Options{})
	loginDemo(t, p)
	_, err := s.CreateThread("Extra", []models.ThreadSegment{{Content: "c", Order: 1}}, nil, true)
	require.NoError(t, err)
	require.Len(t, s.PublicThreads(), 4)

	s.ResetToSeed()
	assert.Len(t, s.PublicThreads(), 3)
	cols := s.UserCollections()
	require.Len(t, cols, 1)
	assert.Equal(t, []string{"1", "2"}, cols[0].Threads)
}

func TestClockInjection(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p, s := newTestStore(t, Options{Now: func() time.Time { return fixed }})
	loginDemo(t, p)

	th, err := s.CreateThread("T", []models.ThreadSegment{{Content: "c", Order: 1}}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, fixed, th.CreatedAt)
	assert.Equal(t, fixed, th.UpdatedAt)
}

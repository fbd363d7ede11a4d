// Package store owns the in-memory thread and collection collections. All
// state lives behind one RWMutex; the process is the single logical actor
// and content resets to seed data on restart.
package store

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rajdev-xr/spire-thread-nexus/pkg/identity"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/logger"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/models"
)

var (
	// ErrNotAuthenticated guards every mutation.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotFound is returned when a lookup misses.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned on ownership mismatch, unless the store was
	// built with lenient updates.
	ErrForbidden = errors.New("forbidden")
	// ErrUnknownReaction rejects symbols outside the fixed five-symbol set.
	ErrUnknownReaction = errors.New("unrecognized reaction symbol")
	// ErrNoSegments rejects threads without at least one segment.
	ErrNoSegments = errors.New("thread requires at least one segment")
)

// Options tunes store behavior.
type Options struct {
	// LenientUpdates makes ownership-mismatched updates a silent no-op, as
	// the original client behaved, instead of returning ErrForbidden.
	LenientUpdates bool
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Store is the content store. Construct with New; the zero value is not
// usable.
type Store struct {
	mu     sync.RWMutex
	idents *identity.Provider

	threads         map[string]*models.Thread
	threadOrder     []string
	collections     map[string]*models.Collection
	collectionOrder []string

	lenient bool
	now     func() time.Time
}

// New returns a store seeded with the sample content.
func New(idents *identity.Provider, opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Store{idents: idents, lenient: opts.LenientUpdates, now: now}
	s.ResetToSeed()
	return s
}

// ResetToSeed discards all content and reloads the seed data.
func (s *Store) ResetToSeed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads = make(map[string]*models.Thread)
	s.threadOrder = nil
	s.collections = make(map[string]*models.Collection)
	s.collectionOrder = nil
	for _, t := range seedThreads() {
		s.threads[t.ID] = t
		s.threadOrder = append(s.threadOrder, t.ID)
	}
	for _, c := range seedCollections() {
		s.collections[c.ID] = c
		s.collectionOrder = append(s.collectionOrder, c.ID)
	}
	logger.Info("store_seeded", "threads", len(s.threads), "collections", len(s.collections))
}

// === Reads ===

// ThreadByID returns a deep copy of the thread, or ErrNotFound.
func (s *Store) ThreadByID(id string) (*models.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t.Clone(), nil
}

// PublicThreads returns all published threads in insertion order.
func (s *Store) PublicThreads() []*models.Thread {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Thread
	for _, id := range s.threadOrder {
		if t := s.threads[id]; t.IsPublished {
			out = append(out, t.Clone())
		}
	}
	return out
}

// ThreadsByTag returns published threads whose tag set contains tag under
// case-insensitive equality.
func (s *Store) ThreadsByTag(tag string) []*models.Thread {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Thread
	for _, id := range s.threadOrder {
		t := s.threads[id]
		if !t.IsPublished {
			continue
		}
		for _, tg := range t.Tags {
			if strings.EqualFold(tg, tag) {
				out = append(out, t.Clone())
				break
			}
		}
	}
	return out
}

// UserThreads returns threads authored by the current user, drafts
// included; empty when unauthenticated.
func (s *Store) UserThreads() []*models.Thread {
	u, ok := s.idents.Current()
	if !ok {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Thread
	for _, id := range s.threadOrder {
		if t := s.threads[id]; t.AuthorID == u.ID {
			out = append(out, t.Clone())
		}
	}
	return out
}

// SearchThreads returns published threads whose title, segment content or
// tags contain q, case-insensitively. An empty query matches everything.
func (s *Store) SearchThreads(q string) []*models.Thread {
	q = strings.ToLower(strings.TrimSpace(q))
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Thread
	for _, id := range s.threadOrder {
		t := s.threads[id]
		if t.IsPublished && threadMatches(t, q) {
			out = append(out, t.Clone())
		}
	}
	return out
}

func threadMatches(t *models.Thread, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	for _, seg := range t.Segments {
		if strings.Contains(strings.ToLower(seg.Content), q) {
			return true
		}
	}
	for _, tg := range t.Tags {
		if strings.Contains(strings.ToLower(tg), q) {
			return true
		}
	}
	return false
}

// AllTags returns the unique tags of published threads, sorted. The
// first-seen spelling is preserved; later case variants collapse into it.
func (s *Store) AllTags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]string)
	for _, id := range s.threadOrder {
		t := s.threads[id]
		if !t.IsPublished {
			continue
		}
		for _, tg := range t.Tags {
			key := strings.ToLower(tg)
			if _, ok := seen[key]; !ok {
				seen[key] = tg
			}
		}
	}
	out := make([]string, 0, len(seen))
	for _, tg := range seen {
		out = append(out, tg)
	}
	sort.Strings(out)
	return out
}

// SortThreads returns a stable-ordered copy of list. Keys: bookmarks and
// forks sort descending by set size, newest by creation time. An
// unrecognized key leaves the order untouched.
func (s *Store) SortThreads(list []*models.Thread, key string) []*models.Thread {
	out := append([]*models.Thread(nil), list...)
	switch key {
	case models.SortBookmarks:
		sort.SliceStable(out, func(i, j int) bool {
			return len(out[i].Bookmarks) > len(out[j].Bookmarks)
		})
	case models.SortForks:
		sort.SliceStable(out, func(i, j int) bool {
			return len(out[i].Forks) > len(out[j].Forks)
		})
	case models.SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

// UserCollections returns collections owned by the current user; empty
// when unauthenticated.
func (s *Store) UserCollections() []*models.Collection {
	u, ok := s.idents.Current()
	if !ok {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Collection
	for _, id := range s.collectionOrder {
		if c := s.collections[id]; c.OwnerID == u.ID {
			out = append(out, c.Clone())
		}
	}
	return out
}

// IsThreadBookmarked reports whether the current user bookmarked the
// thread; false when unauthenticated or the thread is absent.
func (s *Store) IsThreadBookmarked(id string) bool {
	u, ok := s.idents.Current()
	if !ok {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[id]
	return ok && t.Bookmarks.Has(u.ID)
}

// HasUserReacted reports whether the current user reacted with sym; false
// when unauthenticated, the thread is absent or sym is unknown.
func (s *Store) HasUserReacted(id, sym string) bool {
	u, ok := s.idents.Current()
	if !ok {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[id]
	if !ok {
		return false
	}
	return t.Reactions[sym].Has(u.ID)
}

// === Writes ===

// CreateThread creates a thread authored by the current user. Segment
// order values are renumbered into a dense 1..N sequence; segments without
// ids get generated ones.
func (s *Store) CreateThread(title string, segments []models.ThreadSegment, tags []string, published bool) (*models.Thread, error) {
	u, ok := s.idents.Current()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	now := s.now().UTC()
	t := &models.Thread{
		ID:          uuid.NewString(),
		Title:       title,
		Segments:    normalizeSegments(segments),
		AuthorID:    u.ID,
		AuthorName:  u.Name,
		CreatedAt:   now,
		UpdatedAt:   now,
		Tags:        append([]string(nil), tags...),
		IsPublished: published,
		Reactions:   models.NewReactionTable(),
		Bookmarks:   models.NewIDSet(),
	}

	s.mu.Lock()
	s.threads[t.ID] = t
	s.threadOrder = append(s.threadOrder, t.ID)
	s.mu.Unlock()

	mutations.WithLabelValues("create_thread").Inc()
	logger.Info("thread_created", "thread", t.ID, "author", u.ID, "published", published)
	return t.Clone(), nil
}

// ThreadUpdate carries the mutable fields of a thread; nil slices and
// pointers mean "leave unchanged".
type ThreadUpdate struct {
	Title       *string
	Segments    []models.ThreadSegment
	Tags        []string
	IsPublished *bool
}

// UpdateThread merges upd into the thread when the current user is its
// author. Id, author and creation timestamp are immutable; updatedAt is
// refreshed. Non-authors get ErrForbidden (or, with lenient updates, the
// unchanged thread).
func (s *Store) UpdateThread(id string, upd ThreadUpdate) (*models.Thread, error) {
	u, ok := s.idents.Current()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if upd.Segments != nil && len(upd.Segments) == 0 {
		return nil, ErrNoSegments
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[id]
	if !ok {
		return nil, ErrNotFound
	}
	if t.AuthorID != u.ID {
		if s.lenient {
			logger.Debug("thread_update_ignored", "thread", id, "user", u.ID)
			return t.Clone(), nil
		}
		return nil, ErrForbidden
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Segments != nil {
		t.Segments = normalizeSegments(upd.Segments)
	}
	if upd.Tags != nil {
		t.Tags = append([]string(nil), upd.Tags...)
	}
	if upd.IsPublished != nil {
		t.IsPublished = *upd.IsPublished
	}
	t.UpdatedAt = s.now().UTC()

	mutations.WithLabelValues("update_thread").Inc()
	logger.Info("thread_updated", "thread", id, "author", u.ID)
	return t.Clone(), nil
}

// ForkThread deep-copies a published thread into a new draft owned by the
// current user and links it back to the source. The fork insert and the
// source's forks append happen under one lock acquisition, so readers see
// both or neither. A draft or missing source yields ErrNotFound.
func (s *Store) ForkThread(id string) (*models.Thread, error) {
	u, ok := s.idents.Current()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.threads[id]
	if !ok || !src.IsPublished {
		return nil, ErrNotFound
	}
	now := s.now().UTC()
	fork := &models.Thread{
		ID:                 uuid.NewString(),
		Title:              "Fork of: " + src.Title,
		Segments:           append([]models.ThreadSegment(nil), src.Segments...),
		AuthorID:           u.ID,
		AuthorName:         u.Name,
		CreatedAt:          now,
		UpdatedAt:          now,
		Tags:               append([]string(nil), src.Tags...),
		IsPublished:        false,
		OriginalThreadID:   src.ID,
		OriginalAuthorName: src.AuthorName,
		Reactions:          models.NewReactionTable(),
		Bookmarks:          models.NewIDSet(),
	}
	s.threads[fork.ID] = fork
	s.threadOrder = append(s.threadOrder, fork.ID)
	src.Forks = append(src.Forks, fork.ID)

	mutations.WithLabelValues("fork_thread").Inc()
	logger.Info("thread_forked", "source", src.ID, "fork", fork.ID, "author", u.ID)
	return fork.Clone(), nil
}

// ToggleReaction flips the current user's membership in the thread's set
// for sym and reports whether the reaction is now present.
func (s *Store) ToggleReaction(id, sym string) (bool, error) {
	u, ok := s.idents.Current()
	if !ok {
		return false, ErrNotAuthenticated
	}
	if !models.ValidReactionSymbol(sym) {
		return false, ErrUnknownReaction
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[id]
	if !ok {
		return false, ErrNotFound
	}
	on := t.Reactions[sym].Toggle(u.ID)
	mutations.WithLabelValues("toggle_reaction").Inc()
	logger.Info("reaction_toggled", "thread", id, "user", u.ID, "on", on)
	return on, nil
}

// ToggleBookmark flips the current user's membership in the thread's
// bookmark set and reports whether the bookmark is now present.
func (s *Store) ToggleBookmark(id string) (bool, error) {
	u, ok := s.idents.Current()
	if !ok {
		return false, ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[id]
	if !ok {
		return false, ErrNotFound
	}
	on := t.Bookmarks.Toggle(u.ID)
	mutations.WithLabelValues("toggle_bookmark").Inc()
	logger.Info("bookmark_toggled", "thread", id, "user", u.ID, "on", on)
	return on, nil
}

// CreateCollection creates an empty collection owned by the current user.
func (s *Store) CreateCollection(name string, isPublic bool) (*models.Collection, error) {
	u, ok := s.idents.Current()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	c := &models.Collection{
		ID:       uuid.NewString(),
		Name:     name,
		OwnerID:  u.ID,
		Threads:  []string{},
		IsPublic: isPublic,
	}

	s.mu.Lock()
	s.collections[c.ID] = c
	s.collectionOrder = append(s.collectionOrder, c.ID)
	s.mu.Unlock()

	mutations.WithLabelValues("create_collection").Inc()
	logger.Info("collection_created", "collection", c.ID, "owner", u.ID)
	return c.Clone(), nil
}

// CollectionUpdate carries the mutable fields of a collection.
type CollectionUpdate struct {
	Name     *string
	IsPublic *bool
}

// UpdateCollection merges upd when the current user owns the collection.
// Id and owner are immutable.
func (s *Store) UpdateCollection(id string, upd CollectionUpdate) (*models.Collection, error) {
	u, ok := s.idents.Current()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	if !ok {
		return nil, ErrNotFound
	}
	if c.OwnerID != u.ID {
		if s.lenient {
			logger.Debug("collection_update_ignored", "collection", id, "user", u.ID)
			return c.Clone(), nil
		}
		return nil, ErrForbidden
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.IsPublic != nil {
		c.IsPublic = *upd.IsPublic
	}
	mutations.WithLabelValues("update_collection").Inc()
	return c.Clone(), nil
}

// AddToCollection appends the thread to the owned collection; adding an
// existing member is a no-op.
func (s *Store) AddToCollection(threadID, collectionID string) error {
	u, ok := s.idents.Current()
	if !ok {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[collectionID]
	if !ok {
		return ErrNotFound
	}
	if c.OwnerID != u.ID {
		if s.lenient {
			return nil
		}
		return ErrForbidden
	}
	if _, ok := s.threads[threadID]; !ok {
		return ErrNotFound
	}
	if c.Contains(threadID) {
		return nil
	}
	c.Threads = append(c.Threads, threadID)
	mutations.WithLabelValues("collection_add").Inc()
	return nil
}

// RemoveFromCollection removes the thread from the owned collection; a
// missing member is a no-op.
func (s *Store) RemoveFromCollection(threadID, collectionID string) error {
	u, ok := s.idents.Current()
	if !ok {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[collectionID]
	if !ok {
		return ErrNotFound
	}
	if c.OwnerID != u.ID {
		if s.lenient {
			return nil
		}
		return ErrForbidden
	}
	for i, id := range c.Threads {
		if id == threadID {
			c.Threads = append(c.Threads[:i], c.Threads[i+1:]...)
			mutations.WithLabelValues("collection_remove").Inc()
			return nil
		}
	}
	return nil
}

// normalizeSegments orders segments by their given order values (stable)
// and renumbers them into a dense 1..N sequence, generating ids for
// segments that lack one.
func normalizeSegments(in []models.ThreadSegment) []models.ThreadSegment {
	out := append([]models.ThreadSegment(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	for i := range out {
		out[i].Order = i + 1
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return out
}

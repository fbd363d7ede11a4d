package models

import (
	"encoding/json"
	"sort"
	"time"
)

// ReactionSymbols is the closed set of recognized reaction symbols. The
// table on every thread carries exactly these five keys; anything else is
// rejected at the store boundary.
var ReactionSymbols = []string{"👏", "❤️", "🔥", "💡", "🙏"}

// ValidReactionSymbol reports whether sym is one of the five recognized
// reaction symbols.
func ValidReactionSymbol(sym string) bool {
	for _, s := range ReactionSymbols {
		if s == sym {
			return true
		}
	}
	return false
}

// Sort keys accepted by the store's SortThreads.
const (
	SortBookmarks = "bookmarks"
	SortForks     = "forks"
	SortNewest    = "newest"
)

// IDSet is an unordered set of identifiers. No ordering guarantee is made
// in memory; JSON output is sorted so responses are deterministic.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle adds id when absent and removes it when present. It returns true
// when the id ended up in the set.
func (s IDSet) Toggle(id string) bool {
	if _, ok := s[id]; ok {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

func (s IDSet) MarshalJSON() ([]byte, error) {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return json.Marshal(ids)
}

func (s *IDSet) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}

// ThreadSegment is one ordered unit of content within a thread. Order is
// 1-based and dense within the parent thread.
type ThreadSegment struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

type Thread struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Segments []ThreadSegment `json:"segments"`
	// AuthorName is denormalized from the author at creation time.
	AuthorID    string    `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Tags        []string  `json:"tags"`
	IsPublished bool      `json:"isPublished"`
	// Origin reference, set only on forks; both fields are present or both
	// are absent.
	OriginalThreadID   string `json:"originalThreadId,omitempty"`
	OriginalAuthorName string `json:"originalAuthorName,omitempty"`
	// Reactions maps each recognized symbol to the set of user ids who
	// reacted; a user appears at most once per symbol.
	Reactions map[string]IDSet `json:"reactions"`
	Bookmarks IDSet            `json:"bookmarks"`
	// Forks lists ids of threads forked from this one; append-only.
	Forks []string `json:"forks"`
}

// NewReactionTable returns a reaction table with every recognized symbol
// mapped to an empty set.
func NewReactionTable() map[string]IDSet {
	t := make(map[string]IDSet, len(ReactionSymbols))
	for _, sym := range ReactionSymbols {
		t[sym] = NewIDSet()
	}
	return t
}

// Clone returns a deep copy sharing no mutable state with the receiver.
func (t *Thread) Clone() *Thread {
	out := *t
	out.Segments = append([]ThreadSegment(nil), t.Segments...)
	out.Tags = append([]string(nil), t.Tags...)
	out.Forks = append([]string(nil), t.Forks...)
	out.Bookmarks = t.Bookmarks.Clone()
	out.Reactions = make(map[string]IDSet, len(t.Reactions))
	for sym, set := range t.Reactions {
		out.Reactions[sym] = set.Clone()
	}
	return &out
}

// ReactionTotal is the number of reactions across all symbols.
func (t *Thread) ReactionTotal() int {
	n := 0
	for _, set := range t.Reactions {
		n += len(set)
	}
	return n
}

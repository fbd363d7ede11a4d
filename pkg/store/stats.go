package store

import (
	"github.com/rajdev-xr/spire-thread-nexus/pkg/models"
)

// UserStats is the aggregate view of the current user's authored content.
type UserStats struct {
	ThreadCount    int            `json:"threadCount"`
	TotalReactions int            `json:"totalReactions"`
	ReactionCounts map[string]int `json:"reactionCounts"`
	// TopReaction is the most used symbol across the user's threads; empty
	// when no reactions exist. Ties break in symbol table order.
	TopReaction    string `json:"topReaction,omitempty"`
	TotalBookmarks int    `json:"totalBookmarks"`
	TotalForks     int    `json:"totalForks"`
	// TopThread is the user's thread with the highest engagement score
	// (reactions + bookmarks + forks); nil when the user has no threads.
	TopThread *models.Thread `json:"topThread,omitempty"`
}

// UserStats aggregates engagement over the current user's threads, drafts
// included.
func (s *Store) UserStats() (*UserStats, error) {
	u, ok := s.idents.Current()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &UserStats{ReactionCounts: make(map[string]int, len(models.ReactionSymbols))}
	for _, sym := range models.ReactionSymbols {
		stats.ReactionCounts[sym] = 0
	}

	var top *models.Thread
	topScore := -1
	for _, id := range s.threadOrder {
		t := s.threads[id]
		if t.AuthorID != u.ID {
			continue
		}
		stats.ThreadCount++
		for sym, set := range t.Reactions {
			stats.ReactionCounts[sym] += len(set)
			stats.TotalReactions += len(set)
		}
		stats.TotalBookmarks += len(t.Bookmarks)
		stats.TotalForks += len(t.Forks)

		score := t.ReactionTotal() + len(t.Bookmarks) + len(t.Forks)
		if score > topScore {
			topScore = score
			top = t
		}
	}
	if top != nil {
		stats.TopThread = top.Clone()
	}

	best := 0
	for _, sym := range models.ReactionSymbols {
		if n := stats.ReactionCounts[sym]; n > best {
			best = n
			stats.TopReaction = sym
		}
	}
	return stats, nil
}

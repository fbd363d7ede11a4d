package models

// Collection is a named, owned, ordered grouping of thread references.
// Membership is idempotent; thread ids appear at most once.
type Collection struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"userId"`
	// Threads keeps insertion order.
	Threads  []string `json:"threads"`
	IsPublic bool     `json:"isPublic"`
}

func (c *Collection) Clone() *Collection {
	out := *c
	out.Threads = append([]string(nil), c.Threads...)
	return &out
}

// Contains reports whether the collection already references the thread.
func (c *Collection) Contains(threadID string) bool {
	for _, id := range c.Threads {
		if id == threadID {
			return true
		}
	}
	return false
}

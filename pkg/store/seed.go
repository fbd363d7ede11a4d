package store

import (
	"time"

	"github.com/rajdev-xr/spire-thread-nexus/pkg/models"
)

// The seed content ships with the demo deployment. Author ids line up with
// the identity package's demo credential records.

func mustTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

func seedThreads() []*models.Thread {
	return []*models.Thread{
		{
			ID:    "1",
			Title: "The Art of Mindful Productivity",
			Segments: []models.ThreadSegment{
				{ID: "1-1", Content: "Productivity isn't about doing more—it's about being intentional with how you allocate your limited time and energy. When we rush from task to task, we miss the opportunity to be fully present.", Order: 1},
				{ID: "1-2", Content: "Start by identifying your most important task each day. This isn't necessarily the most urgent one, but the one that moves your most meaningful projects forward.", Order: 2},
				{ID: "1-3", Content: "Build in transition time between tasks. Our brains need time to switch contexts. Even 5 minutes of reflection or mindful breathing can improve your focus and decision-making.", Order: 3},
			},
			AuthorID:    "2",
			AuthorName:  "Jane Smith",
			CreatedAt:   mustTime("2025-05-01T12:00:00Z"),
			UpdatedAt:   mustTime("2025-05-01T12:00:00Z"),
			Tags:        []string{"Productivity", "Mindfulness", "Work"},
			IsPublished: true,
			Reactions: map[string]models.IDSet{
				"👏":  models.NewIDSet("1"),
				"❤️": models.NewIDSet("1"),
				"🔥":  models.NewIDSet(),
				"💡":  models.NewIDSet("1"),
				"🙏":  models.NewIDSet(),
			},
			Bookmarks: models.NewIDSet("1"),
		},
		{
			ID:    "2",
			Title: "Building a Second Brain",
			Segments: []models.ThreadSegment{
				{ID: "2-1", Content: "Your mind is for having ideas, not holding them. By creating an external system to capture and organize your thoughts, you free up mental bandwidth for deep thinking and creativity.", Order: 1},
				{ID: "2-2", Content: "Start with a simple note-taking system. The key is to make it frictionless so you actually use it. Capture everything that resonates with you—quotes, ideas, observations.", Order: 2},
				{ID: "2-3", Content: "Review your notes regularly. The magic happens when you connect ideas across different domains and times. This is how innovation occurs.", Order: 3},
				{ID: "2-4", Content: "Share what you learn. Teaching forces you to clarify your thinking and exposes gaps in your understanding.", Order: 4},
			},
			AuthorID:    "2",
			AuthorName:  "Jane Smith",
			CreatedAt:   mustTime("2025-05-03T14:30:00Z"),
			UpdatedAt:   mustTime("2025-05-03T14:30:00Z"),
			Tags:        []string{"Productivity", "Learning", "Knowledge Management"},
			IsPublished: true,
			Reactions: map[string]models.IDSet{
				"👏":  models.NewIDSet(),
				"❤️": models.NewIDSet("1"),
				"🔥":  models.NewIDSet("1"),
				"💡":  models.NewIDSet("1", "2"),
				"🙏":  models.NewIDSet(),
			},
			Bookmarks: models.NewIDSet(),
		},
		{
			ID:    "3",
			Title: "Career Pivots: When and How",
			Segments: []models.ThreadSegment{
				{ID: "3-1", Content: "A career pivot doesn't always mean changing industries. Sometimes it's about changing your role, your company, or even how you approach your current position.", Order: 1},
				{ID: "3-2", Content: "Before making a change, get crystal clear on your motivations. Are you running from something or toward something? The answer will guide your approach.", Order: 2},
				{ID: "3-3", Content: "Leverage your transferable skills. Every role you've had has taught you something valuable. The key is translating that value to a new context.", Order: 3},
			},
			AuthorID:    "1",
			AuthorName:  "Demo User",
			CreatedAt:   mustTime("2025-05-04T09:15:00Z"),
			UpdatedAt:   mustTime("2025-05-04T09:15:00Z"),
			Tags:        []string{"Career", "Growth", "Change"},
			IsPublished: true,
			Reactions: map[string]models.IDSet{
				"👏":  models.NewIDSet("2"),
				"❤️": models.NewIDSet(),
				"🔥":  models.NewIDSet(),
				"💡":  models.NewIDSet("2"),
				"🙏":  models.NewIDSet("2"),
			},
			Bookmarks: models.NewIDSet("2"),
		},
	}
}

func seedCollections() []*models.Collection {
	return []*models.Collection{
		{
			ID:       "1",
			Name:     "Productivity Gems",
			OwnerID:  "1",
			Threads:  []string{"1", "2"},
			IsPublic: true,
		},
	}
}

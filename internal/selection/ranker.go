// Package selection ranks candidate questions against a traveler's profile
// and picks diverse batches across category and difficulty buckets.
package selection

import (
	"sort"
	"time"

	"wanderlust_backend/internal/model"
)

// staleAfter is how long a question must rest before the freshness boost
// applies again.
const staleAfter = 7 * 24 * time.Hour

// Ranked pairs a candidate question with its personalization score.
type Ranked struct {
	Question model.Question `json:"question"`
	Score    float64        `json:"score"`
}

// Ranker scores candidates against a profile. The zero value is usable; Now
// is overridable for tests.
type Ranker struct {
	Now func() time.Time
}

func NewRanker() *Ranker {
	return &Ranker{Now: time.Now}
}

// Rank annotates every candidate with an additive score and returns them
// sorted descending. The sort is stable: ties keep their incoming order.
func (r *Ranker) Rank(candidates []model.Question, profile *model.UserProfile) []Ranked {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}

	ranked := make([]Ranked, len(candidates))
	for i, q := range candidates {
		ranked[i] = Ranked{Question: q, Score: r.score(&q, profile, now)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func (r *Ranker) score(q *model.Question, profile *model.UserProfile, now time.Time) float64 {
	score := 1.0
	if profile == nil {
		return score
	}

	if profile.PreferredCategories.Contains(q.Category) {
		score += 0.5
	}

	for _, interest := range profile.Interests {
		if q.Tags.Contains(interest) {
			score += 0.3
			break
		}
	}

	// Within reach: at most one difficulty level above the traveler's
	// recorded skill for this category.
	skill := profile.SkillLevelFor(q.Category)
	if q.Difficulty.Rank() <= skill.Rank()+1 {
		score += 0.2
	}

	// Fresh: never shown, or resting for over a week.
	if q.LastShown == nil || now.Sub(*q.LastShown) > staleAfter {
		score += 0.3
	}

	return score
}

package selection

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"wanderlust_backend/internal/model"
)

func question(id, category string, difficulty model.Difficulty, tags ...string) model.Question {
	return model.Question{
		QuestionID: id,
		Category:   category,
		Difficulty: difficulty,
		Tags:       model.StringList(tags),
	}
}

func TestRankerScoring(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour)
	stale := now.Add(-8 * 24 * time.Hour)

	profile := &model.UserProfile{
		PreferredCategories: model.StringList{"destinations"},
		Interests:           model.StringList{"geography"},
		SkillLevels:         model.SkillLevels{"destinations": model.Beginner},
	}

	cases := []struct {
		name     string
		question model.Question
		want     float64
	}{
		{
			name: "all boosts",
			// preferred category, interest tag, intermediate is one above
			// beginner skill, never shown
			question: question("q1", "destinations", model.Intermediate, "geography"),
			want:     1.0 + 0.5 + 0.3 + 0.2 + 0.3,
		},
		{
			name: "difficulty out of reach",
			// advanced is two above beginner skill: no reach boost
			question: question("q2", "destinations", model.Advanced, "geography"),
			want:     1.0 + 0.5 + 0.3 + 0.3,
		},
		{
			name: "plain question shown recently",
			question: func() model.Question {
				q := question("q3", "safety", model.Advanced)
				q.LastShown = &recent
				return q
			}(),
			want: 1.0,
		},
		{
			name: "stale question regains freshness boost",
			question: func() model.Question {
				q := question("q4", "safety", model.Beginner)
				q.LastShown = &stale
				return q
			}(),
			want: 1.0 + 0.2 + 0.3,
		},
	}

	ranker := NewRanker()
	ranker.Now = func() time.Time { return now }

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ranker.Rank([]model.Question{tc.question}, profile)
			if len(got) != 1 {
				t.Fatalf("expected 1 ranked question, got %d", len(got))
			}
			if diff := got[0].Score - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("score = %f, want %f", got[0].Score, tc.want)
			}
		})
	}
}

func TestRankStableOnTies(t *testing.T) {
	ranker := NewRanker()
	// No profile: every score is 1.0, so the incoming order must survive.
	candidates := []model.Question{
		question("a", "safety", model.Beginner),
		question("b", "safety", model.Beginner),
		question("c", "safety", model.Beginner),
	}
	// Clear the freshness boost difference by ranking with nil profile (flat
	// 1.0 scores).
	ranked := ranker.Rank(candidates, nil)
	for i, want := range []string{"a", "b", "c"} {
		if ranked[i].Question.QuestionID != want {
			t.Fatalf("tie order broken: position %d is %s, want %s", i, ranked[i].Question.QuestionID, want)
		}
	}
}

func buildCandidates(n int) []Ranked {
	categories := []string{"destinations", "planning", "safety"}
	difficulties := []model.Difficulty{model.Beginner, model.Intermediate, model.Advanced}
	out := make([]Ranked, n)
	for i := 0; i < n; i++ {
		out[i] = Ranked{
			Question: question(
				fmt.Sprintf("q-%03d", i),
				categories[i%len(categories)],
				difficulties[(i/3)%len(difficulties)],
			),
			Score: float64(n - i),
		}
	}
	return out
}

func TestSelectExactCountNoDuplicates(t *testing.T) {
	selector := NewSelector(rand.New(rand.NewSource(1)))

	cases := []struct {
		name       string
		candidates int
		count      int
		wantLen    int
	}{
		{"fewer candidates than count", 4, 10, 4},
		{"equal", 10, 10, 10},
		{"more candidates than count", 30, 10, 10},
		{"single pick", 30, 1, 1},
		{"zero count", 30, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := selector.Select(buildCandidates(tc.candidates), tc.count)
			if len(got) != tc.wantLen {
				t.Fatalf("got %d questions, want %d", len(got), tc.wantLen)
			}
			seen := make(map[string]bool)
			for _, q := range got {
				if seen[q.QuestionID] {
					t.Fatalf("duplicate question id %s", q.QuestionID)
				}
				seen[q.QuestionID] = true
			}
		})
	}
}

func TestSelectSpreadsAcrossCategories(t *testing.T) {
	selector := NewSelector(rand.New(rand.NewSource(7)))
	got := selector.Select(buildCandidates(30), 9)

	byCategory := make(map[string]int)
	for _, q := range got {
		byCategory[q.Category]++
	}
	if len(byCategory) < 2 {
		t.Errorf("expected picks spread over multiple categories, got %v", byCategory)
	}
}

func TestSelectDeterministicWithSeed(t *testing.T) {
	a := NewSelector(rand.New(rand.NewSource(42))).Select(buildCandidates(30), 10)
	b := NewSelector(rand.New(rand.NewSource(42))).Select(buildCandidates(30), 10)
	for i := range a {
		if a[i].QuestionID != b[i].QuestionID {
			t.Fatalf("same seed produced different batches at position %d", i)
		}
	}
}

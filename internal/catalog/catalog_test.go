package catalog

import (
	"testing"
	"time"

	"wanderlust_backend/internal/model"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(zap.NewNop())
}

func TestLoadRejectsInvalidEntries(t *testing.T) {
	store := newTestStore(t)

	questions := []model.Question{
		{
			QuestionID: "ok-001",
			Type:       model.TrueFalse,
			Category:   "planning",
			Difficulty: model.Beginner,
			Prompt:     "Valid?",
			Answer:     raw(true),
			Points:     10,
		},
		{
			// missing prompt
			QuestionID: "bad-001",
			Type:       model.TrueFalse,
			Category:   "planning",
			Difficulty: model.Beginner,
			Answer:     raw(true),
		},
		{
			QuestionID: "bad-002",
			Type:       "essay", // unknown type
			Category:   "planning",
			Difficulty: model.Beginner,
			Prompt:     "Essay?",
			Answer:     raw("text"),
		},
		{
			QuestionID: "bad-003",
			Type:       model.TrueFalse,
			Category:   "planning",
			Difficulty: "expert", // unknown difficulty
			Prompt:     "Expert?",
			Answer:     raw(true),
		},
	}

	accepted, rejected := store.Load(questions)
	if accepted != 1 || rejected != 3 {
		t.Fatalf("expected 1 accepted / 3 rejected, got %d / %d", accepted, rejected)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 question in store, got %d", store.Len())
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	store := newTestStore(t)
	q := model.Question{
		QuestionID: "dup-001",
		Type:       model.TrueFalse,
		Category:   "planning",
		Difficulty: model.Beginner,
		Prompt:     "First?",
		Answer:     raw(true),
	}
	if err := store.Add(q); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := store.Add(q); err == nil {
		t.Fatal("expected duplicate id to be rejected")
	}
}

func TestQueryByIndexIntersection(t *testing.T) {
	store := newTestStore(t)
	if _, rejected := store.Load(SeedQuestions()); rejected != 0 {
		t.Fatalf("seed questions should all be valid, %d rejected", rejected)
	}

	cases := []struct {
		name       string
		category   string
		difficulty model.Difficulty
		check      func(t *testing.T, got []model.Question)
	}{
		{
			name:     "category only",
			category: "destinations",
			check: func(t *testing.T, got []model.Question) {
				for _, q := range got {
					if q.Category != "destinations" {
						t.Errorf("question %s has category %s", q.QuestionID, q.Category)
					}
				}
			},
		},
		{
			name:       "difficulty only",
			difficulty: model.Advanced,
			check: func(t *testing.T, got []model.Question) {
				for _, q := range got {
					if q.Difficulty != model.Advanced {
						t.Errorf("question %s has difficulty %s", q.QuestionID, q.Difficulty)
					}
				}
			},
		},
		{
			name:       "intersection",
			category:   "destinations",
			difficulty: model.Beginner,
			check: func(t *testing.T, got []model.Question) {
				for _, q := range got {
					if q.Category != "destinations" || q.Difficulty != model.Beginner {
						t.Errorf("question %s does not match both criteria", q.QuestionID)
					}
				}
				if len(got) == 0 {
					t.Error("expected at least one beginner destinations question")
				}
			},
		},
		{
			name: "no criteria returns everything",
			check: func(t *testing.T, got []model.Question) {
				if len(got) != store.Len() {
					t.Errorf("expected %d questions, got %d", store.Len(), len(got))
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, store.QueryByIndex(tc.category, tc.difficulty))
		})
	}
}

func TestRecordOutcomeUpdatesStats(t *testing.T) {
	store := newTestStore(t)
	store.Load(SeedQuestions())

	q, err := store.RecordOutcome("europe-001", true, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.TimesShown != 1 || q.CorrectCount != 1 {
		t.Errorf("expected 1 shown / 1 correct, got %d / %d", q.TimesShown, q.CorrectCount)
	}
	if q.LastShown == nil || time.Since(*q.LastShown) > time.Minute {
		t.Error("LastShown was not set to now")
	}
	if q.AverageTime != 2 {
		t.Errorf("expected running average 2, got %f", q.AverageTime)
	}
}

func TestDifficultyScoreStaysClamped(t *testing.T) {
	store := newTestStore(t)
	store.Load(SeedQuestions())

	// Hammer one question with wrong answers: accuracy goes to 0, score must
	// floor at 1.
	for i := 0; i < 50; i++ {
		q, err := store.RecordOutcome("europe-001", false, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.DifficultyScore < 1 || q.DifficultyScore > 10 {
			t.Fatalf("difficulty score %f out of [1,10] after %d outcomes", q.DifficultyScore, i+1)
		}
	}

	// And with right answers: accuracy goes to 1, score must cap at 10.
	for i := 0; i < 100; i++ {
		q, err := store.RecordOutcome("asia-001", true, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.DifficultyScore < 1 || q.DifficultyScore > 10 {
			t.Fatalf("difficulty score %f out of [1,10] after %d outcomes", q.DifficultyScore, i+1)
		}
	}
}

func TestRecordOutcomeUnknownQuestion(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.RecordOutcome("nope", true, 1); err == nil {
		t.Fatal("expected error for unknown question id")
	}
}

func TestStatsCountsByDimension(t *testing.T) {
	store := newTestStore(t)
	store.Load(SeedQuestions())

	stats := store.Stats()
	if stats.TotalQuestions != store.Len() {
		t.Errorf("total mismatch: %d vs %d", stats.TotalQuestions, store.Len())
	}
	total := 0
	for _, n := range stats.Categories {
		total += n
	}
	if total != stats.TotalQuestions {
		t.Errorf("category counts sum to %d, want %d", total, stats.TotalQuestions)
	}
	if stats.Types[model.Matching] == 0 {
		t.Error("expected at least one matching question in the seed bank")
	}
}

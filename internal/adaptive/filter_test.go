package adaptive

import (
	"fmt"
	"testing"

	"wanderlust_backend/internal/model"
)

func mixedQuestions() []model.Question {
	var out []model.Question
	difficulties := []model.Difficulty{model.Beginner, model.Intermediate, model.Advanced}
	for i, d := range difficulties {
		for j := 0; j < 4; j++ {
			out = append(out, model.Question{
				QuestionID: fmt.Sprintf("%s-%d", d, j),
				Type:       model.MultipleChoice,
				Difficulty: difficulties[i],
			})
		}
	}
	return out
}

func TestStrugglingRestrictsToBeginner(t *testing.T) {
	f := NewFilter()
	got := f.Apply(mixedQuestions(), Performance{AverageScore: 40})
	if len(got) == 0 {
		t.Fatal("expected beginner questions to survive")
	}
	for _, q := range got {
		if q.Difficulty != model.Beginner {
			t.Errorf("question %s with difficulty %s survived struggling rule", q.QuestionID, q.Difficulty)
		}
	}
}

func TestExcellingRestrictsToAdvanced(t *testing.T) {
	f := NewFilter()
	got := f.Apply(mixedQuestions(), Performance{AverageScore: 90})
	if len(got) == 0 {
		t.Fatal("expected advanced questions to survive")
	}
	for _, q := range got {
		if q.Difficulty != model.Advanced {
			t.Errorf("question %s with difficulty %s survived excelling rule", q.QuestionID, q.Difficulty)
		}
	}
}

func TestMiddlingScorePassesThrough(t *testing.T) {
	f := NewFilter()
	in := mixedQuestions()
	got := f.Apply(in, Performance{AverageScore: 70})
	// Neither threshold rule fires; only the type cap applies, and all twelve
	// share one type, so three survive.
	if len(got) != 3 {
		t.Fatalf("expected 3 questions after type cap, got %d", len(got))
	}
	// Encounter order preserved.
	for i, want := range []string{"beginner-0", "beginner-1", "beginner-2"} {
		if got[i].QuestionID != want {
			t.Errorf("position %d is %s, want %s", i, got[i].QuestionID, want)
		}
	}
}

func TestTypeBalanceCapsEachType(t *testing.T) {
	var in []model.Question
	types := []model.QuestionType{model.MultipleChoice, model.TrueFalse, model.FillInBlank}
	for _, typ := range types {
		for j := 0; j < 5; j++ {
			in = append(in, model.Question{
				QuestionID: fmt.Sprintf("%s-%d", typ, j),
				Type:       typ,
				Difficulty: model.Intermediate,
			})
		}
	}

	got := NewFilter().Apply(in, Performance{AverageScore: 70})
	counts := make(map[model.QuestionType]int)
	for _, q := range got {
		counts[q.Type]++
	}
	for typ, n := range counts {
		if n > 3 {
			t.Errorf("type %s appears %d times, cap is 3", typ, n)
		}
	}
	if len(got) != 9 {
		t.Errorf("expected 9 questions after capping, got %d", len(got))
	}
}

func TestThresholdBoundariesDoNotFire(t *testing.T) {
	f := NewFilter()
	in := mixedQuestions()
	for _, score := range []float64{50, 85} {
		got := f.Apply(in, Performance{AverageScore: score})
		// Exactly at a threshold neither restriction fires; the type cap
		// leaves three of the single shared type.
		if len(got) != 3 {
			t.Errorf("score %.0f: expected pass-through (3 after cap), got %d", score, len(got))
		}
	}
}

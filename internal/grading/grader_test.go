package grading

import (
	"encoding/json"
	"math/rand"
	"testing"

	"wanderlust_backend/internal/model"
)

func raw(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestValidatePerType(t *testing.T) {
	cases := []struct {
		name      string
		question  model.Question
		submitted interface{}
		want      bool
	}{
		{
			name: "multiple choice correct index",
			question: model.Question{
				Type: model.MultipleChoice, Answer: []byte(`2`),
				Options: model.StringList{"a", "b", "c", "d"},
			},
			submitted: 2,
			want:      true,
		},
		{
			name: "multiple choice wrong index",
			question: model.Question{
				Type: model.MultipleChoice, Answer: []byte(`2`),
				Options: model.StringList{"a", "b", "c", "d"},
			},
			submitted: 0,
			want:      false,
		},
		{
			name:      "true-false boolean",
			question:  model.Question{Type: model.TrueFalse, Answer: []byte(`false`)},
			submitted: false,
			want:      true,
		},
		{
			name:      "true-false numeric encoding",
			question:  model.Question{Type: model.TrueFalse, Answer: []byte(`true`)},
			submitted: 1,
			want:      true,
		},
		{
			name:      "true-false zero encoding",
			question:  model.Question{Type: model.TrueFalse, Answer: []byte(`false`)},
			submitted: 0,
			want:      true,
		},
		{
			name:      "true-false string encoding",
			question:  model.Question{Type: model.TrueFalse, Answer: []byte(`true`)},
			submitted: "True",
			want:      true,
		},
		{
			name:      "fill-in-blank case folded and trimmed",
			question:  model.Question{Type: model.FillInBlank, Answer: []byte(`"Bavaria"`)},
			submitted: "  bavaria ",
			want:      true,
		},
		{
			name:      "fill-in-blank wrong text",
			question:  model.Question{Type: model.FillInBlank, Answer: []byte(`"Bavaria"`)},
			submitted: "Saxony",
			want:      false,
		},
		{
			name: "matching all pairs",
			question: model.Question{
				Type:   model.Matching,
				Answer: []byte(`{"Japan":"Tokyo","Thailand":"Bangkok"}`),
			},
			submitted: map[string]string{"Japan": "tokyo", "Thailand": "Bangkok"},
			want:      true,
		},
		{
			name: "matching missing pair",
			question: model.Question{
				Type:   model.Matching,
				Answer: []byte(`{"Japan":"Tokyo","Thailand":"Bangkok"}`),
			},
			submitted: map[string]string{"Japan": "Tokyo"},
			want:      false,
		},
		{
			name: "matching wrong pair",
			question: model.Question{
				Type:   model.Matching,
				Answer: []byte(`{"Japan":"Tokyo","Thailand":"Bangkok"}`),
			},
			submitted: map[string]string{"Japan": "Tokyo", "Thailand": "Hanoi"},
			want:      false,
		},
		{
			name: "image identification",
			question: model.Question{
				Type: model.ImageIdentification, Answer: []byte(`1`),
				Options: model.StringList{"Fuji", "Matterhorn"},
			},
			submitted: 1,
			want:      true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Validate(&tc.question, raw(t, tc.submitted))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.IsCorrect != tc.want {
				t.Errorf("IsCorrect = %v, want %v", got.IsCorrect, tc.want)
			}
		})
	}
}

func TestValidateEmptySubmissionIsIncorrect(t *testing.T) {
	q := model.Question{Type: model.TrueFalse, Answer: []byte(`true`)}
	for _, submitted := range []json.RawMessage{nil, []byte(`null`)} {
		got, err := Validate(&q, submitted)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.IsCorrect {
			t.Error("empty submission must be incorrect")
		}
	}
}

func TestScore(t *testing.T) {
	cases := []struct {
		name       string
		points     int
		difficulty model.Difficulty
		isCorrect  bool
		timeSpent  float64
		timeLimit  float64
		want       int
	}{
		// 5 < 15 (half of 30): 20% bonus tier, beginner x1.0.
		{"fast beginner answer", 10, model.Beginner, true, 5, 30, 12},
		{"incorrect scores zero", 10, model.Beginner, false, 5, 30, 0},
		// 20 < 24 (80% of 30): 10% bonus tier.
		{"middling speed", 10, model.Beginner, true, 20, 30, 11},
		{"slow answer no bonus", 10, model.Beginner, true, 29, 30, 10},
		// (20 + 4) * 1.5 = 36.
		{"intermediate multiplier", 20, model.Intermediate, true, 5, 30, 36},
		// (20 + 4) * 2.0 = 48.
		{"advanced multiplier", 20, model.Advanced, true, 5, 30, 48},
		{"zero point question", 0, model.Advanced, true, 5, 30, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := model.Question{Points: tc.points, Difficulty: tc.difficulty}
			got := Score(&q, tc.isCorrect, tc.timeSpent, tc.timeLimit)
			if got != tc.want {
				t.Errorf("Score = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScorePositiveForCorrectWithPoints(t *testing.T) {
	difficulties := []model.Difficulty{model.Beginner, model.Intermediate, model.Advanced}
	for _, d := range difficulties {
		for _, spent := range []float64{1, 16, 29} {
			q := model.Question{Points: 10, Difficulty: d}
			if got := Score(&q, true, spent, 30); got <= 0 {
				t.Errorf("difficulty %s spent %.0f: score %d, want > 0", d, spent, got)
			}
		}
	}
}

func TestFeedback(t *testing.T) {
	w := NewFeedbackWriter(rand.New(rand.NewSource(3)))
	q := model.Question{
		Category:    "planning",
		Explanation: "Budget 30-40% for accommodation.",
	}

	correct := w.Write(&q, true)
	if !correct.IsCorrect || correct.Encouragement == "" {
		t.Error("correct feedback missing encouragement")
	}
	if len(correct.Tips) != 0 {
		t.Errorf("correct answers get no tips, got %v", correct.Tips)
	}

	wrong := w.Write(&q, false)
	if len(wrong.Tips) != 2 {
		t.Fatalf("expected reminder plus category tip, got %v", wrong.Tips)
	}
	if wrong.Tips[0] != "Remember: Budget 30-40% for accommodation." {
		t.Errorf("unexpected reminder: %s", wrong.Tips[0])
	}
	if wrong.Explanation != q.Explanation {
		t.Error("explanation not attached")
	}
}

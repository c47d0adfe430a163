// Package grading validates submitted answers against a question's expected
// answer, computes point values, and produces feedback text.
package grading

import (
	"encoding/json"
	"math"
	"strings"

	"wanderlust_backend/internal/model"
)

// Validation is the outcome of checking a submission.
type Validation struct {
	IsCorrect     bool            `json:"isCorrect"`
	CorrectAnswer json.RawMessage `json:"correctAnswer"`
}

// Validate checks a raw submitted answer per the question type's rule. A nil
// or empty submission (a timeout) is always incorrect but never an error.
func Validate(q *model.Question, submitted json.RawMessage) (Validation, error) {
	v := Validation{CorrectAnswer: q.Answer}
	if len(submitted) == 0 || string(submitted) == "null" {
		return v, nil
	}

	switch q.Type {
	case model.MultipleChoice, model.ImageIdentification:
		want, err := q.CorrectIndex()
		if err != nil {
			return v, err
		}
		var got int
		if err := json.Unmarshal(submitted, &got); err != nil {
			return v, nil // wrong shape counts as incorrect, not failure
		}
		v.IsCorrect = got == want

	case model.TrueFalse:
		want, err := q.CorrectBool()
		if err != nil {
			return v, err
		}
		got, ok := decodeBool(submitted)
		v.IsCorrect = ok && got == want

	case model.FillInBlank:
		want, err := q.CorrectText()
		if err != nil {
			return v, err
		}
		var got string
		if err := json.Unmarshal(submitted, &got); err != nil {
			return v, nil
		}
		v.IsCorrect = fold(got) == fold(want)

	case model.Matching:
		want, err := q.CorrectMatches()
		if err != nil {
			return v, err
		}
		got := map[string]string{}
		if err := json.Unmarshal(submitted, &got); err != nil {
			return v, nil
		}
		v.IsCorrect = matchesEqual(got, want)

	default:
		return v, model.ErrAnswerShape
	}
	return v, nil
}

// decodeBool accepts a JSON boolean, a 0/1 number, or a "true"/"false"
// string.
func decodeBool(data json.RawMessage) (bool, bool) {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		return b, true
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		switch n {
		case 0:
			return false, true
		case 1:
			return true, true
		}
		return false, false
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch fold(s) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// matchesEqual requires every expected pair and nothing else. Values are
// compared case-insensitively, keys exactly.
func matchesEqual(got, want map[string]string) bool {
	if len(got) != len(want) {
		return false
	}
	for k, w := range want {
		g, ok := got[k]
		if !ok || fold(g) != fold(w) {
			return false
		}
	}
	return true
}

// Score computes the point value for one graded answer: zero when incorrect,
// otherwise the base points plus a speed bonus, multiplied by the difficulty
// tier and rounded. The bonus is 20% of base under half the limit, 10% under
// 80% of it.
func Score(q *model.Question, isCorrect bool, timeSpent, timeLimit float64) int {
	if !isCorrect {
		return 0
	}
	base := float64(q.Points)
	if base <= 0 {
		return 0
	}

	points := base
	if timeLimit > 0 {
		switch {
		case timeSpent < timeLimit*0.5:
			points += math.Round(base * 0.2)
		case timeSpent < timeLimit*0.8:
			points += math.Round(base * 0.1)
		}
	}

	return int(math.Round(points * q.Difficulty.Multiplier()))
}

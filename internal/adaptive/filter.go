// Package adaptive narrows a candidate question list based on how the
// traveler has been performing recently. The rules are deliberately static
// thresholds; each rule consumes the previous rule's output.
package adaptive

import "wanderlust_backend/internal/model"

const (
	strugglingBelow = 50.0
	excellingAbove  = 85.0
	maxPerType      = 3
)

// Performance is the recent aggregate snapshot the rules look at.
type Performance struct {
	AverageScore float64 // 0-100
}

// Rule transforms a candidate list. Rules that do not apply must return the
// input unchanged.
type Rule func(questions []model.Question, perf Performance) []model.Question

// Filter applies the standard rule chain in order: struggling, excelling,
// type balance. The struggling and excelling thresholds cannot both hold, but
// both rules are always evaluated.
type Filter struct {
	rules []Rule
}

func NewFilter() *Filter {
	return &Filter{rules: []Rule{struggling, excelling, typeBalance}}
}

func (f *Filter) Apply(questions []model.Question, perf Performance) []model.Question {
	out := questions
	for _, rule := range f.rules {
		out = rule(out, perf)
	}
	return out
}

// struggling restricts a struggling traveler to beginner questions.
func struggling(questions []model.Question, perf Performance) []model.Question {
	if perf.AverageScore >= strugglingBelow {
		return questions
	}
	return keep(questions, func(q *model.Question) bool {
		return q.Difficulty == model.Beginner
	})
}

// excelling restricts a high performer to advanced questions.
func excelling(questions []model.Question, perf Performance) []model.Question {
	if perf.AverageScore <= excellingAbove {
		return questions
	}
	return keep(questions, func(q *model.Question) bool {
		return q.Difficulty == model.Advanced
	})
}

// typeBalance caps each question type at maxPerType occurrences, dropping
// extras in encounter order.
func typeBalance(questions []model.Question, _ Performance) []model.Question {
	counts := make(map[model.QuestionType]int)
	return keep(questions, func(q *model.Question) bool {
		counts[q.Type]++
		return counts[q.Type] <= maxPerType
	})
}

func keep(questions []model.Question, pred func(*model.Question) bool) []model.Question {
	out := questions[:0:0]
	for i := range questions {
		if pred(&questions[i]) {
			out = append(out, questions[i])
		}
	}
	return out
}

package selection

import (
	"math"
	"math/rand"
	"time"

	"wanderlust_backend/internal/model"
)

var allDifficulties = []model.Difficulty{model.Beginner, model.Intermediate, model.Advanced}

// Selector turns a ranked candidate list into a batch that spreads picks
// across category and difficulty buckets instead of greedily taking the top
// N. The random source is injected so tests can seed it.
type Selector struct {
	rand *rand.Rand
}

func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rand: rng}
}

// Select returns exactly min(count, len(candidates)) questions with no
// duplicate ids. When the candidate pool already fits, it is returned in
// ranked order; otherwise picks are distributed over category x difficulty
// buckets, shortfalls are backfilled from the best remaining candidates, and
// the final batch is shuffled.
func (s *Selector) Select(candidates []Ranked, count int) []model.Question {
	if count <= 0 {
		return nil
	}
	if len(candidates) <= count {
		out := make([]model.Question, len(candidates))
		for i, c := range candidates {
			out[i] = c.Question
		}
		return out
	}

	perDifficulty := int(math.Ceil(float64(count) / float64(len(allDifficulties))))

	var categories []string
	seenCategory := make(map[string]bool)
	for _, c := range candidates {
		if !seenCategory[c.Question.Category] {
			seenCategory[c.Question.Category] = true
			categories = append(categories, c.Question.Category)
		}
	}

	selected := make([]model.Question, 0, count)
	picked := make(map[string]bool)

	for _, category := range categories {
		for _, difficulty := range allDifficulties {
			taken := 0
			for _, c := range candidates {
				if taken >= perDifficulty {
					break
				}
				q := c.Question
				if q.Category != category || q.Difficulty != difficulty || picked[q.QuestionID] {
					continue
				}
				picked[q.QuestionID] = true
				selected = append(selected, q)
				taken++
			}
		}
	}

	// Backfill from the highest-ranked leftovers.
	if len(selected) < count {
		for _, c := range candidates {
			if len(selected) >= count {
				break
			}
			if picked[c.Question.QuestionID] {
				continue
			}
			picked[c.Question.QuestionID] = true
			selected = append(selected, c.Question)
		}
	}

	s.shuffle(selected)
	if len(selected) > count {
		selected = selected[:count]
	}
	return selected
}

// shuffle is an in-place Fisher-Yates shuffle.
func (s *Selector) shuffle(questions []model.Question) {
	for i := len(questions) - 1; i > 0; i-- {
		j := s.rand.Intn(i + 1)
		questions[i], questions[j] = questions[j], questions[i]
	}
}

// ShuffleQuestions shuffles a plain question slice, used when a session is
// configured to randomize presentation order.
func (s *Selector) ShuffleQuestions(questions []model.Question) []model.Question {
	out := make([]model.Question, len(questions))
	copy(out, questions)
	s.shuffle(out)
	return out
}

package grading

import (
	"math/rand"
	"time"

	"wanderlust_backend/internal/model"
)

var correctEncouragements = []string{
	"Excellent work!",
	"Great job! You're getting it!",
	"Perfect! Keep up the great work!",
	"Outstanding! You're on fire!",
	"Brilliant! You're mastering this!",
}

var incorrectEncouragements = []string{
	"Not quite, but you're learning!",
	"Good try! Let's learn from this!",
	"Almost there! Keep practicing!",
	"Nice effort! You'll get it next time!",
	"Good attempt! Every mistake is a learning opportunity!",
}

// One fixed travel tip per category, appended only on incorrect answers.
var categoryTips = map[string]string{
	"destinations":   "Tip: Research destinations before traveling to learn about local customs and culture.",
	"planning":       "Tip: Always plan your budget in advance and include emergency funds.",
	"safety":         "Tip: Keep copies of important documents and know emergency contacts.",
	"culture":        "Tip: Learning basic phrases in the local language shows respect.",
	"adventure":      "Tip: Always follow safety guidelines and respect the environment.",
	"sustainability": "Tip: Choose eco-friendly options and support local communities.",
}

// Feedback is what the traveler sees after answering.
type Feedback struct {
	IsCorrect     bool     `json:"isCorrect"`
	Encouragement string   `json:"encouragement"`
	Explanation   string   `json:"explanation"`
	Tips          []string `json:"tips,omitempty"`
}

// FeedbackWriter picks encouragement strings. The random source is injected
// so tests can seed it.
type FeedbackWriter struct {
	rand *rand.Rand
}

func NewFeedbackWriter(rng *rand.Rand) *FeedbackWriter {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &FeedbackWriter{rand: rng}
}

// Write assembles feedback: one encouragement from the outcome's pool, the
// question's explanation, and on a miss a reminder plus the category tip.
func (w *FeedbackWriter) Write(q *model.Question, isCorrect bool) Feedback {
	pool := correctEncouragements
	if !isCorrect {
		pool = incorrectEncouragements
	}
	fb := Feedback{
		IsCorrect:     isCorrect,
		Encouragement: pool[w.rand.Intn(len(pool))],
		Explanation:   q.Explanation,
	}
	if !isCorrect {
		fb.Tips = append(fb.Tips, "Remember: "+q.Explanation)
		if tip, ok := categoryTips[q.Category]; ok {
			fb.Tips = append(fb.Tips, tip)
		}
	}
	return fb
}

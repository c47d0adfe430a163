package model

import (
	"encoding/json"
	"time"
)

type SessionState string

const (
	SessionIdle        SessionState = "idle"
	SessionRunning     SessionState = "running"
	SessionExplanation SessionState = "explanation"
	SessionFinished    SessionState = "finished"
)

// QuizConfig is the per-session configuration accepted at quiz start.
type QuizConfig struct {
	Category         string     `json:"category"`
	Subcategory      string     `json:"subcategory"`
	Difficulty       Difficulty `json:"difficulty"`
	QuestionCount    int        `json:"questionCount"`
	TimeLimitSeconds int        `json:"timeLimit"`
	ShuffleQuestions bool       `json:"shuffleQuestions"`
	ShuffleOptions   bool       `json:"shuffleOptions"`
	ShowExplanation  bool       `json:"showExplanation"`
	AllowSkip        bool       `json:"allowSkip"`
	Adaptive         bool       `json:"adaptive"`
}

// AnswerRecord is one submitted (or timed-out, or skipped) answer within a
// session.
type AnswerRecord struct {
	QuestionID string          `json:"questionId"`
	Answer     json.RawMessage `json:"answer"`
	IsCorrect  bool            `json:"isCorrect"`
	Skipped    bool            `json:"skipped"`
	Score      int             `json:"score"`
	TimeSpent  float64         `json:"timeSpent"`
	Timestamp  time.Time       `json:"timestamp"`
}

// QuizSession is the ephemeral state of one running quiz. It lives only in the
// quiz service's session table and is summarized into a QuizAttempt when it
// finishes.
type QuizSession struct {
	ID            string         `json:"id"`
	UserID        uint           `json:"userId"`
	Config        QuizConfig     `json:"config"`
	Questions     []Question     `json:"questions"`
	State         SessionState   `json:"state"`
	CurrentIndex  int            `json:"currentIndex"`
	Answers       []AnswerRecord `json:"answers"`
	Score         int            `json:"score"`
	Streak        int            `json:"streak"`
	MaxStreak     int            `json:"maxStreak"`
	StartedAt     time.Time      `json:"startedAt"`
	QuestionStart time.Time      `json:"questionStart"`
}

// CurrentQuestion returns the question being presented, or nil once the
// session has run past the end.
func (s *QuizSession) CurrentQuestion() *Question {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentIndex]
}

// MaxScore is the sum of authored point values across the session's questions.
func (s *QuizSession) MaxScore() int {
	total := 0
	for i := range s.Questions {
		total += s.Questions[i].Points
	}
	return total
}

// QuizSummary is the terminal output of a finished session.
type QuizSummary struct {
	SessionID      string         `json:"sessionId"`
	Score          int            `json:"score"`
	MaxScore       int            `json:"maxScore"`
	Percentage     int            `json:"percentage"`
	CorrectAnswers int            `json:"correctAnswers"`
	QuestionCount  int            `json:"questionCount"`
	MaxStreak      int            `json:"maxStreak"`
	TotalTime      float64        `json:"totalTimeSeconds"`
	AverageTime    float64        `json:"averageTimePerQuestion"`
	Difficulty     Difficulty     `json:"difficulty"`
	Answers        []AnswerRecord `json:"answers"`
	CompletedAt    time.Time      `json:"completedAt"`
}

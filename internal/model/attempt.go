package model

import (
	"encoding/json"
	"time"
)

// QuizAttempt is the persisted summary of one finished quiz session. The live
// session itself is in-memory and owned by the quiz service; only the terminal
// summary lands here.
type QuizAttempt struct {
	BaseModel
	SessionID        string     `gorm:"size:36;uniqueIndex;not null" json:"sessionId"`
	UserID           uint       `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Category         string     `gorm:"size:64;index" json:"category"`
	Difficulty       Difficulty `gorm:"size:16" json:"difficulty"`
	Score            int        `json:"score"`
	MaxScore         int        `json:"maxScore"`
	Percentage       int        `json:"percentage"`
	CorrectAnswers   int        `json:"correctAnswers"`
	QuestionCount    int        `json:"questionCount"`
	MaxStreak        int        `json:"maxStreak"`
	TotalTimeSeconds float64    `json:"totalTimeSeconds"`
	AverageTime      float64    `json:"averageTime"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      time.Time  `json:"completedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// QuizAttemptAnswer stores one per-question answer record for replay and
// analytics.
type QuizAttemptAnswer struct {
	BaseModel
	AttemptID  uint            `gorm:"index;type:bigint unsigned;not null" json:"attemptId"`
	QuestionID string          `gorm:"size:64;index" json:"questionId"`
	Answer     json.RawMessage `gorm:"type:json" json:"answer"`
	IsCorrect  bool            `json:"isCorrect"`
	Skipped    bool            `gorm:"default:false" json:"skipped"`
	Score      int             `json:"score"`
	TimeSpent  float64         `json:"timeSpent"`
	AnsweredAt time.Time       `json:"answeredAt"`
}

func (QuizAttemptAnswer) TableName() string {
	return "quiz_attempt_answers"
}

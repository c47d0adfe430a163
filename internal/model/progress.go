package model

import "time"

// UserProgress tracks lifetime answering activity for one user. The answered
// question list is append-only; counters only grow.
type UserProgress struct {
	BaseModel
	UserID            uint       `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	AnsweredQuestions StringList `gorm:"type:json" json:"answeredQuestions"`
	DailyStreak       int        `gorm:"default:0" json:"dailyStreak"`
	LastStreakDay     time.Time  `json:"lastStreakDay"`
	LastActive        time.Time  `json:"lastActive"`
	TotalQuestions    int        `gorm:"default:0" json:"totalQuestions"`
	CorrectAnswers    int        `gorm:"default:0" json:"correctAnswers"`
	AverageTime       float64    `gorm:"default:0" json:"averageTime"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// RecordAnswer folds one graded answer into the lifetime counters.
func (p *UserProgress) RecordAnswer(questionID string, correct bool, timeSpent float64) {
	p.AnsweredQuestions = append(p.AnsweredQuestions, questionID)
	p.TotalQuestions++
	if correct {
		p.CorrectAnswers++
	}
	p.AverageTime = (p.AverageTime + timeSpent) / 2
	p.LastActive = time.Now()
}

// TouchDailyStreak bumps or resets the consecutive-day counter. The streak
// tracks its own calendar day rather than LastActive, which moves with every
// answer and would always report "today" by the time a quiz finishes.
// Same-day activity leaves the streak alone.
func (p *UserProgress) TouchDailyStreak(now time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case p.LastStreakDay.Equal(today):
		// already counted today
	case p.LastStreakDay.AddDate(0, 0, 1).Equal(today):
		p.DailyStreak++
		p.LastStreakDay = today
	default:
		p.DailyStreak = 1
		p.LastStreakDay = today
	}
}

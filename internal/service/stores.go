package service

import "wanderlust_backend/internal/model"

// Consumer-side views of the persistence layer, sized to what the feed and
// quiz engines actually call. The gorm repositories satisfy them.

type ProfileStore interface {
	FindByUserID(userID uint) (*model.UserProfile, error)
	Update(profile *model.UserProfile) error
}

type ProgressStore interface {
	FindByUserID(userID uint) (*model.UserProgress, error)
	Update(progress *model.UserProgress) error
}

type AttemptStore interface {
	Create(attempt *model.QuizAttempt, answers []model.QuizAttemptAnswer) error
}

// OutcomeRecorder folds one graded answer into the question bank's usage
// statistics.
type OutcomeRecorder interface {
	RecordOutcome(questionID string, isCorrect bool, timeSpent float64)
}

// Awarder converts a finished quiz into gamification rewards.
type Awarder interface {
	AwardForQuiz(userID uint, summary *model.QuizSummary) (*AwardBreakdown, error)
}

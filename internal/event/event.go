package event

import "time"

// Type names a domain event. Types double as the routing key on the
// message broker.
type Type string

const (
	QuizStarted        Type = "quiz.started"
	QuestionShown      Type = "quiz.question.shown"
	AnswerSubmitted    Type = "quiz.answer.submitted"
	QuestionSkipped    Type = "quiz.question.skipped"
	QuizFinished       Type = "quiz.finished"
	PointsAwarded      Type = "gamification.points.awarded"
	LevelUp            Type = "gamification.level.up"
	AchievementEarned  Type = "gamification.achievement.earned"
	BadgeEarned        Type = "gamification.badge.earned"
	LeaderboardUpdated Type = "gamification.leaderboard.updated"
	ResultShared       Type = "gamification.result.shared"
)

// Event is the envelope every publisher receives. Payload keys are event
// specific; consumers discover them by type.
type Event struct {
	Type       Type                   `json:"type"`
	UserID     string                 `json:"userId,omitempty"`
	SessionID  string                 `json:"sessionId,omitempty"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// Publisher delivers domain events to whoever listens. Publishing is best
// effort: a failed delivery must never fail the operation that raised the
// event.
type Publisher interface {
	Publish(ev Event)
	Close() error
}

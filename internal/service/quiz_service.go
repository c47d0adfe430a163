package service

import (
	"encoding/json"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"wanderlust_backend/internal/event"
	"wanderlust_backend/internal/grading"
	"wanderlust_backend/internal/model"
	"wanderlust_backend/internal/util"
	"wanderlust_backend/pkg/monitoring"
	"wanderlust_backend/pkg/ratelimit"

	"go.uber.org/zap"
)

const (
	defaultQuestionCount    = 10
	defaultTimeLimitSeconds = 30
	explanationDelay        = 3 * time.Second
)

// QuestionView is a question as presented to the player: no answer, and
// matching pairs split into prompts plus shuffled choices.
type QuestionView struct {
	QuestionID  string             `json:"questionId"`
	Type        model.QuestionType `json:"type"`
	Category    string             `json:"category"`
	Subcategory string             `json:"subcategory,omitempty"`
	Difficulty  model.Difficulty   `json:"difficulty"`
	Prompt      string             `json:"prompt"`
	Options     []string           `json:"options,omitempty"`
	Pairs       []string           `json:"pairs,omitempty"`
	Choices     []string           `json:"choices,omitempty"`
	ImageKey    string             `json:"imageKey,omitempty"`
	Points      int                `json:"points"`
	TimeLimit   int                `json:"timeLimit"`
	Index       int                `json:"index"`
	Total       int                `json:"total"`
}

// SessionView is the player-facing snapshot of a running session.
type SessionView struct {
	SessionID       string             `json:"sessionId"`
	State           model.SessionState `json:"state"`
	Score           int                `json:"score"`
	Streak          int                `json:"streak"`
	CurrentQuestion *QuestionView      `json:"currentQuestion,omitempty"`
	Answered        int                `json:"answered"`
	Total           int                `json:"total"`
}

// AnswerOutcome is everything one submission produced.
type AnswerOutcome struct {
	IsCorrect     bool               `json:"isCorrect"`
	Score         int                `json:"score"`
	Streak        int                `json:"streak"`
	CorrectAnswer json.RawMessage    `json:"correctAnswer"`
	Feedback      grading.Feedback   `json:"feedback"`
	State         model.SessionState `json:"state"`
	NextQuestion  *QuestionView      `json:"nextQuestion,omitempty"`
	Summary       *model.QuizSummary `json:"summary,omitempty"`
	Award         *AwardBreakdown    `json:"award,omitempty"`
}

// QuizService runs quiz sessions in memory: one state machine per
// session, guarded by a single mutex, with per-question timeout timers.
// Finished sessions are persisted as attempts and dropped from the table.
type QuizService struct {
	mu       sync.Mutex
	sessions map[string]*model.QuizSession
	timers   map[string]*time.Timer

	Feeder       *FeederService
	Questions    OutcomeRecorder
	ProfileRepo  ProfileStore
	ProgressRepo ProgressStore
	AttemptRepo  AttemptStore
	Gamification Awarder
	Feedback     *grading.FeedbackWriter
	Limiter      *ratelimit.Limiter
	Events       event.Publisher
	Logger       *zap.Logger

	rand *rand.Rand
	now  func() time.Time

	// explanationWait is swapped out in tests.
	explanationWait time.Duration
}

func NewQuizService(
	feeder *FeederService,
	questions OutcomeRecorder,
	profileRepo ProfileStore,
	progressRepo ProgressStore,
	attemptRepo AttemptStore,
	gamification Awarder,
	limiter *ratelimit.Limiter,
	events event.Publisher,
	logger *zap.Logger,
	rng *rand.Rand,
) *QuizService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &QuizService{
		sessions:        make(map[string]*model.QuizSession),
		timers:          make(map[string]*time.Timer),
		Feeder:          feeder,
		Questions:       questions,
		ProfileRepo:     profileRepo,
		ProgressRepo:    progressRepo,
		AttemptRepo:     attemptRepo,
		Gamification:    gamification,
		Feedback:        grading.NewFeedbackWriter(rng),
		Limiter:         limiter,
		Events:          events,
		Logger:          logger,
		rand:            rng,
		now:             time.Now,
		explanationWait: explanationDelay,
	}
}

// StartQuiz assembles a question set for the config and opens a running
// session on its first question.
func (s *QuizService) StartQuiz(userID uint, cfg model.QuizConfig) (*SessionView, error) {
	if !s.Limiter.Allow(formatUserID(userID), util.ActionStartQuiz) {
		monitoring.ThrottleDenials.WithLabelValues(util.ActionStartQuiz).Inc()
		return nil, util.ErrRateLimited
	}

	if cfg.QuestionCount <= 0 || cfg.QuestionCount > 50 {
		cfg.QuestionCount = defaultQuestionCount
	}
	if cfg.TimeLimitSeconds <= 0 {
		cfg.TimeLimitSeconds = defaultTimeLimitSeconds
	}

	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	progress, err := s.ProgressRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	adaptiveOn := cfg.Adaptive
	opts := FeedOptions{
		Category:    cfg.Category,
		Subcategory: cfg.Subcategory,
		Difficulty:  cfg.Difficulty,
		Count:       cfg.QuestionCount,
		Adaptive:    &adaptiveOn,
	}
	opts.normalize()
	questions := s.Feeder.assemble(profile, progress, opts)
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	if cfg.ShuffleQuestions {
		s.shuffleInPlace(questions)
	}
	if cfg.ShuffleOptions {
		for i := range questions {
			s.shuffleOptions(&questions[i])
		}
	}

	now := s.now()
	session := &model.QuizSession{
		ID:            model.NewSessionID(),
		UserID:        userID,
		Config:        cfg,
		Questions:     questions,
		State:         model.SessionRunning,
		StartedAt:     now,
		QuestionStart: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.armQuestionTimer(session)
	s.mu.Unlock()

	s.Events.Publish(event.Event{
		Type:      event.QuizStarted,
		UserID:    formatUserID(userID),
		SessionID: session.ID,
		Payload: map[string]interface{}{
			"questionCount": len(questions),
			"category":      cfg.Category,
			"difficulty":    string(cfg.Difficulty),
		},
	})

	view := s.viewOf(session)
	return &view, nil
}

// SubmitAnswer grades the current question. A nil answer is a timeout or
// a deliberate blank and grades incorrect.
func (s *QuizService) SubmitAnswer(sessionID string, userID uint, answer json.RawMessage) (*AnswerOutcome, error) {
	s.mu.Lock()
	session, err := s.ownedSession(sessionID, userID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if session.State != model.SessionRunning {
		s.mu.Unlock()
		return nil, util.ErrNotAccepting
	}
	s.disarmQuestionTimer(sessionID)
	outcome, err := s.gradeCurrentLocked(session, answer, false)
	s.mu.Unlock()
	return outcome, err
}

// SkipQuestion records a skipped answer, allowed only when the session
// was configured for it. Skips reset the streak but score nothing.
func (s *QuizService) SkipQuestion(sessionID string, userID uint) (*AnswerOutcome, error) {
	s.mu.Lock()
	session, err := s.ownedSession(sessionID, userID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if session.State != model.SessionRunning {
		s.mu.Unlock()
		return nil, util.ErrNotAccepting
	}
	if !session.Config.AllowSkip {
		s.mu.Unlock()
		return nil, util.ErrSkipNotAllowed
	}
	s.disarmQuestionTimer(sessionID)
	outcome, err := s.gradeCurrentLocked(session, nil, true)
	s.mu.Unlock()
	return outcome, err
}

// GetSession returns the live view of a running session.
func (s *QuizService) GetSession(sessionID string, userID uint) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return nil, err
	}
	view := s.viewOf(session)
	return &view, nil
}

func (s *QuizService) ownedSession(sessionID string, userID uint) (*model.QuizSession, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return session, nil
}

// gradeCurrentLocked folds one submission into the session and advances
// it. Caller holds the mutex.
func (s *QuizService) gradeCurrentLocked(session *model.QuizSession, answer json.RawMessage, skipped bool) (*AnswerOutcome, error) {
	question := session.CurrentQuestion()
	if question == nil {
		return nil, util.ErrSessionFinished
	}

	now := s.now()
	timeSpent := now.Sub(session.QuestionStart).Seconds()
	timeLimit := float64(session.Config.TimeLimitSeconds)

	validation := grading.Validation{CorrectAnswer: question.Answer}
	score := 0
	if !skipped {
		var err error
		validation, err = grading.Validate(question, answer)
		if err != nil {
			return nil, err
		}
		score = grading.Score(question, validation.IsCorrect, timeSpent, timeLimit)
	}

	record := model.AnswerRecord{
		QuestionID: question.QuestionID,
		Answer:     answer,
		IsCorrect:  validation.IsCorrect,
		Skipped:    skipped,
		Score:      score,
		TimeSpent:  timeSpent,
		Timestamp:  now,
	}
	session.Answers = append(session.Answers, record)
	session.Score += score

	if validation.IsCorrect {
		session.Streak++
		if session.Streak > session.MaxStreak {
			session.MaxStreak = session.Streak
		}
	} else {
		session.Streak = 0
	}

	eventType := event.AnswerSubmitted
	if skipped {
		eventType = event.QuestionSkipped
	}
	s.Events.Publish(event.Event{
		Type:      eventType,
		UserID:    formatUserID(session.UserID),
		SessionID: session.ID,
		Payload: map[string]interface{}{
			"questionId": question.QuestionID,
			"isCorrect":  validation.IsCorrect,
			"score":      score,
			"streak":     session.Streak,
		},
	})

	// Question stats and lifetime progress update on real submissions
	// only; a skip shows nothing about difficulty.
	if !skipped {
		outcomeLabel := "incorrect"
		if validation.IsCorrect {
			outcomeLabel = "correct"
		}
		monitoring.AnswersGraded.WithLabelValues(outcomeLabel).Inc()
		s.Questions.RecordOutcome(question.QuestionID, validation.IsCorrect, timeSpent)
		s.recordProgress(session.UserID, question.QuestionID, validation.IsCorrect, timeSpent)
	}
	s.Feeder.InvalidateUser(session.UserID)

	outcome := &AnswerOutcome{
		IsCorrect:     validation.IsCorrect,
		Score:         score,
		Streak:        session.Streak,
		CorrectAnswer: validation.CorrectAnswer,
		Feedback:      s.Feedback.Write(question, validation.IsCorrect),
	}

	// The explanation pause only applies between questions. The last
	// answer finishes the session right away so the summary and award
	// ride back on this response instead of evaporating with the timer.
	if session.Config.ShowExplanation && !skipped && session.CurrentIndex+1 < len(session.Questions) {
		session.State = model.SessionExplanation
		outcome.State = session.State
		s.armExplanationTimer(session)
		return outcome, nil
	}

	s.advanceLocked(session, outcome)
	return outcome, nil
}

// advanceLocked moves the session to the next question or finishes it.
// Caller holds the mutex.
func (s *QuizService) advanceLocked(session *model.QuizSession, outcome *AnswerOutcome) {
	session.CurrentIndex++
	if session.CurrentQuestion() == nil {
		summary, award := s.finishLocked(session)
		if outcome != nil {
			outcome.State = model.SessionFinished
			outcome.Summary = summary
			outcome.Award = award
		}
		return
	}

	session.State = model.SessionRunning
	session.QuestionStart = s.now()
	s.armQuestionTimer(session)

	next := s.questionViewOf(session, session.CurrentIndex)
	if outcome != nil {
		outcome.State = session.State
		outcome.NextQuestion = &next
	}
	s.Events.Publish(event.Event{
		Type:      event.QuestionShown,
		UserID:    formatUserID(session.UserID),
		SessionID: session.ID,
		Payload: map[string]interface{}{
			"questionId": next.QuestionID,
			"index":      next.Index,
		},
	})
}

// finishLocked summarizes and persists the session, updates the profile's
// running average, and hands the result to gamification. Caller holds the
// mutex.
func (s *QuizService) finishLocked(session *model.QuizSession) (*model.QuizSummary, *AwardBreakdown) {
	session.State = model.SessionFinished
	now := s.now()

	maxScore := session.MaxScore()
	percentage := 0
	if maxScore > 0 {
		percentage = int(math.Round(float64(session.Score) / float64(maxScore) * 100))
	}
	correct := 0
	for _, a := range session.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	totalTime := now.Sub(session.StartedAt).Seconds()
	averageTime := 0.0
	if n := len(session.Questions); n > 0 {
		averageTime = totalTime / float64(n)
	}

	summary := &model.QuizSummary{
		SessionID:      session.ID,
		Score:          session.Score,
		MaxScore:       maxScore,
		Percentage:     percentage,
		CorrectAnswers: correct,
		QuestionCount:  len(session.Questions),
		MaxStreak:      session.MaxStreak,
		TotalTime:      totalTime,
		AverageTime:    averageTime,
		Difficulty:     session.Config.Difficulty,
		Answers:        session.Answers,
		CompletedAt:    now,
	}

	delete(s.sessions, session.ID)
	s.disarmQuestionTimer(session.ID)
	monitoring.SessionsFinished.Inc()

	s.persistAttempt(session, summary)
	s.updateProfileAverages(session.UserID, percentage)

	s.Events.Publish(event.Event{
		Type:      event.QuizFinished,
		UserID:    formatUserID(session.UserID),
		SessionID: session.ID,
		Payload: map[string]interface{}{
			"score":      summary.Score,
			"maxScore":   summary.MaxScore,
			"percentage": summary.Percentage,
		},
	})

	award, err := s.Gamification.AwardForQuiz(session.UserID, summary)
	if err != nil {
		s.Logger.Error("award quiz points",
			zap.String("sessionId", session.ID),
			zap.Error(err))
	}
	return summary, award
}

func (s *QuizService) persistAttempt(session *model.QuizSession, summary *model.QuizSummary) {
	attempt := &model.QuizAttempt{
		SessionID:        session.ID,
		UserID:           session.UserID,
		Category:         session.Config.Category,
		Difficulty:       session.Config.Difficulty,
		Score:            summary.Score,
		MaxScore:         summary.MaxScore,
		Percentage:       summary.Percentage,
		CorrectAnswers:   summary.CorrectAnswers,
		QuestionCount:    summary.QuestionCount,
		MaxStreak:        summary.MaxStreak,
		TotalTimeSeconds: summary.TotalTime,
		AverageTime:      summary.AverageTime,
		StartedAt:        session.StartedAt,
		CompletedAt:      summary.CompletedAt,
	}
	answers := make([]model.QuizAttemptAnswer, len(summary.Answers))
	for i, a := range summary.Answers {
		answers[i] = model.QuizAttemptAnswer{
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
			IsCorrect:  a.IsCorrect,
			Skipped:    a.Skipped,
			Score:      a.Score,
			TimeSpent:  a.TimeSpent,
			AnsweredAt: a.Timestamp,
		}
	}
	if err := s.AttemptRepo.Create(attempt, answers); err != nil {
		s.Logger.Error("persist attempt", zap.String("sessionId", session.ID), zap.Error(err))
	}
}

// updateProfileAverages folds the finished quiz into the profile's
// running average and quiz count, and bumps the daily streak.
func (s *QuizService) updateProfileAverages(userID uint, percentage int) {
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err == nil {
		if profile.TotalQuizzes == 0 {
			profile.AverageScore = float64(percentage)
		} else {
			profile.AverageScore = (profile.AverageScore + float64(percentage)) / 2
		}
		profile.TotalQuizzes++
		if err := s.ProfileRepo.Update(profile); err != nil {
			s.Logger.Warn("update profile", zap.Uint("userId", userID), zap.Error(err))
		}
	}

	progress, err := s.ProgressRepo.FindByUserID(userID)
	if err == nil {
		progress.TouchDailyStreak(s.now())
		progress.LastActive = s.now()
		if err := s.ProgressRepo.Update(progress); err != nil {
			s.Logger.Warn("update progress", zap.Uint("userId", userID), zap.Error(err))
		}
	}
}

func (s *QuizService) recordProgress(userID uint, questionID string, isCorrect bool, timeSpent float64) {
	progress, err := s.ProgressRepo.FindByUserID(userID)
	if err != nil {
		s.Logger.Warn("load progress", zap.Uint("userId", userID), zap.Error(err))
		return
	}
	progress.RecordAnswer(questionID, isCorrect, timeSpent)
	if err := s.ProgressRepo.Update(progress); err != nil {
		s.Logger.Warn("save progress", zap.Uint("userId", userID), zap.Error(err))
	}
}

// armQuestionTimer schedules the auto-submit for the current question.
// Caller holds the mutex.
func (s *QuizService) armQuestionTimer(session *model.QuizSession) {
	sessionID := session.ID
	index := session.CurrentIndex
	limit := time.Duration(session.Config.TimeLimitSeconds) * time.Second
	s.timers[sessionID] = time.AfterFunc(limit, func() {
		s.handleTimeout(sessionID, index)
	})
}

func (s *QuizService) disarmQuestionTimer(sessionID string) {
	if t, ok := s.timers[sessionID]; ok {
		t.Stop()
		delete(s.timers, sessionID)
	}
}

// handleTimeout fires when a question's time runs out: the blank answer
// is submitted on the player's behalf.
func (s *QuizService) handleTimeout(sessionID string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok || session.State != model.SessionRunning || session.CurrentIndex != index {
		return
	}
	delete(s.timers, sessionID)
	if _, err := s.gradeCurrentLocked(session, nil, false); err != nil {
		s.Logger.Warn("timeout grading", zap.String("sessionId", sessionID), zap.Error(err))
	}
}

// armExplanationTimer auto-advances out of the explanation pause. Caller
// holds the mutex.
func (s *QuizService) armExplanationTimer(session *model.QuizSession) {
	sessionID := session.ID
	index := session.CurrentIndex
	s.timers[sessionID] = time.AfterFunc(s.explanationWait, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		current, ok := s.sessions[sessionID]
		if !ok || current.State != model.SessionExplanation || current.CurrentIndex != index {
			return
		}
		delete(s.timers, sessionID)
		s.advanceLocked(current, nil)
	})
}

func (s *QuizService) viewOf(session *model.QuizSession) SessionView {
	view := SessionView{
		SessionID: session.ID,
		State:     session.State,
		Score:     session.Score,
		Streak:    session.Streak,
		Answered:  len(session.Answers),
		Total:     len(session.Questions),
	}
	if session.CurrentQuestion() != nil {
		q := s.questionViewOf(session, session.CurrentIndex)
		view.CurrentQuestion = &q
	}
	return view
}

// questionViewOf strips the answer out of a question before it leaves the
// server. Matching questions present sorted prompts and shuffled choices.
func (s *QuizService) questionViewOf(session *model.QuizSession, index int) QuestionView {
	q := session.Questions[index]
	view := QuestionView{
		QuestionID:  q.QuestionID,
		Type:        q.Type,
		Category:    q.Category,
		Subcategory: q.Subcategory,
		Difficulty:  q.Difficulty,
		Prompt:      q.Prompt,
		Options:     q.Options,
		ImageKey:    q.ImageKey,
		Points:      q.Points,
		TimeLimit:   session.Config.TimeLimitSeconds,
		Index:       index,
		Total:       len(session.Questions),
	}
	if q.Type == model.TrueFalse {
		view.Options = []string{"True", "False"}
	}
	if q.Type == model.Matching {
		if matches, err := q.CorrectMatches(); err == nil {
			pairs := make([]string, 0, len(matches))
			choices := make([]string, 0, len(matches))
			for k, v := range matches {
				pairs = append(pairs, k)
				choices = append(choices, v)
			}
			sort.Strings(pairs)
			s.rand.Shuffle(len(choices), func(i, j int) {
				choices[i], choices[j] = choices[j], choices[i]
			})
			view.Pairs = pairs
			view.Choices = choices
		}
	}
	return view
}

func (s *QuizService) shuffleInPlace(questions []model.Question) {
	s.rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

// shuffleOptions permutes an index-answered question's options and remaps
// the stored answer so grading still lines up with what the player saw.
func (s *QuizService) shuffleOptions(q *model.Question) {
	if q.Type != model.MultipleChoice && q.Type != model.ImageIdentification {
		return
	}
	correct, err := q.CorrectIndex()
	if err != nil || correct < 0 || correct >= len(q.Options) {
		return
	}

	perm := s.rand.Perm(len(q.Options))
	shuffled := make([]string, len(q.Options))
	newCorrect := correct
	for dst, src := range perm {
		shuffled[dst] = q.Options[src]
		if src == correct {
			newCorrect = dst
		}
	}
	q.Options = shuffled
	encoded, err := json.Marshal(newCorrect)
	if err != nil {
		return
	}
	q.Answer = encoded
}

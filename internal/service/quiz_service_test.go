package service

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"wanderlust_backend/internal/catalog"
	"wanderlust_backend/internal/event"
	"wanderlust_backend/internal/model"
	"wanderlust_backend/internal/selection"
	"wanderlust_backend/internal/util"
	"wanderlust_backend/pkg/cache"
	"wanderlust_backend/pkg/ratelimit"

	"go.uber.org/zap"
)

var (
	rightAnswer = json.RawMessage("1")
	wrongAnswer = json.RawMessage("0")
)

func bankQuestion(id string, points int) model.Question {
	return model.Question{
		QuestionID: id,
		Type:       model.MultipleChoice,
		Category:   "geography",
		Difficulty: model.Beginner,
		Prompt:     "Capital for " + id + "?",
		Options:    model.StringList{"Lima", "Quito", "Bogota"},
		Answer:     json.RawMessage("1"),
		Points:     points,
	}
}

// fakeClock stands in for the service clock. Timer callbacks read it
// concurrently, so it locks.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type profileStub struct{ profile *model.UserProfile }

func (s *profileStub) FindByUserID(uint) (*model.UserProfile, error) { return s.profile, nil }
func (s *profileStub) Update(p *model.UserProfile) error             { s.profile = p; return nil }

type progressStub struct{ progress *model.UserProgress }

func (s *progressStub) FindByUserID(uint) (*model.UserProgress, error) { return s.progress, nil }
func (s *progressStub) Update(p *model.UserProgress) error             { s.progress = p; return nil }

type attemptLog struct {
	attempts []*model.QuizAttempt
	answers  [][]model.QuizAttemptAnswer
}

func (l *attemptLog) Create(attempt *model.QuizAttempt, answers []model.QuizAttemptAnswer) error {
	l.attempts = append(l.attempts, attempt)
	l.answers = append(l.answers, answers)
	return nil
}

type awardLog struct{ summaries []*model.QuizSummary }

func (l *awardLog) AwardForQuiz(userID uint, summary *model.QuizSummary) (*AwardBreakdown, error) {
	l.summaries = append(l.summaries, summary)
	return &AwardBreakdown{PointsEarned: summary.Score, TotalPoints: summary.Score, Level: 1}, nil
}

type outcomeLog struct{ graded []string }

func (l *outcomeLog) RecordOutcome(questionID string, isCorrect bool, timeSpent float64) {
	l.graded = append(l.graded, questionID)
}

type quizHarness struct {
	svc      *QuizService
	clock    *fakeClock
	profiles *profileStub
	progress *progressStub
	attempts *attemptLog
	awards   *awardLog
	graded   *outcomeLog
}

func newQuizHarness(t *testing.T, questions ...model.Question) *quizHarness {
	t.Helper()

	logger := zap.NewNop()
	store := catalog.NewStore(logger)
	if _, rejected := store.Load(questions); rejected > 0 {
		t.Fatalf("%d bank questions rejected", rejected)
	}

	profiles := &profileStub{profile: &model.UserProfile{UserID: 1}}
	progress := &progressStub{progress: &model.UserProgress{UserID: 1}}
	limiter := ratelimit.NewLimiter(map[string]ratelimit.Quota{
		util.ActionStartQuiz:    {Requests: 100, Window: time.Minute},
		util.ActionQuestionFeed: {Requests: 1000, Window: time.Minute},
	})
	feeder := NewFeederService(
		store, profiles, progress,
		selection.NewSelector(rand.New(rand.NewSource(7))),
		cache.New(32, time.Minute),
		limiter, logger,
	)

	attempts := &attemptLog{}
	awards := &awardLog{}
	graded := &outcomeLog{}
	svc := NewQuizService(
		feeder, graded, profiles, progress, attempts, awards,
		limiter, event.NewLogPublisher(logger), logger,
		rand.New(rand.NewSource(7)),
	)

	clock := &fakeClock{t: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
	svc.now = clock.Now

	return &quizHarness{
		svc:      svc,
		clock:    clock,
		profiles: profiles,
		progress: progress,
		attempts: attempts,
		awards:   awards,
		graded:   graded,
	}
}

func (h *quizHarness) start(t *testing.T, cfg model.QuizConfig) *SessionView {
	t.Helper()
	view, err := h.svc.StartQuiz(1, cfg)
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}
	return view
}

func (h *quizHarness) submit(t *testing.T, sessionID string, answer json.RawMessage) *AnswerOutcome {
	t.Helper()
	out, err := h.svc.SubmitAnswer(sessionID, 1, answer)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	return out
}

func TestQuizFlowToSummary(t *testing.T) {
	h := newQuizHarness(t, bankQuestion("geo-1", 10), bankQuestion("geo-2", 20))
	view := h.start(t, model.QuizConfig{QuestionCount: 2, TimeLimitSeconds: 30})

	if view.State != model.SessionRunning || view.Total != 2 || view.CurrentQuestion == nil {
		t.Fatalf("opening view = %+v", view)
	}
	if _, err := h.svc.GetSession(view.SessionID, 2); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("foreign user error = %v, want ErrPermissionDenied", err)
	}

	// Answer past the speed-bonus window so scores stay at base points.
	h.clock.Advance(25 * time.Second)
	first := h.submit(t, view.SessionID, rightAnswer)
	if !first.IsCorrect || first.Streak != 1 {
		t.Fatalf("first outcome = %+v", first)
	}
	if first.State != model.SessionRunning || first.NextQuestion == nil {
		t.Fatalf("first outcome did not advance: state %s", first.State)
	}

	h.clock.Advance(25 * time.Second)
	final := h.submit(t, view.SessionID, rightAnswer)
	if final.State != model.SessionFinished {
		t.Fatalf("final state = %s, want finished", final.State)
	}
	if final.Summary == nil || final.Award == nil {
		t.Fatal("final outcome missing summary or award")
	}

	s := final.Summary
	if s.Score != 30 || s.MaxScore != 30 || s.Percentage != 100 {
		t.Fatalf("summary score = %d/%d (%d%%), want 30/30 (100%%)", s.Score, s.MaxScore, s.Percentage)
	}
	if s.CorrectAnswers != 2 || s.QuestionCount != 2 || s.MaxStreak != 2 {
		t.Fatalf("summary counts = %+v", s)
	}
	if s.TotalTime != 50 || s.AverageTime != 25 {
		t.Fatalf("summary timing = %v total / %v avg, want 50/25", s.TotalTime, s.AverageTime)
	}

	if _, err := h.svc.GetSession(view.SessionID, 1); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("finished session lookup error = %v, want ErrSessionNotFound", err)
	}
	if len(h.attempts.attempts) != 1 || h.attempts.attempts[0].Percentage != 100 {
		t.Fatalf("persisted attempts = %+v", h.attempts.attempts)
	}
	if len(h.attempts.answers[0]) != 2 {
		t.Fatalf("persisted answers = %d, want 2", len(h.attempts.answers[0]))
	}
	if len(h.awards.summaries) != 1 {
		t.Fatalf("award calls = %d, want 1", len(h.awards.summaries))
	}

	// Lifetime progress folded in, with the streak counted for today.
	p := h.progress.progress
	if p.TotalQuestions != 2 || p.CorrectAnswers != 2 {
		t.Fatalf("progress counters = %d/%d, want 2/2", p.TotalQuestions, p.CorrectAnswers)
	}
	if p.DailyStreak != 1 {
		t.Fatalf("DailyStreak = %d, want 1", p.DailyStreak)
	}
	if len(h.graded.graded) != 2 {
		t.Fatalf("bank outcomes recorded = %d, want 2", len(h.graded.graded))
	}
}

func TestQuizTimeoutGradesBlank(t *testing.T) {
	h := newQuizHarness(t, bankQuestion("geo-1", 10), bankQuestion("geo-2", 10))
	view := h.start(t, model.QuizConfig{QuestionCount: 2, TimeLimitSeconds: 30})

	h.clock.Advance(30 * time.Second)
	h.svc.handleTimeout(view.SessionID, 0)

	mid, err := h.svc.GetSession(view.SessionID, 1)
	if err != nil {
		t.Fatalf("GetSession after timeout: %v", err)
	}
	if mid.State != model.SessionRunning || mid.Answered != 1 {
		t.Fatalf("post-timeout view = %+v", mid)
	}
	if mid.Score != 0 || mid.Streak != 0 {
		t.Fatalf("timeout scored %d with streak %d, want 0/0", mid.Score, mid.Streak)
	}
	if mid.CurrentQuestion == nil || mid.CurrentQuestion.Index != 1 {
		t.Fatal("timeout did not advance to the next question")
	}

	h.clock.Advance(25 * time.Second)
	final := h.submit(t, view.SessionID, rightAnswer)
	if final.Summary == nil {
		t.Fatal("missing summary")
	}
	if final.Summary.CorrectAnswers != 1 {
		t.Fatalf("CorrectAnswers = %d, want 1", final.Summary.CorrectAnswers)
	}
	timedOut := final.Summary.Answers[0]
	if timedOut.IsCorrect || timedOut.Skipped || timedOut.Score != 0 {
		t.Fatalf("timed-out record = %+v, want incorrect unskipped zero", timedOut)
	}
}

func TestSkipGatedByConfig(t *testing.T) {
	h := newQuizHarness(t, bankQuestion("geo-1", 10), bankQuestion("geo-2", 10))
	view := h.start(t, model.QuizConfig{QuestionCount: 2, TimeLimitSeconds: 30, AllowSkip: false})

	if _, err := h.svc.SkipQuestion(view.SessionID, 1); !errors.Is(err, util.ErrSkipNotAllowed) {
		t.Fatalf("skip error = %v, want ErrSkipNotAllowed", err)
	}
	mid, err := h.svc.GetSession(view.SessionID, 1)
	if err != nil || mid.Answered != 0 {
		t.Fatalf("denied skip mutated the session: %+v, %v", mid, err)
	}

	h.submit(t, view.SessionID, rightAnswer)
	h.submit(t, view.SessionID, rightAnswer)
}

func TestSkipResetsStreakAndScoresNothing(t *testing.T) {
	h := newQuizHarness(t, bankQuestion("geo-1", 10), bankQuestion("geo-2", 10))
	view := h.start(t, model.QuizConfig{QuestionCount: 2, TimeLimitSeconds: 30, AllowSkip: true})

	h.clock.Advance(25 * time.Second)
	first := h.submit(t, view.SessionID, rightAnswer)
	if first.Streak != 1 {
		t.Fatalf("streak = %d, want 1", first.Streak)
	}

	skipped, err := h.svc.SkipQuestion(view.SessionID, 1)
	if err != nil {
		t.Fatalf("SkipQuestion: %v", err)
	}
	if skipped.IsCorrect || skipped.Score != 0 || skipped.Streak != 0 {
		t.Fatalf("skip outcome = %+v, want incorrect zero-score reset", skipped)
	}
	if skipped.State != model.SessionFinished || skipped.Summary == nil {
		t.Fatal("skipping the last question should finish the session")
	}
	if skipped.Summary.MaxStreak != 1 || skipped.Summary.CorrectAnswers != 1 {
		t.Fatalf("summary = %+v", skipped.Summary)
	}
	if !skipped.Summary.Answers[1].Skipped {
		t.Fatal("skip not recorded on the answer")
	}
	// A skip says nothing about the question, so the bank stats only saw
	// the real submission.
	if len(h.graded.graded) != 1 {
		t.Fatalf("bank outcomes recorded = %d, want 1", len(h.graded.graded))
	}
}

func TestStreakMaxSurvivesReset(t *testing.T) {
	h := newQuizHarness(t, bankQuestion("geo-1", 10), bankQuestion("geo-2", 10), bankQuestion("geo-3", 10))
	view := h.start(t, model.QuizConfig{QuestionCount: 3, TimeLimitSeconds: 30})

	h.clock.Advance(25 * time.Second)
	h.submit(t, view.SessionID, rightAnswer)
	h.clock.Advance(25 * time.Second)
	second := h.submit(t, view.SessionID, rightAnswer)
	if second.Streak != 2 {
		t.Fatalf("streak = %d, want 2", second.Streak)
	}

	h.clock.Advance(25 * time.Second)
	final := h.submit(t, view.SessionID, wrongAnswer)
	if final.IsCorrect || final.Streak != 0 {
		t.Fatalf("wrong answer outcome = %+v", final)
	}
	if final.Summary == nil || final.Summary.MaxStreak != 2 {
		t.Fatalf("summary = %+v, want MaxStreak 2", final.Summary)
	}
	if final.Summary.Score != 20 || final.Summary.Percentage != 67 {
		t.Fatalf("summary score = %d (%d%%), want 20 (67%%)", final.Summary.Score, final.Summary.Percentage)
	}
}

func TestExplanationPauseAndFinalSummary(t *testing.T) {
	h := newQuizHarness(t, bankQuestion("geo-1", 10), bankQuestion("geo-2", 10))
	h.svc.explanationWait = 5 * time.Millisecond
	view := h.start(t, model.QuizConfig{QuestionCount: 2, TimeLimitSeconds: 30, ShowExplanation: true})

	first := h.submit(t, view.SessionID, rightAnswer)
	if first.State != model.SessionExplanation || first.NextQuestion != nil {
		t.Fatalf("mid-quiz outcome = %+v, want explanation pause", first)
	}
	if _, err := h.svc.SubmitAnswer(view.SessionID, 1, rightAnswer); !errors.Is(err, util.ErrNotAccepting) {
		t.Fatalf("submit during explanation = %v, want ErrNotAccepting", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mid, err := h.svc.GetSession(view.SessionID, 1)
		if err != nil {
			t.Fatalf("GetSession: %v", err)
		}
		if mid.State == model.SessionRunning && mid.CurrentQuestion != nil && mid.CurrentQuestion.Index == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("session never advanced past the explanation, state %s", mid.State)
		}
		time.Sleep(2 * time.Millisecond)
	}

	// The last answer must hand back the summary directly; a pause here
	// would finish the session with nobody listening.
	final := h.submit(t, view.SessionID, rightAnswer)
	if final.State != model.SessionFinished {
		t.Fatalf("final state = %s, want finished", final.State)
	}
	if final.Summary == nil || final.Award == nil {
		t.Fatal("final outcome missing summary or award")
	}
	if final.Summary.CorrectAnswers != 2 {
		t.Fatalf("CorrectAnswers = %d, want 2", final.Summary.CorrectAnswers)
	}
	if _, err := h.svc.GetSession(view.SessionID, 1); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("finished session lookup error = %v, want ErrSessionNotFound", err)
	}
}

// Package catalog holds the in-memory question bank: every authored question,
// enriched with usage statistics, under a composite category/subcategory/id
// key, with secondary indexes so feed queries never scan the whole bank.
package catalog

import (
	"fmt"
	"sync"
	"time"

	"wanderlust_backend/internal/model"

	"go.uber.org/zap"
)

const (
	minDifficultyScore = 1.0
	maxDifficultyScore = 10.0
)

type Store struct {
	mu        sync.RWMutex
	questions map[string]*model.Question // composite key -> question

	// Secondary indexes hold composite keys, not copies.
	byID         map[string]string
	byCategory   map[string][]string
	byDifficulty map[model.Difficulty][]string

	logger *zap.Logger
	now    func() time.Time
}

func NewStore(logger *zap.Logger) *Store {
	return &Store{
		questions:    make(map[string]*model.Question),
		byID:         make(map[string]string),
		byCategory:   make(map[string][]string),
		byDifficulty: make(map[model.Difficulty][]string),
		logger:       logger,
		now:          time.Now,
	}
}

// Load validates and inserts a batch of questions. Invalid entries are
// reported and dropped, never fatal. Returns how many were accepted and how
// many rejected.
func (s *Store) Load(questions []model.Question) (accepted, rejected int) {
	for i := range questions {
		if err := s.Add(questions[i]); err != nil {
			rejected++
			continue
		}
		accepted++
	}
	return accepted, rejected
}

// Add inserts a single question, enriching it with zeroed usage statistics
// when it has never been shown.
func (s *Store) Add(q model.Question) error {
	if problems := q.Validate(); len(problems) > 0 {
		s.logger.Warn("rejecting invalid question",
			zap.String("id", q.QuestionID),
			zap.Strings("problems", problems))
		return fmt.Errorf("invalid question %q: %v", q.QuestionID, problems)
	}
	if q.DifficultyScore < minDifficultyScore {
		q.DifficultyScore = initialDifficultyScore(&q)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := q.CompositeKey()
	if _, exists := s.byID[q.QuestionID]; exists {
		return fmt.Errorf("duplicate question id %q", q.QuestionID)
	}
	s.questions[key] = &q
	s.byID[q.QuestionID] = key
	s.byCategory[q.Category] = append(s.byCategory[q.Category], key)
	s.byDifficulty[q.Difficulty] = append(s.byDifficulty[q.Difficulty], key)
	return nil
}

// initialDifficultyScore seeds the 1-10 score from authored properties: the
// difficulty tier, the question type's complexity, and the point value.
func initialDifficultyScore(q *model.Question) float64 {
	score := 0.0
	switch q.Difficulty {
	case model.Intermediate:
		score += 2
	case model.Advanced:
		score += 3
	default:
		score += 1
	}
	switch q.Type {
	case model.FillInBlank, model.ImageIdentification:
		score += 2
	case model.Matching:
		score += 3
	default:
		score += 1
	}
	score += float64(q.Points / 10)
	if score > maxDifficultyScore {
		score = maxDifficultyScore
	}
	if score < minDifficultyScore {
		score = minDifficultyScore
	}
	return score
}

// Get returns a copy of the question with the given id.
func (s *Store) Get(questionID string) (model.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.byID[questionID]
	if !ok {
		return model.Question{}, false
	}
	return *s.questions[key], true
}

// Len reports how many questions are loaded.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions)
}

// QueryByIndex resolves the category and difficulty buckets and intersects
// them. Either criterion may be empty; with neither, the full bank is
// returned. Lookups stay proportional to bucket size, not bank size.
func (s *Store) QueryByIndex(category string, difficulty model.Difficulty) []model.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	switch {
	case category != "" && difficulty != "":
		inCategory := make(map[string]struct{}, len(s.byCategory[category]))
		for _, k := range s.byCategory[category] {
			inCategory[k] = struct{}{}
		}
		for _, k := range s.byDifficulty[difficulty] {
			if _, ok := inCategory[k]; ok {
				keys = append(keys, k)
			}
		}
	case category != "":
		keys = s.byCategory[category]
	case difficulty != "":
		keys = s.byDifficulty[difficulty]
	default:
		keys = make([]string, 0, len(s.questions))
		for k := range s.questions {
			keys = append(keys, k)
		}
	}

	out := make([]model.Question, 0, len(keys))
	for _, k := range keys {
		if q, ok := s.questions[k]; ok {
			out = append(out, *q)
		}
	}
	return out
}

// All returns a copy of every loaded question.
func (s *Store) All() []model.Question {
	return s.QueryByIndex("", "")
}

// RecordOutcome folds one graded answer into the question's usage statistics
// and drifts the difficulty score: questions almost nobody gets right ease
// off, questions almost everybody gets right harden up. The score never
// leaves [1,10].
func (s *Store) RecordOutcome(questionID string, isCorrect bool, timeSpent float64) (model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.byID[questionID]
	if !ok {
		return model.Question{}, fmt.Errorf("unknown question %q", questionID)
	}
	q := s.questions[key]

	q.TimesShown++
	if isCorrect {
		q.CorrectCount++
	}
	if timeSpent > 0 {
		q.AverageTime = (q.AverageTime + timeSpent) / 2
	}
	shown := s.now()
	q.LastShown = &shown

	accuracy := float64(q.CorrectCount) / float64(q.TimesShown)
	switch {
	case accuracy < 0.3:
		q.DifficultyScore -= 0.5
		if q.DifficultyScore < minDifficultyScore {
			q.DifficultyScore = minDifficultyScore
		}
	case accuracy > 0.8:
		q.DifficultyScore += 0.3
		if q.DifficultyScore > maxDifficultyScore {
			q.DifficultyScore = maxDifficultyScore
		}
	}

	return *q, nil
}

// SetImageKey updates the stored object key for a question's image.
func (s *Store) SetImageKey(questionID, imageKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.byID[questionID]
	if !ok {
		return fmt.Errorf("unknown question %q", questionID)
	}
	s.questions[key].ImageKey = imageKey
	return nil
}

// Stats summarizes the bank by category, difficulty and type.
type Stats struct {
	TotalQuestions int                        `json:"totalQuestions"`
	Categories     map[string]int             `json:"categories"`
	Difficulties   map[model.Difficulty]int   `json:"difficulties"`
	Types          map[model.QuestionType]int `json:"types"`
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		TotalQuestions: len(s.questions),
		Categories:     make(map[string]int),
		Difficulties:   make(map[model.Difficulty]int),
		Types:          make(map[model.QuestionType]int),
	}
	for _, q := range s.questions {
		stats.Categories[q.Category]++
		stats.Difficulties[q.Difficulty]++
		stats.Types[q.Type]++
	}
	return stats
}

// Categories lists every category present in the bank.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.byCategory))
	for c := range s.byCategory {
		out = append(out, c)
	}
	return out
}

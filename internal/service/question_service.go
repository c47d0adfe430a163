package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"wanderlust_backend/internal/catalog"
	"wanderlust_backend/internal/model"
	"wanderlust_backend/internal/repository"
	"wanderlust_backend/internal/util"

	"go.uber.org/zap"
)

// QuestionService owns the in-memory catalog and keeps it in sync with
// the database. The catalog serves reads; writes go through both.
type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	Catalog      *catalog.Store
	Storage      *StorageService
	Logger       *zap.Logger
}

func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	store *catalog.Store,
	storage *StorageService,
	logger *zap.Logger,
) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		Catalog:      store,
		Storage:      storage,
		Logger:       logger,
	}
}

// Hydrate fills the catalog from the database, seeding the starter
// question bank on an empty install.
func (s *QuestionService) Hydrate() error {
	count, err := s.QuestionRepo.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		seed := catalog.SeedQuestions()
		if err := s.QuestionRepo.CreateBatch(seed); err != nil {
			return err
		}
		s.Logger.Info("seeded question bank", zap.Int("count", len(seed)))
	}

	questions, err := s.QuestionRepo.FindAll()
	if err != nil {
		return err
	}
	accepted, rejected := s.Catalog.Load(questions)
	s.Logger.Info("question catalog hydrated",
		zap.Int("accepted", accepted),
		zap.Int("rejected", rejected),
	)
	return nil
}

func (s *QuestionService) Get(questionID string) (model.Question, error) {
	q, ok := s.Catalog.Get(questionID)
	if !ok {
		return model.Question{}, util.ErrQuestionNotFound
	}
	return q, nil
}

// Create validates and stores an authored question in both the catalog
// and the database.
func (s *QuestionService) Create(q model.Question) (model.Question, error) {
	if err := s.Catalog.Add(q); err != nil {
		return model.Question{}, err
	}
	stored, _ := s.Catalog.Get(q.QuestionID)
	if err := s.QuestionRepo.Create(&stored); err != nil {
		return model.Question{}, err
	}
	return stored, nil
}

func (s *QuestionService) Search(category string, difficulty model.Difficulty, keyword string, limit int) ([]model.Question, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.QuestionRepo.Search(category, difficulty, keyword, limit)
}

func (s *QuestionService) Stats() catalog.Stats {
	return s.Catalog.Stats()
}

func (s *QuestionService) Categories() []string {
	return s.Catalog.Categories()
}

// RecordOutcome folds one graded answer into the question's usage stats,
// in memory first and then persisted. A persistence failure is logged but
// does not fail the grading path.
func (s *QuestionService) RecordOutcome(questionID string, isCorrect bool, timeSpent float64) {
	updated, err := s.Catalog.RecordOutcome(questionID, isCorrect, timeSpent)
	if err != nil {
		s.Logger.Warn("record outcome", zap.String("questionId", questionID), zap.Error(err))
		return
	}
	if err := s.QuestionRepo.UpdateStats(&updated); err != nil {
		s.Logger.Warn("persist question stats", zap.String("questionId", questionID), zap.Error(err))
	}
}

// AttachImage uploads an image for an image-identification question and
// stores the resulting object key.
func (s *QuestionService) AttachImage(ctx context.Context, questionID string, reader io.Reader, size int64, filename, contentType string) (string, error) {
	if _, ok := s.Catalog.Get(questionID); !ok {
		return "", util.ErrQuestionNotFound
	}
	if !util.IsImage(contentType) {
		return "", fmt.Errorf("unsupported content type %s", contentType)
	}

	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = strings.ToLower(filename[i:])
	}
	key := fmt.Sprintf("questions/%s-%d%s", questionID, time.Now().Unix(), ext)

	url, err := s.Storage.Upload(ctx, key, reader, size, contentType)
	if err != nil {
		return "", err
	}
	if err := s.QuestionRepo.SetImageKey(questionID, key); err != nil {
		return "", err
	}
	if err := s.Catalog.SetImageKey(questionID, key); err != nil {
		s.Logger.Warn("sync image key", zap.String("questionId", questionID), zap.Error(err))
	}
	return url, nil
}

package repository

import (
	"wanderlust_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) FindAll() ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByQuestionID(questionID string) (*model.Question, error) {
	var q model.Question
	err := r.DB.Where("question_id = ?", questionID).First(&q).Error
	return &q, err
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) CreateBatch(questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.CreateInBatches(questions, 50).Error
}

func (r *QuestionRepository) Update(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *QuestionRepository) Delete(questionID string) error {
	return r.DB.Where("question_id = ?", questionID).Delete(&model.Question{}).Error
}

// UpdateStats persists only the usage counters so concurrent edits to the
// authored fields are not clobbered.
func (r *QuestionRepository) UpdateStats(q *model.Question) error {
	return r.DB.Model(&model.Question{}).
		Where("question_id = ?", q.QuestionID).
		Updates(map[string]interface{}{
			"times_shown":      q.TimesShown,
			"correct_count":    q.CorrectCount,
			"average_time":     q.AverageTime,
			"last_shown":       q.LastShown,
			"difficulty_score": q.DifficultyScore,
		}).Error
}

func (r *QuestionRepository) SetImageKey(questionID, imageKey string) error {
	return r.DB.Model(&model.Question{}).
		Where("question_id = ?", questionID).
		Update("image_key", imageKey).
		Error
}

func (r *QuestionRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&model.Question{}).Count(&n).Error
	return n, err
}

// Search filters by optional category, difficulty, and a keyword against
// prompt and explanation.
func (r *QuestionRepository) Search(category string, difficulty model.Difficulty, keyword string, limit int) ([]model.Question, error) {
	q := r.DB.Model(&model.Question{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where("prompt LIKE ? OR explanation LIKE ?", like, like)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var questions []model.Question
	err := q.Find(&questions).Error
	return questions, err
}

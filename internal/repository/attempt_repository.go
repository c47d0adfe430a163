package repository

import (
	"wanderlust_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Create stores one finished attempt with its per-question answers in a
// single transaction.
func (r *AttemptRepository) Create(attempt *model.QuizAttempt, answers []model.QuizAttemptAnswer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].AttemptID = attempt.ID
		}
		if len(answers) == 0 {
			return nil
		}
		return tx.Create(&answers).Error
	})
}

func (r *AttemptRepository) FindBySessionID(sessionID string) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("session_id = ?", sessionID).First(&attempt).Error
	return &attempt, err
}

func (r *AttemptRepository) FindRecentByUserID(userID uint, limit int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) CountByUserID(userID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&model.QuizAttempt{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *AttemptRepository) CountPerfectScores(userID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND percentage = 100", userID).
		Count(&n).Error
	return n, err
}

// CountDistinctCategories counts categories the user has completed at
// least one quiz in. Empty-category attempts (mixed quizzes) are excluded.
func (r *AttemptRepository) CountDistinctCategories(userID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND category <> ''", userID).
		Distinct("category").
		Count(&n).Error
	return n, err
}

// CountMasteredCategories counts categories where the user has at least
// three completed quizzes averaging 90 percent or better.
func (r *AttemptRepository) CountMasteredCategories(userID uint) (int64, error) {
	var rows []struct{ Category string }
	err := r.DB.Model(&model.QuizAttempt{}).
		Select("category").
		Where("user_id = ? AND category <> ''", userID).
		Group("category").
		Having("COUNT(*) >= ? AND AVG(percentage) >= ?", 3, 90).
		Scan(&rows).Error
	return int64(len(rows)), err
}

// FastestAnswer returns the shortest correct answer time across all of the
// user's attempts, 0 when none exist.
func (r *AttemptRepository) FastestAnswer(userID uint) (float64, error) {
	var fastest *float64
	err := r.DB.Model(&model.QuizAttemptAnswer{}).
		Joins("JOIN quiz_attempts ON quiz_attempts.id = quiz_attempt_answers.attempt_id").
		Where("quiz_attempts.user_id = ? AND quiz_attempt_answers.is_correct = ? AND quiz_attempt_answers.time_spent > 0", userID, true).
		Select("MIN(quiz_attempt_answers.time_spent)").
		Scan(&fastest).Error
	if err != nil || fastest == nil {
		return 0, err
	}
	return *fastest, nil
}

func (r *AttemptRepository) AnswersForAttempt(attemptID uint) ([]model.QuizAttemptAnswer, error) {
	var answers []model.QuizAttemptAnswer
	err := r.DB.Where("attempt_id = ?", attemptID).Order("id").Find(&answers).Error
	return answers, err
}

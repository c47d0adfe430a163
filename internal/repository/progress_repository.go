package repository

import (
	"errors"

	"wanderlust_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// FindByUserID returns the user's progress row, creating an empty one on
// first access.
func (r *ProgressRepository) FindByUserID(userID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where("user_id = ?", userID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fresh := &model.UserProgress{UserID: userID}
		if err := r.DB.Create(fresh).Error; err != nil {
			return nil, err
		}
		return fresh, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) Update(progress *model.UserProgress) error {
	return r.DB.Save(progress).Error
}

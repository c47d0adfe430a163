package service

import (
	"wanderlust_backend/internal/model"
	"wanderlust_backend/internal/repository"

	"go.uber.org/zap"
)

type UserService struct {
	UserRepo     *repository.UserRepository
	ProfileRepo  *repository.ProfileRepository
	ProgressRepo *repository.ProgressRepository
	AttemptRepo  *repository.AttemptRepository
	Logger       *zap.Logger
}

func NewUserService(
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	progressRepo *repository.ProgressRepository,
	attemptRepo *repository.AttemptRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		UserRepo:     userRepo,
		ProfileRepo:  profileRepo,
		ProgressRepo: progressRepo,
		AttemptRepo:  attemptRepo,
		Logger:       logger,
	}
}

func (s *UserService) GetProfile(userID uint) (*model.UserProfile, error) {
	return s.ProfileRepo.FindByUserID(userID)
}

// UpdatePreferences replaces the user's personalization inputs. Skill
// levels outside the known tiers are rejected upstream by binding.
func (s *UserService) UpdatePreferences(userID uint, preferred, interests []string, skills model.SkillLevels) (*model.UserProfile, error) {
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if preferred != nil {
		profile.PreferredCategories = model.StringList(preferred)
	}
	if interests != nil {
		profile.Interests = model.StringList(interests)
	}
	if skills != nil {
		if profile.SkillLevels == nil {
			profile.SkillLevels = model.SkillLevels{}
		}
		for category, level := range skills {
			if level.Valid() {
				profile.SkillLevels[category] = level
			}
		}
	}
	if err := s.ProfileRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *UserService) GetProgress(userID uint) (*model.UserProgress, error) {
	return s.ProgressRepo.FindByUserID(userID)
}

func (s *UserService) RecentAttempts(userID uint, limit int) ([]model.QuizAttempt, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.AttemptRepo.FindRecentByUserID(userID, limit)
}

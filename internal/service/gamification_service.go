package service

import (
	"math"

	"wanderlust_backend/internal/event"
	"wanderlust_backend/internal/model"
	"wanderlust_backend/internal/repository"
	"wanderlust_backend/internal/util"
	"wanderlust_backend/pkg/monitoring"
	"wanderlust_backend/pkg/ratelimit"

	"go.uber.org/zap"
)

const (
	pointsPerCorrectAnswer = 10
	streakBonusThreshold   = 5
	streakBonusMultiplier  = 1.5
	speedBonusSeconds      = 10
	speedBonusMultiplier   = 2.0
	perfectScoreBonus      = 100
)

// AwardBreakdown is what one finished quiz earned the user.
type AwardBreakdown struct {
	PointsEarned    int                    `json:"pointsEarned"`
	TotalPoints     int                    `json:"totalPoints"`
	Level           int                    `json:"level"`
	LeveledUp       bool                   `json:"leveledUp"`
	NewAchievements []model.AchievementDef `json:"newAchievements"`
	NewBadges       []model.BadgeDef       `json:"newBadges"`
}

type GamificationService struct {
	GamificationRepo *repository.GamificationRepository
	AttemptRepo      *repository.AttemptRepository
	ProgressRepo     *repository.ProgressRepository
	UserRepo         *repository.UserRepository
	Events           event.Publisher
	Limiter          *ratelimit.Limiter
	Logger           *zap.Logger
}

func NewGamificationService(
	gamificationRepo *repository.GamificationRepository,
	attemptRepo *repository.AttemptRepository,
	progressRepo *repository.ProgressRepository,
	userRepo *repository.UserRepository,
	events event.Publisher,
	limiter *ratelimit.Limiter,
	logger *zap.Logger,
) *GamificationService {
	return &GamificationService{
		GamificationRepo: gamificationRepo,
		AttemptRepo:      attemptRepo,
		ProgressRepo:     progressRepo,
		UserRepo:         userRepo,
		Events:           events,
		Limiter:          limiter,
		Logger:           logger,
	}
}

// AwardForQuiz folds one finished quiz into the user's points, level,
// achievements, and badges. Called once per completed session.
func (s *GamificationService) AwardForQuiz(userID uint, summary *model.QuizSummary) (*AwardBreakdown, error) {
	state, err := s.GamificationRepo.FindStateByUserID(userID)
	if err != nil {
		return nil, err
	}

	earned := quizPoints(summary)
	state.Points += earned
	if summary.MaxStreak > state.Streak {
		state.Streak = summary.MaxStreak
	}
	if state.Streak > state.MaxStreak {
		state.MaxStreak = state.Streak
	}

	oldLevel := state.Level
	state.Level = model.LevelForPoints(state.Points)
	if err := s.GamificationRepo.UpdateState(state); err != nil {
		return nil, err
	}

	s.Events.Publish(event.Event{
		Type:      event.PointsAwarded,
		UserID:    formatUserID(userID),
		SessionID: summary.SessionID,
		Payload: map[string]interface{}{
			"pointsEarned": earned,
			"totalPoints":  state.Points,
			"level":        state.Level,
		},
	})

	breakdown := &AwardBreakdown{
		PointsEarned:    earned,
		NewAchievements: []model.AchievementDef{},
		NewBadges:       []model.BadgeDef{},
	}

	newAchievements, err := s.checkAchievements(userID, state)
	if err != nil {
		return nil, err
	}
	breakdown.NewAchievements = newAchievements

	newBadges, err := s.checkBadges(userID, state)
	if err != nil {
		return nil, err
	}
	breakdown.NewBadges = newBadges

	breakdown.TotalPoints = state.Points
	breakdown.Level = state.Level
	breakdown.LeveledUp = state.Level > oldLevel
	if breakdown.LeveledUp {
		s.Events.Publish(event.Event{
			Type:   event.LevelUp,
			UserID: formatUserID(userID),
			Payload: map[string]interface{}{
				"oldLevel": oldLevel,
				"newLevel": state.Level,
				"points":   state.Points,
			},
		})
	}

	s.Events.Publish(event.Event{
		Type:   event.LeaderboardUpdated,
		UserID: formatUserID(userID),
		Payload: map[string]interface{}{
			"points": state.Points,
		},
	})
	return breakdown, nil
}

// quizPoints is the per-quiz point formula: 10 per correct answer, a 1.5x
// streak bonus at 5+, a 2x speed bonus under 10s average, the difficulty
// multiplier, and a flat 100 on a perfect run.
func quizPoints(summary *model.QuizSummary) int {
	points := float64(summary.CorrectAnswers * pointsPerCorrectAnswer)
	if summary.MaxStreak >= streakBonusThreshold {
		points *= streakBonusMultiplier
	}
	if summary.AverageTime < speedBonusSeconds {
		points *= speedBonusMultiplier
	}
	difficulty := summary.Difficulty
	if !difficulty.Valid() {
		difficulty = model.Beginner
	}
	points *= difficulty.Multiplier()
	if summary.Percentage == 100 {
		points += perfectScoreBonus
	}
	return int(math.Round(points))
}

// RecordShare counts one social share and re-runs the achievement check so
// social-butterfly can fire.
func (s *GamificationService) RecordShare(userID uint, achievementID string) ([]model.AchievementDef, error) {
	if !s.Limiter.Allow(formatUserID(userID), util.ActionShareResult) {
		monitoring.ThrottleDenials.WithLabelValues(util.ActionShareResult).Inc()
		return nil, util.ErrRateLimited
	}
	if err := s.GamificationRepo.IncrementShares(userID); err != nil {
		return nil, err
	}
	state, err := s.GamificationRepo.FindStateByUserID(userID)
	if err != nil {
		return nil, err
	}

	s.Events.Publish(event.Event{
		Type:   event.ResultShared,
		UserID: formatUserID(userID),
		Payload: map[string]interface{}{
			"achievementId": achievementID,
			"shares":        state.Shares,
		},
	})

	newAchievements, err := s.checkAchievements(userID, state)
	if err != nil {
		return nil, err
	}
	if len(newAchievements) > 0 {
		if err := s.GamificationRepo.UpdateState(state); err != nil {
			return nil, err
		}
	}
	return newAchievements, nil
}

// Overview is the user-facing gamification snapshot.
type Overview struct {
	Points       int                    `json:"points"`
	Level        int                    `json:"level"`
	NextLevelAt  int                    `json:"nextLevelAt"`
	MaxStreak    int                    `json:"maxStreak"`
	Rank         int                    `json:"rank"`
	Achievements []model.AchievementDef `json:"achievements"`
	Badges       []model.BadgeDef       `json:"badges"`
}

func (s *GamificationService) GetOverview(userID uint) (*Overview, error) {
	state, err := s.GamificationRepo.FindStateByUserID(userID)
	if err != nil {
		return nil, err
	}
	earnedAchievements, err := s.GamificationRepo.FindAchievements(userID)
	if err != nil {
		return nil, err
	}
	earnedBadges, err := s.GamificationRepo.FindBadges(userID)
	if err != nil {
		return nil, err
	}
	rank, err := s.GamificationRepo.RankOf(userID)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		Points:       state.Points,
		Level:        state.Level,
		NextLevelAt:  state.Level * 100,
		MaxStreak:    state.MaxStreak,
		Rank:         rank,
		Achievements: []model.AchievementDef{},
		Badges:       []model.BadgeDef{},
	}
	for _, e := range earnedAchievements {
		if def := achievementByID(e.AchievementID); def != nil {
			overview.Achievements = append(overview.Achievements, *def)
		}
	}
	for _, e := range earnedBadges {
		if def := badgeByID(e.BadgeID); def != nil {
			overview.Badges = append(overview.Badges, *def)
		}
	}
	return overview, nil
}

// AllAchievements lists every definition with the user's earned flags.
type AchievementStatus struct {
	model.AchievementDef
	Earned bool `json:"earned"`
}

func (s *GamificationService) ListAchievements(userID uint) ([]AchievementStatus, error) {
	earned, err := s.GamificationRepo.FindAchievements(userID)
	if err != nil {
		return nil, err
	}
	earnedSet := make(map[string]bool, len(earned))
	for _, e := range earned {
		earnedSet[e.AchievementID] = true
	}
	out := make([]AchievementStatus, 0, len(achievementDefs))
	for _, def := range achievementDefs {
		out = append(out, AchievementStatus{AchievementDef: def, Earned: earnedSet[def.ID]})
	}
	return out, nil
}

func (s *GamificationService) Leaderboard(limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	ids, points, err := s.GamificationRepo.TopUserIDs(limit)
	if err != nil {
		return nil, err
	}
	users, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	entries := make([]model.LeaderboardEntry, 0, len(ids))
	for i, id := range ids {
		entries = append(entries, model.LeaderboardEntry{
			Rank:   i + 1,
			UserID: id,
			Name:   names[id],
			Points: points[i],
			Level:  model.LevelForPoints(points[i]),
		})
	}
	return entries, nil
}

// checkAchievements grants every definition whose condition now holds.
// Each grant adds its bonus points, which can cascade a level up, so the
// level is recomputed afterwards.
func (s *GamificationService) checkAchievements(userID uint, state *model.GamificationState) ([]model.AchievementDef, error) {
	stats, err := s.buildStats(userID, state)
	if err != nil {
		return nil, err
	}

	granted := []model.AchievementDef{}
	for _, def := range achievementDefs {
		if !def.Condition(stats) {
			continue
		}
		first, err := s.GamificationRepo.GrantAchievement(userID, def.ID)
		if err != nil {
			return nil, err
		}
		if !first {
			continue
		}
		state.Points += def.Points
		granted = append(granted, def)
		s.Events.Publish(event.Event{
			Type:   event.AchievementEarned,
			UserID: formatUserID(userID),
			Payload: map[string]interface{}{
				"achievementId": def.ID,
				"points":        def.Points,
			},
		})
	}
	if len(granted) > 0 {
		state.Level = model.LevelForPoints(state.Points)
		if err := s.GamificationRepo.UpdateState(state); err != nil {
			return nil, err
		}
	}
	return granted, nil
}

func (s *GamificationService) checkBadges(userID uint, state *model.GamificationState) ([]model.BadgeDef, error) {
	granted := []model.BadgeDef{}
	for _, def := range badgeDefs {
		if state.Points < def.MinPoints || state.Level < def.MinLevel {
			continue
		}
		first, err := s.GamificationRepo.GrantBadge(userID, def.ID)
		if err != nil {
			return nil, err
		}
		if !first {
			continue
		}
		granted = append(granted, def)
		s.Events.Publish(event.Event{
			Type:   event.BadgeEarned,
			UserID: formatUserID(userID),
			Payload: map[string]interface{}{
				"badgeId":  def.ID,
				"benefits": def.Benefits,
			},
		})
	}
	return granted, nil
}

func (s *GamificationService) buildStats(userID uint, state *model.GamificationState) (model.UserStats, error) {
	stats := model.UserStats{
		Points:    state.Points,
		Level:     state.Level,
		MaxStreak: state.MaxStreak,
		Shares:    state.Shares,
	}

	progress, err := s.ProgressRepo.FindByUserID(userID)
	if err != nil {
		return stats, err
	}
	stats.CorrectAnswers = progress.CorrectAnswers
	stats.DailyStreak = progress.DailyStreak
	stats.LastActive = progress.LastActive

	quizzes, err := s.AttemptRepo.CountByUserID(userID)
	if err != nil {
		return stats, err
	}
	stats.QuizzesCompleted = int(quizzes)

	perfect, err := s.AttemptRepo.CountPerfectScores(userID)
	if err != nil {
		return stats, err
	}
	stats.PerfectScores = int(perfect)

	categories, err := s.AttemptRepo.CountDistinctCategories(userID)
	if err != nil {
		return stats, err
	}
	stats.CategoriesCompleted = int(categories)

	mastered, err := s.AttemptRepo.CountMasteredCategories(userID)
	if err != nil {
		return stats, err
	}
	stats.CategoriesMastered = int(mastered)

	fastest, err := s.AttemptRepo.FastestAnswer(userID)
	if err != nil {
		return stats, err
	}
	stats.FastestAnswer = fastest

	return stats, nil
}

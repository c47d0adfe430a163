package repository

import (
	"context"
	"errors"
	"strconv"

	"wanderlust_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const leaderboardKey = "gamification:leaderboard"

type GamificationRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewGamificationRepository(db *gorm.DB, rdb *redis.Client) *GamificationRepository {
	return &GamificationRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

// FindStateByUserID returns the user's gamification row, creating a level-1
// zero-point one on first access.
func (r *GamificationRepository) FindStateByUserID(userID uint) (*model.GamificationState, error) {
	var state model.GamificationState
	err := r.DB.Where("user_id = ?", userID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fresh := &model.GamificationState{UserID: userID, Level: 1}
		if err := r.DB.Create(fresh).Error; err != nil {
			return nil, err
		}
		return fresh, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// UpdateState saves the row and mirrors the point total into the
// leaderboard sorted set.
func (r *GamificationRepository) UpdateState(state *model.GamificationState) error {
	if err := r.DB.Save(state).Error; err != nil {
		return err
	}
	if r.Redis != nil {
		r.Redis.ZAdd(r.ctx, leaderboardKey, &redis.Z{
			Score:  float64(state.Points),
			Member: strconv.FormatUint(uint64(state.UserID), 10),
		})
	}
	return nil
}

func (r *GamificationRepository) FindAchievements(userID uint) ([]model.EarnedAchievement, error) {
	var earned []model.EarnedAchievement
	err := r.DB.Where("user_id = ?", userID).Order("created_at").Find(&earned).Error
	return earned, err
}

// GrantAchievement records the grant once. Returns true when this call was
// the first; a repeat grant is a no-op.
func (r *GamificationRepository) GrantAchievement(userID uint, achievementID string) (bool, error) {
	earned := model.EarnedAchievement{UserID: userID, AchievementID: achievementID}
	res := r.DB.Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		FirstOrCreate(&earned)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GamificationRepository) FindBadges(userID uint) ([]model.EarnedBadge, error) {
	var earned []model.EarnedBadge
	err := r.DB.Where("user_id = ?", userID).Order("created_at").Find(&earned).Error
	return earned, err
}

func (r *GamificationRepository) GrantBadge(userID uint, badgeID string) (bool, error) {
	earned := model.EarnedBadge{UserID: userID, BadgeID: badgeID}
	res := r.DB.Where("user_id = ? AND badge_id = ?", userID, badgeID).
		FirstOrCreate(&earned)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// TopUserIDs reads the leaderboard from Redis, highest points first. When
// Redis is unavailable it falls back to the database.
func (r *GamificationRepository) TopUserIDs(limit int) ([]uint, []int, error) {
	if r.Redis != nil {
		rows, err := r.Redis.ZRevRangeWithScores(r.ctx, leaderboardKey, 0, int64(limit-1)).Result()
		if err == nil {
			ids := make([]uint, 0, len(rows))
			points := make([]int, 0, len(rows))
			for _, z := range rows {
				member, ok := z.Member.(string)
				if !ok {
					continue
				}
				id, err := strconv.ParseUint(member, 10, 64)
				if err != nil {
					continue
				}
				ids = append(ids, uint(id))
				points = append(points, int(z.Score))
			}
			return ids, points, nil
		}
	}

	var states []model.GamificationState
	err := r.DB.Order("points DESC").Limit(limit).Find(&states).Error
	if err != nil {
		return nil, nil, err
	}
	ids := make([]uint, len(states))
	points := make([]int, len(states))
	for i, s := range states {
		ids[i] = s.UserID
		points[i] = s.Points
	}
	return ids, points, nil
}

// RankOf returns the user's 1-based leaderboard position, 0 when unranked.
func (r *GamificationRepository) RankOf(userID uint) (int, error) {
	member := strconv.FormatUint(uint64(userID), 10)
	if r.Redis != nil {
		rank, err := r.Redis.ZRevRank(r.ctx, leaderboardKey, member).Result()
		if err == nil {
			return int(rank) + 1, nil
		}
		if err != redis.Nil {
			return 0, err
		}
		return 0, nil
	}

	var state model.GamificationState
	if err := r.DB.Where("user_id = ?", userID).First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	var ahead int64
	if err := r.DB.Model(&model.GamificationState{}).
		Where("points > ?", state.Points).
		Count(&ahead).Error; err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}

func (r *GamificationRepository) IncrementShares(userID uint) error {
	return r.DB.Model(&model.GamificationState{}).
		Where("user_id = ?", userID).
		Update("shares", gorm.Expr("shares + 1")).
		Error
}

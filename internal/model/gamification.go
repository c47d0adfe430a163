package model

import "time"

// GamificationState is the persisted ledger for one user: points, level,
// streaks. Points never decrease; level is derived from points.
type GamificationState struct {
	BaseModel
	UserID    uint `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	Points    int  `gorm:"default:0" json:"points"`
	Level     int  `gorm:"default:1" json:"level"`
	Streak    int  `gorm:"default:0" json:"streak"`
	MaxStreak int  `gorm:"default:0" json:"maxStreak"`
	Shares    int  `gorm:"default:0" json:"shares"`
}

func (GamificationState) TableName() string {
	return "gamification_states"
}

// LevelForPoints derives the level from accumulated points.
func LevelForPoints(points int) int {
	return points/100 + 1
}

// EarnedAchievement records a granted achievement id, at most once per user.
type EarnedAchievement struct {
	BaseModel
	UserID        uint   `gorm:"index:idx_user_achievement,unique;type:bigint unsigned;not null" json:"userId"`
	AchievementID string `gorm:"index:idx_user_achievement,unique;size:64;not null" json:"achievementId"`
}

func (EarnedAchievement) TableName() string {
	return "earned_achievements"
}

// EarnedBadge records a granted badge id, at most once per user.
type EarnedBadge struct {
	BaseModel
	UserID  uint   `gorm:"index:idx_user_badge,unique;type:bigint unsigned;not null" json:"userId"`
	BadgeID string `gorm:"index:idx_user_badge,unique;size:64;not null" json:"badgeId"`
}

func (EarnedBadge) TableName() string {
	return "earned_badges"
}

// UserStats is the aggregate snapshot achievement predicates run against.
type UserStats struct {
	Points              int       `json:"points"`
	Level               int       `json:"level"`
	MaxStreak           int       `json:"maxStreak"`
	QuizzesCompleted    int       `json:"quizzesCompleted"`
	CorrectAnswers      int       `json:"correctAnswers"`
	PerfectScores       int       `json:"perfectScores"`
	CategoriesCompleted int       `json:"categoriesCompleted"`
	CategoriesMastered  int       `json:"categoriesMastered"`
	DailyStreak         int       `json:"dailyStreak"`
	FastestAnswer       float64   `json:"fastestAnswer"`
	Shares              int       `json:"shares"`
	LastActive          time.Time `json:"lastActive"`
}

// AchievementDef is a static achievement definition: a predicate over
// UserStats plus a one-time point bonus.
type AchievementDef struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Icon        string               `json:"icon"`
	Points      int                  `json:"points"`
	Category    string               `json:"category"`
	Condition   func(UserStats) bool `json:"-"`
}

// BadgeDef is a static badge definition gated on points and level thresholds.
type BadgeDef struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color"`
	MinPoints   int      `json:"minPoints"`
	MinLevel    int      `json:"minLevel"`
	Benefits    []string `json:"benefits"`
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Level  int    `json:"level"`
}

package service

import "wanderlust_backend/internal/model"

// Achievements checked after every finished quiz and every share. Order
// matters only for presentation.
var achievementDefs = []model.AchievementDef{
	{
		ID:          "first-quiz",
		Name:        "First Steps",
		Description: "Complete your first quiz",
		Icon:        "👶",
		Points:      50,
		Category:    "milestone",
		Condition:   func(s model.UserStats) bool { return s.QuizzesCompleted >= 1 },
	},
	{
		ID:          "quiz-master",
		Name:        "Quiz Master",
		Description: "Complete 10 quizzes",
		Icon:        "🎯",
		Points:      200,
		Category:    "milestone",
		Condition:   func(s model.UserStats) bool { return s.QuizzesCompleted >= 10 },
	},
	{
		ID:          "perfect-score",
		Name:        "Perfect Score",
		Description: "Get 100% on a quiz",
		Icon:        "💯",
		Points:      100,
		Category:    "performance",
		Condition:   func(s model.UserStats) bool { return s.PerfectScores >= 1 },
	},
	{
		ID:          "streak-master",
		Name:        "Streak Master",
		Description: "Answer 10 questions correctly in a row",
		Icon:        "🔥",
		Points:      150,
		Category:    "performance",
		Condition:   func(s model.UserStats) bool { return s.MaxStreak >= 10 },
	},
	{
		ID:          "speed-demon",
		Name:        "Speed Demon",
		Description: "Answer a question in under 5 seconds",
		Icon:        "⚡",
		Points:      75,
		Category:    "performance",
		Condition:   func(s model.UserStats) bool { return s.FastestAnswer > 0 && s.FastestAnswer <= 5 },
	},
	{
		ID:          "explorer",
		Name:        "Explorer",
		Description: "Complete quizzes in 5 different categories",
		Icon:        "🗺️",
		Points:      300,
		Category:    "exploration",
		Condition:   func(s model.UserStats) bool { return s.CategoriesCompleted >= 5 },
	},
	{
		ID:          "daily-champion",
		Name:        "Daily Champion",
		Description: "Complete a quiz for 7 consecutive days",
		Icon:        "📅",
		Points:      250,
		Category:    "consistency",
		Condition:   func(s model.UserStats) bool { return s.DailyStreak >= 7 },
	},
	{
		ID:          "knowledge-seeker",
		Name:        "Knowledge Seeker",
		Description: "Answer 100 questions correctly",
		Icon:        "🧠",
		Points:      400,
		Category:    "milestone",
		Condition:   func(s model.UserStats) bool { return s.CorrectAnswers >= 100 },
	},
	{
		ID:          "category-expert",
		Name:        "Category Expert",
		Description: "Master a specific travel category",
		Icon:        "🏆",
		Points:      500,
		Category:    "expertise",
		Condition:   func(s model.UserStats) bool { return s.CategoriesMastered >= 1 },
	},
	{
		ID:          "social-butterfly",
		Name:        "Social Butterfly",
		Description: "Share 5 achievements on social media",
		Icon:        "🦋",
		Points:      100,
		Category:    "social",
		Condition:   func(s model.UserStats) bool { return s.Shares >= 5 },
	},
}

// Badges are tiered on accumulated points and level.
var badgeDefs = []model.BadgeDef{
	{
		ID:          "bronze-explorer",
		Name:        "Bronze Explorer",
		Description: "Basic travel knowledge",
		Icon:        "🥉",
		Color:       "#cd7f32",
		MinPoints:   100,
		MinLevel:    1,
		Benefits:    []string{"Basic certificate", "Profile badge"},
	},
	{
		ID:          "silver-adventurer",
		Name:        "Silver Adventurer",
		Description: "Intermediate travel skills",
		Icon:        "🥈",
		Color:       "#c0c0c0",
		MinPoints:   300,
		MinLevel:    3,
		Benefits:    []string{"Intermediate certificate", "Exclusive content"},
	},
	{
		ID:          "gold-wanderer",
		Name:        "Gold Wanderer",
		Description: "Advanced travel expertise",
		Icon:        "🥇",
		Color:       "#ffd700",
		MinPoints:   600,
		MinLevel:    6,
		Benefits:    []string{"Advanced certificate", "Mentorship access"},
	},
	{
		ID:          "platinum-nomad",
		Name:        "Platinum Nomad",
		Description: "Expert travel mastery",
		Icon:        "💎",
		Color:       "#e5e4e2",
		MinPoints:   1000,
		MinLevel:    10,
		Benefits:    []string{"Expert certificate", "Content creation rights"},
	},
	{
		ID:          "diamond-globetrotter",
		Name:        "Diamond Globetrotter",
		Description: "Travel industry professional",
		Icon:        "💠",
		Color:       "#b9f2ff",
		MinPoints:   1500,
		MinLevel:    15,
		Benefits:    []string{"Professional certification", "Industry recognition"},
	},
}

func achievementByID(id string) *model.AchievementDef {
	for i := range achievementDefs {
		if achievementDefs[i].ID == id {
			return &achievementDefs[i]
		}
	}
	return nil
}

func badgeByID(id string) *model.BadgeDef {
	for i := range badgeDefs {
		if badgeDefs[i].ID == id {
			return &badgeDefs[i]
		}
	}
	return nil
}

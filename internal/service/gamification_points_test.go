package service

import (
	"testing"

	"wanderlust_backend/internal/model"
)

func TestQuizPoints(t *testing.T) {
	tests := []struct {
		name    string
		summary model.QuizSummary
		want    int
	}{
		{
			name: "base points only",
			summary: model.QuizSummary{
				CorrectAnswers: 7,
				MaxStreak:      3,
				AverageTime:    15,
				Percentage:     70,
				Difficulty:     model.Beginner,
			},
			want: 70,
		},
		{
			name: "streak bonus at five",
			summary: model.QuizSummary{
				CorrectAnswers: 6,
				MaxStreak:      5,
				AverageTime:    15,
				Percentage:     60,
				Difficulty:     model.Beginner,
			},
			want: 90,
		},
		{
			name: "speed bonus under ten seconds",
			summary: model.QuizSummary{
				CorrectAnswers: 4,
				MaxStreak:      2,
				AverageTime:    9.5,
				Percentage:     40,
				Difficulty:     model.Beginner,
			},
			want: 80,
		},
		{
			name: "perfect advanced run stacks everything",
			summary: model.QuizSummary{
				CorrectAnswers: 10,
				MaxStreak:      10,
				AverageTime:    8,
				Percentage:     100,
				Difficulty:     model.Advanced,
			},
			// 100 * 1.5 * 2 * 2.0 + 100
			want: 700,
		},
		{
			name: "perfect bonus added after multipliers",
			summary: model.QuizSummary{
				CorrectAnswers: 2,
				MaxStreak:      2,
				AverageTime:    20,
				Percentage:     100,
				Difficulty:     model.Beginner,
			},
			want: 120,
		},
		{
			name: "unknown difficulty falls back to beginner",
			summary: model.QuizSummary{
				CorrectAnswers: 5,
				MaxStreak:      0,
				AverageTime:    30,
				Percentage:     50,
				Difficulty:     model.Difficulty("impossible"),
			},
			want: 50,
		},
		{
			name:    "nothing correct earns nothing",
			summary: model.QuizSummary{Difficulty: model.Beginner},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quizPoints(&tt.summary); got != tt.want {
				t.Fatalf("quizPoints() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
		{1000, 11},
	}
	for _, tt := range tests {
		if got := model.LevelForPoints(tt.points); got != tt.want {
			t.Errorf("LevelForPoints(%d) = %d, want %d", tt.points, got, tt.want)
		}
	}
}

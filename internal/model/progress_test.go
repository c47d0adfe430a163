package model

import (
	"fmt"
	"testing"
	"time"
)

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 9, 30, 0, 0, time.UTC)
}

// Mirrors the quiz engine's ordering on finish: every answer is recorded
// (stamping LastActive) before the streak is touched. The streak must still
// grow across consecutive days.
func TestTouchDailyStreakGrowsAcrossDays(t *testing.T) {
	p := &UserProgress{UserID: 1}
	start := at(2026, time.March, 1)
	for i := 0; i < 10; i++ {
		now := start.AddDate(0, 0, i)
		p.RecordAnswer(fmt.Sprintf("q-%d", i), true, 12)
		p.TouchDailyStreak(now)
		p.LastActive = now
	}
	if p.DailyStreak != 10 {
		t.Fatalf("DailyStreak after 10 consecutive days = %d, want 10", p.DailyStreak)
	}
}

func TestTouchDailyStreak(t *testing.T) {
	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{"first activity", []time.Time{at(2026, time.March, 1)}, 1},
		{"same day twice", []time.Time{at(2026, time.March, 1), at(2026, time.March, 1)}, 1},
		{"next day", []time.Time{at(2026, time.March, 1), at(2026, time.March, 2)}, 2},
		{"month boundary", []time.Time{at(2026, time.January, 31), at(2026, time.February, 1)}, 2},
		{"gap resets", []time.Time{at(2026, time.March, 1), at(2026, time.March, 2), at(2026, time.March, 5)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &UserProgress{UserID: 1}
			for _, day := range tt.days {
				p.RecordAnswer("q-1", true, 10)
				p.TouchDailyStreak(day)
			}
			if p.DailyStreak != tt.want {
				t.Fatalf("DailyStreak = %d, want %d", p.DailyStreak, tt.want)
			}
		})
	}
}

func TestRecordAnswerCounters(t *testing.T) {
	p := &UserProgress{UserID: 1}
	p.RecordAnswer("q-1", true, 10)
	p.RecordAnswer("q-2", false, 20)

	if p.TotalQuestions != 2 || p.CorrectAnswers != 1 {
		t.Fatalf("counters = %d/%d, want 2/1", p.TotalQuestions, p.CorrectAnswers)
	}
	if got := len(p.AnsweredQuestions); got != 2 {
		t.Fatalf("answered list length = %d, want 2", got)
	}
	// Running average: (0+10)/2 = 5, then (5+20)/2 = 12.5.
	if p.AverageTime != 12.5 {
		t.Fatalf("AverageTime = %v, want 12.5", p.AverageTime)
	}
	if p.LastActive.IsZero() {
		t.Fatal("LastActive not stamped")
	}
}

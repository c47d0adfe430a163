package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type UserRole string

const (
	Traveler UserRole = "traveler"
	Editor   UserRole = "editor"
	Admin    UserRole = "admin"
)

type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('traveler','editor','admin');default:'traveler'" json:"role"`
	Language  string    `gorm:"size:10;default:'en'" json:"language"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// SkillLevels maps category -> difficulty tier, stored as a JSON column.
type SkillLevels map[string]Difficulty

func (s *SkillLevels) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("unsupported type %T for SkillLevels", value)
}

func (s SkillLevels) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

// UserProfile drives personalization. Read-mostly; created with defaults the
// first time a user is seen.
type UserProfile struct {
	BaseModel
	UserID              uint        `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	PreferredCategories StringList  `gorm:"type:json" json:"preferredCategories"`
	Interests           StringList  `gorm:"type:json" json:"interests"`
	SkillLevels         SkillLevels `gorm:"type:json" json:"skillLevels"`
	AverageScore        float64     `gorm:"default:0" json:"averageScore"` // 0-100
	TotalQuizzes        int         `gorm:"default:0" json:"totalQuizzes"`
	JoinedAt            time.Time   `json:"joinedAt"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// SkillLevelFor falls back to beginner for categories the user has no
// recorded level in.
func (p *UserProfile) SkillLevelFor(category string) Difficulty {
	if p == nil || p.SkillLevels == nil {
		return Beginner
	}
	if lvl, ok := p.SkillLevels[category]; ok && lvl.Valid() {
		return lvl
	}
	return Beginner
}

// DefaultProfile is what a brand-new traveler looks like before taking any
// quiz.
func DefaultProfile(userID uint) *UserProfile {
	return &UserProfile{
		UserID:              userID,
		PreferredCategories: StringList{},
		Interests:           StringList{},
		SkillLevels:         SkillLevels{},
		JoinedAt:            time.Now(),
	}
}

package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

type QuestionType string

const (
	MultipleChoice      QuestionType = "multiple-choice"
	TrueFalse           QuestionType = "true-false"
	FillInBlank         QuestionType = "fill-in-blank"
	Matching            QuestionType = "matching"
	ImageIdentification QuestionType = "image-identification"
)

func (t QuestionType) Valid() bool {
	switch t {
	case MultipleChoice, TrueFalse, FillInBlank, Matching, ImageIdentification:
		return true
	}
	return false
}

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// Rank orders difficulties beginner < intermediate < advanced. Unknown
// difficulties rank below beginner so they never pass skill-gap checks.
func (d Difficulty) Rank() int {
	switch d {
	case Beginner:
		return 0
	case Intermediate:
		return 1
	case Advanced:
		return 2
	}
	return -1
}

func (d Difficulty) Multiplier() float64 {
	switch d {
	case Intermediate:
		return 1.5
	case Advanced:
		return 2.0
	}
	return 1.0
}

// StringList is a []string stored as a JSON column.
type StringList []string

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported type %T for StringList", value)
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l StringList) Contains(s string) bool {
	for _, item := range l {
		if item == s {
			return true
		}
	}
	return false
}

type Question struct {
	BaseModel
	QuestionID  string          `gorm:"size:64;uniqueIndex;not null" json:"questionId"`
	Type        QuestionType    `gorm:"size:32;not null;index" json:"type"`
	Category    string          `gorm:"size:64;not null;index" json:"category"`
	Subcategory string          `gorm:"size:64;index" json:"subcategory"`
	Difficulty  Difficulty      `gorm:"size:16;not null;index" json:"difficulty"`
	Prompt      string          `gorm:"type:text;not null" json:"prompt"`
	Options     StringList      `gorm:"type:json" json:"options,omitempty"`
	Answer      json.RawMessage `gorm:"type:json" json:"-"` // type-dependent: index, bool, string, or match map
	Explanation string          `gorm:"type:text" json:"explanation"`
	Points      int             `gorm:"default:10" json:"points"`
	Tags        StringList      `gorm:"type:json" json:"tags"`
	ImageKey    string          `gorm:"size:255" json:"imageKey,omitempty"`

	// Usage statistics, mutated as answers come in. The authored difficulty
	// tier and point value above never change; DifficultyScore drifts within
	// [1,10] based on observed accuracy.
	TimesShown      int        `gorm:"default:0" json:"timesShown"`
	CorrectCount    int        `gorm:"default:0" json:"correctCount"`
	AverageTime     float64    `gorm:"default:0" json:"averageTime"`
	LastShown       *time.Time `json:"lastShown,omitempty"`
	DifficultyScore float64    `gorm:"default:1" json:"difficultyScore"`
}

func (Question) TableName() string {
	return "questions"
}

var (
	ErrAnswerShape = errors.New("answer does not match question type")
)

// CorrectIndex decodes the stored answer for choice-like questions.
func (q *Question) CorrectIndex() (int, error) {
	var idx int
	if err := json.Unmarshal(q.Answer, &idx); err != nil {
		return 0, ErrAnswerShape
	}
	return idx, nil
}

// CorrectBool decodes the stored answer for true-false questions.
func (q *Question) CorrectBool() (bool, error) {
	var b bool
	if err := json.Unmarshal(q.Answer, &b); err != nil {
		return false, ErrAnswerShape
	}
	return b, nil
}

// CorrectText decodes the stored answer for fill-in-blank questions.
func (q *Question) CorrectText() (string, error) {
	var s string
	if err := json.Unmarshal(q.Answer, &s); err != nil {
		return "", ErrAnswerShape
	}
	return s, nil
}

// CorrectMatches decodes the stored answer for matching questions.
func (q *Question) CorrectMatches() (map[string]string, error) {
	m := map[string]string{}
	if err := json.Unmarshal(q.Answer, &m); err != nil {
		return nil, ErrAnswerShape
	}
	return m, nil
}

// Validate reports every structural problem with an authored question.
func (q *Question) Validate() []string {
	var problems []string
	if strings.TrimSpace(q.QuestionID) == "" {
		problems = append(problems, "missing id")
	}
	if strings.TrimSpace(q.Prompt) == "" {
		problems = append(problems, "missing prompt")
	}
	if strings.TrimSpace(q.Category) == "" {
		problems = append(problems, "missing category")
	}
	if !q.Type.Valid() {
		problems = append(problems, fmt.Sprintf("unknown type %q", q.Type))
	}
	if !q.Difficulty.Valid() {
		problems = append(problems, fmt.Sprintf("unknown difficulty %q", q.Difficulty))
	}
	if q.Points < 0 {
		problems = append(problems, "negative points")
	}
	switch q.Type {
	case MultipleChoice, ImageIdentification:
		if len(q.Options) == 0 {
			problems = append(problems, "choice question without options")
		} else if idx, err := q.CorrectIndex(); err != nil || idx < 0 || idx >= len(q.Options) {
			problems = append(problems, "correct answer is not a valid option index")
		}
	case TrueFalse:
		if _, err := q.CorrectBool(); err != nil {
			problems = append(problems, "correct answer is not a boolean")
		}
	case FillInBlank:
		if s, err := q.CorrectText(); err != nil || strings.TrimSpace(s) == "" {
			problems = append(problems, "correct answer is not a non-empty string")
		}
	case Matching:
		if m, err := q.CorrectMatches(); err != nil || len(m) == 0 {
			problems = append(problems, "correct answer is not a non-empty match map")
		}
	}
	return problems
}

// CompositeKey is the catalog key the question is stored under.
func (q *Question) CompositeKey() string {
	return q.Category + "/" + q.Subcategory + "/" + q.QuestionID
}

package model

import (
	"strings"
	"time"
)

type QuestionType string

const (
	QuestionInput    QuestionType = "input"
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
)

type Quiz struct {
	BaseModel
	Title     string         `gorm:"size:150;not null" json:"title"`
	Questions []QuizQuestion `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Quiz) TableName() string { return "quizzes" }
func (q *Quiz) Kind() ContentKind { return KindQuiz }
func (q *Quiz) ItemID() uint { return q.ID }

// RewardPoints 题目分值之和，需要预加载 Questions
func (q *Quiz) RewardPoints() int {
	total := 0
	for _, qq := range q.Questions {
		total += qq.Points
	}
	return total
}

type QuizQuestion struct {
	BaseModel
	QuizID         uint         `gorm:"index;not null" json:"quizId"`
	Text           string       `gorm:"type:text;not null" json:"text"`
	ImageURL       string       `gorm:"size:500" json:"imageUrl"`
	QuestionType   QuestionType `gorm:"size:10;not null" json:"questionType"`
	Choices        string       `gorm:"type:text" json:"-"` // 分号分隔
	CorrectAnswers string       `gorm:"type:text" json:"-"` // 逗号分隔
	Points         int          `gorm:"default:1" json:"points"`
}

func (QuizQuestion) TableName() string { return "quiz_questions" }

func (q *QuizQuestion) ChoiceList() []string {
	if q.Choices == "" {
		return []string{}
	}
	parts := strings.Split(q.Choices, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func (q *QuizQuestion) CorrectList() []string {
	if q.CorrectAnswers == "" {
		return nil
	}
	parts := strings.Split(q.CorrectAnswers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// Check 判定答案：input 忽略大小写，single 精确匹配，multiple 比较集合
func (q *QuizQuestion) Check(answer string) bool {
	switch q.QuestionType {
	case QuestionInput:
		return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswers))
	case QuestionSingle:
		return strings.TrimSpace(answer) == strings.TrimSpace(q.CorrectAnswers)
	case QuestionMultiple:
		want := make(map[string]bool)
		for _, a := range q.CorrectList() {
			want[a] = true
		}
		got := make(map[string]bool)
		for _, a := range strings.Split(answer, ",") {
			got[strings.TrimSpace(a)] = true
		}
		if len(want) != len(got) {
			return false
		}
		for a := range got {
			if !want[a] {
				return false
			}
		}
		return true
	}
	return false
}

type QuizUserChoice struct {
	HardBase
	UserID        uint         `gorm:"uniqueIndex:idx_quiz_user;not null" json:"userId"`
	QuizID        uint         `gorm:"uniqueIndex:idx_quiz_user;not null" json:"quizId"`
	SubmittedAt   time.Time    `json:"submittedAt"`
	PointsAwarded bool         `gorm:"default:false" json:"pointsAwarded"`
	Answers       []QuizAnswer `gorm:"foreignKey:QuizUserChoiceID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (QuizUserChoice) TableName() string { return "quiz_user_choices" }

type QuizAnswer struct {
	ID               uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	QuizUserChoiceID uint   `gorm:"uniqueIndex:idx_quiz_answer;not null" json:"quizUserChoiceId"`
	QuestionID       uint   `gorm:"uniqueIndex:idx_quiz_answer;not null" json:"questionId"`
	UserAnswer       string `gorm:"type:text" json:"userAnswer"`
	IsCorrect        bool   `gorm:"default:false" json:"isCorrect"`
}

func (QuizAnswer) TableName() string { return "quiz_answers" }

package repository

import (
	"doe_backend/internal/model"
	"doe_backend/internal/util"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errQuizNotFound = util.Wrap(util.ErrNotFound, "quiz not found")

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) WithTx(tx *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: tx}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

// FindWithQuestions 题目按 id 排序，题号即下标 + 1
func (r *QuizRepository) FindWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).First(&quiz, id).Error
	if err != nil {
		return nil, translate(err, errQuizNotFound)
	}
	return &quiz, nil
}

func (r *QuizRepository) GetOrCreateChoice(userID, quizID uint) (*model.QuizUserChoice, error) {
	choice := model.QuizUserChoice{UserID: userID, QuizID: quizID, SubmittedAt: time.Now()}
	if err := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&choice).Error; err != nil {
		return nil, err
	}

	var stored model.QuizUserChoice
	if err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *QuizRepository) FindChoiceWithAnswers(userID, quizID uint) (*model.QuizUserChoice, error) {
	var choice model.QuizUserChoice
	err := r.DB.Preload("Answers").
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		First(&choice).Error
	if err != nil {
		return nil, translate(err, util.Wrap(util.ErrNotFound, "quiz not submitted"))
	}
	return &choice, nil
}

func (r *QuizRepository) UpsertAnswer(answer *model.QuizAnswer) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "quiz_user_choice_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_answer", "is_correct"}),
	}).Create(answer).Error
}

func (r *QuizRepository) TouchChoice(choiceID uint) error {
	return r.DB.Model(&model.QuizUserChoice{}).
		Where("id = ?", choiceID).
		Update("submitted_at", time.Now()).Error
}

// MarkPointsAwarded 只有从 false 翻转为 true 的那一次返回 true
func (r *QuizRepository) MarkPointsAwarded(choiceID uint) (bool, error) {
	res := r.DB.Model(&model.QuizUserChoice{}).
		Where("id = ? AND points_awarded = ?", choiceID, false).
		Update("points_awarded", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

package repository

import (
	"doe_backend/internal/model"
	"doe_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChitChatRepository struct {
	DB *gorm.DB
}

func NewChitChatRepository(db *gorm.DB) *ChitChatRepository {
	return &ChitChatRepository{DB: db}
}

func (r *ChitChatRepository) WithTx(tx *gorm.DB) *ChitChatRepository {
	return &ChitChatRepository{DB: tx}
}

func (r *ChitChatRepository) Create(chat *model.ChitChat) error {
	return r.DB.Create(chat).Error
}

func (r *ChitChatRepository) FindWithOptions(id uint) (*model.ChitChat, error) {
	var chat model.ChitChat
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).First(&chat, id).Error
	if err != nil {
		return nil, translate(err, util.Wrap(util.ErrNotFound, "chit chat not found"))
	}
	return &chat, nil
}

// FindUserChoice 未参与时返回 (nil, nil)
func (r *ChitChatRepository) FindUserChoice(userID, chitChatID uint) (*model.ChitChatUserChoice, error) {
	var choice model.ChitChatUserChoice
	err := r.DB.Preload("Answers").
		Where("user_id = ? AND chit_chat_id = ?", userID, chitChatID).
		First(&choice).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &choice, nil
}

// ReplaceAnswers 保存用户的选择，覆盖之前的全部答案
func (r *ChitChatRepository) ReplaceAnswers(userID, chitChatID uint, answers []model.ChitChatAnswer) error {
	choice := model.ChitChatUserChoice{UserID: userID, ChitChatID: chitChatID}
	if err := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&choice).Error; err != nil {
		return err
	}
	if err := r.DB.Where("user_id = ? AND chit_chat_id = ?", userID, chitChatID).First(&choice).Error; err != nil {
		return err
	}

	if err := r.DB.Where("user_choice_id = ?", choice.ID).Delete(&model.ChitChatAnswer{}).Error; err != nil {
		return err
	}
	if len(answers) == 0 {
		return nil
	}
	for i := range answers {
		answers[i].ID = 0
		answers[i].UserChoiceID = choice.ID
	}
	return r.DB.Create(&answers).Error
}

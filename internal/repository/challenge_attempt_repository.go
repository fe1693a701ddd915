package repository

import (
	"doe_backend/internal/model"
	"doe_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChallengeAttemptRepository 答案值存储：用户参与记录、提交与字段答案
type ChallengeAttemptRepository struct {
	DB *gorm.DB
}

func NewChallengeAttemptRepository(db *gorm.DB) *ChallengeAttemptRepository {
	return &ChallengeAttemptRepository{DB: db}
}

func (r *ChallengeAttemptRepository) WithTx(tx *gorm.DB) *ChallengeAttemptRepository {
	return &ChallengeAttemptRepository{DB: tx}
}

// GetOrCreateChoice 并发首提时依赖 (user, challenge) 唯一索引去重
func (r *ChallengeAttemptRepository) GetOrCreateChoice(userID, challengeID uint) (*model.ChallengeUserChoice, error) {
	choice := model.ChallengeUserChoice{UserID: userID, ChallengeID: challengeID}
	if err := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&choice).Error; err != nil {
		return nil, err
	}

	var stored model.ChallengeUserChoice
	err := r.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *ChallengeAttemptRepository) FindChoice(userID, challengeID uint) (*model.ChallengeUserChoice, error) {
	var choice model.ChallengeUserChoice
	err := r.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&choice).Error
	if err != nil {
		return nil, translate(err, util.ErrChoiceNotFound)
	}
	return &choice, nil
}

func (r *ChallengeAttemptRepository) FindChoiceByID(id uint) (*model.ChallengeUserChoice, error) {
	var choice model.ChallengeUserChoice
	if err := r.DB.First(&choice, id).Error; err != nil {
		return nil, translate(err, util.ErrChoiceNotFound)
	}
	return &choice, nil
}

// FindChoiceWithAttempts 用户尚未参与时返回 (nil, nil)
func (r *ChallengeAttemptRepository) FindChoiceWithAttempts(userID, challengeID uint) (*model.ChallengeUserChoice, error) {
	var choice model.ChallengeUserChoice
	err := r.DB.
		Preload("Attempts", func(db *gorm.DB) *gorm.DB {
			return db.Order("submitted_at").Order("id")
		}).
		Preload("Attempts.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&choice).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &choice, nil
}

// CreateAttempt 提交与其答案一并插入，答案按切片顺序写入
func (r *ChallengeAttemptRepository) CreateAttempt(attempt *model.ChallengeAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *ChallengeAttemptRepository) FindAttempt(id uint) (*model.ChallengeAttempt, error) {
	var attempt model.ChallengeAttempt
	err := r.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).First(&attempt, id).Error
	if err != nil {
		return nil, translate(err, util.ErrAttemptNotFound)
	}
	return &attempt, nil
}

// UpsertAnswers 按 (attempt, element) 插入或覆盖答案，未提供的字段保持不变
func (r *ChallengeAttemptRepository) UpsertAnswers(attemptID uint, answers []model.ChallengeAnswer) error {
	for i := range answers {
		answers[i].ID = 0
		answers[i].AttemptID = attemptID
		err := r.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "attempt_id"}, {Name: "element_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&answers[i]).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ChallengeAttemptRepository) SetDone(attemptID uint, done bool) error {
	return r.DB.Model(&model.ChallengeAttempt{}).
		Where("id = ?", attemptID).
		Update("is_done", done).Error
}

// DeleteAttempt 物理删除，答案先删以免依赖数据库外键级联。
// 指向被删提交的克隆改为指向其来源，克隆链不断开
func (r *ChallengeAttemptRepository) DeleteAttempt(attemptID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var attempt model.ChallengeAttempt
		if err := tx.Select("id", "cloned_from_id").First(&attempt, attemptID).Error; err != nil {
			return translate(err, util.ErrAttemptNotFound)
		}
		if err := tx.Model(&model.ChallengeAttempt{}).
			Where("cloned_from_id = ?", attemptID).
			Update("cloned_from_id", attempt.ClonedFromID).Error; err != nil {
			return err
		}
		if err := tx.Where("attempt_id = ?", attemptID).Delete(&model.ChallengeAnswer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ChallengeAttempt{}, attemptID).Error
	})
}

// CountPrimary 统计非 secondary 的主提交数。克隆属于原提交的编辑历史，只计链头
func (r *ChallengeAttemptRepository) CountPrimary(choiceID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ChallengeAttempt{}).
		Where("choice_id = ? AND is_secondary = ? AND cloned_from_id IS NULL", choiceID, false).
		Count(&count).Error
	return count, err
}

func (r *ChallengeAttemptRepository) CountAttempts(choiceID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ChallengeAttempt{}).Where("choice_id = ?", choiceID).Count(&count).Error
	return count, err
}

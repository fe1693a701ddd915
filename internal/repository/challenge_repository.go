package repository

import (
	"doe_backend/internal/model"
	"doe_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) WithTx(tx *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: tx}
}

// byOrder "order" 是保留字，必须经由 clause 引用
func byOrder(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).Order("id")
}

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

func (r *ChallengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := r.DB.First(&challenge, id).Error; err != nil {
		return nil, translate(err, util.ErrChallengeNotFound)
	}
	return &challenge, nil
}

// FindWithLayout 预加载字段与展示配置
func (r *ChallengeRepository) FindWithLayout(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.
		Preload("Elements", byOrder).
		Preload("DisplaySettings").
		Preload("DisplaySettings.TextFields", byOrder).
		Preload("DisplaySettings.TableColumns", byOrder).
		First(&challenge, id).Error
	if err != nil {
		return nil, translate(err, util.ErrChallengeNotFound)
	}
	return &challenge, nil
}

// ElementIDs 挑战下所有字段 id 的集合
func (r *ChallengeRepository) ElementIDs(challengeID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.ChallengeElement{}).
		Where("challenge_id = ?", challengeID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// SaveDisplaySettings 覆盖挑战的展示配置
func (r *ChallengeRepository) SaveDisplaySettings(settings *model.ChallengeDisplaySettings) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.ChallengeDisplaySettings
		err := tx.Where("challenge_id = ?", settings.ChallengeID).First(&existing).Error
		if err == nil {
			if err := tx.Where("settings_id = ?", existing.ID).Delete(&model.TextFieldOrder{}).Error; err != nil {
				return err
			}
			if err := tx.Where("settings_id = ?", existing.ID).Delete(&model.TableColumn{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Delete(&existing).Error; err != nil {
				return err
			}
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
		return tx.Create(settings).Error
	})
}

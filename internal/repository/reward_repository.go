package repository

import (
	"doe_backend/internal/model"
	"doe_backend/internal/util"

	"gorm.io/gorm"
)

type RewardRepository struct {
	DB *gorm.DB
}

func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{DB: db}
}

func (r *RewardRepository) WithTx(tx *gorm.DB) *RewardRepository {
	return &RewardRepository{DB: tx}
}

func (r *RewardRepository) List() ([]model.Reward, error) {
	var rewards []model.Reward
	err := r.DB.Order("points_needed").Order("id").Find(&rewards).Error
	return rewards, err
}

func (r *RewardRepository) FindByID(id uint) (*model.Reward, error) {
	var reward model.Reward
	if err := r.DB.First(&reward, id).Error; err != nil {
		return nil, translate(err, util.Wrap(util.ErrNotFound, "reward not found"))
	}
	return &reward, nil
}

func (r *RewardRepository) CreateUserReward(ur *model.UserReward) error {
	return r.DB.Create(ur).Error
}

func (r *RewardRepository) ListUserRewards(userID uint) ([]model.UserReward, error) {
	var list []model.UserReward
	err := r.DB.Preload("Reward").
		Where("user_id = ?", userID).
		Order("redeemed_at DESC").
		Find(&list).Error
	return list, err
}

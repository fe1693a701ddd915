package service

import (
	"context"
	"doe_backend/internal/config"
	"doe_backend/internal/model"
	"doe_backend/internal/repository"
	"doe_backend/internal/util"
	"doe_backend/pkg/logger"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RewardService struct {
	DB         *gorm.DB
	RewardRepo *repository.RewardRepository
	UserRepo   *repository.UserRepository
	Mailer     Mailer
	Cfg        *config.Config
}

func NewRewardService(db *gorm.DB, rewardRepo *repository.RewardRepository, userRepo *repository.UserRepository, mailer Mailer, cfg *config.Config) *RewardService {
	return &RewardService{
		DB:         db,
		RewardRepo: rewardRepo,
		UserRepo:   userRepo,
		Mailer:     mailer,
		Cfg:        cfg,
	}
}

type RedeemResult struct {
	Message   string `json:"message"`
	NewPoints int    `json:"new_points"`
}

func (s *RewardService) List(ctx context.Context) ([]model.Reward, error) {
	return s.RewardRepo.List()
}

// Redeem 扣分与兑换记录在同一事务中完成；通知邮件失败只记录日志
func (s *RewardService) Redeem(ctx context.Context, userID, rewardID uint) (*RedeemResult, error) {
	reward, err := s.RewardRepo.FindByID(rewardID)
	if err != nil {
		return nil, err
	}

	var user *model.User
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.UserRepo.WithTx(tx).SpendPoints(userID, reward.PointsNeeded)
		if err != nil {
			return err
		}
		if !ok {
			return util.ErrNotEnoughPoints
		}

		err = s.RewardRepo.WithTx(tx).CreateUserReward(&model.UserReward{
			UserID:      userID,
			RewardID:    reward.ID,
			PointsSpent: reward.PointsNeeded,
			RedeemedAt:  time.Now(),
		})
		if err != nil {
			return err
		}

		user, err = s.UserRepo.WithTx(tx).FindByID(userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, user, reward)

	return &RedeemResult{
		Message:   fmt.Sprintf("You have successfully redeemed \"%s\"!", reward.Title),
		NewPoints: user.Points,
	}, nil
}

func (s *RewardService) notify(ctx context.Context, user *model.User, reward *model.Reward) {
	to := s.Cfg.Mail.AdminAddress
	if to == "" {
		to = s.Cfg.Mail.From
	}
	body := fmt.Sprintf("User %s redeemed reward:\n\nReward: %s\nPoints: %d\nDate: %s\n",
		user.Email, reward.Title, reward.PointsNeeded, time.Now().Format("2006-01-02 15:04"))

	if err := s.Mailer.Send(ctx, "New Reward Redeemed: "+reward.Title, body, "", []string{to}); err != nil {
		logger.Log.Error("Reward notification failed",
			zap.Uint("userID", user.ID),
			zap.Uint("rewardID", reward.ID),
			zap.Error(err))
	}
}

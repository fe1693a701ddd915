package service

import (
	"context"
	"doe_backend/internal/model"
	"doe_backend/internal/repository"
	"doe_backend/pkg/logger"
	"doe_backend/pkg/monitoring"
	"doe_backend/pkg/tracing"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SettleResult struct {
	Awarded bool `json:"awarded"`
	Points  int  `json:"points"`
}

// SettlementService 内容完成后的积分结算，同一 (用户, 内容) 至多发放一次
type SettlementService struct {
	DB             *gorm.DB
	ChallengeRepo  *repository.ChallengeRepository
	AttemptRepo    *repository.ChallengeAttemptRepository
	CompletionRepo *repository.CompletionRepository
}

func NewSettlementService(db *gorm.DB, challengeRepo *repository.ChallengeRepository, attemptRepo *repository.ChallengeAttemptRepository, completionRepo *repository.CompletionRepository) *SettlementService {
	return &SettlementService{
		DB:             db,
		ChallengeRepo:  challengeRepo,
		AttemptRepo:    attemptRepo,
		CompletionRepo: completionRepo,
	}
}

// Settle 非 secondary 提交数达到门槛时，把挑战加入完成集合并加分。
// 计数、插入与加分在同一事务内，任何一步失败整体回滚。
func (s *SettlementService) Settle(ctx context.Context, choiceID uint) (SettleResult, error) {
	ctx, span := tracing.StartSpan(ctx, "settlement.challenge")
	defer span.End()

	var result SettleResult
	outcome := "below_threshold"
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		choice, err := s.AttemptRepo.WithTx(tx).FindChoiceByID(choiceID)
		if err != nil {
			return err
		}
		challenge, err := s.ChallengeRepo.WithTx(tx).FindByID(choice.ChallengeID)
		if err != nil {
			return err
		}

		count, err := s.AttemptRepo.WithTx(tx).CountPrimary(choice.ID)
		if err != nil {
			return err
		}
		if count < int64(challenge.MinAnswersRequired) {
			return nil
		}

		awarded, err := s.CompletionRepo.WithTx(tx).Award(choice.UserID, model.KindChallenge, challenge.ID, challenge.Points)
		if err != nil {
			return err
		}
		if awarded {
			outcome = "awarded"
			result = SettleResult{Awarded: true, Points: challenge.Points}
		} else {
			outcome = "skipped"
		}
		return nil
	})
	if err != nil {
		return SettleResult{}, err
	}

	monitoring.ObserveSettlement(string(model.KindChallenge), outcome, result.Points)
	if result.Awarded {
		logger.Log.Info("Challenge points awarded",
			zap.Uint("choiceID", choiceID),
			zap.Int("points", result.Points))
	}
	return result, nil
}

// SettleItem 非挑战内容的结算：直接尝试加入完成集合
func (s *SettlementService) SettleItem(ctx context.Context, userID uint, item model.ContentItem) (SettleResult, error) {
	ctx, span := tracing.StartSpan(ctx, "settlement."+string(item.Kind()))
	defer span.End()

	var result SettleResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		awarded, err := s.CompletionRepo.WithTx(tx).Award(userID, item.Kind(), item.ItemID(), item.RewardPoints())
		if err != nil {
			return err
		}
		if awarded {
			result = SettleResult{Awarded: true, Points: item.RewardPoints()}
		}
		return nil
	})
	if err != nil {
		return SettleResult{}, err
	}

	outcome := "skipped"
	if result.Awarded {
		outcome = "awarded"
	}
	monitoring.ObserveSettlement(string(item.Kind()), outcome, result.Points)
	return result, nil
}

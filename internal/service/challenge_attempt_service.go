package service

import (
	"context"
	"doe_backend/internal/model"
	"doe_backend/internal/repository"
	"doe_backend/internal/util"
	"doe_backend/pkg/logger"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChallengeAttemptService 提交的生命周期：创建、编辑、完成标记、删除与克隆
type ChallengeAttemptService struct {
	DB            *gorm.DB
	ChallengeRepo *repository.ChallengeRepository
	AttemptRepo   *repository.ChallengeAttemptRepository
}

func NewChallengeAttemptService(db *gorm.DB, challengeRepo *repository.ChallengeRepository, attemptRepo *repository.ChallengeAttemptRepository) *ChallengeAttemptService {
	return &ChallengeAttemptService{
		DB:            db,
		ChallengeRepo: challengeRepo,
		AttemptRepo:   attemptRepo,
	}
}

// AttemptStatus 批量保存状态时的一项
type AttemptStatus struct {
	ID               uint `json:"id" binding:"required"`
	IsDone           bool `json:"is_done"`
	CancelEditDelete bool `json:"cancel_edit_delete"`
}

// answerRows 丢弃不属于挑战的字段，并按字段 id 升序（即字段创建顺序）排列
func answerRows(answers map[uint]string, valid map[uint]bool) []model.ChallengeAnswer {
	ids := make([]uint, 0, len(answers))
	for id := range answers {
		if valid[id] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([]model.ChallengeAnswer, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, model.ChallengeAnswer{ElementID: id, Value: answers[id]})
	}
	return rows
}

func (s *ChallengeAttemptService) validElements(tx *gorm.DB, challengeID uint) (map[uint]bool, error) {
	return s.ChallengeRepo.WithTx(tx).ElementIDs(challengeID)
}

// CreateAttempt 接受部分提交，提交与答案在同一事务中写入
func (s *ChallengeAttemptService) CreateAttempt(ctx context.Context, choiceID uint, answers map[uint]string, secondary bool) (*model.ChallengeAttempt, error) {
	var attempt *model.ChallengeAttempt
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		choice, err := s.AttemptRepo.WithTx(tx).FindChoiceByID(choiceID)
		if err != nil {
			return err
		}
		valid, err := s.validElements(tx, choice.ChallengeID)
		if err != nil {
			return err
		}

		attempt = &model.ChallengeAttempt{
			ChoiceID:    choice.ID,
			IsSecondary: secondary,
			Answers:     answerRows(answers, valid),
		}
		return s.AttemptRepo.WithTx(tx).CreateAttempt(attempt)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Debug("Challenge attempt created",
		zap.Uint("attemptID", attempt.ID),
		zap.Uint("choiceID", choiceID),
		zap.Int("answers", len(attempt.Answers)),
		zap.Bool("secondary", secondary))
	return attempt, nil
}

// owned 加载提交并校验归属
func (s *ChallengeAttemptService) owned(tx *gorm.DB, userID, attemptID uint) (*model.ChallengeAttempt, *model.ChallengeUserChoice, error) {
	repo := s.AttemptRepo.WithTx(tx)
	attempt, err := repo.FindAttempt(attemptID)
	if err != nil {
		return nil, nil, err
	}
	choice, err := repo.FindChoiceByID(attempt.ChoiceID)
	if err != nil {
		return nil, nil, err
	}
	if choice.UserID != userID {
		return nil, nil, util.ErrNotAttemptOwner
	}
	return attempt, choice, nil
}

// Owner 返回提交所属的参与记录，供控制器构造跳转地址
func (s *ChallengeAttemptService) Owner(ctx context.Context, userID, attemptID uint) (*model.ChallengeAttempt, *model.ChallengeUserChoice, error) {
	return s.owned(s.DB.WithContext(ctx), userID, attemptID)
}

// UpdateAttempt 只覆盖提供了值的字段，其余答案保持不变
func (s *ChallengeAttemptService) UpdateAttempt(ctx context.Context, userID, attemptID uint, answers map[uint]string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, choice, err := s.owned(tx, userID, attemptID)
		if err != nil {
			return err
		}
		valid, err := s.validElements(tx, choice.ChallengeID)
		if err != nil {
			return err
		}
		return s.AttemptRepo.WithTx(tx).UpsertAnswers(attemptID, answerRows(answers, valid))
	})
}

func (s *ChallengeAttemptService) ToggleDone(ctx context.Context, userID, attemptID uint, done bool) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.toggleDone(tx, userID, attemptID, done)
	})
}

func (s *ChallengeAttemptService) toggleDone(tx *gorm.DB, userID, attemptID uint, done bool) error {
	if _, _, err := s.owned(tx, userID, attemptID); err != nil {
		return err
	}
	return s.AttemptRepo.WithTx(tx).SetDone(attemptID, done)
}

// DeleteAttempt 物理删除提交及其答案
func (s *ChallengeAttemptService) DeleteAttempt(ctx context.Context, userID, attemptID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, _, err := s.owned(tx, userID, attemptID); err != nil {
			return err
		}
		return s.AttemptRepo.WithTx(tx).DeleteAttempt(attemptID)
	})
}

// CancelEditClone 在同一参与记录下复制一条新提交，原提交不变
func (s *ChallengeAttemptService) CancelEditClone(ctx context.Context, userID, attemptID uint, done bool) (*model.ChallengeAttempt, error) {
	var clone *model.ChallengeAttempt
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		clone, err = s.cancelEditClone(tx, userID, attemptID, done)
		return err
	})
	return clone, err
}

func (s *ChallengeAttemptService) cancelEditClone(tx *gorm.DB, userID, attemptID uint, done bool) (*model.ChallengeAttempt, error) {
	src, _, err := s.owned(tx, userID, attemptID)
	if err != nil {
		return nil, err
	}

	sourceID := src.ID
	clone := &model.ChallengeAttempt{
		ChoiceID:     src.ChoiceID,
		IsDone:       done,
		IsSecondary:  src.IsSecondary,
		ClonedFromID: &sourceID,
		Answers:      make([]model.ChallengeAnswer, 0, len(src.Answers)),
	}
	for _, a := range src.Answers {
		clone.Answers = append(clone.Answers, model.ChallengeAnswer{ElementID: a.ElementID, Value: a.Value})
	}

	if err := s.AttemptRepo.WithTx(tx).CreateAttempt(clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// SaveStatuses 批量保存：cancel_edit_delete 的项克隆为新提交，其余只更新完成状态。全部成功或全部回滚
func (s *ChallengeAttemptService) SaveStatuses(ctx context.Context, userID uint, items []AttemptStatus) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if item.CancelEditDelete {
				if _, err := s.cancelEditClone(tx, userID, item.ID, item.IsDone); err != nil {
					return err
				}
				continue
			}
			if err := s.toggleDone(tx, userID, item.ID, item.IsDone); err != nil {
				return err
			}
		}
		return nil
	})
}

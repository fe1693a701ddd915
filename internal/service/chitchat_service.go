package service

import (
	"context"
	"doe_backend/internal/model"
	"doe_backend/internal/repository"
	"fmt"

	"gorm.io/gorm"
)

type ChitChatService struct {
	DB           *gorm.DB
	ChitChatRepo *repository.ChitChatRepository
	Settlement   *SettlementService
}

func NewChitChatService(db *gorm.DB, chitChatRepo *repository.ChitChatRepository, settlement *SettlementService) *ChitChatService {
	return &ChitChatService{DB: db, ChitChatRepo: chitChatRepo, Settlement: settlement}
}

type ChitChatPair struct {
	ID         uint   `json:"id"`
	Option1    string `json:"option1"`
	Option2    string `json:"option2"`
	UserAnswer string `json:"userAnswer"`
}

type ChitChatDetail struct {
	ID     uint           `json:"id"`
	Title  string         `json:"title"`
	Points int            `json:"points"`
	Pairs  []ChitChatPair `json:"pairs"`
}

// Detail 选项对附带用户之前的选择
func (s *ChitChatService) Detail(ctx context.Context, userID, chitChatID uint) (*ChitChatDetail, error) {
	chat, err := s.ChitChatRepo.FindWithOptions(chitChatID)
	if err != nil {
		return nil, err
	}
	choice, err := s.ChitChatRepo.FindUserChoice(userID, chitChatID)
	if err != nil {
		return nil, err
	}

	previous := make(map[uint]string)
	if choice != nil {
		for _, a := range choice.Answers {
			previous[a.OptionID] = a.Answer
		}
	}

	detail := &ChitChatDetail{ID: chat.ID, Title: chat.Title, Points: chat.Points, Pairs: make([]ChitChatPair, 0, len(chat.Options))}
	for _, o := range chat.Options {
		detail.Pairs = append(detail.Pairs, ChitChatPair{
			ID:         o.ID,
			Option1:    o.Option1,
			Option2:    o.Option2,
			UserAnswer: previous[o.ID],
		})
	}
	return detail, nil
}

// Submit 覆盖用户的选择，首次提交时结算积分。answers 以选项对 id 为键
func (s *ChitChatService) Submit(ctx context.Context, userID, chitChatID uint, answers map[uint]string) (SettleResult, string, error) {
	chat, err := s.ChitChatRepo.FindWithOptions(chitChatID)
	if err != nil {
		return SettleResult{}, "", err
	}

	rows := make([]model.ChitChatAnswer, 0, len(answers))
	for _, o := range chat.Options {
		if v, ok := answers[o.ID]; ok && v != "" {
			rows = append(rows, model.ChitChatAnswer{OptionID: o.ID, Answer: v})
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.ChitChatRepo.WithTx(tx).ReplaceAnswers(userID, chitChatID, rows)
	})
	if err != nil {
		return SettleResult{}, "", err
	}

	result, err := s.Settlement.SettleItem(ctx, userID, chat)
	if err != nil {
		return SettleResult{}, "", err
	}
	if result.Awarded {
		return result, fmt.Sprintf("Chit chat done! You get %d points", result.Points), nil
	}
	return result, "Answer saved!", nil
}

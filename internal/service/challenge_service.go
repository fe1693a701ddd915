package service

import (
	"context"
	"doe_backend/internal/challenge"
	"doe_backend/internal/model"
	"doe_backend/internal/repository"
)

type ChallengeService struct {
	ChallengeRepo *repository.ChallengeRepository
	AttemptRepo   *repository.ChallengeAttemptRepository
	Lifecycle     *ChallengeAttemptService
	Settlement    *SettlementService
}

func NewChallengeService(
	challengeRepo *repository.ChallengeRepository,
	attemptRepo *repository.ChallengeAttemptRepository,
	lifecycle *ChallengeAttemptService,
	settlement *SettlementService,
) *ChallengeService {
	return &ChallengeService{
		ChallengeRepo: challengeRepo,
		AttemptRepo:   attemptRepo,
		Lifecycle:     lifecycle,
		Settlement:    settlement,
	}
}

type ChallengeWelcome struct {
	Challenge  *model.Challenge `json:"challenge"`
	HasAnswers bool             `json:"hasAnswers"`
}

// ChallengeForm 新增或编辑提交时的表单，AttemptID 仅编辑时存在
type ChallengeForm struct {
	Challenge *model.Challenge        `json:"challenge"`
	Elements  []challenge.FormElement `json:"elements"`
	Editing   bool                    `json:"editing"`
	AttemptID uint                    `json:"attemptId,omitempty"`
}

type ChallengeView struct {
	Challenge *model.Challenge `json:"challenge"`
	challenge.Projection
	SubmitEnabled   bool                    `json:"submitEnabled"`
	ConfirmElements []challenge.FormElement `json:"confirmElements"`
	Messages        []FlashMessage          `json:"messages"`
}

func (s *ChallengeService) Welcome(ctx context.Context, userID, challengeID uint) (*ChallengeWelcome, error) {
	ch, err := s.ChallengeRepo.FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	choice, err := s.AttemptRepo.FindChoiceWithAttempts(userID, challengeID)
	if err != nil {
		return nil, err
	}
	return &ChallengeWelcome{Challenge: ch, HasAnswers: choice != nil}, nil
}

// AddForm 新增提交的表单，只包含确认前显示的字段
func (s *ChallengeService) AddForm(ctx context.Context, challengeID uint) (*ChallengeForm, error) {
	ch, err := s.ChallengeRepo.FindWithLayout(challengeID)
	if err != nil {
		return nil, err
	}
	return &ChallengeForm{
		Challenge: ch,
		Elements:  challenge.FormElements(ch.Elements, false, nil),
	}, nil
}

// EditForm 编辑已有提交，字段附带当前答案
func (s *ChallengeService) EditForm(ctx context.Context, userID, attemptID uint) (*ChallengeForm, error) {
	attempt, choice, err := s.Lifecycle.Owner(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	ch, err := s.ChallengeRepo.FindWithLayout(choice.ChallengeID)
	if err != nil {
		return nil, err
	}

	values := make(map[uint]string, len(attempt.Answers))
	for _, a := range attempt.Answers {
		values[a.ElementID] = a.Value
	}
	return &ChallengeForm{
		Challenge: ch,
		Elements:  challenge.FormElements(ch.Elements, false, values),
		Editing:   true,
		AttemptID: attempt.ID,
	}, nil
}

// View 按展示配置投影用户的全部提交
func (s *ChallengeService) View(ctx context.Context, userID, challengeID uint) (*ChallengeView, error) {
	ch, err := s.ChallengeRepo.FindWithLayout(challengeID)
	if err != nil {
		return nil, err
	}
	choice, err := s.AttemptRepo.FindChoiceWithAttempts(userID, challengeID)
	if err != nil {
		return nil, err
	}

	projection := challenge.Project(challenge.ProjectionInput{Challenge: ch, Choice: choice})
	return &ChallengeView{
		Challenge:       ch,
		Projection:      projection,
		SubmitEnabled:   projection.SubmitEnabled(),
		ConfirmElements: challenge.FormElements(ch.Elements, true, nil),
		Messages:        []FlashMessage{},
	}, nil
}

// SubmitInAdd 创建一条主提交并尝试结算
func (s *ChallengeService) SubmitInAdd(ctx context.Context, userID, challengeID uint, answers map[uint]string) (SettleResult, error) {
	if _, err := s.ChallengeRepo.FindByID(challengeID); err != nil {
		return SettleResult{}, err
	}
	choice, err := s.AttemptRepo.GetOrCreateChoice(userID, challengeID)
	if err != nil {
		return SettleResult{}, err
	}
	if _, err := s.Lifecycle.CreateAttempt(ctx, choice.ID, answers, false); err != nil {
		return SettleResult{}, err
	}
	return s.Settlement.Settle(ctx, choice.ID)
}

// Submit 创建一条 secondary 提交，不参与结算
func (s *ChallengeService) Submit(ctx context.Context, userID, challengeID uint, answers map[uint]string) (*model.ChallengeAttempt, error) {
	if _, err := s.ChallengeRepo.FindByID(challengeID); err != nil {
		return nil, err
	}
	choice, err := s.AttemptRepo.GetOrCreateChoice(userID, challengeID)
	if err != nil {
		return nil, err
	}
	return s.Lifecycle.CreateAttempt(ctx, choice.ID, answers, true)
}

package service

import (
	"context"
	"doe_backend/internal/model"
	"doe_backend/internal/repository"
	"doe_backend/internal/util"
	"doe_backend/pkg/logger"
	"doe_backend/pkg/monitoring"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	DB             *gorm.DB
	QuizRepo       *repository.QuizRepository
	CompletionRepo *repository.CompletionRepository
}

func NewQuizService(db *gorm.DB, quizRepo *repository.QuizRepository, completionRepo *repository.CompletionRepository) *QuizService {
	return &QuizService{DB: db, QuizRepo: quizRepo, CompletionRepo: completionRepo}
}

type QuestionView struct {
	Question        string             `json:"question"`
	Image           *string            `json:"image"`
	QuestionType    model.QuestionType `json:"question_type"`
	Choices         []string           `json:"choices"`
	CurrentQuestion int                `json:"current_question"`
	TotalQuestions  int                `json:"total_questions"`
}

// Question num 从 1 开始
func (s *QuizService) Question(ctx context.Context, quizID uint, num int) (*QuestionView, error) {
	quiz, err := s.QuizRepo.FindWithQuestions(quizID)
	if err != nil {
		return nil, err
	}
	if num <= 0 || num > len(quiz.Questions) {
		return nil, util.Wrap(util.ErrValidation, "Invalid question number")
	}

	q := quiz.Questions[num-1]
	view := &QuestionView{
		Question:        q.Text,
		QuestionType:    q.QuestionType,
		Choices:         []string{},
		CurrentQuestion: num,
		TotalQuestions:  len(quiz.Questions),
	}
	if q.ImageURL != "" {
		image := q.ImageURL
		view.Image = &image
	}
	if q.QuestionType == model.QuestionSingle || q.QuestionType == model.QuestionMultiple {
		view.Choices = q.ChoiceList()
	}
	return view, nil
}

type QuizSubmission struct {
	QuizID  uint              `json:"quiz_id" binding:"required"`
	Answers map[string]string `json:"answers" binding:"required"`
}

// Submit 按题号保存答案与判定结果，题号越界或无法解析的条目被忽略
func (s *QuizService) Submit(ctx context.Context, userID uint, in QuizSubmission) error {
	if len(in.Answers) == 0 {
		return util.Wrap(util.ErrValidation, "Missing quiz_id or answers")
	}
	quiz, err := s.QuizRepo.FindWithQuestions(in.QuizID)
	if err != nil {
		return err
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.QuizRepo.WithTx(tx)
		choice, err := repo.GetOrCreateChoice(userID, quiz.ID)
		if err != nil {
			return err
		}

		for key, answer := range in.Answers {
			num, err := strconv.Atoi(key)
			if err != nil || num <= 0 || num > len(quiz.Questions) {
				continue
			}
			q := quiz.Questions[num-1]
			row := &model.QuizAnswer{
				QuizUserChoiceID: choice.ID,
				QuestionID:       q.ID,
				UserAnswer:       answer,
				IsCorrect:        q.Check(answer),
			}
			if err := repo.UpsertAnswer(row); err != nil {
				return err
			}
		}
		return repo.TouchChoice(choice.ID)
	})
}

type IncorrectQuestion struct {
	QuestionID    uint   `json:"questionId"`
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
}

type QuizResult struct {
	QuizID               uint                `json:"quizId"`
	CorrectCount         int                 `json:"correctCount"`
	IncorrectCount       int                 `json:"incorrectCount"`
	TotalQuestions       int                 `json:"totalQuestions"`
	EarnedPoints         int                 `json:"earnedPoints"`
	MaxPossiblePoints    int                 `json:"maxPossiblePoints"`
	PointsAwardedAlready bool                `json:"pointsAwardedAlready"`
	Incorrect            []IncorrectQuestion `json:"incorrect"`
}

// Results 统计得分，首次查看时发放答对题目的分值
func (s *QuizService) Results(ctx context.Context, userID, quizID uint) (*QuizResult, error) {
	quiz, err := s.QuizRepo.FindWithQuestions(quizID)
	if err != nil {
		return nil, err
	}
	choice, err := s.QuizRepo.FindChoiceWithAnswers(userID, quizID)
	if err != nil {
		return nil, err
	}

	questions := make(map[uint]model.QuizQuestion, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions[q.ID] = q
	}

	res := &QuizResult{
		QuizID:            quiz.ID,
		TotalQuestions:    len(quiz.Questions),
		MaxPossiblePoints: quiz.RewardPoints(),
		Incorrect:         []IncorrectQuestion{},
	}
	for _, a := range choice.Answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			continue
		}
		if a.IsCorrect {
			res.CorrectCount++
			res.EarnedPoints += q.Points
			continue
		}
		res.IncorrectCount++
		res.Incorrect = append(res.Incorrect, IncorrectQuestion{
			QuestionID:    q.ID,
			Question:      q.Text,
			UserAnswer:    a.UserAnswer,
			CorrectAnswer: q.CorrectAnswers,
		})
	}
	sort.Slice(res.Incorrect, func(i, j int) bool { return res.Incorrect[i].QuestionID < res.Incorrect[j].QuestionID })

	awarded := false
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flipped, err := s.QuizRepo.WithTx(tx).MarkPointsAwarded(choice.ID)
		if err != nil || !flipped {
			return err
		}
		awarded, err = s.CompletionRepo.WithTx(tx).Award(userID, model.KindQuiz, quiz.ID, res.EarnedPoints)
		return err
	})
	if err != nil {
		return nil, err
	}

	res.PointsAwardedAlready = !awarded
	outcome := "skipped"
	if awarded {
		outcome = "awarded"
		logger.Log.Info("Quiz points awarded", zap.Uint("userID", userID), zap.Uint("quizID", quiz.ID), zap.Int("points", res.EarnedPoints))
	}
	monitoring.ObserveSettlement(string(model.KindQuiz), outcome, res.EarnedPoints)
	return res, nil
}

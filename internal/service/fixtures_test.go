package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"doe_backend/internal/config"
	"doe_backend/internal/model"
	"doe_backend/internal/repository"
	"doe_backend/internal/testutil"
	"doe_backend/internal/util"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	users      *repository.UserRepository
	completion *repository.CompletionRepository
	challenges *repository.ChallengeRepository
	attempts   *repository.ChallengeAttemptRepository
	settlement *SettlementService
	lifecycle  *ChallengeAttemptService
	challenge  *ChallengeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	f := &fixture{
		db:         db,
		users:      repository.NewUserRepository(db),
		completion: repository.NewCompletionRepository(db),
		challenges: repository.NewChallengeRepository(db),
		attempts:   repository.NewChallengeAttemptRepository(db),
	}
	f.settlement = NewSettlementService(db, f.challenges, f.attempts, f.completion)
	f.lifecycle = NewChallengeAttemptService(db, f.challenges, f.attempts)
	f.challenge = NewChallengeService(f.challenges, f.attempts, f.lifecycle, f.settlement)
	return f
}

func (f *fixture) user(t *testing.T, email string, points int) *model.User {
	t.Helper()
	u := &model.User{Name: "Tester", Email: email, Password: "x", Role: model.Student, Points: points}
	require.NoError(t, f.users.Create(u))
	return u
}

// challengeWith 创建带两个字段的挑战，返回挑战与字段 id
func (f *fixture) challengeWith(t *testing.T, points, minRequired int) (*model.Challenge, uint, uint) {
	t.Helper()
	c := &model.Challenge{
		Title:              "Track your spending",
		Points:             points,
		MinAnswersRequired: minRequired,
		Elements: []model.ChallengeElement{
			{Name: "Item", Kind: model.ElementInput, Order: 1},
			{Name: "Mood", Kind: model.ElementRadio, Order: 2, RawOptionSpec: "Good (#0f0), Bad (#f00)"},
		},
	}
	require.NoError(t, f.challenges.Create(c))
	return c, c.Elements[0].ID, c.Elements[1].ID
}

func (f *fixture) points(t *testing.T, userID uint) int {
	t.Helper()
	p, err := f.users.Points(userID)
	require.NoError(t, err)
	return p
}

// fakeMailer 记录发信请求，err 非空时返回该错误
type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []sentMail
}

type sentMail struct {
	Subject string
	Body    string
	From    string
	To      []string
}

func (m *fakeMailer) Send(ctx context.Context, subject, body, from string, to []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{Subject: subject, Body: body, From: from, To: to})
	return nil
}

var errSMTPDown = fmt.Errorf("%w: dial tcp: connection refused", util.ErrMailDelivery)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.BaseURL = "https://doe.example.com"
	cfg.Mail.From = "no-reply@doe.example.com"
	cfg.Mail.AdminAddress = "rewards@doe.example.com"
	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	return cfg
}

package repository

import (
	"errors"
	"testing"

	"doe_backend/internal/model"
	"doe_backend/internal/testutil"
	"doe_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardIsCompareAndSet(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepository(db)
	completion := NewCompletionRepository(db)

	u := &model.User{Name: "A", Email: "a@doe.test", Password: "x"}
	require.NoError(t, users.Create(u))

	ok, err := completion.Award(u.ID, model.KindVideo, 3, 10)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = completion.Award(u.ID, model.KindVideo, 3, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	// 不同类型的同 id 内容互不影响
	ok, err = completion.Award(u.ID, model.KindFunFact, 3, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	points, err := users.Points(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, points)

	set, err := completion.CompletedSet(u.ID, model.KindVideo)
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{3: true}, set)
}

func TestSpendPointsNeverGoesNegative(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepository(db)

	u := &model.User{Name: "B", Email: "b@doe.test", Password: "x", Points: 10}
	require.NoError(t, users.Create(u))

	ok, err := users.SpendPoints(u.ID, 11)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = users.SpendPoints(u.ID, 10)
	require.NoError(t, err)
	assert.True(t, ok)

	points, err := users.Points(u.ID)
	require.NoError(t, err)
	assert.Zero(t, points)
}

func TestGetOrCreateChoiceIsUnique(t *testing.T) {
	db := testutil.NewDB(t)
	attempts := NewChallengeAttemptRepository(db)

	first, err := attempts.GetOrCreateChoice(1, 2)
	require.NoError(t, err)
	second, err := attempts.GetOrCreateChoice(1, 2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	missing, err := attempts.FindChoiceWithAttempts(1, 3)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = attempts.FindChoice(5, 5)
	assert.True(t, errors.Is(err, util.ErrNotFound))
}

func TestUpsertAnswersOverwritesByElement(t *testing.T) {
	db := testutil.NewDB(t)
	attempts := NewChallengeAttemptRepository(db)

	choice, err := attempts.GetOrCreateChoice(1, 1)
	require.NoError(t, err)
	a := &model.ChallengeAttempt{ChoiceID: choice.ID, Answers: []model.ChallengeAnswer{{ElementID: 4, Value: "old"}}}
	require.NoError(t, attempts.CreateAttempt(a))

	require.NoError(t, attempts.UpsertAnswers(a.ID, []model.ChallengeAnswer{
		{ElementID: 4, Value: "new"},
		{ElementID: 5, Value: "added"},
	}))

	stored, err := attempts.FindAttempt(a.ID)
	require.NoError(t, err)
	require.Len(t, stored.Answers, 2)
	assert.Equal(t, "new", stored.Answers[0].Value)
	assert.Equal(t, "added", stored.Answers[1].Value)

	n, err := attempts.CountPrimary(choice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestListPageOrdersSlots(t *testing.T) {
	db := testutil.NewDB(t)
	content := NewContentRepository(db)

	v := &model.Video{Title: "V"}
	require.NoError(t, content.CreateVideo(v))
	f := &model.FunFact{Title: "F"}
	require.NoError(t, content.CreateFunFact(f))

	second := &model.Content{Page: model.PageLevers, Order: 2}
	second.SetItem(v)
	first := &model.Content{Page: model.PageLevers, Order: 1}
	first.SetItem(f)
	other := &model.Content{Page: model.PagePortfolio, Order: 0}
	other.SetItem(v)
	for _, c := range []*model.Content{second, first, other} {
		require.NoError(t, content.CreateContent(c))
	}

	slots, err := content.ListPage(model.PageLevers)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, model.KindFunFact, slots[0].Item().Kind())
	assert.Equal(t, model.KindVideo, slots[1].Item().Kind())
	assert.Equal(t, "V", slots[1].Video.Title)
}

func TestAcceptInvitationOnlyOnce(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepository(db)

	host := &model.User{Name: "Host", Email: "host@doe.test", Password: "x"}
	require.NoError(t, users.Create(host))
	require.NoError(t, users.CreateInvitation(&model.Invitation{InviterID: host.ID, InviteeEmail: "new@doe.test"}))

	inv, err := users.AcceptInvitation("new@doe.test")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, host.ID, inv.InviterID)
	assert.True(t, inv.Accepted)

	again, err := users.AcceptInvitation("new@doe.test")
	require.NoError(t, err)
	assert.Nil(t, again)

	none, err := users.AcceptInvitation("other@doe.test")
	require.NoError(t, err)
	assert.Nil(t, none)
}

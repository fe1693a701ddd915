package service

import (
	"context"
	"errors"
	"testing"

	"doe_backend/internal/model"
	"doe_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelcomeReportsExistingAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "m@doe.test", 0)
	c, item, _ := f.challengeWith(t, 0, 1)

	w, err := f.challenge.Welcome(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, w.HasAnswers)

	_, err = f.challenge.Submit(ctx, u.ID, c.ID, map[uint]string{item: "x"})
	require.NoError(t, err)

	w, err = f.challenge.Welcome(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, w.HasAnswers)
}

func TestWelcomeUnknownChallenge(t *testing.T) {
	f := newFixture(t)
	_, err := f.challenge.Welcome(context.Background(), 1, 77)
	assert.True(t, errors.Is(err, util.ErrNotFound))
}

func TestViewProjectsTableLayout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "n@doe.test", 0)
	c, item, mood := f.challengeWith(t, 0, 2)

	require.NoError(t, f.challenges.SaveDisplaySettings(&model.ChallengeDisplaySettings{
		ChallengeID: c.ID,
		DisplayMode: model.DisplayTable,
		TableColumns: []model.TableColumn{
			{Title: "Mood", Order: 2, ElementID: &mood},
			{Title: "Item", Order: 1, ElementID: &item},
		},
	}))

	_, err := f.challenge.SubmitInAdd(ctx, u.ID, c.ID, map[uint]string{item: "shoes", mood: "Bad"})
	require.NoError(t, err)
	_, err = f.challenge.Submit(ctx, u.ID, c.ID, map[uint]string{item: "hidden"})
	require.NoError(t, err)

	view, err := f.challenge.View(ctx, u.ID, c.ID)
	require.NoError(t, err)

	assert.Equal(t, model.DisplayTable, view.Mode)
	require.Len(t, view.Columns, 2)
	assert.Equal(t, "Item", view.Columns[0].Title)
	require.Len(t, view.Attempts, 2)
	require.Len(t, view.Filtered, 1)

	cells := view.Filtered[0].TableCells
	require.Len(t, cells, 2)
	assert.Equal(t, "shoes", cells[0].Value)
	assert.Equal(t, "Bad", cells[1].Value)
	require.NotNil(t, cells[1].Color)
	assert.Equal(t, "#f00", *cells[1].Color)
	assert.True(t, view.SubmitEnabled)
	assert.NotNil(t, view.Messages)
}

func TestEditFormCarriesCurrentValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "o@doe.test", 0)
	other := f.user(t, "p@doe.test", 0)
	c, item, _ := f.challengeWith(t, 0, 1)

	a, err := f.challenge.Submit(ctx, u.ID, c.ID, map[uint]string{item: "lamp"})
	require.NoError(t, err)

	form, err := f.challenge.EditForm(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, form.Editing)
	assert.Equal(t, a.ID, form.AttemptID)
	require.Len(t, form.Elements, 2)
	require.NotNil(t, form.Elements[0].Value)
	assert.Equal(t, "lamp", *form.Elements[0].Value)
	assert.Nil(t, form.Elements[1].Value)

	_, err = f.challenge.EditForm(ctx, other.ID, a.ID)
	assert.True(t, errors.Is(err, util.ErrForbidden))
}

package service

import (
	"context"
	"errors"
	"testing"

	"doe_backend/internal/model"
	"doe_backend/internal/repository"
	"doe_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentPageCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "y@doe.test", 0)

	video := &model.Video{Title: "Intro", Points: 3}
	fact := &model.FunFact{Title: "Did you know", Points: 1}
	require.NoError(t, f.db.Create(video).Error)
	require.NoError(t, f.db.Create(fact).Error)

	repo := repository.NewContentRepository(f.db)
	for i, item := range []model.ContentItem{fact, video} {
		slot := &model.Content{Page: model.PageItsTime, Order: i}
		slot.SetItem(item)
		require.NoError(t, repo.CreateContent(slot))
	}
	svc := NewContentService(repo, f.completion, f.settlement, nil)

	res, err := svc.CompleteVideo(ctx, u.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, res.Awarded)

	view, err := svc.Page(ctx, u.ID, model.PageItsTime)
	require.NoError(t, err)
	require.Len(t, view.Slots, 2)
	assert.Equal(t, model.KindFunFact, view.Slots[0].Kind)
	assert.False(t, view.Slots[0].Completed)
	assert.Equal(t, model.KindVideo, view.Slots[1].Kind)
	assert.True(t, view.Slots[1].Completed)
	assert.Equal(t, 3, view.Slots[1].Points)

	_, err = svc.Page(ctx, u.ID, model.Page("nope"))
	assert.True(t, errors.Is(err, util.ErrValidation))

	_, err = svc.CompleteFunFact(ctx, u.ID, 999)
	assert.True(t, errors.Is(err, util.ErrNotFound))
}

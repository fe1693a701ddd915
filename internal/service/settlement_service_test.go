package service

import (
	"context"
	"sync"
	"testing"

	"doe_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleBelowThresholdAwardsNothing(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@doe.test", 0)
	c, item, _ := f.challengeWith(t, 30, 2)

	res, err := f.challenge.SubmitInAdd(context.Background(), u.ID, c.ID, map[uint]string{item: "coffee"})
	require.NoError(t, err)
	assert.False(t, res.Awarded)
	assert.Equal(t, 0, f.points(t, u.ID))

	done, err := f.completion.IsCompleted(u.ID, model.KindChallenge, c.ID)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestSettleAwardsOnceAtThreshold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "b@doe.test", 5)
	c, item, _ := f.challengeWith(t, 30, 2)

	_, err := f.challenge.SubmitInAdd(ctx, u.ID, c.ID, map[uint]string{item: "rent"})
	require.NoError(t, err)

	res, err := f.challenge.SubmitInAdd(ctx, u.ID, c.ID, map[uint]string{item: "food"})
	require.NoError(t, err)
	assert.True(t, res.Awarded)
	assert.Equal(t, 30, res.Points)
	assert.Equal(t, 35, f.points(t, u.ID))

	// 超过门槛后的提交不会重复加分
	res, err = f.challenge.SubmitInAdd(ctx, u.ID, c.ID, map[uint]string{item: "gym"})
	require.NoError(t, err)
	assert.False(t, res.Awarded)
	assert.Equal(t, 35, f.points(t, u.ID))
}

func TestSettleIgnoresSecondaryAttempts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "c@doe.test", 0)
	c, item, _ := f.challengeWith(t, 10, 2)

	_, err := f.challenge.Submit(ctx, u.ID, c.ID, map[uint]string{item: "extra"})
	require.NoError(t, err)
	_, err = f.challenge.Submit(ctx, u.ID, c.ID, map[uint]string{item: "extra 2"})
	require.NoError(t, err)

	res, err := f.challenge.SubmitInAdd(ctx, u.ID, c.ID, map[uint]string{item: "primary"})
	require.NoError(t, err)
	assert.False(t, res.Awarded, "secondary attempts do not count toward the threshold")
	assert.Equal(t, 0, f.points(t, u.ID))
}

func TestSettleIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "d@doe.test", 0)
	c, item, _ := f.challengeWith(t, 20, 1)

	choice, err := f.attempts.GetOrCreateChoice(u.ID, c.ID)
	require.NoError(t, err)
	_, err = f.lifecycle.CreateAttempt(ctx, choice.ID, map[uint]string{item: "x"}, false)
	require.NoError(t, err)

	first, err := f.settlement.Settle(ctx, choice.ID)
	require.NoError(t, err)
	second, err := f.settlement.Settle(ctx, choice.ID)
	require.NoError(t, err)

	assert.True(t, first.Awarded)
	assert.False(t, second.Awarded)
	assert.Equal(t, 20, f.points(t, u.ID))
}

func TestSettleConcurrentAwardsExactlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "e@doe.test", 0)
	c, item, _ := f.challengeWith(t, 15, 1)

	choice, err := f.attempts.GetOrCreateChoice(u.ID, c.ID)
	require.NoError(t, err)
	_, err = f.lifecycle.CreateAttempt(ctx, choice.ID, map[uint]string{item: "x"}, false)
	require.NoError(t, err)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		awarded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.settlement.Settle(ctx, choice.ID)
			assert.NoError(t, err)
			if res.Awarded {
				mu.Lock()
				awarded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, awarded)
	assert.Equal(t, 15, f.points(t, u.ID))
}

func TestSettleItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "f@doe.test", 0)

	video := &model.Video{Title: "Budgeting 101", Points: 7}
	require.NoError(t, f.db.Create(video).Error)

	res, err := f.settlement.SettleItem(ctx, u.ID, video)
	require.NoError(t, err)
	assert.Equal(t, SettleResult{Awarded: true, Points: 7}, res)

	res, err = f.settlement.SettleItem(ctx, u.ID, video)
	require.NoError(t, err)
	assert.False(t, res.Awarded)
	assert.Equal(t, 7, f.points(t, u.ID))
}

func TestSettleUnknownChoice(t *testing.T) {
	f := newFixture(t)
	_, err := f.settlement.Settle(context.Background(), 999)
	require.Error(t, err)
}

func TestSettleCountsCloneChainOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "chain@doe.test", 0)
	c, item, _ := f.challengeWith(t, 15, 3)

	for _, v := range []string{"rent", "food"} {
		res, err := f.challenge.SubmitInAdd(ctx, u.ID, c.ID, map[uint]string{item: v})
		require.NoError(t, err)
		require.False(t, res.Awarded)
	}

	choice, err := f.attempts.FindChoiceWithAttempts(u.ID, c.ID)
	require.NoError(t, err)
	require.Len(t, choice.Attempts, 2)
	first := choice.Attempts[0].ID

	clone, err := f.lifecycle.CancelEditClone(ctx, u.ID, first, true)
	require.NoError(t, err)
	_, err = f.lifecycle.CancelEditClone(ctx, u.ID, clone.ID, false)
	require.NoError(t, err)

	count, err := f.attempts.CountPrimary(choice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "edits of an attempt are not new submissions")

	res, err := f.settlement.Settle(ctx, choice.ID)
	require.NoError(t, err)
	assert.False(t, res.Awarded)
	assert.Equal(t, 0, f.points(t, u.ID))

	// 删除链头后，其克隆接替为链头，计数不变
	require.NoError(t, f.lifecycle.DeleteAttempt(ctx, u.ID, first))
	count, err = f.attempts.CountPrimary(choice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	res, err = f.challenge.SubmitInAdd(ctx, u.ID, c.ID, map[uint]string{item: "gym"})
	require.NoError(t, err)
	assert.True(t, res.Awarded)
	assert.Equal(t, 15, f.points(t, u.ID))
}
